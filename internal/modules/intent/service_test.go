// README: Intent classifier tests (keyword routing, model validation, confidence clamping).
package intent

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeModel struct {
	label string
	conf  float64
	err   error
}

func (f *fakeModel) ClassifyIntent(ctx context.Context, message string, history []string) (string, float64, error) {
	return f.label, f.conf, f.err
}

func TestClassifyKeywords(t *testing.T) {
	svc := NewService(nil, time.Second)

	cases := []struct {
		message string
		want    Intent
	}{
		{"I need travel insurance for a trip to Japan", IntentQuote},
		{"how much would a quote be?", IntentQuote},
		{"is scuba diving covered by the policy?", IntentPolicyQuestion},
		{"what are the exclusions for pre-existing conditions", IntentPolicyQuestion},
		{"I want to file a claim, my luggage was stolen", IntentClaims},
		{"I'd like to buy the plan now", IntentPurchase},
		{"can I upload my booking confirmation?", IntentDocumentUpload},
		{"let me talk to a person", IntentHumanHandoff},
		{"hi there", IntentGeneral},
	}
	for _, tc := range cases {
		got, conf := svc.Classify(context.Background(), tc.message, nil)
		if got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.message, got, tc.want)
		}
		if tc.want == IntentGeneral && conf >= 0.5 {
			t.Errorf("Classify(%q) confidence = %v, want low", tc.message, conf)
		}
	}
}

func TestClassifyEscalationWinsOverQuote(t *testing.T) {
	svc := NewService(nil, time.Second)

	// Both handoff and quote words appear; handoff has priority.
	got, _ := svc.Classify(context.Background(), "I want a quote but give me a human agent", nil)
	if got != IntentHumanHandoff {
		t.Fatalf("got %s, want %s", got, IntentHumanHandoff)
	}
}

func TestClassifyModelLabelAccepted(t *testing.T) {
	svc := NewService(&fakeModel{label: "claims", conf: 0.92}, time.Second)

	got, conf := svc.Classify(context.Background(), "something happened", nil)
	if got != IntentClaims {
		t.Fatalf("got %s, want %s", got, IntentClaims)
	}
	if conf != 0.92 {
		t.Fatalf("confidence = %v, want 0.92", conf)
	}
}

func TestClassifyModelConfidenceClamped(t *testing.T) {
	for _, tc := range []struct {
		in, want float64
	}{
		{1.7, 1}, {-0.3, 0},
	} {
		svc := NewService(&fakeModel{label: "quote", conf: tc.in}, time.Second)
		_, conf := svc.Classify(context.Background(), "trip to Norway", nil)
		if conf != tc.want {
			t.Errorf("confidence %v clamped to %v, want %v", tc.in, conf, tc.want)
		}
	}
}

func TestClassifyInvalidModelLabelFallsBack(t *testing.T) {
	svc := NewService(&fakeModel{label: "small_talk", conf: 0.99}, time.Second)

	got, conf := svc.Classify(context.Background(), "I want a quote for my trip", nil)
	if got != IntentQuote {
		t.Fatalf("got %s, want keyword fallback %s", got, IntentQuote)
	}
	if conf != 0.8 {
		t.Fatalf("confidence = %v, want keyword confidence 0.8", conf)
	}
}

func TestClassifyModelErrorFallsBack(t *testing.T) {
	svc := NewService(&fakeModel{err: errors.New("deadline exceeded")}, time.Second)

	got, _ := svc.Classify(context.Background(), "is skiing covered?", nil)
	if got != IntentPolicyQuestion {
		t.Fatalf("got %s, want %s", got, IntentPolicyQuestion)
	}
}
