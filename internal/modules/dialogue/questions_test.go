// README: Question generator tests (templates, phraser fallback, summary text).
package dialogue

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tripcover/internal/modules/extract"
)

type fakePhraser struct {
	text string
	err  error
}

func (f *fakePhraser) PhraseQuestion(ctx context.Context, field extract.Field, known extract.Known) (string, error) {
	return f.text, f.err
}

func TestTemplateQuestionsEchoContext(t *testing.T) {
	g := NewQuestionGenerator(nil, time.Second)
	st := NewConversationState("s1", "")

	if got := g.Question(context.Background(), extract.FieldDepartureDate, st); got != "When does your trip start?" {
		t.Fatalf("without destination: %q", got)
	}

	st.Trip.Destination = "Tokyo"
	if got := g.Question(context.Background(), extract.FieldDepartureDate, st); got != "When do you leave for Tokyo?" {
		t.Fatalf("with destination: %q", got)
	}
	if got := g.Question(context.Background(), extract.FieldReturnDate, st); !strings.Contains(got, "Tokyo") {
		t.Fatalf("return question should echo destination: %q", got)
	}
}

func TestPhraserOutputPreferred(t *testing.T) {
	g := NewQuestionGenerator(&fakePhraser{text: "So, where's the adventure taking you?"}, time.Second)
	st := NewConversationState("s1", "")

	got := g.Question(context.Background(), extract.FieldDestination, st)
	if got != "So, where's the adventure taking you?" {
		t.Fatalf("got %q", got)
	}
}

func TestPhraserFallbacks(t *testing.T) {
	st := NewConversationState("s1", "")

	cases := map[string]*fakePhraser{
		"error":     {err: errors.New("model down")},
		"empty":     {text: "   "},
		"oversized": {text: strings.Repeat("x", maxPhrasedLen+1)},
	}
	for name, p := range cases {
		g := NewQuestionGenerator(p, time.Second)
		got := g.Question(context.Background(), extract.FieldDestination, st)
		if got != "Where are you traveling to?" {
			t.Errorf("%s: got %q, want the template", name, got)
		}
	}
}

func TestSummaryText(t *testing.T) {
	st := NewConversationState("s1", "")
	st.Trip.Destination = "Tokyo"
	dep := time.Date(2026, time.December, 15, 0, 0, 0, 0, time.UTC)
	ret := time.Date(2026, time.December, 22, 0, 0, 0, 0, time.UTC)
	st.Trip.DepartureDate = &dep
	st.Trip.ReturnDate = &ret
	st.TravelerAges = []int{30, 32}
	st.AdventureSports = extract.TriYes

	got := Summary(st)
	for _, want := range []string{
		"Tokyo", "Dec 15, 2026", "Dec 22, 2026",
		"2 travelers (ages 30, 32)", "adventure sports: yes",
		"Shall I get your quote?",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q: %s", want, got)
		}
	}
}
