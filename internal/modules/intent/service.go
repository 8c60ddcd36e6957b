// README: Intent classifier; model-first with a deterministic keyword fallback.
package intent

import (
	"context"
	"log"
	"regexp"
	"time"
)

// ModelClassifier is the optional text-understanding collaborator. The raw
// label it returns is validated here; callers never see arbitrary strings.
type ModelClassifier interface {
	ClassifyIntent(ctx context.Context, message string, history []string) (label string, confidence float64, err error)
}

type Service struct {
	model   ModelClassifier
	timeout time.Duration
}

// NewService builds a classifier. model may be nil; the keyword path then
// decides every turn.
func NewService(model ModelClassifier, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Service{model: model, timeout: timeout}
}

// keywordRules maps each intent to its trigger patterns. Ordered per All so
// escalation intents win when several patterns fire on one message.
var keywordRules = map[Intent]*regexp.Regexp{
	IntentHumanHandoff:   regexp.MustCompile(`(?i)\b(human|agent|representative|real person|speak to someone|operator|talk to a person)\b`),
	IntentClaims:         regexp.MustCompile(`(?i)\b(claims?|reimburs\w*|accident|injur\w*|hospital\w*|lost (my|our|the)|stolen|cancell?ed flight|file a claim)\b`),
	IntentDocumentUpload: regexp.MustCompile(`(?i)\b(upload|attach(?:ed|ment)?|document|passport (photo|scan)|itinerary pdf|booking confirmation)\b`),
	IntentPolicyQuestion: regexp.MustCompile(`(?i)\b(policy|covered?|coverage|exclusions?|deductible|terms|what does .* cover|pre.?existing)\b`),
	IntentPurchase:       regexp.MustCompile(`(?i)\b(buy|purchase|pay(?:ment)?|checkout|credit card|proceed with)\b`),
	IntentQuote:          regexp.MustCompile(`(?i)\b(quote|insur\w*|trip|travel\w*|destination|departing|returning|vacation|holiday|flight)\b`),
}

// Classify resolves the intent of message given the short trailing history.
// It always returns a member of the fixed enumeration together with a
// confidence in [0,1]; low confidence is a signal for the orchestrator, not a
// routing decision made here.
func (s *Service) Classify(ctx context.Context, message string, history []string) (Intent, float64) {
	if s.model != nil {
		mctx, cancel := context.WithTimeout(ctx, s.timeout)
		label, conf, err := s.model.ClassifyIntent(mctx, message, history)
		cancel()
		if err == nil && Valid(label) {
			if conf < 0 {
				conf = 0
			}
			if conf > 1 {
				conf = 1
			}
			return Intent(label), conf
		}
		if err != nil {
			log.Printf("intent: model classification unavailable, using keywords: %v", err)
		} else {
			log.Printf("intent: model returned unknown label %q, using keywords", label)
		}
	}
	return classifyKeywords(message)
}

func classifyKeywords(message string) (Intent, float64) {
	for _, it := range All {
		re, ok := keywordRules[it]
		if !ok {
			continue
		}
		if re.MatchString(message) {
			return it, 0.8
		}
	}
	return IntentGeneral, 0.3
}
