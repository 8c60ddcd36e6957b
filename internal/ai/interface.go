package ai

import (
	"context"

	"tripcover/internal/modules/extract"
)

// LLMProvider defines the contract for the text-understanding collaborator.
// This interface allows for swapping different AI providers (Gemini, OpenAI, etc.)
// in the future. Every method may fail or time out; callers carry deterministic
// fallbacks and never let a provider error stall a turn.
type LLMProvider interface {
	// ClassifyIntent maps a message (plus short trailing history) to a raw
	// intent label and a confidence in [0,1]. The label is validated by the
	// intent module, not trusted here.
	ClassifyIntent(ctx context.Context, message string, history []string) (string, float64, error)

	// ExtractTripFields extracts candidate trip parameters from free text,
	// given the already-known values for disambiguation.
	ExtractTripFields(ctx context.Context, message string, known extract.Known) (*extract.ModelCandidates, error)

	// PhraseQuestion produces conversational wording for the next question.
	// Purely cosmetic; templated text is used when it misbehaves.
	PhraseQuestion(ctx context.Context, field extract.Field, known extract.Known) (string, error)
}
