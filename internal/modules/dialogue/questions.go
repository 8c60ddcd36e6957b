// README: Question generator; context-templated text with optional model phrasing.
package dialogue

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"tripcover/internal/modules/extract"
)

// Phraser is the optional question-phrasing collaborator. Its output is
// advisory: anything empty, oversized, or errored falls back to templates.
type Phraser interface {
	PhraseQuestion(ctx context.Context, field extract.Field, known extract.Known) (string, error)
}

// maxPhrasedLen rejects runaway model output.
const maxPhrasedLen = 280

type QuestionGenerator struct {
	phraser Phraser
	timeout time.Duration
}

// NewQuestionGenerator builds a generator. phraser may be nil for
// deterministic-only operation.
func NewQuestionGenerator(phraser Phraser, timeout time.Duration) *QuestionGenerator {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &QuestionGenerator{phraser: phraser, timeout: timeout}
}

// Question produces the next question for field. Pure apart from the optional
// phrasing call; it never mutates state.
func (g *QuestionGenerator) Question(ctx context.Context, field extract.Field, st *ConversationState) string {
	fallback := templateQuestion(field, st)
	if g.phraser == nil {
		return fallback
	}
	pctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	text, err := g.phraser.PhraseQuestion(pctx, field, st.Known())
	if err != nil {
		log.Printf("dialogue: question phrasing unavailable, using template: %v", err)
		return fallback
	}
	text = strings.TrimSpace(text)
	if text == "" || len(text) > maxPhrasedLen {
		return fallback
	}
	return text
}

// templateQuestion references already-known values so the conversation stays
// coherent (the destination is echoed when asking for dates).
func templateQuestion(field extract.Field, st *ConversationState) string {
	dest := st.Trip.Destination
	switch field {
	case extract.FieldDestination:
		return "Where are you traveling to?"
	case extract.FieldDepartureDate:
		if dest != "" {
			return fmt.Sprintf("When do you leave for %s?", dest)
		}
		return "When does your trip start?"
	case extract.FieldReturnDate:
		if dest != "" {
			return fmt.Sprintf("And when will you be back from %s?", dest)
		}
		return "And when will you be back?"
	case extract.FieldTravelers:
		return "How many people are traveling, and what are their ages?"
	case extract.FieldAdventureSports:
		return "Will anyone be doing adventure sports on this trip, like skiing or scuba diving?"
	default:
		return "Could you tell me a bit more about your trip?"
	}
}

// Summary renders the collected parameter set for the confirmation step.
func Summary(st *ConversationState) string {
	var b strings.Builder
	b.WriteString("Here's what I have: a trip to ")
	b.WriteString(st.Trip.Destination)
	if st.Trip.DepartureDate != nil {
		b.WriteString(", departing ")
		b.WriteString(st.Trip.DepartureDate.Format("Jan 2, 2006"))
	}
	if st.Trip.ReturnDate != nil {
		b.WriteString(", returning ")
		b.WriteString(st.Trip.ReturnDate.Format("Jan 2, 2006"))
	}
	fmt.Fprintf(&b, ", %d traveler", st.TravelerCount())
	if st.TravelerCount() != 1 {
		b.WriteString("s")
	}
	b.WriteString(" (ages ")
	for i, a := range st.TravelerAges {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", a)
	}
	b.WriteString("), adventure sports: ")
	b.WriteString(st.AdventureSports.String())
	b.WriteString(". Shall I get your quote?")
	return b.String()
}
