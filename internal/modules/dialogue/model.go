// README: Conversation state aggregate and merge rules.
package dialogue

import (
	"time"

	"tripcover/internal/modules/extract"
	"tripcover/internal/modules/intent"
)

// Message is one (speaker, text) pair in the per-session transcript.
type Message struct {
	Speaker string    `json:"speaker"` // "user" or "system"
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

// Trip holds the collected trip parameters. Area and base-rate fields are
// owned by the downstream pricing stage and never populated here.
type Trip struct {
	Destination   string     `json:"destination,omitempty"`
	DepartureDate *time.Time `json:"departure_date,omitempty"`
	ReturnDate    *time.Time `json:"return_date,omitempty"`
}

// ConversationState is the single mutable aggregate per session. It is loaded
// once per turn, mutated only by the orchestrator, and saved back.
type ConversationState struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id,omitempty"`

	History       []Message     `json:"message_history"`
	CurrentIntent intent.Intent `json:"current_intent,omitempty"`

	Trip            Trip             `json:"trip"`
	TravelerAges    []int            `json:"traveler_ages,omitempty"`
	AdventureSports extract.TriState `json:"adventure_sports"`

	// AdventureSportsAsked records that the optional question was surfaced;
	// the Unknown->No default is legal only after it is set.
	AdventureSportsAsked bool `json:"adventure_sports_asked"`

	// CurrentQuestion is the field the last system question solicited. An
	// incoming answer is interpreted against it before any other field.
	CurrentQuestion extract.Field `json:"current_question,omitempty"`

	AwaitingConfirmation bool `json:"awaiting_confirmation"`
	ConfirmationReceived bool `json:"confirmation_received"`

	// LoopCount increments once per orchestrator pass and guarantees
	// termination: exceeding the bound forces a human handoff.
	LoopCount int `json:"loop_count"`

	// One-way flags; once set, data collection never resumes for this session.
	ReadyForHandoff  bool `json:"ready_for_handoff"`
	HandoffComplete  bool `json:"handoff_complete"`
	EscalatedToHuman bool `json:"escalated_to_human"`

	FailedExtractions int `json:"failed_extractions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewConversationState(sessionID, userID string) *ConversationState {
	now := time.Now().UTC()
	return &ConversationState{
		SessionID:       sessionID,
		UserID:          userID,
		AdventureSports: extract.TriUnknown,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (st *ConversationState) AppendMessage(speaker, text string) {
	st.History = append(st.History, Message{Speaker: speaker, Text: text, At: time.Now().UTC()})
}

// RecentHistory returns up to n latest message texts, oldest first.
func (st *ConversationState) RecentHistory(n int) []string {
	start := len(st.History) - n
	if start < 0 {
		start = 0
	}
	out := make([]string, 0, len(st.History)-start)
	for _, m := range st.History[start:] {
		out = append(out, m.Speaker+": "+m.Text)
	}
	return out
}

// TravelerCount is derived from the age list.
func (st *ConversationState) TravelerCount() int {
	return len(st.TravelerAges)
}

// MissingRequired lists the still-missing required fields in the fixed
// solicitation order.
func (st *ConversationState) MissingRequired() []extract.Field {
	var missing []extract.Field
	for _, f := range extract.RequiredOrder {
		switch f {
		case extract.FieldDestination:
			if st.Trip.Destination == "" {
				missing = append(missing, f)
			}
		case extract.FieldDepartureDate:
			if st.Trip.DepartureDate == nil {
				missing = append(missing, f)
			}
		case extract.FieldReturnDate:
			if st.Trip.ReturnDate == nil {
				missing = append(missing, f)
			}
		case extract.FieldTravelers:
			if len(st.TravelerAges) == 0 {
				missing = append(missing, f)
			}
		}
	}
	return missing
}

func (st *ConversationState) RequiredComplete() bool {
	return len(st.MissingRequired()) == 0
}

// Started reports whether data collection has begun for this session.
func (st *ConversationState) Started() bool {
	return st.Trip.Destination != "" || st.Trip.DepartureDate != nil ||
		st.Trip.ReturnDate != nil || len(st.TravelerAges) > 0 ||
		st.CurrentQuestion != extract.FieldNone || st.AwaitingConfirmation
}

// Known exposes the collected values for extraction disambiguation.
func (st *ConversationState) Known() extract.Known {
	return extract.Known{
		Destination:     st.Trip.Destination,
		DepartureDate:   st.Trip.DepartureDate,
		ReturnDate:      st.Trip.ReturnDate,
		TravelerAges:    st.TravelerAges,
		AdventureSports: st.AdventureSports,
	}
}

// Merge folds extractor candidates into the state and reports whether
// anything actually changed. Candidates are non-empty by construction, so a
// populated field is only ever replaced by an explicit user correction,
// never cleared. Re-supplying the same value is a no-op.
func (st *ConversationState) Merge(u extract.Update) bool {
	changed := false
	if u.Destination != nil && *u.Destination != "" && *u.Destination != st.Trip.Destination {
		st.Trip.Destination = *u.Destination
		changed = true
	}
	if u.DepartureDate != nil && !sameDate(st.Trip.DepartureDate, u.DepartureDate) {
		d := *u.DepartureDate
		st.Trip.DepartureDate = &d
		changed = true
	}
	if u.ReturnDate != nil && !sameDate(st.Trip.ReturnDate, u.ReturnDate) {
		d := *u.ReturnDate
		st.Trip.ReturnDate = &d
		changed = true
	}
	if len(u.TravelerAges) > 0 && !sameAges(st.TravelerAges, u.TravelerAges) {
		st.TravelerAges = append([]int(nil), u.TravelerAges...)
		changed = true
	}
	if u.AdventureSports != nil && *u.AdventureSports != extract.TriUnknown &&
		*u.AdventureSports != st.AdventureSports {
		st.AdventureSports = *u.AdventureSports
		changed = true
	}
	return changed
}

// ApplyAdventureDefault is the single named transition that collapses an
// unanswered adventure-sports preference to No. Callers may only invoke it at
// the finalization point, after the question has been surfaced once.
func (st *ConversationState) ApplyAdventureDefault() {
	if st.AdventureSports == extract.TriUnknown {
		st.AdventureSports = extract.TriNo
	}
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func sameAges(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
