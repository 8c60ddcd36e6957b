// README: Finalized field set forwarded to the quoting/payment/claims stage.
package handoff

import "time"

// Payload is the confirmed parameter set a session hands off. By the time a
// payload is built every field is populated; Validate guards the boundary
// anyway because downstream corruption is expensive.
type Payload struct {
	SessionID       string    `json:"session_id"`
	UserID          string    `json:"user_id,omitempty"`
	Destination     string    `json:"destination"`
	DepartureDate   time.Time `json:"departure_date"`
	ReturnDate      time.Time `json:"return_date"`
	TravelerAges    []int     `json:"traveler_ages"`
	AdventureSports bool      `json:"adventure_sports"`
}

func (p Payload) complete() bool {
	return p.SessionID != "" &&
		p.Destination != "" &&
		!p.DepartureDate.IsZero() &&
		!p.ReturnDate.IsZero() &&
		!p.ReturnDate.Before(p.DepartureDate) &&
		len(p.TravelerAges) > 0
}
