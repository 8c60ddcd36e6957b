// README: Slot taxonomy shared by the extractor and the dialogue orchestrator.
package extract

import (
	"encoding/json"
	"fmt"
	"time"
)

// Field identifies one discrete piece of trip information the engine collects.
type Field string

const (
	FieldNone            Field = ""
	FieldDestination     Field = "destination"
	FieldDepartureDate   Field = "departure_date"
	FieldReturnDate      Field = "return_date"
	FieldTravelers       Field = "travelers"
	FieldAdventureSports Field = "adventure_sports"
)

// RequiredOrder is the fixed solicitation order for required fields.
var RequiredOrder = []Field{FieldDestination, FieldDepartureDate, FieldReturnDate, FieldTravelers}

// TriState is a three-variant value for the adventure-sports preference.
// It is distinct from a boolean: Unknown means the question has not been
// answered, which must never silently collapse into No.
type TriState int

const (
	TriUnknown TriState = iota
	TriYes
	TriNo
)

func (t TriState) String() string {
	switch t {
	case TriYes:
		return "yes"
	case TriNo:
		return "no"
	default:
		return "unknown"
	}
}

// MarshalJSON keeps persisted session state human-readable.
func (t TriState) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TriState) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "yes":
		*t = TriYes
	case "no":
		*t = TriNo
	case "unknown", "":
		*t = TriUnknown
	default:
		return fmt.Errorf("invalid tri-state value %q", s)
	}
	return nil
}

// Known carries the already-collected values so extraction can disambiguate
// partial input ("returning the 22nd" against a known departure date).
type Known struct {
	Destination     string
	DepartureDate   *time.Time
	ReturnDate      *time.Time
	TravelerAges    []int
	AdventureSports TriState
}

// Update is a partial field map produced by one extraction pass.
// A nil pointer (or nil slice) means "no new information for that field";
// it is never an error condition.
type Update struct {
	Destination     *string
	DepartureDate   *time.Time
	ReturnDate      *time.Time
	TravelerAges    []int
	AdventureSports *TriState
}

// Empty reports whether the pass found nothing at all.
func (u Update) Empty() bool {
	return u.Destination == nil &&
		u.DepartureDate == nil &&
		u.ReturnDate == nil &&
		len(u.TravelerAges) == 0 &&
		u.AdventureSports == nil
}

// ModelCandidates is the raw candidate set returned by the optional
// text-understanding collaborator. Dates are ISO strings because the model
// is not trusted to produce well-formed timestamps.
type ModelCandidates struct {
	Destination     *string `json:"destination,omitempty"`
	DepartureDate   *string `json:"departure_date,omitempty"`
	ReturnDate      *string `json:"return_date,omitempty"`
	TravelerAges    []int   `json:"traveler_ages,omitempty"`
	AdventureSports *bool   `json:"adventure_sports,omitempty"`
}
