// README: Slot extractor tests (multi-field pass, tri-state rule, model merge).
package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeModel struct {
	cands *ModelCandidates
	err   error
	calls int
}

func (f *fakeModel) ExtractTripFields(ctx context.Context, message string, known Known) (*ModelCandidates, error) {
	f.calls++
	return f.cands, f.err
}

func newTestService(model ModelExtractor) *Service {
	svc := NewService(model, nil, time.Second)
	svc.Now = func() time.Time { return testNow }
	return svc
}

func TestExtractFastPathSingleMessage(t *testing.T) {
	svc := newTestService(nil)

	u := svc.Extract(context.Background(),
		"Tokyo, Dec 15 to Dec 22, two travelers ages 30 and 32, yes to adventure sports",
		FieldNone, Known{})

	require.NotNil(t, u.Destination)
	require.Equal(t, "Tokyo", *u.Destination)
	require.NotNil(t, u.DepartureDate)
	require.Equal(t, "2026-12-15", u.DepartureDate.Format("2006-01-02"))
	require.NotNil(t, u.ReturnDate)
	require.Equal(t, "2026-12-22", u.ReturnDate.Format("2006-01-02"))
	require.Equal(t, []int{30, 32}, u.TravelerAges)
	require.NotNil(t, u.AdventureSports)
	require.Equal(t, TriYes, *u.AdventureSports)
}

func TestExtractDestinationAnswer(t *testing.T) {
	svc := newTestService(nil)

	for msg, want := range map[string]string{
		"Spain":                "Spain",
		"we're going to japan": "Japan",
		"Probably new zealand": "New Zealand",
	} {
		u := svc.Extract(context.Background(), msg, FieldDestination, Known{})
		require.NotNil(t, u.Destination, "message %q", msg)
		require.Equal(t, want, *u.Destination, "message %q", msg)
	}

	// Markers and dates are never mistaken for destinations.
	for _, msg := range []string{"yes", "no", "tomorrow", "December 15"} {
		u := svc.Extract(context.Background(), msg, FieldDestination, Known{})
		require.Nil(t, u.Destination, "message %q", msg)
	}
}

func TestExtractTravelerAges(t *testing.T) {
	svc := newTestService(nil)

	cases := []struct {
		msg     string
		current Field
		want    []int
	}{
		{"2 people, 30 and 32", FieldTravelers, []int{30, 32}},
		{"ages 41, 39 and 7", FieldNone, []int{41, 39, 7}},
		{"I'm 45", FieldNone, []int{45}},
		{"just me, 28 years old", FieldNone, []int{28}},
		{"30 and 32", FieldTravelers, []int{30, 32}},
	}
	for _, tc := range cases {
		u := svc.Extract(context.Background(), tc.msg, tc.current, Known{})
		require.Equal(t, tc.want, u.TravelerAges, "message %q", tc.msg)
	}

	// Bare numbers are not trusted unless travelers were just solicited.
	u := svc.Extract(context.Background(), "30 and 32", FieldNone, Known{})
	require.Empty(t, u.TravelerAges)
}

func TestExtractReturnDateAgainstKnownDeparture(t *testing.T) {
	svc := newTestService(nil)
	dep := date(2026, time.December, 15)

	u := svc.Extract(context.Background(), "returning the 22nd", FieldReturnDate, Known{DepartureDate: &dep})
	require.NotNil(t, u.ReturnDate)
	require.Equal(t, "2026-12-22", u.ReturnDate.Format("2006-01-02"))

	// A day before the departure day rolls into the next month.
	u = svc.Extract(context.Background(), "the 2nd", FieldReturnDate, Known{DepartureDate: &dep})
	require.NotNil(t, u.ReturnDate)
	require.Equal(t, "2027-01-02", u.ReturnDate.Format("2006-01-02"))
}

func TestReturnDateBeforeDepartureIsNoCandidate(t *testing.T) {
	svc := newTestService(nil)
	dep := date(2026, time.December, 15)

	for _, msg := range []string{"2026-12-10", "Dec 10", "December 10, 2026"} {
		u := svc.Extract(context.Background(), msg, FieldReturnDate, Known{DepartureDate: &dep})
		require.Nil(t, u.ReturnDate, "message %q resolves before the departure", msg)
		require.Nil(t, u.DepartureDate, "message %q", msg)
	}

	// Without a known departure there is nothing to validate against.
	u := svc.Extract(context.Background(), "2026-12-10", FieldReturnDate, Known{})
	require.NotNil(t, u.ReturnDate)
}

func TestExtractAdventureSportsTriState(t *testing.T) {
	svc := newTestService(nil)

	cases := []struct {
		msg     string
		current Field
		want    *TriState
	}{
		// Solicited: a bare marker is enough.
		{"yes", FieldAdventureSports, triPtr(TriYes)},
		{"no", FieldAdventureSports, triPtr(TriNo)},
		{"nope, nothing like that", FieldAdventureSports, triPtr(TriNo)},
		// Solicited but uninterpretable: no candidate.
		{"maybe, depends on the weather", FieldAdventureSports, nil},
		// Unsolicited: requires adventure wording plus a clear marker.
		{"yes to adventure sports", FieldNone, triPtr(TriYes)},
		{"we'll be skiing most days", FieldNone, triPtr(TriYes)},
		{"no diving or climbing for us", FieldNone, triPtr(TriNo)},
		// Unsolicited bare markers never touch the field.
		{"yes", FieldNone, nil},
		{"no", FieldNone, nil},
	}
	for _, tc := range cases {
		u := svc.Extract(context.Background(), tc.msg, tc.current, Known{})
		if tc.want == nil {
			require.Nil(t, u.AdventureSports, "message %q", tc.msg)
			continue
		}
		require.NotNil(t, u.AdventureSports, "message %q", tc.msg)
		require.Equal(t, *tc.want, *u.AdventureSports, "message %q", tc.msg)
	}
}

func TestExplicitMarkerOverridesModelCandidate(t *testing.T) {
	yes := true
	model := &fakeModel{cands: &ModelCandidates{AdventureSports: &yes}}
	svc := newTestService(model)

	u := svc.Extract(context.Background(), "no", FieldAdventureSports, Known{})

	require.NotNil(t, u.AdventureSports)
	require.Equal(t, TriNo, *u.AdventureSports, "explicit wording must beat the model candidate")
	require.Equal(t, 1, model.calls)
}

func TestModelFillsGapsOnly(t *testing.T) {
	dest := "Bali, Indonesia"
	dep := "2026-06-01"
	model := &fakeModel{cands: &ModelCandidates{
		Destination:   &dest,
		DepartureDate: &dep,
		TravelerAges:  []int{29},
	}}
	svc := newTestService(model)

	u := svc.Extract(context.Background(), "somewhere warm in early June, just me", FieldNone, Known{})

	require.NotNil(t, u.DepartureDate)
	require.Equal(t, "2026-06-01", u.DepartureDate.Format("2006-01-02"))
	require.Equal(t, []int{29}, u.TravelerAges)
	// The model's multi-word destination fails strict cleaning (comma), so no candidate.
	require.Nil(t, u.Destination)
}

func TestModelErrorIsAbsorbed(t *testing.T) {
	model := &fakeModel{err: errors.New("upstream timeout")}
	svc := newTestService(model)

	u := svc.Extract(context.Background(), "hmm", FieldDepartureDate, Known{})
	require.True(t, u.Empty())
}

func TestExtractNeverPanicsOnNoise(t *testing.T) {
	svc := newTestService(nil)
	for _, msg := range []string{"", "???", "asdfgh", "999999", "/ / /"} {
		u := svc.Extract(context.Background(), msg, FieldNone, Known{})
		require.True(t, u.Empty(), "message %q", msg)
	}
}
