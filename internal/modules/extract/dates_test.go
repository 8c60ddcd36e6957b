// README: Date resolution tests (absolute, relative, ambiguous, range forms).
package extract

import (
	"testing"
	"time"
)

// 2026-01-01 is a Thursday.
var testNow = time.Date(2026, 1, 1, 10, 30, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveDate(t *testing.T) {
	cases := []struct {
		name string
		text string
		want time.Time
		ok   bool
	}{
		{"iso", "we leave 2026-03-05", date(2026, time.March, 5), true},
		{"iso invalid day", "2026-02-30 maybe", time.Time{}, false},
		{"month day no year rolls forward", "Dec 15 works for us", date(2026, time.December, 15), true},
		{"month day with year", "December 15, 2027", date(2027, time.December, 15), true},
		{"abbreviated month with ordinal", "around Mar 3rd", date(2026, time.March, 3), true},
		{"day before month", "the 15th of March", date(2026, time.March, 15), true},
		{"day month year", "25 December 2026", date(2026, time.December, 25), true},
		{"slash month first", "12/15", date(2026, time.December, 15), true},
		{"slash day first disambiguated", "15/12", date(2026, time.December, 15), true},
		{"slash ambiguous prefers nearest future", "3/4", date(2026, time.March, 4), true},
		{"slash with year", "12/15/2026", date(2026, time.December, 15), true},
		{"slash with short year", "12/15/26", date(2026, time.December, 15), true},
		{"tomorrow", "tomorrow morning", date(2026, time.January, 2), true},
		{"day after tomorrow", "the day after tomorrow", date(2026, time.January, 3), true},
		{"in two weeks", "in two weeks", date(2026, time.January, 15), true},
		{"in 3 days", "in 3 days", date(2026, time.January, 4), true},
		{"in one month", "in a month", date(2026, time.February, 1), true},
		{"bare weekday is the nearest one", "friday", date(2026, time.January, 2), true},
		{"this friday", "this friday would suit us", date(2026, time.January, 2), true},
		{"next friday skips the nearest one", "next friday", date(2026, time.January, 9), true},
		{"next thursday is a week out", "next thursday", date(2026, time.January, 8), true},
		{"next week", "sometime next week", date(2026, time.January, 8), true},
		{"no date", "somewhere warm please", time.Time{}, false},
		{"bare number is not a date", "we are 2 people", time.Time{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ResolveDate(tc.text, testNow)
			if ok != tc.ok {
				t.Fatalf("ResolveDate(%q) ok = %v, want %v", tc.text, ok, tc.ok)
			}
			if ok && !got.Equal(tc.want) {
				t.Errorf("ResolveDate(%q) = %s, want %s", tc.text, got.Format("2006-01-02"), tc.want.Format("2006-01-02"))
			}
		})
	}
}

func TestResolveDateRange(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		wantDep  time.Time
		wantRet  time.Time
		ok       bool
	}{
		{"month day pair", "Dec 15 to Dec 22", date(2026, time.December, 15), date(2026, time.December, 22), true},
		{"with leading destination", "Tokyo, Dec 15 to Dec 22, two travelers", date(2026, time.December, 15), date(2026, time.December, 22), true},
		{"iso until ordinal", "from 2026-03-01 until the 9th", date(2026, time.March, 1), date(2026, time.March, 9), true},
		{"dash separator", "March 10 - March 20", date(2026, time.March, 10), date(2026, time.March, 20), true},
		{"crosses month boundary via ordinal", "Jan 28 to the 3rd", date(2026, time.January, 28), date(2026, time.February, 3), true},
		{"no dates around to", "I want to go to Tokyo", time.Time{}, time.Time{}, false},
		{"single date only", "departing Dec 15", time.Time{}, time.Time{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dep, ret, ok := ResolveDateRange(tc.text, testNow)
			if ok != tc.ok {
				t.Fatalf("ResolveDateRange(%q) ok = %v, want %v", tc.text, ok, tc.ok)
			}
			if !ok {
				return
			}
			if !dep.Equal(tc.wantDep) || !ret.Equal(tc.wantRet) {
				t.Errorf("ResolveDateRange(%q) = %s..%s, want %s..%s", tc.text,
					dep.Format("2006-01-02"), ret.Format("2006-01-02"),
					tc.wantDep.Format("2006-01-02"), tc.wantRet.Format("2006-01-02"))
			}
		})
	}
}

func TestResolveDayOfMonth(t *testing.T) {
	dep := date(2026, time.December, 15)

	got, ok := ResolveDayOfMonth("returning the 22nd", dep)
	if !ok || !got.Equal(date(2026, time.December, 22)) {
		t.Errorf("the 22nd against Dec 15 = %v (%v), want 2026-12-22", got, ok)
	}

	// A day already past the reference rolls into the next month.
	got, ok = ResolveDayOfMonth("the 10th", dep)
	if !ok || !got.Equal(date(2027, time.January, 10)) {
		t.Errorf("the 10th against Dec 15 = %v (%v), want 2027-01-10", got, ok)
	}

	if _, ok := ResolveDayOfMonth("no ordinal here", dep); ok {
		t.Error("expected no candidate without an ordinal day")
	}

	// Bare numbers without an ordinal suffix are not day-of-month answers.
	if _, ok := ResolveDayOfMonth("22", dep); ok {
		t.Error("expected bare number to be rejected")
	}
}
