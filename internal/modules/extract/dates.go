// README: Deterministic travel-date resolution (absolute, relative, and partial forms).
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

var wordNumbers = map[string]int{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
}

var (
	isoRe      = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	slashRe    = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)
	monthDayRe = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?\b`)
	dayMonthRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\b(?:,?\s+(\d{4}))?`)
	ordinalRe  = regexp.MustCompile(`(?i)\b(?:the\s+)?(\d{1,2})(?:st|nd|rd|th)\b`)
	relUnitRe  = regexp.MustCompile(`(?i)\bin\s+([a-z]+|\d+)\s+(day|week|month)s?\b`)
	weekdayRe  = regexp.MustCompile(`(?i)\b(next\s+|this\s+)?(sunday|monday|tuesday|wednesday|thursday|friday|saturday)\b`)
)

var rangeSeparators = []string{" to ", " until ", " through ", " - ", " – "}

// ResolveDate resolves the first date expression found in text.
// Ambiguous day/month ordering prefers the interpretation that lands in the
// future relative to now, since this is travel planning. A false return means
// no candidate, never an error.
func ResolveDate(text string, now time.Time) (time.Time, bool) {
	today := midnight(now)

	if m := isoRe.FindStringSubmatch(text); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		if t, ok := civil(y, time.Month(mo), d); ok {
			return t, true
		}
	}

	if m := monthDayRe.FindStringSubmatch(text); m != nil {
		if t, ok := monthNameDate(m[1], m[2], m[3], today); ok {
			return t, true
		}
	}

	if m := dayMonthRe.FindStringSubmatch(text); m != nil {
		if t, ok := monthNameDate(m[2], m[1], m[3], today); ok {
			return t, true
		}
	}

	if m := slashRe.FindStringSubmatch(text); m != nil {
		if t, ok := numericDate(m[1], m[2], m[3], today); ok {
			return t, true
		}
	}

	if t, ok := relativeDate(text, today); ok {
		return t, true
	}

	return time.Time{}, false
}

// ResolveDateRange resolves paired expressions like "Dec 15 to Dec 22" or
// "from 2026-03-01 until the 9th". The right-hand side may be a bare day of
// month, resolved against the left-hand date.
func ResolveDateRange(text string, now time.Time) (time.Time, time.Time, bool) {
	lower := strings.ToLower(text)
	for _, sep := range rangeSeparators {
		idx := 0
		for {
			i := strings.Index(lower[idx:], sep)
			if i < 0 {
				break
			}
			split := idx + i
			left, right := text[:split], text[split+len(sep):]
			dep, okL := ResolveDate(left, now)
			if okL {
				if ret, okR := ResolveDate(right, now); okR && !ret.Before(dep) {
					return dep, ret, true
				}
				if ret, okR := ResolveDayOfMonth(right, dep); okR {
					return dep, ret, true
				}
			}
			idx = split + len(sep)
		}
	}
	return time.Time{}, time.Time{}, false
}

// ResolveDayOfMonth resolves a bare ordinal day ("the 22nd") against a
// reference date, rolling forward a month when the day has already passed.
func ResolveDayOfMonth(text string, ref time.Time) (time.Time, bool) {
	m := ordinalRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	base := midnight(ref)
	for i := 0; i < 3; i++ {
		y, mo, _ := base.AddDate(0, i, -base.Day()+1).Date()
		if t, ok := civil(y, mo, day); ok && !t.Before(midnight(ref)) {
			return t, true
		}
	}
	return time.Time{}, false
}

func monthNameDate(monthToken, dayToken, yearToken string, today time.Time) (time.Time, bool) {
	mo, ok := months[strings.ToLower(monthToken)[:3]]
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(dayToken)
	if err != nil {
		return time.Time{}, false
	}
	if yearToken != "" {
		y, _ := strconv.Atoi(yearToken)
		return civil(y, mo, day)
	}
	return nextOccurrence(mo, day, today)
}

func numericDate(aTok, bTok, yearTok string, today time.Time) (time.Time, bool) {
	a, _ := strconv.Atoi(aTok)
	b, _ := strconv.Atoi(bTok)

	year := 0
	if yearTok != "" {
		y, _ := strconv.Atoi(yearTok)
		if y < 100 {
			y += 2000
		}
		year = y
	}

	var candidates []time.Time
	for _, p := range [][2]int{{a, b}, {b, a}} {
		mo, day := p[0], p[1]
		if mo < 1 || mo > 12 {
			continue
		}
		if year != 0 {
			if t, ok := civil(year, time.Month(mo), day); ok {
				candidates = append(candidates, t)
			}
		} else if t, ok := nextOccurrence(time.Month(mo), day, today); ok {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return time.Time{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Equal(best) {
			continue
		}
		// Prefer the nearest future interpretation.
		if !best.Before(today) && !c.Before(today) {
			if c.Before(best) {
				best = c
			}
		} else if best.Before(today) && !c.Before(today) {
			best = c
		}
	}
	return best, true
}

func relativeDate(text string, today time.Time) (time.Time, bool) {
	lower := strings.ToLower(text)

	if strings.Contains(lower, "day after tomorrow") {
		return today.AddDate(0, 0, 2), true
	}
	if strings.Contains(lower, "tomorrow") {
		return today.AddDate(0, 0, 1), true
	}
	if strings.Contains(lower, "today") || strings.Contains(lower, "tonight") {
		return today, true
	}
	if strings.Contains(lower, "next week") {
		return today.AddDate(0, 0, 7), true
	}
	if strings.Contains(lower, "next month") {
		return today.AddDate(0, 1, 0), true
	}

	if m := relUnitRe.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			var ok bool
			n, ok = wordNumbers[m[1]]
			if !ok {
				return time.Time{}, false
			}
		}
		switch m[2] {
		case "day":
			return today.AddDate(0, 0, n), true
		case "week":
			return today.AddDate(0, 0, 7*n), true
		case "month":
			return today.AddDate(0, n, 0), true
		}
	}

	if m := weekdayRe.FindStringSubmatch(lower); m != nil {
		target := weekdays[m[2]]
		delta := (int(target) - int(today.Weekday()) + 7) % 7
		if delta == 0 {
			delta = 7
		}
		// "next friday" lands in the following week; a bare or "this"
		// weekday means the nearest upcoming one.
		if strings.HasPrefix(m[1], "next") && delta < 7 {
			delta += 7
		}
		return today.AddDate(0, 0, delta), true
	}

	return time.Time{}, false
}

// nextOccurrence picks the first year for which month/day has not yet passed.
func nextOccurrence(mo time.Month, day int, today time.Time) (time.Time, bool) {
	for _, y := range []int{today.Year(), today.Year() + 1} {
		if t, ok := civil(y, mo, day); ok && !t.Before(today) {
			return t, true
		}
	}
	return time.Time{}, false
}

// civil builds a midnight-UTC date and rejects normalized overflow (Feb 30).
func civil(y int, mo time.Month, d int) (time.Time, bool) {
	if d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || t.Month() != mo {
		return time.Time{}, false
	}
	return t, true
}

func midnight(t time.Time) time.Time {
	y, mo, d := t.UTC().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}
