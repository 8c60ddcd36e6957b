// README: Slot extractor; deterministic parsing first, model candidates merged underneath.
package extract

import (
	"context"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ModelExtractor is the optional text-understanding collaborator. It may be
// slow, wrong, or unavailable; the extractor tolerates all three.
type ModelExtractor interface {
	ExtractTripFields(ctx context.Context, message string, known Known) (*ModelCandidates, error)
}

// Geocoder canonicalizes a destination name. Implementations must return the
// input unchanged when lookup fails.
type Geocoder interface {
	Canonicalize(ctx context.Context, destination string) string
}

type Service struct {
	model   ModelExtractor
	geo     Geocoder
	timeout time.Duration

	// Now is the clock used for relative-date resolution. Overridable in tests.
	Now func() time.Time
}

// NewService builds an extractor. Both collaborators may be nil, in which
// case only the deterministic paths run.
func NewService(model ModelExtractor, geo Geocoder, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Service{model: model, geo: geo, timeout: timeout, Now: time.Now}
}

var (
	affirmativeRe = regexp.MustCompile(`(?i)\b(yes|yeah|yep|yup|sure|definitely|absolutely|certainly|correct|confirmed?|ok(?:ay)?|sounds good|that'?s right)\b`)
	negativeRe    = regexp.MustCompile(`(?i)\b(no|nope|nah|not|never|don'?t|won'?t|wrong)\b`)
	adventureRe   = regexp.MustCompile(`(?i)\b(adventure|extreme sports?|ski(?:ing)?|snowboard(?:ing)?|scuba|div(?:e|ing)|climb(?:ing)?|bungee|paraglid\w*|surf(?:ing)?|raft(?:ing)?|trekking|skydiv\w*)\b`)
	intentVerbRe  = regexp.MustCompile(`(?i)\b(will|we'?ll|plan(?:ning)?|going)\b`)

	departCueRe = regexp.MustCompile(`(?i)\b(depart(?:ing|ure)?|leav(?:e|ing)|fly(?:ing)? out|start(?:ing)?|outbound)\b`)
	returnCueRe = regexp.MustCompile(`(?i)\b(return(?:ing)?|back|come?(?:ing)? home|until)\b`)

	destPatternRe = regexp.MustCompile(`\b(?:to|visiting|visit)\s+([A-Z][a-zA-Z]+(?:[ -][A-Z][a-zA-Z]+){0,3})`)
	agesCueRe     = regexp.MustCompile(`(?i)\bages?\b`)
	yearsOldRe    = regexp.MustCompile(`(?i)\b(\d{1,3})\s+years?\s+old\b`)
	imAgeRe       = regexp.MustCompile(`(?i)\bi'?m\s+(\d{1,3})\b`)
	countCueRe    = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(?:people|persons?|travel(?:l?ers)?|adults?|passengers|of us)\b`)
	numberRe      = regexp.MustCompile(`\b(\d{1,3})\b`)
)

// relativeDayWords keeps time expressions out of destination candidates.
var relativeDayWords = map[string]bool{
	"today": true, "tomorrow": true, "tonight": true,
	"next": true, "week": true, "month": true,
}

// IsAffirmative reports an unambiguous yes-equivalent marker.
func IsAffirmative(text string) bool {
	return affirmativeRe.MatchString(text) && !negativeRe.MatchString(text)
}

// IsNegative reports an unambiguous no-equivalent marker.
func IsNegative(text string) bool {
	return negativeRe.MatchString(text) && !affirmativeRe.MatchString(text)
}

// Extract attempts every field in a single pass over the message. current is
// the field the previous question solicited (FieldNone when there is none);
// it decides how short answers like "yes" or "the 22nd" are interpreted.
// Extraction never fails: an empty Update means no new information.
func (s *Service) Extract(ctx context.Context, message string, current Field, known Known) Update {
	var u Update
	now := s.Now()

	s.extractDestination(&u, message, current)
	s.extractDates(&u, message, current, known, now)
	s.extractAges(&u, message, current)
	s.extractAdventureSports(&u, message, current)

	s.mergeModelCandidates(ctx, &u, message, current, known)

	if u.Destination != nil && s.geo != nil {
		gctx, cancel := context.WithTimeout(ctx, s.timeout)
		canon := s.geo.Canonicalize(gctx, *u.Destination)
		cancel()
		if canon != "" {
			u.Destination = &canon
		}
	}
	return u
}

func (s *Service) extractDestination(u *Update, message string, current Field) {
	if current == FieldDestination {
		if d, ok := destinationFromAnswer(message); ok {
			u.Destination = &d
			return
		}
	}
	if m := destPatternRe.FindStringSubmatch(message); m != nil {
		if d, ok := cleanDestination(m[1]); ok {
			u.Destination = &d
			return
		}
	}
	// Fast-path messages often lead with the destination: "Tokyo, Dec 15 to Dec 22, ...".
	if seg, _, found := strings.Cut(message, ","); found {
		if d, ok := destinationFromAnswer(seg); ok && leadingCapital(seg) {
			u.Destination = &d
		}
	}
}

func (s *Service) extractDates(u *Update, message string, current Field, known Known, now time.Time) {
	if dep, ret, ok := ResolveDateRange(message, now); ok {
		u.DepartureDate = &dep
		u.ReturnDate = &ret
		return
	}

	switch current {
	case FieldDepartureDate:
		if t, ok := ResolveDate(message, now); ok {
			u.DepartureDate = &t
			return
		}
	case FieldReturnDate:
		if t, ok := ResolveDate(message, now); ok {
			// A return before the known departure is not a usable answer;
			// leaving the field empty makes the question come back.
			if known.DepartureDate == nil || !t.Before(*known.DepartureDate) {
				u.ReturnDate = &t
			}
			return
		}
		if known.DepartureDate != nil {
			if t, ok := ResolveDayOfMonth(message, *known.DepartureDate); ok {
				u.ReturnDate = &t
				return
			}
		}
	}

	t, ok := ResolveDate(message, now)
	if !ok {
		return
	}
	switch {
	case departCueRe.MatchString(message):
		u.DepartureDate = &t
	case returnCueRe.MatchString(message):
		u.ReturnDate = &t
	case known.DepartureDate == nil:
		u.DepartureDate = &t
	case known.ReturnDate == nil && !t.Before(*known.DepartureDate):
		u.ReturnDate = &t
	}
}

func (s *Service) extractAges(u *Update, message string, current Field) {
	if m := yearsOldRe.FindAllStringSubmatch(message, -1); m != nil {
		var ages []int
		for _, g := range m {
			if a, ok := plausibleAge(g[1]); ok {
				ages = append(ages, a)
			}
		}
		if len(ages) > 0 {
			u.TravelerAges = ages
			return
		}
	}

	if loc := agesCueRe.FindStringIndex(message); loc != nil {
		if ages := agesAfter(message[loc[1]:]); len(ages) > 0 {
			u.TravelerAges = ages
			return
		}
	}

	if m := countCueRe.FindStringSubmatchIndex(message); m != nil {
		count, _ := strconv.Atoi(message[m[2]:m[3]])
		ages := agesAfter(message[m[1]:])
		if len(ages) > 0 && (count == 0 || len(ages) == count) {
			u.TravelerAges = ages
			return
		}
	}

	if m := imAgeRe.FindStringSubmatch(message); m != nil {
		if a, ok := plausibleAge(m[1]); ok {
			u.TravelerAges = []int{a}
			return
		}
	}

	// A bare list of numbers is only trusted when ages were just solicited.
	if current == FieldTravelers {
		if ages := agesAfter(message); len(ages) > 0 {
			u.TravelerAges = ages
		}
	}
}

// extractAdventureSports applies the tri-state rule: accept a value only when
// the field was just solicited, or when the message carries an unambiguous
// marker tied to adventure wording.
func (s *Service) extractAdventureSports(u *Update, message string, current Field) {
	if current == FieldAdventureSports {
		switch {
		case IsAffirmative(message):
			u.AdventureSports = triPtr(TriYes)
		case IsNegative(message):
			u.AdventureSports = triPtr(TriNo)
		}
		return
	}
	if !adventureRe.MatchString(message) {
		return
	}
	switch {
	case IsNegative(message):
		u.AdventureSports = triPtr(TriNo)
	case IsAffirmative(message) || intentVerbRe.MatchString(message):
		u.AdventureSports = triPtr(TriYes)
	}
}

// mergeModelCandidates fills gaps the deterministic pass left open. Explicit
// user wording always wins: a model candidate never replaces a value already
// derived from the message itself.
func (s *Service) mergeModelCandidates(ctx context.Context, u *Update, message string, current Field, known Known) {
	if s.model == nil {
		return
	}
	mctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cands, err := s.model.ExtractTripFields(mctx, message, known)
	if err != nil || cands == nil {
		if err != nil {
			log.Printf("extract: model extraction unavailable: %v", err)
		}
		return
	}

	if u.Destination == nil && cands.Destination != nil {
		if d, ok := cleanDestination(*cands.Destination); ok {
			u.Destination = &d
		}
	}
	if u.DepartureDate == nil && cands.DepartureDate != nil {
		if t, err := time.Parse("2006-01-02", *cands.DepartureDate); err == nil {
			u.DepartureDate = &t
		}
	}
	if u.ReturnDate == nil && cands.ReturnDate != nil {
		if t, err := time.Parse("2006-01-02", *cands.ReturnDate); err == nil {
			u.ReturnDate = &t
		}
	}
	if len(u.TravelerAges) == 0 && len(cands.TravelerAges) > 0 {
		var ages []int
		for _, a := range cands.TravelerAges {
			if a >= 0 && a <= 115 {
				ages = append(ages, a)
			}
		}
		if len(ages) > 0 {
			u.TravelerAges = ages
		}
	}

	if cands.AdventureSports != nil {
		model := TriNo
		if *cands.AdventureSports {
			model = TriYes
		}
		switch {
		case u.AdventureSports != nil:
			if *u.AdventureSports != model {
				log.Printf("extract: explicit %s marker overrides model candidate %s", u.AdventureSports, model)
			}
		case current == FieldAdventureSports:
			u.AdventureSports = &model
		}
	}
}

// destinationFromAnswer treats the message (or its leading segment) as a
// direct answer to "where are you traveling?".
func destinationFromAnswer(message string) (string, bool) {
	text := strings.TrimSpace(message)
	lower := strings.ToLower(text)
	for _, prefix := range []string{
		"i'm going to ", "i am going to ", "we're going to ", "we are going to ",
		"going to ", "heading to ", "off to ", "to ", "probably ", "maybe ",
	} {
		if strings.HasPrefix(lower, prefix) {
			text = text[len(prefix):]
			break
		}
	}
	return cleanDestination(text)
}

func cleanDestination(text string) (string, bool) {
	text = strings.Trim(strings.TrimSpace(text), ".,!?")
	if text == "" || len(text) > 40 {
		return "", false
	}
	words := strings.Fields(text)
	if len(words) > 5 {
		return "", false
	}
	for _, w := range words {
		for _, r := range w {
			if !unicode.IsLetter(r) && r != '-' && r != '\'' {
				return "", false
			}
		}
		lw := strings.ToLower(w)
		if _, isMonth := months[truncate3(lw)]; isMonth && len(lw) >= 3 {
			return "", false
		}
		if _, isDay := weekdays[lw]; isDay {
			return "", false
		}
		if relativeDayWords[lw] {
			return "", false
		}
		if affirmativeRe.MatchString(lw) || negativeRe.MatchString(lw) {
			return "", false
		}
	}
	return titleCase(words), true
}

func agesAfter(text string) []int {
	var ages []int
	for _, m := range numberRe.FindAllStringSubmatch(text, -1) {
		if a, ok := plausibleAge(m[1]); ok {
			ages = append(ages, a)
		}
	}
	return ages
}

func plausibleAge(tok string) (int, bool) {
	a, err := strconv.Atoi(tok)
	if err != nil || a < 0 || a > 115 {
		return 0, false
	}
	return a, true
}

func leadingCapital(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return unicode.IsUpper([]rune(s)[0])
}

func titleCase(words []string) string {
	out := make([]string, len(words))
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		out[i] = string(r)
	}
	return strings.Join(out, " ")
}

func truncate3(s string) string {
	if len(s) > 3 {
		return s[:3]
	}
	return s
}

func triPtr(t TriState) *TriState {
	return &t
}
