// Package duration parses mixed-unit duration strings into a fixed
// millisecond delta plus fractional calendar month/year components.
//
// Fixed units (ms, s, m, h, d, w) have a constant millisecond length.
// Calendar units (month, year, decade, century) depend on which dates
// they span and are kept symbolic so the calendar engine can apply them
// with month-length-safe arithmetic.
package duration

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind classifies a duration token.
type Kind string

const (
	// KindFixed is a unit with a constant millisecond length.
	KindFixed Kind = "fixed"
	// KindMonth is a month-scale calendar unit.
	KindMonth Kind = "month"
	// KindYear is a year-scale calendar unit (year, decade, century).
	KindYear Kind = "year"
)

// Token is one parsed <number><unit> fragment, retained for the
// per-token breakdown in the output record.
type Token struct {
	Text         string  `json:"text"`
	Unit         string  `json:"unit"`
	Kind         Kind    `json:"kind"`
	Magnitude    float64 `json:"magnitude"`
	Contribution float64 `json:"contribution"`
}

// Spec is a parsed, unevaluated relative offset.
type Spec struct {
	Input          string  `json:"input"`
	FixedMs        int64   `json:"fixed_ms"`
	CalendarMonths float64 `json:"calendar_months"`
	CalendarYears  float64 `json:"calendar_years"`
	Tokens         []Token `json:"tokens"`
}

// TotalMonths folds the year component into months.
func (s *Spec) TotalMonths() float64 {
	return s.CalendarMonths + s.CalendarYears*12
}

// HasCalendar reports whether any calendar-unit token contributed.
func (s *Spec) HasCalendar() bool {
	return s.TotalMonths() != 0
}

// ParseError reports an unparseable duration string, naming the
// fragment that failed to match.
type ParseError struct {
	Input    string
	Fragment string
	Reason   string
}

func (e *ParseError) Error() string {
	if e.Fragment == "" {
		return fmt.Sprintf("invalid duration %q: %s", e.Input, e.Reason)
	}
	return fmt.Sprintf("invalid duration %q: %s at %q", e.Input, e.Reason, e.Fragment)
}

type unitDef struct {
	kind Kind
	// ms per unit for fixed units; month or year multiplier otherwise.
	factor float64
}

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
	msPerWeek   = 7 * msPerDay
)

var units = map[string]unitDef{
	"ms": {KindFixed, 1}, "msec": {KindFixed, 1},
	"millisecond": {KindFixed, 1}, "milliseconds": {KindFixed, 1},
	"s": {KindFixed, msPerSecond}, "sec": {KindFixed, msPerSecond}, "secs": {KindFixed, msPerSecond},
	"second": {KindFixed, msPerSecond}, "seconds": {KindFixed, msPerSecond},
	"m": {KindFixed, msPerMinute}, "min": {KindFixed, msPerMinute}, "mins": {KindFixed, msPerMinute},
	"minute": {KindFixed, msPerMinute}, "minutes": {KindFixed, msPerMinute},
	"h": {KindFixed, msPerHour}, "hr": {KindFixed, msPerHour}, "hrs": {KindFixed, msPerHour},
	"hour": {KindFixed, msPerHour}, "hours": {KindFixed, msPerHour},
	"d": {KindFixed, msPerDay}, "day": {KindFixed, msPerDay}, "days": {KindFixed, msPerDay},
	"w": {KindFixed, msPerWeek}, "week": {KindFixed, msPerWeek}, "weeks": {KindFixed, msPerWeek},

	"mo": {KindMonth, 1}, "mon": {KindMonth, 1},
	"month": {KindMonth, 1}, "months": {KindMonth, 1},

	"y": {KindYear, 1}, "yr": {KindYear, 1}, "yrs": {KindYear, 1},
	"year": {KindYear, 1}, "years": {KindYear, 1},
	"decade": {KindYear, 10}, "decades": {KindYear, 10},
	"century": {KindYear, 100}, "centuries": {KindYear, 100},
}

// tokenRe matches one <number><unit> fragment at the start of the
// remaining input. The decimal point may be "." or ",".
var tokenRe = regexp.MustCompile(`^([0-9]+(?:[.,][0-9]+)?|[.,][0-9]+)([a-zA-Z]+)`)

// Parse tokenizes a duration string such as "1month2w" or "1.5year".
// The entire input must be consumed by matched tokens. An optional
// single leading sign applies to the whole spec, so "-1w" means one
// week into the past.
func Parse(text string) (*Spec, error) {
	spec := &Spec{Input: text}

	rest := text
	sign := 1.0
	if strings.HasPrefix(rest, "-") {
		sign = -1.0
		rest = rest[1:]
	} else if strings.HasPrefix(rest, "+") {
		rest = rest[1:]
	}
	if rest == "" {
		return nil, &ParseError{Input: text, Reason: "empty duration"}
	}

	for rest != "" {
		m := tokenRe.FindStringSubmatch(rest)
		if m == nil {
			return nil, &ParseError{Input: text, Fragment: rest, Reason: "unparsed remainder"}
		}
		magnitude, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err != nil || math.IsInf(magnitude, 0) || math.IsNaN(magnitude) {
			return nil, &ParseError{Input: text, Fragment: m[1], Reason: "not a finite number"}
		}

		name := strings.ToLower(m[2])
		def, ok := units[name]
		if !ok {
			return nil, &ParseError{Input: text, Fragment: m[2], Reason: "unknown unit"}
		}

		tok := Token{Text: m[0], Unit: name, Kind: def.kind, Magnitude: magnitude}
		switch def.kind {
		case KindFixed:
			// Each token is rounded to whole milliseconds on its own.
			tok.Contribution = math.Round(magnitude * def.factor)
			spec.FixedMs += int64(sign * tok.Contribution)
		case KindMonth:
			tok.Contribution = magnitude * def.factor
			spec.CalendarMonths += sign * tok.Contribution
		case KindYear:
			tok.Contribution = magnitude * def.factor
			spec.CalendarYears += sign * tok.Contribution
		}
		spec.Tokens = append(spec.Tokens, tok)

		rest = rest[len(m[0]):]
	}

	return spec, nil
}
