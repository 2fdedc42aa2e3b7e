// Package calendar applies month-length-safe calendar arithmetic to
// wall-clock dates. Adding one month to Jan 31 lands on the last day of
// February; it never rolls into March and never silently becomes "31
// days". Fixed millisecond deltas are deliberately not handled here.
package calendar

import (
	"fmt"
	"math"
	"time"
)

// LocalDateTime is a wall-clock reading with no zone attached. It is
// not a point in time until paired with a zone.
type LocalDateTime struct {
	Year        int `json:"year"`
	Month       int `json:"month"`
	Day         int `json:"day"`
	Hour        int `json:"hour"`
	Minute      int `json:"minute"`
	Second      int `json:"second"`
	Millisecond int `json:"millisecond"`
}

func (l LocalDateTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d.%03d",
		l.Year, l.Month, l.Day, l.Hour, l.Minute, l.Second, l.Millisecond)
}

const msPerDay = 24 * 60 * 60 * 1000

// DaysInMonth returns the number of days in the given month, month 1-12.
func DaysInMonth(year, month int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month+1), 0, 0, 0, 0, 0, time.UTC).Day()
}

// Shift moves base by a signed fractional number of calendar months.
// The whole-month part shifts (year, month) with the day clamped to the
// target month's length; the time of day is carried unchanged. The
// fractional part is returned as a millisecond delta computed against
// the post-shift month's day count, to be added after the shifted local
// time has been resolved to an instant.
func Shift(base LocalDateTime, totalMonths float64) (LocalDateTime, int64) {
	whole := math.Trunc(totalMonths)
	fraction := totalMonths - whole

	linear := (base.Month - 1) + int(whole)
	year := base.Year + floorDiv(linear, 12)
	month := floorMod(linear, 12) + 1

	day := base.Day
	if limit := DaysInMonth(year, month); day > limit {
		day = limit
	}

	shifted := base
	shifted.Year, shifted.Month, shifted.Day = year, month, day

	var fractionMs int64
	if fraction != 0 {
		fractionMs = int64(math.Round(fraction * float64(DaysInMonth(year, month)) * msPerDay))
	}
	return shifted, fractionMs
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}
