// Package tzresolve maps absolute instants to wall-clock readings in
// named IANA zones and back. The inverse direction detects local times
// that never occurred (DST spring-forward gaps) or occurred twice (DST
// fall-back overlaps). Zone rules are piecewise, so the resolver probes
// several candidate offsets around the requested time and verifies each
// one by re-rendering; there is no closed-form inverse.
package tzresolve

import (
	"fmt"
	"sort"
	"time"
	_ "time/tzdata" // keep zone lookups working without a system tzdata

	"github.com/codeGROOVE-dev/truetime/pkg/calendar"
	"github.com/codeGROOVE-dev/truetime/pkg/constants"
)

// Rendering is an absolute instant projected into a zone: wall-clock
// fields plus the UTC offset valid at that instant.
type Rendering struct {
	calendar.LocalDateTime

	OffsetMinutes int    `json:"offset_minutes"`
	Zone          string `json:"zone"`
	Formatted     string `json:"formatted"`
}

// UnknownZoneError reports an unrecognized zone name, naming the
// configuration field it came from.
type UnknownZoneError struct {
	Err   error
	Field string
	Name  string
}

func (e *UnknownZoneError) Error() string {
	return fmt.Sprintf("unknown %s timezone %q", e.Field, e.Name)
}

func (e *UnknownZoneError) Unwrap() error { return e.Err }

// NonexistentTimeError reports a wall-clock reading that falls in a DST
// gap and never occurred in the zone.
type NonexistentTimeError struct {
	Zone  string
	Local calendar.LocalDateTime
}

func (e *NonexistentTimeError) Error() string {
	return fmt.Sprintf("local time %s does not exist in %s (DST gap)", e.Local, e.Zone)
}

// AmbiguousTimeError reports a wall-clock reading that occurred twice in
// the zone due to a backward clock jump. Callers disambiguate by
// supplying an explicit numeric offset instead of a bare local time.
type AmbiguousTimeError struct {
	Zone     string
	Local    calendar.LocalDateTime
	Instants []int64
}

func (e *AmbiguousTimeError) Error() string {
	return fmt.Sprintf("local time %s is ambiguous in %s (DST overlap, %d matches); supply an explicit UTC offset",
		e.Local, e.Zone, len(e.Instants))
}

// Render projects an instant into a zone's wall clock.
func Render(instantMs int64, loc *time.Location) Rendering {
	t := time.UnixMilli(instantMs).In(loc)
	_, offsetSec := t.Zone()
	return Rendering{
		LocalDateTime: calendar.LocalDateTime{
			Year:        t.Year(),
			Month:       int(t.Month()),
			Day:         t.Day(),
			Hour:        t.Hour(),
			Minute:      t.Minute(),
			Second:      t.Second(),
			Millisecond: t.Nanosecond() / int(time.Millisecond),
		},
		OffsetMinutes: offsetSec / 60,
		Zone:          loc.String(),
		Formatted:     t.Format(constants.RenderLayout),
	}
}

// offsetMsAt is the narrow "zone offset at instant" primitive the
// resolver is built on.
func offsetMsAt(instantMs int64, loc *time.Location) int64 {
	_, offsetSec := time.UnixMilli(instantMs).In(loc).Zone()
	return int64(offsetSec) * 1000
}

const (
	probeWindowMs = 6 * 60 * 60 * 1000
	refineSpanMs  = 2 * 60 * 60 * 1000
)

// Resolve converts a wall-clock reading in a zone to the instant it
// denotes. It fails when the reading falls in a DST gap (no instant) or
// a DST overlap (two instants).
func (r *Resolver) Resolve(local calendar.LocalDateTime, loc *time.Location) (int64, error) {
	// The reading's fields interpreted as UTC give a naive anchor.
	naive := time.Date(local.Year, time.Month(local.Month), local.Day,
		local.Hour, local.Minute, local.Second, local.Millisecond*int(time.Millisecond),
		time.UTC).UnixMilli()

	// Two-pass refinement: the offset at the anchor is usually the
	// offset at the answer, and one correction handles the remainder.
	guess := naive - offsetMsAt(naive, loc)
	guess = naive - offsetMsAt(guess, loc)

	// Probe instants wide enough to straddle any DST transition.
	probes := []int64{
		naive,
		naive - probeWindowMs,
		naive + probeWindowMs,
		guess - refineSpanMs,
		guess + refineSpanMs,
	}

	seen := make(map[int64]bool, len(probes))
	var offsets []int64
	for _, probe := range probes {
		off := offsetMsAt(probe, loc)
		if !seen[off] {
			seen[off] = true
			offsets = append(offsets, off)
		}
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })

	// Verify each candidate offset by re-rendering: an offset is only
	// valid if the resulting instant reads back as the requested wall
	// clock time.
	var accepted []int64
	for _, off := range offsets {
		candidate := naive - off
		if Render(candidate, loc).LocalDateTime == local {
			accepted = append(accepted, candidate)
		}
	}
	sort.Slice(accepted, func(i, j int) bool { return accepted[i] < accepted[j] })

	r.logger.Debug("resolved local time",
		"zone", loc.String(), "local", local.String(),
		"candidate_offsets", len(offsets), "accepted", len(accepted))

	switch len(accepted) {
	case 0:
		return 0, &NonexistentTimeError{Zone: loc.String(), Local: local}
	case 1:
		return accepted[0], nil
	default:
		return 0, &AmbiguousTimeError{Zone: loc.String(), Local: local, Instants: accepted}
	}
}
