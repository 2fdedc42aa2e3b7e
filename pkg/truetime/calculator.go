// Package truetime computes deterministic temporal points: a relative
// duration from "now" or an absolute local date-time in a named zone,
// rendered across multiple timezones and an optional secondary
// calendar.
package truetime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/codeGROOVE-dev/truetime/pkg/calendar"
	"github.com/codeGROOVE-dev/truetime/pkg/clock"
	"github.com/codeGROOVE-dev/truetime/pkg/duration"
	"github.com/codeGROOVE-dev/truetime/pkg/lunar"
	"github.com/codeGROOVE-dev/truetime/pkg/tzresolve"
)

// ErrTargetZoneRequired is returned in absolute mode when the target
// string has no explicit offset and no target zone was supplied.
var ErrTargetZoneRequired = errors.New("target date-time has no offset; a target timezone is required")

// Calculator orchestrates the time source, duration parser, calendar
// engine and timezone resolver into a single result record.
type Calculator struct {
	logger       *slog.Logger
	resolver     *tzresolve.Resolver
	source       clock.Source
	serverZone   *time.Location
	userZone     *time.Location
	calendarZone *time.Location
	lunar        lunar.Renderer
}

// NewWithLogger creates a Calculator. Zone names in the options are
// validated here so a bad flag fails before any network traffic.
func NewWithLogger(logger *slog.Logger, opts ...Option) (*Calculator, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	optHolder := &OptionHolder{}
	for _, opt := range opts {
		opt(optHolder)
	}

	resolver := tzresolve.New(logger)

	serverZone := time.Local
	if optHolder.serverZone != "" {
		loc, err := resolver.Zone("server", optHolder.serverZone)
		if err != nil {
			return nil, err
		}
		serverZone = loc
	}

	calendarZone := serverZone
	if optHolder.calendarZone != "" {
		loc, err := resolver.Zone("calendar", optHolder.calendarZone)
		if err != nil {
			return nil, err
		}
		calendarZone = loc
	}

	var userZone *time.Location
	if optHolder.userZone != "" {
		loc, err := resolver.Zone("user", optHolder.userZone)
		if err != nil {
			return nil, err
		}
		userZone = loc
	}

	var renderer lunar.Renderer = lunar.Noop{}
	if !optHolder.noLunar {
		lunarZone := calendarZone
		if optHolder.lunarZone != "" {
			loc, err := resolver.Zone("lunar", optHolder.lunarZone)
			if err != nil {
				return nil, err
			}
			lunarZone = loc
		}
		renderer = lunar.NewChinese(lunarZone)
	}

	source := optHolder.source
	if source == nil {
		source = clock.SystemSource{}
	}

	return &Calculator{
		logger:       logger,
		resolver:     resolver,
		source:       source,
		serverZone:   serverZone,
		userZone:     userZone,
		calendarZone: calendarZone,
		lunar:        renderer,
	}, nil
}

// Relative computes the instant a mixed-unit duration away from "now".
// Calendar units shift the wall clock of the calendar zone and clamp to
// valid dates; fixed units are literal millisecond deltas applied after
// the shifted local time has been resolved back to an instant.
func (c *Calculator) Relative(ctx context.Context, input string) (*Result, error) {
	spec, err := duration.Parse(input)
	if err != nil {
		return nil, err
	}

	now, err := c.source.Now(ctx)
	if err != nil {
		return nil, err
	}

	var targetMs int64
	if spec.HasCalendar() {
		base := tzresolve.Render(now.InstantMs, c.calendarZone).LocalDateTime
		shifted, fractionMs := calendar.Shift(base, spec.TotalMonths())
		c.logger.Debug("calendar shift",
			"zone", c.calendarZone.String(), "base", base.String(),
			"months", spec.TotalMonths(), "shifted", shifted.String(), "fraction_ms", fractionMs)

		resolved, err := c.resolver.Resolve(shifted, c.calendarZone)
		if err != nil {
			return nil, err
		}
		targetMs = resolved + fractionMs + spec.FixedMs
	} else {
		targetMs = now.InstantMs + spec.FixedMs
	}

	return c.compose(ModeRelative, input, now, targetMs, spec), nil
}

// Absolute computes the instant denoted by a target date-time string.
// A string with an explicit offset is already unambiguous and the
// target zone is never consulted; otherwise the bare wall-clock fields
// are resolved in the required target zone.
func (c *Calculator) Absolute(ctx context.Context, input, targetZone string) (*Result, error) {
	now, err := c.source.Now(ctx)
	if err != nil {
		return nil, err
	}

	instantMs, hadOffset, err := clock.ParseAbsolute(input)
	if err != nil {
		return nil, err
	}

	targetMs := instantMs
	if !hadOffset {
		if targetZone == "" {
			return nil, fmt.Errorf("%w (got %q)", ErrTargetZoneRequired, input)
		}
		loc, err := c.resolver.Zone("target", targetZone)
		if err != nil {
			return nil, err
		}
		local, err := clock.ParseLocal(input)
		if err != nil {
			return nil, err
		}
		targetMs, err = c.resolver.Resolve(local, loc)
		if err != nil {
			return nil, err
		}
	}

	return c.compose(ModeAbsolute, input, now, targetMs, nil), nil
}

func (c *Calculator) compose(mode Mode, input string, now clock.Result, targetMs int64, spec *duration.Spec) *Result {
	deltaMs := targetMs - now.InstantMs

	result := &Result{
		Mode:         mode,
		Input:        input,
		TimeSource:   now,
		NowUTC:       tzresolve.Render(now.InstantMs, time.UTC),
		TargetUTC:    tzresolve.Render(targetMs, time.UTC),
		NowServer:    tzresolve.Render(now.InstantMs, c.serverZone),
		TargetServer: tzresolve.Render(targetMs, c.serverZone),
		DeltaMs:      deltaMs,
		DeltaSeconds: deltaSeconds(deltaMs),
		Duration:     spec,
	}

	if c.userZone != nil {
		nowUser := tzresolve.Render(now.InstantMs, c.userZone)
		targetUser := tzresolve.Render(targetMs, c.userZone)
		result.NowUser = &nowUser
		result.TargetUser = &targetUser
	}

	if s, ok := c.lunar.Render(time.UnixMilli(now.InstantMs)); ok {
		result.NowLunar = s
	}
	if s, ok := c.lunar.Render(time.UnixMilli(targetMs)); ok {
		result.TargetLunar = s
	}

	return result
}

// deltaSeconds keeps whole-second deltas integral and everything else
// at millisecond precision.
func deltaSeconds(deltaMs int64) float64 {
	if deltaMs%1000 == 0 {
		return float64(deltaMs / 1000)
	}
	return float64(deltaMs) / 1000
}
