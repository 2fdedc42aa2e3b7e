package truetime

import (
	"github.com/codeGROOVE-dev/truetime/pkg/clock"
	"github.com/codeGROOVE-dev/truetime/pkg/duration"
	"github.com/codeGROOVE-dev/truetime/pkg/tzresolve"
)

// Option configures a Calculator.
type Option func(*OptionHolder)

// WithServerZone sets the zone used for the server-local renderings.
// Defaults to the host's detected zone.
func WithServerZone(name string) Option {
	return func(o *OptionHolder) {
		o.serverZone = name
	}
}

// WithUserZone requests an additional rendering in the user's zone.
func WithUserZone(name string) Option {
	return func(o *OptionHolder) {
		o.userZone = name
	}
}

// WithCalendarZone sets the zone whose wall clock calendar-unit shifts
// are applied in. Defaults to the server zone.
func WithCalendarZone(name string) Option {
	return func(o *OptionHolder) {
		o.calendarZone = name
	}
}

// WithLunarZone sets the reference zone for the secondary-calendar
// renderings. Defaults to the calendar zone.
func WithLunarZone(name string) Option {
	return func(o *OptionHolder) {
		o.lunarZone = name
	}
}

// WithoutLunar disables the secondary-calendar renderings.
func WithoutLunar() Option {
	return func(o *OptionHolder) {
		o.noLunar = true
	}
}

// WithTimeSource sets where "now" comes from. Defaults to the system
// clock.
func WithTimeSource(source clock.Source) Option {
	return func(o *OptionHolder) {
		o.source = source
	}
}

// OptionHolder holds configuration options.
type OptionHolder struct {
	source       clock.Source
	serverZone   string
	userZone     string
	calendarZone string
	lunarZone    string
	noLunar      bool
}

// Mode says how the target instant was specified.
type Mode string

const (
	ModeRelative Mode = "relative"
	ModeAbsolute Mode = "absolute"
)

// Result is the full output record of one computation.
type Result struct {
	Mode         Mode                 `json:"mode"`
	Input        string               `json:"input"`
	TimeSource   clock.Result         `json:"time_source"`
	NowUTC       tzresolve.Rendering  `json:"now_utc"`
	TargetUTC    tzresolve.Rendering  `json:"target_utc"`
	NowServer    tzresolve.Rendering  `json:"now_server"`
	TargetServer tzresolve.Rendering  `json:"target_server"`
	NowUser      *tzresolve.Rendering `json:"now_user,omitempty"`
	TargetUser   *tzresolve.Rendering `json:"target_user,omitempty"`
	NowLunar     string               `json:"now_lunar,omitempty"`
	TargetLunar  string               `json:"target_lunar,omitempty"`
	DeltaMs      int64                `json:"delta_ms"`
	DeltaSeconds float64              `json:"delta_seconds"`
	Duration     *duration.Spec       `json:"duration,omitempty"`
}
