// Package clock supplies "now" from the system clock, an explicit
// override string, or a network time query. The three sources are
// mutually exclusive and chosen by the caller; a failed network query
// is never silently replaced by a system clock read.
package clock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/codeGROOVE-dev/truetime/pkg/calendar"
	"github.com/codeGROOVE-dev/truetime/pkg/ntp"
)

// SourceKind identifies where an instant came from.
type SourceKind string

const (
	SourceSystem   SourceKind = "system"
	SourceOverride SourceKind = "override"
	SourceNetwork  SourceKind = "network"
)

// Result is a sourced instant.
type Result struct {
	InstantMs  int64      `json:"instant_ms"`
	Source     SourceKind `json:"source"`
	ServerUsed string     `json:"server_used,omitempty"`
}

// Source provides the current instant.
type Source interface {
	Now(ctx context.Context) (Result, error)
}

// SystemSource reads the host clock.
type SystemSource struct{}

func (SystemSource) Now(context.Context) (Result, error) {
	return Result{InstantMs: time.Now().UnixMilli(), Source: SourceSystem}, nil
}

// OverrideSource parses a caller-supplied date-time string. Strings
// without an explicit offset are interpreted as UTC.
type OverrideSource struct {
	Value string
}

func (o OverrideSource) Now(context.Context) (Result, error) {
	ms, _, err := ParseAbsolute(o.Value)
	if err != nil {
		return Result{}, fmt.Errorf("now override: %w", err)
	}
	return Result{InstantMs: ms, Source: SourceOverride}, nil
}

// NetworkSource queries a prioritized server list via SNTP.
type NetworkSource struct {
	client  *ntp.Client
	servers []string
}

// NewNetworkSource builds a network time source. Servers are attempted
// strictly in the given order with the given per-attempt timeout.
func NewNetworkSource(servers []string, timeout time.Duration, attempts uint, logger *slog.Logger) *NetworkSource {
	return &NetworkSource{
		client:  ntp.NewClient(timeout, attempts, logger),
		servers: servers,
	}
}

func (n *NetworkSource) Now(ctx context.Context) (Result, error) {
	ms, server, err := n.client.First(ctx, n.servers)
	if err != nil {
		return Result{}, err
	}
	return Result{InstantMs: ms, Source: SourceNetwork, ServerUsed: server}, nil
}

// offsetLayouts carry an explicit UTC offset or zone marker.
var offsetLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05 -07:00",
	"2006-01-02 15:04:05 -0700",
}

// naiveLayouts have no offset; callers decide the zone.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseAbsolute parses a date-time string. When the string carries an
// explicit offset the returned instant is exact and hadOffset is true;
// otherwise the fields are interpreted as UTC and hadOffset is false.
func ParseAbsolute(value string) (instantMs int64, hadOffset bool, err error) {
	for _, layout := range offsetLayouts {
		if t, perr := time.Parse(layout, value); perr == nil {
			return t.UnixMilli(), true, nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, perr := time.ParseInLocation(layout, value, time.UTC); perr == nil {
			return t.UnixMilli(), false, nil
		}
	}
	return 0, false, fmt.Errorf("unrecognized date-time %q", value)
}

// ParseLocal parses an offset-less date-time string into bare
// wall-clock fields for zone resolution. Offset-carrying strings are
// rejected; they already denote an instant.
func ParseLocal(value string) (calendar.LocalDateTime, error) {
	for _, layout := range naiveLayouts {
		t, err := time.ParseInLocation(layout, value, time.UTC)
		if err != nil {
			continue
		}
		return calendar.LocalDateTime{
			Year:        t.Year(),
			Month:       int(t.Month()),
			Day:         t.Day(),
			Hour:        t.Hour(),
			Minute:      t.Minute(),
			Second:      t.Second(),
			Millisecond: t.Nanosecond() / int(time.Millisecond),
		}, nil
	}
	return calendar.LocalDateTime{}, fmt.Errorf("unrecognized local date-time %q", value)
}
