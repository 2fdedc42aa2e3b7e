// Package lunar renders instants through a secondary (Chinese
// lunisolar) calendar. The renderer is a capability: callers hold the
// interface and a Noop implementation stands in when the secondary
// calendar is not wanted, keeping the composer free of conditionals.
package lunar

import (
	"time"

	lunargo "github.com/6tail/lunar-go/calendar"
)

// Renderer formats an instant in a secondary calendar. The boolean is
// false when no rendering is available; that is never an error.
type Renderer interface {
	Render(t time.Time) (string, bool)
}

// Noop renders nothing.
type Noop struct{}

func (Noop) Render(time.Time) (string, bool) { return "", false }

// Chinese renders the Chinese lunisolar date of an instant, evaluated
// in a reference zone (the same instant can fall on different lunar
// days in different zones).
type Chinese struct {
	zone *time.Location
}

// NewChinese creates a renderer using the given reference zone, UTC
// when nil.
func NewChinese(zone *time.Location) *Chinese {
	if zone == nil {
		zone = time.UTC
	}
	return &Chinese{zone: zone}
}

func (c *Chinese) Render(t time.Time) (string, bool) {
	solar := lunargo.NewSolarFromDate(t.In(c.zone))
	return solar.GetLunar().String(), true
}
