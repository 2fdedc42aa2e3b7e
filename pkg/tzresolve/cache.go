package tzresolve

import (
	"log/slog"
	"time"

	"github.com/maypok86/otter/v2"
)

// Resolver resolves zone names and local times, memoizing loaded
// locations. A single invocation looks the same handful of zones up
// repeatedly (server, user, calendar, lunar, target), so the cache is
// small and never expires.
type Resolver struct {
	cache  *otter.Cache[string, *time.Location]
	logger *slog.Logger
}

// New creates a Resolver. A nil logger disables debug logging.
func New(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cache := otter.Must(&otter.Options[string, *time.Location]{
		MaximumSize:     512,
		InitialCapacity: 16,
	})
	return &Resolver{cache: cache, logger: logger}
}

// Zone loads a named IANA zone, consulting the cache first. The field
// name (user/target/server/calendar/lunar) is carried into the error so
// the caller can say which flag was wrong.
func (r *Resolver) Zone(field, name string) (*time.Location, error) {
	if loc, ok := r.cache.GetIfPresent(name); ok {
		r.logger.Debug("zone cache hit", "zone", name)
		return loc, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &UnknownZoneError{Err: err, Field: field, Name: name}
	}

	r.cache.Set(name, loc)
	r.logger.Debug("zone loaded", "zone", name)
	return loc, nil
}
