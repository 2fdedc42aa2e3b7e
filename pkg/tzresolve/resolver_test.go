package tzresolve

import (
	"errors"
	"testing"
	"time"

	"github.com/codeGROOVE-dev/truetime/pkg/calendar"
)

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("LoadLocation(%q): %v", name, err)
	}
	return loc
}

func TestRender(t *testing.T) {
	ny := mustZone(t, "America/New_York")

	// 2026-01-15T12:00:00Z is 07:00 EST (UTC-5).
	instant := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC).UnixMilli()
	got := Render(instant, ny)

	want := calendar.LocalDateTime{Year: 2026, Month: 1, Day: 15, Hour: 7}
	if got.LocalDateTime != want {
		t.Errorf("Render() local = %v, want %v", got.LocalDateTime, want)
	}
	if got.OffsetMinutes != -5*60 {
		t.Errorf("OffsetMinutes = %d, want -300", got.OffsetMinutes)
	}
	if got.Zone != "America/New_York" {
		t.Errorf("Zone = %q", got.Zone)
	}
	if got.Formatted != "2026-01-15T07:00:00.000-05:00" {
		t.Errorf("Formatted = %q", got.Formatted)
	}
}

func TestRenderReflectsDST(t *testing.T) {
	ny := mustZone(t, "America/New_York")

	// One millisecond before the 2026 spring-forward transition the
	// offset is -5h; at the transition it jumps to -4h.
	transition := time.Date(2026, 3, 8, 7, 0, 0, 0, time.UTC).UnixMilli()
	if got := Render(transition-1, ny).OffsetMinutes; got != -300 {
		t.Errorf("pre-transition offset = %d, want -300", got)
	}
	if got := Render(transition, ny).OffsetMinutes; got != -240 {
		t.Errorf("post-transition offset = %d, want -240", got)
	}
}

func TestResolveRoundTrip(t *testing.T) {
	r := New(nil)
	zones := []string{"UTC", "America/New_York", "Europe/Berlin", "Asia/Kathmandu", "Pacific/Auckland", "Australia/Lord_Howe"}
	instants := []time.Time{
		time.Date(2026, 1, 15, 0, 30, 0, 0, time.UTC),
		time.Date(2026, 6, 15, 12, 0, 0, 250e6, time.UTC),
		time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(1999, 7, 1, 6, 0, 0, 0, time.UTC),
	}

	for _, name := range zones {
		loc := mustZone(t, name)
		for _, instant := range instants {
			ms := instant.UnixMilli()
			rendered := Render(ms, loc)
			back, err := r.Resolve(rendered.LocalDateTime, loc)
			if err != nil {
				t.Errorf("Resolve(Render(%d, %s)) error: %v", ms, name, err)
				continue
			}
			if back != ms {
				t.Errorf("round trip in %s: %d -> %v -> %d", name, ms, rendered.LocalDateTime, back)
			}
		}
	}
}

func TestResolveDSTGap(t *testing.T) {
	r := New(nil)
	ny := mustZone(t, "America/New_York")

	// 2026-03-08 02:00-03:00 never happened in New York.
	local := calendar.LocalDateTime{Year: 2026, Month: 3, Day: 8, Hour: 2, Minute: 30}
	_, err := r.Resolve(local, ny)

	var gap *NonexistentTimeError
	if !errors.As(err, &gap) {
		t.Fatalf("Resolve() error = %v, want *NonexistentTimeError", err)
	}
	if gap.Zone != "America/New_York" || gap.Local != local {
		t.Errorf("error detail = %+v", gap)
	}
}

func TestResolveDSTOverlap(t *testing.T) {
	r := New(nil)
	ny := mustZone(t, "America/New_York")

	// 2026-11-01 01:00-02:00 happened twice in New York.
	local := calendar.LocalDateTime{Year: 2026, Month: 11, Day: 1, Hour: 1, Minute: 30}
	_, err := r.Resolve(local, ny)

	var overlap *AmbiguousTimeError
	if !errors.As(err, &overlap) {
		t.Fatalf("Resolve() error = %v, want *AmbiguousTimeError", err)
	}
	if len(overlap.Instants) != 2 {
		t.Fatalf("got %d instants, want 2", len(overlap.Instants))
	}
	// The two readings are exactly one hour apart and both render back
	// to the requested wall clock time.
	if overlap.Instants[1]-overlap.Instants[0] != 60*60*1000 {
		t.Errorf("instants %v are not one hour apart", overlap.Instants)
	}
	for _, instant := range overlap.Instants {
		if got := Render(instant, ny).LocalDateTime; got != local {
			t.Errorf("instant %d renders as %v, want %v", instant, got, local)
		}
	}
}

func TestResolveUnambiguousNearTransition(t *testing.T) {
	r := New(nil)
	ny := mustZone(t, "America/New_York")

	tests := []struct {
		name  string
		local calendar.LocalDateTime
	}{
		{"just before the gap", calendar.LocalDateTime{Year: 2026, Month: 3, Day: 8, Hour: 1, Minute: 59}},
		{"just after the gap", calendar.LocalDateTime{Year: 2026, Month: 3, Day: 8, Hour: 3}},
		{"just before the overlap", calendar.LocalDateTime{Year: 2026, Month: 11, Day: 1, Hour: 0, Minute: 59}},
		{"just after the overlap", calendar.LocalDateTime{Year: 2026, Month: 11, Day: 1, Hour: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instant, err := r.Resolve(tt.local, ny)
			if err != nil {
				t.Fatalf("Resolve(%v) error: %v", tt.local, err)
			}
			if got := Render(instant, ny).LocalDateTime; got != tt.local {
				t.Errorf("Resolve/Render mismatch: %v != %v", got, tt.local)
			}
		})
	}
}

func TestZoneErrors(t *testing.T) {
	r := New(nil)
	_, err := r.Zone("user", "Mars/Olympus_Mons")

	var unknown *UnknownZoneError
	if !errors.As(err, &unknown) {
		t.Fatalf("Zone() error = %v, want *UnknownZoneError", err)
	}
	if unknown.Field != "user" || unknown.Name != "Mars/Olympus_Mons" {
		t.Errorf("error detail = %+v", unknown)
	}
}

func TestZoneCache(t *testing.T) {
	r := New(nil)
	first, err := r.Zone("server", "Europe/Berlin")
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Zone("server", "Europe/Berlin")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("cached lookup returned a different *time.Location")
	}
}

func TestIsZoneName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"America/New_York", true},
		{"America/Argentina/Ushuaia", true},
		{"UTC", true},
		{"Etc/GMT+8", true},
		{"zone.tab", false},
		{"leapseconds", false},
		{"posixrules", false},
		{"posix/America/New_York", false},
		{"right/UTC", false},
		{"tzdata.zi", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isZoneName(tt.name); got != tt.want {
			t.Errorf("isZoneName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
