package clock

import (
	"context"
	"testing"
	"time"

	"github.com/codeGROOVE-dev/truetime/pkg/calendar"
)

func TestParseAbsolute(t *testing.T) {
	tests := []struct {
		input      string
		wantMs     int64
		wantOffset bool
	}{
		{"2026-01-15T12:00:00Z", 1768478400000, true},
		{"2026-01-15T07:00:00-05:00", 1768478400000, true},
		{"2026-01-15T07:00:00-0500", 1768478400000, true},
		{"2026-01-15T12:00:00.250Z", 1768478400250, true},
		{"2026-01-15T12:00:00", 1768478400000, false}, // UTC assumed
		{"2026-01-15 12:00:00", 1768478400000, false},
		{"2026-01-15", 1768435200000, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ms, hadOffset, err := ParseAbsolute(tt.input)
			if err != nil {
				t.Fatalf("ParseAbsolute(%q) error: %v", tt.input, err)
			}
			if ms != tt.wantMs {
				t.Errorf("instant = %d, want %d", ms, tt.wantMs)
			}
			if hadOffset != tt.wantOffset {
				t.Errorf("hadOffset = %v, want %v", hadOffset, tt.wantOffset)
			}
		})
	}

	if _, _, err := ParseAbsolute("next tuesday"); err == nil {
		t.Error("ParseAbsolute accepted garbage")
	}
}

func TestParseLocal(t *testing.T) {
	got, err := ParseLocal("2026-03-08T02:30:00")
	if err != nil {
		t.Fatal(err)
	}
	want := calendar.LocalDateTime{Year: 2026, Month: 3, Day: 8, Hour: 2, Minute: 30}
	if got != want {
		t.Errorf("ParseLocal() = %v, want %v", got, want)
	}

	if _, err := ParseLocal("2026-01-15T07:00:00-05:00"); err == nil {
		t.Error("ParseLocal accepted an offset-carrying string")
	}
}

func TestSystemSource(t *testing.T) {
	before := time.Now().UnixMilli()
	res, err := SystemSource{}.Now(context.Background())
	after := time.Now().UnixMilli()
	if err != nil {
		t.Fatal(err)
	}
	if res.Source != SourceSystem {
		t.Errorf("source = %q, want system", res.Source)
	}
	if res.InstantMs < before || res.InstantMs > after {
		t.Errorf("instant %d outside [%d, %d]", res.InstantMs, before, after)
	}
}

func TestOverrideSource(t *testing.T) {
	res, err := OverrideSource{Value: "2026-01-15T12:00:00"}.Now(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Source != SourceOverride {
		t.Errorf("source = %q, want override", res.Source)
	}
	if res.InstantMs != 1768478400000 {
		t.Errorf("instant = %d, want 1768478400000", res.InstantMs)
	}

	if _, err := (OverrideSource{Value: "garbage"}).Now(context.Background()); err == nil {
		t.Error("OverrideSource accepted garbage")
	}
}
