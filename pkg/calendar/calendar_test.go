package calendar

import "testing"

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year, month, want int
	}{
		{2026, 1, 31},
		{2026, 2, 28},
		{2024, 2, 29}, // leap year
		{2000, 2, 29}, // century leap year
		{1900, 2, 28}, // century non-leap year
		{2026, 4, 30},
		{2026, 12, 31},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestShiftWholeMonths(t *testing.T) {
	tests := []struct {
		name   string
		base   LocalDateTime
		months float64
		want   LocalDateTime
	}{
		{
			name:   "jan 31 plus one month clamps to feb 28",
			base:   LocalDateTime{Year: 2026, Month: 1, Day: 31},
			months: 1,
			want:   LocalDateTime{Year: 2026, Month: 2, Day: 28},
		},
		{
			name:   "jan 31 plus one month in a leap year clamps to feb 29",
			base:   LocalDateTime{Year: 2024, Month: 1, Day: 31},
			months: 1,
			want:   LocalDateTime{Year: 2024, Month: 2, Day: 29},
		},
		{
			name:   "year carry",
			base:   LocalDateTime{Year: 2026, Month: 11, Day: 15},
			months: 3,
			want:   LocalDateTime{Year: 2027, Month: 2, Day: 15},
		},
		{
			name:   "negative shift with year borrow",
			base:   LocalDateTime{Year: 2026, Month: 2, Day: 15},
			months: -3,
			want:   LocalDateTime{Year: 2025, Month: 11, Day: 15},
		},
		{
			name:   "negative shift clamps too",
			base:   LocalDateTime{Year: 2026, Month: 3, Day: 31},
			months: -1,
			want:   LocalDateTime{Year: 2026, Month: 2, Day: 28},
		},
		{
			name:   "time of day carried unchanged",
			base:   LocalDateTime{Year: 2026, Month: 1, Day: 10, Hour: 13, Minute: 45, Second: 30, Millisecond: 250},
			months: 12,
			want:   LocalDateTime{Year: 2027, Month: 1, Day: 10, Hour: 13, Minute: 45, Second: 30, Millisecond: 250},
		},
		{
			name:   "twenty four months",
			base:   LocalDateTime{Year: 2026, Month: 5, Day: 31},
			months: 24,
			want:   LocalDateTime{Year: 2028, Month: 5, Day: 31},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fracMs := Shift(tt.base, tt.months)
			if got != tt.want {
				t.Errorf("Shift() = %v, want %v", got, tt.want)
			}
			if fracMs != 0 {
				t.Errorf("fractional ms = %d, want 0", fracMs)
			}
		})
	}
}

func TestShiftFraction(t *testing.T) {
	// Half a month past mid-January stays in January, so the fraction
	// is evaluated against January's 31 days.
	base := LocalDateTime{Year: 2026, Month: 1, Day: 1}
	shifted, fracMs := Shift(base, 0.5)
	if shifted != base {
		t.Errorf("Shift() moved the date: %v", shifted)
	}
	want := int64(0.5 * 31 * 24 * 60 * 60 * 1000)
	if fracMs != want {
		t.Errorf("fracMs = %d, want %d", fracMs, want)
	}

	// 1.5 months from January lands in February: the fraction must use
	// February's day count, not January's.
	shifted, fracMs = Shift(base, 1.5)
	if shifted != (LocalDateTime{Year: 2026, Month: 2, Day: 1}) {
		t.Errorf("Shift() = %v, want 2026-02-01", shifted)
	}
	want = int64(0.5 * 28 * 24 * 60 * 60 * 1000)
	if fracMs != want {
		t.Errorf("fracMs = %d, want %d", fracMs, want)
	}

	// Negative fraction truncates toward zero: -1.5 months shifts one
	// whole month back and then half of the landing month backwards.
	shifted, fracMs = Shift(LocalDateTime{Year: 2026, Month: 3, Day: 15}, -1.5)
	if shifted != (LocalDateTime{Year: 2026, Month: 2, Day: 15}) {
		t.Errorf("Shift() = %v, want 2026-02-15", shifted)
	}
	want = -int64(0.5 * 28 * 24 * 60 * 60 * 1000)
	if fracMs != want {
		t.Errorf("fracMs = %d, want %d", fracMs, want)
	}
}
