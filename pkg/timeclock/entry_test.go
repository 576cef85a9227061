package timeclock

import (
	"testing"
	"time"
)

func TestDurationMinutes(t *testing.T) {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		out  time.Time
		want int
	}{
		{"zero", base, 0},
		{"half minute rounds up", base.Add(90 * time.Second), 2},
		{"just under half rounds down", base.Add(89 * time.Second), 1},
		{"full shift", base.Add(8*time.Hour + 30*time.Minute), 510},
		{"seconds only", base.Add(29 * time.Second), 0},
		{"negative interval", base.Add(-90 * time.Second), -2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DurationMinutes(base, tc.out); got != tc.want {
				t.Errorf("DurationMinutes(base, base%+v) = %d, want %d", tc.out.Sub(base), got, tc.want)
			}
		})
	}
}

func TestDay(t *testing.T) {
	got := Day(time.Date(2024, 3, 7, 23, 59, 0, 0, time.UTC))
	if got != "2024-03-07" {
		t.Errorf("Day() = %q, want 2024-03-07", got)
	}
}
