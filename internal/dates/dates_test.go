package dates

import (
	"testing"
	"time"
)

func sydney(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Australia/Sydney")
	if err != nil {
		t.Fatalf("failed to load timezone: %v", err)
	}
	return loc
}

func TestParse(t *testing.T) {
	loc := sydney(t)

	t.Run("anchors_at_noon", func(t *testing.T) {
		d, err := Parse("2024-03-15", loc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d.Hour() != 12 {
			t.Errorf("expected noon anchor, got hour %d", d.Hour())
		}
		if Format(d) != "2024-03-15" {
			t.Errorf("round trip changed the date: %s", Format(d))
		}
	})

	t.Run("survives_dst_transition", func(t *testing.T) {
		// Sydney leaves DST on 2024-04-07. A midnight-anchored date
		// shifted through UTC would land on the previous day.
		d, err := Parse("2024-04-07", loc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if Format(d.In(loc)) != "2024-04-07" {
			t.Errorf("DST transition shifted the date: %s", Format(d.In(loc)))
		}
	})

	t.Run("rejects_malformed", func(t *testing.T) {
		if _, err := Parse("15/03/2024", loc); err == nil {
			t.Error("expected error for non-ISO date")
		}
		if _, err := Parse("2024-13-01", loc); err == nil {
			t.Error("expected error for month 13")
		}
	})
}

func TestComparisons(t *testing.T) {
	loc := sydney(t)
	a, _ := Parse("2024-03-15", loc)
	b, _ := Parse("2024-03-16", loc)

	if !Before(a, b) {
		t.Error("expected 03-15 before 03-16")
	}
	if !After(b, a) {
		t.Error("expected 03-16 after 03-15")
	}
	if Same(a, b) {
		t.Error("expected different days")
	}
	if !Same(a, a.Add(3*time.Hour)) {
		t.Error("expected same day regardless of time-of-day")
	}
}

func TestWithinInclusive(t *testing.T) {
	loc := sydney(t)
	start, _ := Parse("2024-03-15", loc)
	end, _ := Parse("2024-04-14", loc)

	for _, tc := range []struct {
		date string
		want bool
	}{
		{"2024-03-15", true}, // range start itself
		{"2024-04-14", true}, // range end itself
		{"2024-03-30", true},
		{"2024-03-14", false},
		{"2024-04-15", false},
	} {
		d, _ := Parse(tc.date, loc)
		if got := WithinInclusive(d, start, end); got != tc.want {
			t.Errorf("WithinInclusive(%s) = %v, want %v", tc.date, got, tc.want)
		}
	}
}

func TestDaysUntilInclusive(t *testing.T) {
	loc := sydney(t)

	t.Run("counts_both_ends", func(t *testing.T) {
		now := time.Date(2024, 4, 10, 9, 30, 0, 0, loc)
		days, err := DaysUntilInclusive(now, "2024-04-14", loc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if days != 5 {
			t.Errorf("expected 5 days remaining, got %d", days)
		}
	})

	t.Run("zero_when_past", func(t *testing.T) {
		now := time.Date(2024, 4, 20, 9, 30, 0, 0, loc)
		days, err := DaysUntilInclusive(now, "2024-04-14", loc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if days != 0 {
			t.Errorf("expected 0 days remaining, got %d", days)
		}
	})

	t.Run("spans_dst_change", func(t *testing.T) {
		// 2024-04-07 ends DST in Sydney, so one day in this window is
		// 25 hours long.
		now := time.Date(2024, 4, 5, 8, 0, 0, 0, loc)
		days, err := DaysUntilInclusive(now, "2024-04-10", loc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if days != 6 {
			t.Errorf("expected 6 days across the DST change, got %d", days)
		}
	})
}

func TestCurrentCycleDates(t *testing.T) {
	loc := sydney(t)

	tests := []struct {
		name      string
		now       time.Time
		wantStart string
		wantEnd   string
	}{
		{
			name:      "mid_cycle_after_15th",
			now:       time.Date(2024, 3, 20, 10, 0, 0, 0, loc),
			wantStart: "2024-03-15",
			wantEnd:   "2024-04-14",
		},
		{
			name:      "on_the_15th",
			now:       time.Date(2024, 3, 15, 0, 0, 1, 0, loc),
			wantStart: "2024-03-15",
			wantEnd:   "2024-04-14",
		},
		{
			name:      "on_the_14th",
			now:       time.Date(2024, 3, 14, 23, 59, 59, 0, loc),
			wantStart: "2024-02-15",
			wantEnd:   "2024-03-14",
		},
		{
			name:      "january_rolls_into_previous_year",
			now:       time.Date(2024, 1, 10, 12, 0, 0, 0, loc),
			wantStart: "2023-12-15",
			wantEnd:   "2024-01-14",
		},
		{
			name:      "december_rolls_into_next_year",
			now:       time.Date(2024, 12, 20, 12, 0, 0, 0, loc),
			wantStart: "2024-12-15",
			wantEnd:   "2025-01-14",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CurrentCycleDates(tc.now, loc)
			if got.StartDate != tc.wantStart {
				t.Errorf("start = %s, want %s", got.StartDate, tc.wantStart)
			}
			if got.EndDate != tc.wantEnd {
				t.Errorf("end = %s, want %s", got.EndDate, tc.wantEnd)
			}
		})
	}

	t.Run("device_timezone_does_not_matter", func(t *testing.T) {
		// 2024-03-14 23:00 UTC is already 2024-03-15 in Sydney.
		now := time.Date(2024, 3, 14, 23, 0, 0, 0, time.UTC)
		got := CurrentCycleDates(now, loc)
		if got.StartDate != "2024-03-15" {
			t.Errorf("start = %s, want 2024-03-15", got.StartDate)
		}
	})
}
