// Package dates provides calendar-date arithmetic for the pay-cycle
// engine. Dates travel through the system as YYYY-MM-DD strings; parsed
// values are anchored at local noon so that reformatting can never shift
// them across a day boundary through DST or UTC conversion. All
// ordering comparisons are done on the string form, never on instants.
package dates

import (
	"fmt"
	"math"
	"time"
)

// Layout is the canonical calendar-date format.
const Layout = "2006-01-02"

// Parse converts a YYYY-MM-DD string into a time anchored at noon in
// the given location.
func Parse(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid calendar date %q: %w", s, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, loc), nil
}

// Format renders a time as a YYYY-MM-DD string using its local calendar
// fields.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// AtNoon normalizes an instant to noon on the same calendar day in the
// given location.
func AtNoon(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, loc)
}

// Same reports whether two times fall on the same calendar day.
func Same(a, b time.Time) bool {
	return Format(a) == Format(b)
}

// Before reports whether a falls on an earlier calendar day than b.
func Before(a, b time.Time) bool {
	return Format(a) < Format(b)
}

// After reports whether a falls on a later calendar day than b.
func After(a, b time.Time) bool {
	return Format(a) > Format(b)
}

// WithinInclusive reports whether t falls within [start, end], closed on
// both ends.
func WithinInclusive(t, start, end time.Time) bool {
	return !Before(t, start) && !After(t, end)
}

// IsValid reports whether s is a well-formed YYYY-MM-DD string.
func IsValid(s string) bool {
	_, err := time.Parse(Layout, s)
	return err == nil
}

// DaysUntilInclusive counts the calendar days from now through the end
// date, both inclusive, evaluated in the given location. Returns 0 when
// the end date has passed.
func DaysUntilInclusive(now time.Time, endDate string, loc *time.Location) (int, error) {
	end, err := Parse(endDate, loc)
	if err != nil {
		return 0, err
	}
	today := AtNoon(now, loc)
	// Rounding absorbs the odd-length days that DST transitions produce.
	days := int(math.Round(end.Sub(today).Hours()/24)) + 1
	if days < 0 {
		return 0, nil
	}
	return days, nil
}
