package dates

import "time"

// CycleDates holds the inclusive boundaries of one pay cycle.
type CycleDates struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// CurrentCycleDates computes the boundaries of the cycle containing the
// given instant, evaluated in the reference timezone. Cycles run from
// the 15th of one month to the 14th of the next: on or after the 15th
// the cycle started this month, otherwise it started last month.
func CurrentCycleDates(now time.Time, loc *time.Location) CycleDates {
	local := now.In(loc)
	year, month, day := local.Date()

	var start, end time.Time
	if day >= 15 {
		start = time.Date(year, month, 15, 12, 0, 0, 0, loc)
		end = time.Date(year, month+1, 14, 12, 0, 0, 0, loc)
	} else {
		start = time.Date(year, month-1, 15, 12, 0, 0, 0, loc)
		end = time.Date(year, month, 14, 12, 0, 0, 0, loc)
	}

	return CycleDates{StartDate: Format(start), EndDate: Format(end)}
}
