// Package recurrence projects recurring transaction templates into
// concrete calendar occurrences and materializes them into transaction
// drafts. Projection is pure: callers pass the range, the template, and
// the optional payday date explicitly.
package recurrence

import (
	"time"

	"paycycle/internal/dates"
	apperrors "paycycle/internal/errors"
	"paycycle/internal/logger"
	"paycycle/internal/models"
)

// Safety bounds on occurrence loops. A template that keeps missing the
// range because of a configuration bug must not spin forever; hitting
// the cap returns the occurrences found so far and logs a warning.
const (
	maxMonthlyOccurrences = 24
	maxSteppedOccurrences = 10
)

// Occurrences enumerates every date on which the template fires within
// [rangeStart, rangeEnd], both ends inclusive. Comparison is by calendar
// date string, not instant. An occurrence equal to paydayDate (when
// non-empty) is dropped: payday transactions belong to the next cycle.
//
// Inactive templates are the caller's concern; this function projects
// whatever template it is given.
func Occurrences(tpl *models.RecurringTransaction, rangeStart, rangeEnd time.Time, paydayDate string) ([]time.Time, error) {
	if dates.After(rangeStart, rangeEnd) {
		return nil, apperrors.ErrInvalidDateRange
	}

	switch tpl.Frequency {
	case models.FrequencyMonthly:
		if tpl.DayOfMonth == nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidSchedule, "Monthly recurring transaction has no day of month")
		}
		return monthlyOccurrences(tpl, *tpl.DayOfMonth, rangeStart, rangeEnd, paydayDate), nil

	case models.FrequencyWeekly:
		if tpl.DayOfWeek == nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidSchedule, "Weekly recurring transaction has no day of week")
		}
		return steppedOccurrences(tpl, *tpl.DayOfWeek, 7, rangeStart, rangeEnd, paydayDate), nil

	case models.FrequencyFortnightly:
		if tpl.DayOfWeek == nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidSchedule, "Fortnightly recurring transaction has no day of week")
		}
		return steppedOccurrences(tpl, *tpl.DayOfWeek, 14, rangeStart, rangeEnd, paydayDate), nil

	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidSchedule, "Unknown recurrence frequency")
	}
}

// monthlyOccurrences walks month by month from the month containing
// rangeStart through the month containing rangeEnd. A day that overflows
// its month (day 31 in February) skips that month entirely rather than
// rolling over.
func monthlyOccurrences(tpl *models.RecurringTransaction, dayOfMonth int, rangeStart, rangeEnd time.Time, paydayDate string) []time.Time {
	loc := rangeStart.Location()
	occurrences := make([]time.Time, 0, 2)

	month := time.Date(rangeStart.Year(), rangeStart.Month(), 1, 12, 0, 0, 0, loc)
	for i := 0; ; i++ {
		if i >= maxMonthlyOccurrences {
			logger.Get().Warnw("monthly projection hit safety cap",
				"template_id", tpl.ID,
				"range_start", dates.Format(rangeStart),
				"range_end", dates.Format(rangeEnd),
			)
			break
		}
		if month.Year() > rangeEnd.Year() ||
			(month.Year() == rangeEnd.Year() && month.Month() > rangeEnd.Month()) {
			break
		}

		target := time.Date(month.Year(), month.Month(), dayOfMonth, 12, 0, 0, 0, loc)
		if target.Month() == month.Month() &&
			dates.WithinInclusive(target, rangeStart, rangeEnd) &&
			dates.Format(target) != paydayDate {
			occurrences = append(occurrences, target)
		}

		month = month.AddDate(0, 1, 0)
	}

	return occurrences
}

// steppedOccurrences anchors on the first matching weekday on or after
// rangeStart, then steps forward by the given number of days.
func steppedOccurrences(tpl *models.RecurringTransaction, dayOfWeek, stepDays int, rangeStart, rangeEnd time.Time, paydayDate string) []time.Time {
	occurrences := make([]time.Time, 0, 5)

	current := rangeStart
	for int(current.Weekday()) != dayOfWeek {
		current = current.AddDate(0, 0, 1)
	}

	for i := 0; !dates.After(current, rangeEnd); i++ {
		if i >= maxSteppedOccurrences {
			logger.Get().Warnw("stepped projection hit safety cap",
				"template_id", tpl.ID,
				"step_days", stepDays,
				"range_start", dates.Format(rangeStart),
				"range_end", dates.Format(rangeEnd),
			)
			break
		}
		if dates.Format(current) != paydayDate {
			occurrences = append(occurrences, current)
		}
		current = current.AddDate(0, 0, stepDays)
	}

	return occurrences
}
