package recurrence

import (
	"slices"
	"time"
)

// NextOccurrence returns the occurrence that follows current under rule.
//
// For every rule that passes Validate the result is strictly later than current.
// The function does not validate: an invalid rule yields a best-effort date
// (interval 0 returns current unchanged) instead of an error.
//
// Arithmetic is on calendar days of current's wall clock; time of day and
// location are carried over unchanged.
func NextOccurrence(rule Rule, current time.Time) time.Time {
	switch rule.Type {
	case Daily, Custom:
		return current.AddDate(0, 0, rule.Interval)

	case Weekly:
		if len(rule.DaysOfWeek) > 0 {
			return nextWeekday(current, rule.Interval, rule.DaysOfWeek)
		}
		return current.AddDate(0, 0, 7*rule.Interval)

	case Monthly:
		return nextMonthDay(current, rule.Interval, rule.DayOfMonth)

	default:
		return current.AddDate(0, 0, 1)
	}
}

// nextWeekday snaps forward to the next selected weekday in the current
// 7-day cycle, or wraps to the first selected weekday interval weeks later.
func nextWeekday(current time.Time, interval int, daysOfWeek []int) time.Time {
	sorted := slices.Clone(daysOfWeek)
	slices.Sort(sorted)

	weekday := int(current.Weekday())
	for _, day := range sorted {
		if day > weekday {
			return current.AddDate(0, 0, day-weekday)
		}
	}

	first := sorted[0]
	return current.AddDate(0, 0, 7*interval-(weekday-first))
}

// nextMonthDay moves interval months ahead and, when dayOfMonth is set, pins the
// day to min(dayOfMonth, days in the target month). Zero and negative values fail
// Validate; here they are treated as absent, never as an offset into the
// previous month.
func nextMonthDay(current time.Time, interval int, dayOfMonth *int) time.Time {
	candidate := addMonths(current, interval)
	if dayOfMonth == nil || *dayOfMonth < 1 {
		return candidate
	}

	year, month, _ := candidate.Date()
	day := min(*dayOfMonth, DaysIn(year, month))
	return withDay(candidate, day)
}

// addMonths adds n calendar months, clamping to the last day of the target
// month instead of overflowing into the next one (Jan 31 + 1 month = Feb 28/29).
// time.AddDate normalises Feb 31 to Mar 3, which is not what a monthly task wants.
func addMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	target := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := DaysIn(target.Year(), target.Month())

	hour, minute, sec := t.Clock()
	return time.Date(target.Year(), target.Month(), min(day, last), hour, minute, sec, t.Nanosecond(), t.Location())
}

func withDay(t time.Time, day int) time.Time {
	year, month, _ := t.Date()
	hour, minute, sec := t.Clock()
	return time.Date(year, month, day, hour, minute, sec, t.Nanosecond(), t.Location())
}
