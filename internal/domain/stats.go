package domain

import "time"

// Trend window limits in days.
const (
	DefaultTrendDays = 30
	MaxTrendDays     = 365
)

// StatsSummary reports task completion within one calendar period.
//
// CompletedTasks counts tasks completed inside [PeriodStart, PeriodEnd).
// TotalTasks counts every task created before PeriodEnd.
type StatsSummary struct {
	Period         StatsPeriod
	TotalTasks     int
	CompletedTasks int
	CompletionRate float64 // CompletedTasks / TotalTasks, 0 when there are no tasks
	PeriodStart    time.Time
	PeriodEnd      time.Time // exclusive
}

// DailyTrend counts tasks completed and created on one calendar day.
type DailyTrend struct {
	Date      time.Time // midnight UTC
	Completed int
	Created   int
}

// DayCount is a per-day aggregate row produced by the store.
type DayCount struct {
	Day   string // YYYY-MM-DD
	Count int
}

// Bounds returns the half-open window [start, end) of the period that contains
// reference, evaluated in UTC. Weeks start on Monday.
func (p StatsPeriod) Bounds(reference time.Time) (start, end time.Time) {
	ref := reference.UTC()
	y, m, d := ref.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	switch p {
	case StatsPeriodWeek:
		sinceMonday := (int(today.Weekday()) + 6) % 7
		start = today.AddDate(0, 0, -sinceMonday)
		return start, start.AddDate(0, 0, 7)
	case StatsPeriodMonth:
		start = time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	default:
		return today, today.AddDate(0, 0, 1)
	}
}

// NewStatsSummary computes the completion rate for the given counts.
func NewStatsSummary(period StatsPeriod, start, end time.Time, total, completed int) *StatsSummary {
	var rate float64
	if total > 0 {
		rate = float64(completed) / float64(total)
	}
	return &StatsSummary{
		Period:         period,
		TotalTasks:     total,
		CompletedTasks: completed,
		CompletionRate: rate,
		PeriodStart:    start,
		PeriodEnd:      end,
	}
}

// TrendWindow returns the first day and the exclusive end of a trend of the
// given number of days ending on the calendar day of reference (UTC).
func TrendWindow(days int, reference time.Time) (start, end time.Time) {
	ref := reference.UTC()
	y, m, d := ref.Date()
	end = time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return end.AddDate(0, 0, -days), end
}

// BuildDailyTrend fills one entry per day of the window, oldest first, using
// the per-day counts returned by the store. Missing days count as zero.
func BuildDailyTrend(start time.Time, days int, completed, created []DayCount) []DailyTrend {
	completedByDay := indexDayCounts(completed)
	createdByDay := indexDayCounts(created)

	trend := make([]DailyTrend, 0, days)
	for i := range days {
		day := start.AddDate(0, 0, i)
		key := day.Format("2006-01-02")
		trend = append(trend, DailyTrend{
			Date:      day,
			Completed: completedByDay[key],
			Created:   createdByDay[key],
		})
	}
	return trend
}

func indexDayCounts(rows []DayCount) map[string]int {
	m := make(map[string]int, len(rows))
	for _, r := range rows {
		m[r.Day] += r.Count
	}
	return m
}
