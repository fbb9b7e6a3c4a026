package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/rezkam/cadence/internal/domain"
)

// === Statistics ===
//
// Window bounds are compared as fixed-width timestamp text, and SUBSTR(x, 1, 10)
// of a stored instant is its UTC calendar day.

// CountCompletedBetween counts completed tasks with completed_at in [start, end).
func (s *Store) CountCompletedBetween(ctx context.Context, start, end time.Time) (int, error) {
	var n int
	err := s.queryRow(ctx, `
		SELECT COUNT(*) FROM tasks
		WHERE status = ? AND completed_at >= ? AND completed_at < ?`,
		string(domain.TaskStatusCompleted), timeToDB(start), timeToDB(end)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed tasks: %w", err)
	}
	return n, nil
}

// CountCreatedBefore counts tasks created before end.
func (s *Store) CountCreatedBefore(ctx context.Context, end time.Time) (int, error) {
	var n int
	if err := s.queryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE created_at < ?`, timeToDB(end)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count created tasks: %w", err)
	}
	return n, nil
}

// CompletedPerDay groups completed tasks by the UTC day of completed_at.
func (s *Store) CompletedPerDay(ctx context.Context, start, end time.Time) ([]domain.DayCount, error) {
	return s.countPerDay(ctx, `
		SELECT SUBSTR(completed_at, 1, 10) AS day, COUNT(*)
		FROM tasks
		WHERE status = ? AND completed_at >= ? AND completed_at < ?
		GROUP BY SUBSTR(completed_at, 1, 10)
		ORDER BY day`,
		string(domain.TaskStatusCompleted), timeToDB(start), timeToDB(end))
}

// CreatedPerDay groups tasks by the UTC day of created_at.
func (s *Store) CreatedPerDay(ctx context.Context, start, end time.Time) ([]domain.DayCount, error) {
	return s.countPerDay(ctx, `
		SELECT SUBSTR(created_at, 1, 10) AS day, COUNT(*)
		FROM tasks
		WHERE created_at >= ? AND created_at < ?
		GROUP BY SUBSTR(created_at, 1, 10)
		ORDER BY day`,
		timeToDB(start), timeToDB(end))
}

func (s *Store) countPerDay(ctx context.Context, query string, args ...any) ([]domain.DayCount, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to group tasks by day: %w", err)
	}
	defer rows.Close()

	var counts []domain.DayCount
	for rows.Next() {
		var dc domain.DayCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan day count: %w", err)
		}
		counts = append(counts, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate day counts: %w", err)
	}
	return counts, nil
}
