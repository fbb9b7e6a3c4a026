package todo

import (
	"context"
	"fmt"
	"time"

	"github.com/rezkam/cadence/internal/domain"
)

// GetStats reports completion for the day, week (Monday start) or month
// containing reference. A zero reference means now.
func (s *Service) GetStats(ctx context.Context, period string, reference time.Time) (*domain.StatsSummary, error) {
	p, err := domain.NewStatsPeriod(period)
	if err != nil {
		return nil, err
	}
	if reference.IsZero() {
		reference = s.now()
	}

	start, end := p.Bounds(reference)

	completed, err := s.repo.CountCompletedBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed tasks: %w", err)
	}
	total, err := s.repo.CountCreatedBefore(ctx, end)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	return domain.NewStatsSummary(p, start, end, total, completed), nil
}

// GetDailyTrend returns one entry per day for the given number of days ending
// on the day of reference, oldest first. Non-positive days select the default
// window; larger windows are capped.
func (s *Service) GetDailyTrend(ctx context.Context, days int, reference time.Time) ([]domain.DailyTrend, error) {
	if days <= 0 {
		days = domain.DefaultTrendDays
	}
	days = min(days, domain.MaxTrendDays)
	if reference.IsZero() {
		reference = s.now()
	}

	start, end := domain.TrendWindow(days, reference)

	completed, err := s.repo.CompletedPerDay(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to group completed tasks: %w", err)
	}
	created, err := s.repo.CreatedPerDay(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to group created tasks: %w", err)
	}

	return domain.BuildDailyTrend(start, days, completed, created), nil
}
