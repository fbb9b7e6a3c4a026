package todo

import (
	"time"

	"github.com/rezkam/cadence/internal/domain"
	"github.com/rezkam/cadence/internal/recurrence"
)

// ValidateRule checks a rule without attaching it to a task.
// The error wraps domain.ErrInvalidRecurrenceRule and a *recurrence.RuleError.
func (s *Service) ValidateRule(rule recurrence.Rule) error {
	_, err := domain.NewRecurrenceRule(rule)
	return err
}

// PreviewOccurrences lists upcoming occurrences of a rule after anchor.
// A zero anchor means today (UTC). The limit is clamped to the configured maximum.
func (s *Service) PreviewOccurrences(rule recurrence.Rule, anchor time.Time, limit int) ([]time.Time, error) {
	if err := s.ValidateRule(rule); err != nil {
		return nil, err
	}

	if anchor.IsZero() {
		anchor = recurrence.DateOf(s.now())
	}
	if limit <= 0 {
		limit = DefaultPreviewOccurrences
	}
	limit = min(limit, s.config.MaxPreviewOccurrences)

	return recurrence.Upcoming(rule, anchor, limit), nil
}
