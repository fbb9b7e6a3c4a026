package recurrence

import "fmt"

// IsValid reports whether rule is internally consistent.
// It never panics and has no side effects.
func IsValid(rule Rule) bool {
	return Validate(rule) == nil
}

// Validate returns a *RuleError describing the first violated constraint,
// or nil when the rule may be persisted and evaluated.
//
// The interval check applies to every type. Interval has no upper bound.
func Validate(rule Rule) error {
	if rule.Interval < 1 {
		return &RuleError{Field: "interval", Issue: fmt.Sprintf("must be at least 1, got %d", rule.Interval)}
	}

	switch rule.Type {
	case Daily, Custom:
		return nil

	case Weekly:
		if rule.DaysOfWeek == nil {
			return nil
		}
		if len(rule.DaysOfWeek) == 0 {
			return &RuleError{Field: "daysOfWeek", Issue: "must not be empty when present"}
		}
		for _, day := range rule.DaysOfWeek {
			if day < MinWeekday || day > MaxWeekday {
				return &RuleError{Field: "daysOfWeek", Issue: fmt.Sprintf("day %d out of range [%d,%d]", day, MinWeekday, MaxWeekday)}
			}
		}
		return nil

	case Monthly:
		if rule.DayOfMonth == nil {
			return nil
		}
		if d := *rule.DayOfMonth; d < MinDayOfMonth || d > MaxDayOfMonth {
			return &RuleError{Field: "dayOfMonth", Issue: fmt.Sprintf("%d out of range [%d,%d]", d, MinDayOfMonth, MaxDayOfMonth)}
		}
		return nil

	default:
		return &RuleError{Field: "type", Issue: fmt.Sprintf("unknown recurrence type %q", rule.Type)}
	}
}
