// Package recurrence computes the next occurrence of a recurring task.
//
// The package is a leaf: it has no storage, clock or logging dependencies.
// Every function is pure and safe for concurrent use. Callers always pass
// the reference date explicitly; nothing in here reads time.Now.
package recurrence

import (
	"errors"
	"fmt"
	"time"
)

// RuleType is the unit family of a recurrence rule.
type RuleType string

const (
	Daily   RuleType = "daily"
	Weekly  RuleType = "weekly"
	Monthly RuleType = "monthly"

	// Custom currently advances by Interval days, exactly like Daily.
	Custom RuleType = "custom"
)

// Bounds for the optional calendar selectors.
const (
	MinWeekday    = 0 // Sunday
	MaxWeekday    = 6 // Saturday
	MinDayOfMonth = 1
	MaxDayOfMonth = 31
)

var (
	// ErrInvalidRule is wrapped by every RuleError returned from Validate.
	ErrInvalidRule = errors.New("invalid recurrence rule")

	// ErrMalformedRule indicates the text encoding of a rule could not be parsed.
	ErrMalformedRule = errors.New("malformed recurrence rule")
)

// Rule describes how often a task repeats.
//
// Rule is a value type. It is serialized alongside the task it belongs to and
// decoded again before each evaluation; it is never modified in place.
type Rule struct {
	Type     RuleType
	Interval int

	// DaysOfWeek is only meaningful for Weekly rules (0 = Sunday ... 6 = Saturday).
	// nil means "not specified". A non-nil empty slice is kept as is so the
	// validator can reject it.
	DaysOfWeek []int

	// DayOfMonth is only meaningful for Monthly rules. Months shorter than the
	// requested day are clamped to their last day.
	DayOfMonth *int

	// EndDate is a calendar date (midnight UTC). Occurrences falling on a later
	// calendar day are not generated.
	EndDate *time.Time
}

// RuleError reports the first constraint a rule violates.
type RuleError struct {
	Field string
	Issue string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidRule, e.Field, e.Issue)
}

func (e *RuleError) Unwrap() error {
	return ErrInvalidRule
}

func (t RuleType) String() string {
	return string(t)
}
