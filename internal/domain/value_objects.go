package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rezkam/cadence/internal/ptr"
	"github.com/rezkam/cadence/internal/recurrence"
)

const (
	maxTitleLength = 255
	maxNameLength  = 100
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Title is a validated title value object (1-255 characters).
type Title struct {
	value string
}

// NewTitle creates a new Title, validating the input.
func NewTitle(s string) (Title, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return Title{}, ErrTitleRequired
	}

	if utf8.RuneCountInString(s) > maxTitleLength {
		return Title{}, ErrTitleTooLong
	}

	return Title{value: s}, nil
}

// String returns the title value.
func (t Title) String() string {
	return t.value
}

// Name is a validated category or tag name (1-100 characters).
type Name struct {
	value string
}

// NewName creates a new Name, validating the input.
func NewName(s string) (Name, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return Name{}, ErrNameRequired
	}
	if utf8.RuneCountInString(s) > maxNameLength {
		return Name{}, ErrNameTooLong
	}

	return Name{value: s}, nil
}

// String returns the name value.
func (n Name) String() string {
	return n.value
}

// NewColor validates a "#RRGGBB" color and normalizes it to upper case.
func NewColor(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !colorPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q, expected #RRGGBB", ErrInvalidColor, s)
	}
	return strings.ToUpper(s), nil
}

// NewTaskStatus validates and creates a TaskStatus.
func NewTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(strings.ToLower(strings.TrimSpace(s)))

	switch status {
	case TaskStatusTodo, TaskStatusCompleted:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidTaskStatus, s)
	}
}

// NewPriority validates and creates a Priority.
// Empty input yields PriorityNone.
func NewPriority(s string) (Priority, error) {
	if strings.TrimSpace(s) == "" {
		return PriorityNone, nil
	}

	priority := Priority(strings.ToLower(strings.TrimSpace(s)))

	switch priority {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return priority, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidPriority, s)
	}
}

// Rank orders priorities from none (0) to high (3).
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	default:
		return 0
	}
}

// NewStatsPeriod validates and creates a StatsPeriod.
func NewStatsPeriod(s string) (StatsPeriod, error) {
	period := StatsPeriod(strings.ToLower(strings.TrimSpace(s)))

	switch period {
	case StatsPeriodDay, StatsPeriodWeek, StatsPeriodMonth:
		return period, nil
	default:
		return "", fmt.Errorf("%w: %s (use day, week or month)", ErrInvalidStatsPeriod, s)
	}
}

// NewDueDate parses a calendar date in YYYY-MM-DD form.
func NewDueDate(s string) (time.Time, error) {
	t, err := time.Parse(recurrence.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q, expected YYYY-MM-DD", ErrInvalidDate, s)
	}
	return t, nil
}

// NewRecurrenceRule validates a rule before it is attached to a task.
// The returned error wraps both ErrInvalidRecurrenceRule and the
// *recurrence.RuleError describing the violated constraint.
//
// The returned rule carries EndDate as midnight UTC of its calendar date, the
// form it takes after a trip through storage.
func NewRecurrenceRule(rule recurrence.Rule) (recurrence.Rule, error) {
	if err := recurrence.Validate(rule); err != nil {
		return recurrence.Rule{}, fmt.Errorf("%w: %w", ErrInvalidRecurrenceRule, err)
	}
	if rule.EndDate != nil {
		rule.EndDate = ptr.To(recurrence.DateOf(*rule.EndDate))
	}
	return rule, nil
}

// NewSortDirection validates an order direction, defaulting to ascending.
func NewSortDirection(s string) (string, error) {
	switch dir := strings.ToLower(strings.TrimSpace(s)); dir {
	case "":
		return DefaultOrderDir, nil
	case OrderAsc, OrderDesc:
		return dir, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidOrderDir, s)
	}
}

// NewTaskOrderBy validates a task ordering field, defaulting to sort_order.
func NewTaskOrderBy(s string) (string, error) {
	switch field := strings.ToLower(strings.TrimSpace(s)); field {
	case "":
		return DefaultOrderBy, nil
	case OrderBySortOrder, OrderByDueDate, OrderByPriority, OrderByCreatedAt:
		return field, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidOrderBy, s)
	}
}
