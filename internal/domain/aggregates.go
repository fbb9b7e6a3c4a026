package domain

import (
	"fmt"
	"time"

	"github.com/rezkam/cadence/internal/ptr"
	"github.com/rezkam/cadence/internal/recurrence"
)

// Task is the aggregate root of the task store.
//
// Sub-tasks and tags are loaded together with the task when it is fetched by ID.
// List queries leave them empty.
type Task struct {
	ID          string
	Title       string
	Description *string

	Status   TaskStatus
	Priority Priority

	CategoryID *string // Nulled when the category is deleted

	// DueDate is a calendar date stored as midnight UTC.
	DueDate      *time.Time
	ReminderTime *time.Time

	// Recurrence is nil for one-off tasks. A non-nil rule has passed
	// recurrence.Validate before it was persisted.
	Recurrence *recurrence.Rule

	CompletedAt *time.Time
	SortOrder   int

	CreatedAt time.Time
	UpdatedAt time.Time

	SubTasks []*SubTask
	Tags     []*Tag
}

// IsRecurring reports whether completing the task may create a successor.
func (t *Task) IsRecurring() bool {
	return t.Recurrence != nil
}

// Complete marks the task completed at now. Completing an already completed
// task refreshes CompletedAt.
func (t *Task) Complete(now time.Time) {
	t.Status = TaskStatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
}

// Reopen moves the task back to todo and clears CompletedAt.
func (t *Task) Reopen(now time.Time) {
	t.Status = TaskStatusTodo
	t.CompletedAt = nil
	t.UpdatedAt = now
}

// RecurrenceAnchor is the date the next occurrence is computed from:
// the due date when set, otherwise the calendar date of now in UTC.
func (t *Task) RecurrenceAnchor(now time.Time) time.Time {
	if t.DueDate != nil {
		return *t.DueDate
	}
	return recurrence.DateOf(now.UTC())
}

// Successor builds the next instance of a recurring task that was completed at now.
// It returns false when the task does not recur or its rule has ended.
//
// The successor copies the title, description, priority, category and rule.
// Its due date is the next occurrence and the reminder keeps the same offset
// from the due date as on the original. Sub-tasks and tags are not copied.
// SortOrder is left for the store to assign.
func (t *Task) Successor(id string, now time.Time) (*Task, bool) {
	if t.Recurrence == nil {
		return nil, false
	}

	anchor := t.RecurrenceAnchor(now)
	next, ok := recurrence.Successor(*t.Recurrence, anchor).Get()
	if !ok {
		return nil, false
	}

	due := recurrence.DateOf(next)
	successor := &Task{
		ID:          id,
		Title:       t.Title,
		Description: ptr.Clone(t.Description),
		Status:      TaskStatusTodo,
		Priority:    t.Priority,
		CategoryID:  ptr.Clone(t.CategoryID),
		DueDate:     &due,
		Recurrence:  cloneRule(t.Recurrence),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if t.ReminderTime != nil {
		shift := daysBetween(recurrence.DateOf(anchor), due)
		reminder := t.ReminderTime.AddDate(0, 0, shift)
		successor.ReminderTime = &reminder
	}

	return successor, true
}

// SubTask is an entity owned by a Task. Deleting the task deletes its sub-tasks.
type SubTask struct {
	ID          string
	TaskID      string
	Title       string
	Description *string
	Priority    Priority
	DueDate     *time.Time
	Completed   bool
	SortOrder   int
	CreatedAt   time.Time
}

// Category groups tasks. Names are unique.
type Category struct {
	ID        string
	Name      string
	Color     *string
	SortOrder int
	CreatedAt time.Time
}

// Tag labels tasks through a many-to-many association. Names are unique.
type Tag struct {
	ID        string
	Name      string
	Color     *string
	CreatedAt time.Time
}

// CheckDateRange returns ErrInvalidDate when the due date or reminder falls
// outside years 0000-9999, the range the YYYY-MM-DD and RFC 3339 forms can hold.
func (t *Task) CheckDateRange() error {
	if t.DueDate != nil && !inDateRange(*t.DueDate) {
		return fmt.Errorf("%w: due date year %d is outside 0000-9999", ErrInvalidDate, t.DueDate.Year())
	}
	if t.ReminderTime != nil && !inDateRange(*t.ReminderTime) {
		return fmt.Errorf("%w: reminder year %d is outside 0000-9999", ErrInvalidDate, t.ReminderTime.Year())
	}
	return nil
}

func inDateRange(t time.Time) bool {
	y := t.UTC().Year()
	return y >= 0 && y <= 9999
}

// daysBetween counts calendar days from the date of from to the date of to.
// time.Duration tops out near 292 years, so the count works on Unix seconds.
func daysBetween(from, to time.Time) int {
	return int((recurrence.DateOf(to).Unix() - recurrence.DateOf(from).Unix()) / 86400)
}

func cloneRule(r *recurrence.Rule) *recurrence.Rule {
	if r == nil {
		return nil
	}
	c := *r
	if r.DaysOfWeek != nil {
		c.DaysOfWeek = append([]int{}, r.DaysOfWeek...)
	}
	c.DayOfMonth = ptr.Clone(r.DayOfMonth)
	c.EndDate = ptr.Clone(r.EndDate)
	return &c
}
