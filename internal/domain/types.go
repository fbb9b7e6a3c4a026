package domain

import (
	"time"

	"github.com/rezkam/cadence/internal/recurrence"
)

// ListTasksParams contains parameters for listing tasks with filtering, sorting, and pagination.
//
// Common use cases:
//   - "Open tasks by due date": Status=todo, OrderBy="due_date"
//   - "Tasks in category X": CategoryID=X, default ordering
//   - "Everything tagged urgent": TagID=<urgent tag id>
//   - Paginated listing: Limit=50, Offset=100 for page 3
type ListTasksParams struct {
	// Optional filters (nil = no filter applied)
	Status     *TaskStatus
	Priority   *Priority
	CategoryID *string
	TagID      *string

	// Sorting (empty uses defaults: sort_order field, asc direction)
	OrderBy  string // Supported: "sort_order", "due_date", "priority", "created_at"
	OrderDir string // "asc" or "desc"

	// Pagination
	Limit  int
	Offset int
}

// PagedResult contains tasks matching the query parameters.
type PagedResult struct {
	Tasks      []*Task
	TotalCount int  // Total matching tasks across all pages
	HasMore    bool // Whether there are more pages
}

// CreateTaskInput carries the raw fields of a new task before validation.
type CreateTaskInput struct {
	Title        string
	Description  *string
	Priority     string
	CategoryID   *string
	DueDate      *string // YYYY-MM-DD
	ReminderTime *time.Time
	Recurrence   *recurrence.Rule
}

// CreateSubTaskInput carries the raw fields of a new sub-task.
type CreateSubTaskInput struct {
	Title       string
	Description *string
	Priority    string
	DueDate     *string
	SortOrder   *int // nil = append after the last sub-task
}

// TaskOrder assigns a manual sort position to a task.
type TaskOrder struct {
	ID        string
	SortOrder int
}

// CompletionResult is the outcome of completing a task.
// Next is set when the task recurs and its rule has not ended.
type CompletionResult struct {
	Completed *Task
	Next      *Task
}
