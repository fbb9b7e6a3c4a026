package domain

// TaskStatus represents the current state of a task.
// Value object - immutable string enum.
type TaskStatus string

const (
	TaskStatusTodo      TaskStatus = "todo"
	TaskStatusCompleted TaskStatus = "completed"
)

// Priority represents the priority level of a task or sub-task.
// Value object - immutable string enum.
type Priority string

const (
	PriorityNone   Priority = "none"
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// StatsPeriod selects the calendar window for completion statistics.
type StatsPeriod string

const (
	StatsPeriodDay   StatsPeriod = "day"
	StatsPeriodWeek  StatsPeriod = "week"
	StatsPeriodMonth StatsPeriod = "month"
)

// Task list ordering.
const (
	OrderBySortOrder = "sort_order"
	OrderByDueDate   = "due_date"
	OrderByPriority  = "priority"
	OrderByCreatedAt = "created_at"

	OrderAsc  = "asc"
	OrderDesc = "desc"

	DefaultOrderBy  = OrderBySortOrder
	DefaultOrderDir = OrderAsc
)
