package todo

import (
	"context"
	"time"

	"github.com/rezkam/cadence/internal/domain"
)

// Repository defines storage operations for the task store.
// Implementations translate storage errors into domain errors.
type Repository interface {
	// === Task Operations ===

	// CreateTask inserts a new task. The caller assigns ID and SortOrder.
	// Returns domain.ErrCategoryNotFound if the category doesn't exist.
	CreateTask(ctx context.Context, task *domain.Task) error

	// FindTaskByID retrieves a task with its sub-tasks (ordered by sort order) and tags.
	// Returns domain.ErrTaskNotFound if the task doesn't exist.
	FindTaskByID(ctx context.Context, id string) (*domain.Task, error)

	// FindTasks lists tasks with filtering, sorting, and pagination.
	// Sub-tasks and tags are not loaded.
	FindTasks(ctx context.Context, params domain.ListTasksParams) (*domain.PagedResult, error)

	// UpdateTask overwrites every column of an existing task.
	// Returns domain.ErrTaskNotFound if the task doesn't exist.
	// Returns domain.ErrCategoryNotFound if the category doesn't exist.
	UpdateTask(ctx context.Context, task *domain.Task) error

	// DeleteTask deletes a task together with its sub-tasks and tag links.
	// Returns domain.ErrTaskNotFound if the task doesn't exist.
	DeleteTask(ctx context.Context, id string) error

	// SetTaskSortOrder updates the manual position of a task.
	// Returns domain.ErrTaskNotFound if the task doesn't exist.
	SetTaskSortOrder(ctx context.Context, id string, sortOrder int, updatedAt time.Time) error

	// NextTaskSortOrder returns max(sort_order)+1 over all tasks, or 0 when there are none.
	NextTaskSortOrder(ctx context.Context) (int, error)

	// CountTasks counts tasks, optionally restricted to one status.
	CountTasks(ctx context.Context, status *domain.TaskStatus) (int, error)

	// === Sub-task Operations ===

	// CreateSubTask inserts a sub-task.
	// Returns domain.ErrTaskNotFound if the parent task doesn't exist.
	CreateSubTask(ctx context.Context, subTask *domain.SubTask) error

	// FindSubTaskByID returns domain.ErrSubTaskNotFound if the sub-task doesn't exist.
	FindSubTaskByID(ctx context.Context, id string) (*domain.SubTask, error)

	// FindSubTasks lists the sub-tasks of a task ordered by sort order.
	FindSubTasks(ctx context.Context, taskID string) ([]*domain.SubTask, error)

	// UpdateSubTask overwrites every column of an existing sub-task.
	UpdateSubTask(ctx context.Context, subTask *domain.SubTask) error

	// DeleteSubTask returns domain.ErrSubTaskNotFound if the sub-task doesn't exist.
	DeleteSubTask(ctx context.Context, id string) error

	// NextSubTaskSortOrder returns max(sort_order)+1 within a task, or 0.
	NextSubTaskSortOrder(ctx context.Context, taskID string) (int, error)

	// === Category Operations ===

	// CreateCategory returns domain.ErrDuplicateName if the name is taken.
	CreateCategory(ctx context.Context, category *domain.Category) error

	// FindCategoryByID returns domain.ErrCategoryNotFound if the category doesn't exist.
	FindCategoryByID(ctx context.Context, id string) (*domain.Category, error)

	// FindCategories lists all categories ordered by sort order, then name.
	FindCategories(ctx context.Context) ([]*domain.Category, error)

	// UpdateCategory overwrites every column of an existing category.
	// Returns domain.ErrDuplicateName if the new name is taken.
	UpdateCategory(ctx context.Context, category *domain.Category) error

	// DeleteCategory deletes a category. Tasks in it keep existing without a category.
	DeleteCategory(ctx context.Context, id string) error

	// NextCategorySortOrder returns max(sort_order)+1 over all categories, or 0.
	NextCategorySortOrder(ctx context.Context) (int, error)

	// === Tag Operations ===

	// CreateTag returns domain.ErrDuplicateName if the name is taken.
	CreateTag(ctx context.Context, tag *domain.Tag) error

	// FindTagByID returns domain.ErrTagNotFound if the tag doesn't exist.
	FindTagByID(ctx context.Context, id string) (*domain.Tag, error)

	// FindTags lists all tags ordered by name.
	FindTags(ctx context.Context) ([]*domain.Tag, error)

	// UpdateTag overwrites every column of an existing tag.
	UpdateTag(ctx context.Context, tag *domain.Tag) error

	// DeleteTag deletes a tag and its task links.
	DeleteTag(ctx context.Context, id string) error

	// ReplaceTaskTags makes tagIDs the exact tag set of a task.
	// Returns domain.ErrTagNotFound if any tag doesn't exist.
	ReplaceTaskTags(ctx context.Context, taskID string, tagIDs []string) error

	// AddTaskTag links a tag to a task. Linking twice is a no-op.
	AddTaskTag(ctx context.Context, taskID, tagID string) error

	// RemoveTaskTag unlinks a tag from a task. Removing a missing link is a no-op.
	RemoveTaskTag(ctx context.Context, taskID, tagID string) error

	// === Statistics ===

	// CountCompletedBetween counts completed tasks with completed_at in [start, end).
	CountCompletedBetween(ctx context.Context, start, end time.Time) (int, error)

	// CountCreatedBefore counts tasks with created_at before end.
	CountCreatedBefore(ctx context.Context, end time.Time) (int, error)

	// CompletedPerDay groups completed tasks by UTC calendar day of completed_at in [start, end).
	CompletedPerDay(ctx context.Context, start, end time.Time) ([]domain.DayCount, error)

	// CreatedPerDay groups tasks by UTC calendar day of created_at in [start, end).
	CreatedPerDay(ctx context.Context, start, end time.Time) ([]domain.DayCount, error)

	// === Transactions ===

	// Atomic executes fn within a database transaction.
	// All operations inside the callback succeed together or fail together.
	Atomic(ctx context.Context, fn func(repo Repository) error) error
}
