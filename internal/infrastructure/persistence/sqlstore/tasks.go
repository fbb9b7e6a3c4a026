package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rezkam/cadence/internal/domain"
	"github.com/rezkam/cadence/internal/ptr"
)

// orderColumns maps validated order_by values to SQL expressions.
var orderColumns = map[string]string{
	domain.OrderBySortOrder: "t.sort_order",
	domain.OrderByDueDate:   "t.due_date",
	domain.OrderByPriority:  "CASE t.priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 WHEN 'low' THEN 1 ELSE 0 END",
	domain.OrderByCreatedAt: "t.created_at",
}

// === Task Operations ===

// CreateTask inserts a new task.
func (s *Store) CreateTask(ctx context.Context, task *domain.Task) error {
	args, err := domainTaskToDB(task)
	if err != nil {
		return fmt.Errorf("failed to convert task: %w", err)
	}

	_, err = s.exec(ctx, `
		INSERT INTO tasks (id, title, description, status, priority, category_id,
			due_date, reminder_time, recurrence_rule, completed_at, sort_order,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		if classifyConstraint(err) == constraintForeignKey {
			return fmt.Errorf("%w: %s", domain.ErrCategoryNotFound, ptr.ToString(task.CategoryID))
		}
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindTaskByID retrieves a task with its sub-tasks and tags.
func (s *Store) FindTaskByID(ctx context.Context, id string) (*domain.Task, error) {
	task, err := scanTask(s.queryRow(ctx, `SELECT `+taskColumns+` FROM tasks t WHERE t.id = ?`, id))
	if err != nil {
		return nil, notFoundOr(err, domain.ErrTaskNotFound, id, "get task")
	}

	if task.SubTasks, err = s.FindSubTasks(ctx, id); err != nil {
		return nil, err
	}
	if task.Tags, err = s.findTagsOfTask(ctx, id); err != nil {
		return nil, err
	}
	return task, nil
}

// FindTasks lists tasks with filtering, sorting, and pagination.
func (s *Store) FindTasks(ctx context.Context, params domain.ListTasksParams) (*domain.PagedResult, error) {
	where, args := taskFilter(params)

	var total int
	if err := s.queryRow(ctx, `SELECT COUNT(*) FROM tasks t`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	orderBy := params.OrderBy
	if orderBy == "" {
		orderBy = domain.DefaultOrderBy
	}
	column, ok := orderColumns[orderBy]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidOrderBy, orderBy)
	}
	dir := "ASC"
	if params.OrderDir == domain.OrderDesc {
		dir = "DESC"
	}

	query := `SELECT ` + taskColumns + ` FROM tasks t` + where +
		fmt.Sprintf(` ORDER BY %s %s NULLS LAST, t.sort_order ASC, t.id ASC LIMIT ? OFFSET ?`, column, dir)

	rows, err := s.query(ctx, query, append(args, params.Limit, params.Offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*domain.Task, 0, params.Limit)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return &domain.PagedResult{
		Tasks:      tasks,
		TotalCount: total,
		HasMore:    params.Offset+len(tasks) < total,
	}, nil
}

func taskFilter(params domain.ListTasksParams) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if params.Status != nil {
		conds = append(conds, "t.status = ?")
		args = append(args, string(*params.Status))
	}
	if params.Priority != nil {
		conds = append(conds, "t.priority = ?")
		args = append(args, string(*params.Priority))
	}
	if params.CategoryID != nil {
		conds = append(conds, "t.category_id = ?")
		args = append(args, *params.CategoryID)
	}
	if params.TagID != nil {
		conds = append(conds, "EXISTS (SELECT 1 FROM task_tags tt WHERE tt.task_id = t.id AND tt.tag_id = ?)")
		args = append(args, *params.TagID)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// UpdateTask overwrites every column of an existing task.
func (s *Store) UpdateTask(ctx context.Context, task *domain.Task) error {
	cols, err := domainTaskToDB(task)
	if err != nil {
		return fmt.Errorf("failed to convert task: %w", err)
	}

	// Columns follow taskColumns: id first, created_at is never rewritten.
	id, createdAt, updatedAt := cols[0], len(cols)-2, cols[len(cols)-1]
	args := append(append([]any{}, cols[1:createdAt]...), updatedAt, id)
	result, err := s.exec(ctx, `
		UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?, category_id = ?,
			due_date = ?, reminder_time = ?, recurrence_rule = ?, completed_at = ?, sort_order = ?,
			updated_at = ?
		WHERE id = ?`, args...)
	if err != nil {
		if classifyConstraint(err) == constraintForeignKey {
			return fmt.Errorf("%w: %s", domain.ErrCategoryNotFound, ptr.ToString(task.CategoryID))
		}
		return fmt.Errorf("failed to update task: %w", err)
	}
	return checkRowsAffected(result, domain.ErrTaskNotFound, task.ID)
}

// DeleteTask deletes a task. Sub-tasks and tag links cascade.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	result, err := s.exec(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return checkRowsAffected(result, domain.ErrTaskNotFound, id)
}

// SetTaskSortOrder updates the manual position of a task.
func (s *Store) SetTaskSortOrder(ctx context.Context, id string, sortOrder int, updatedAt time.Time) error {
	result, err := s.exec(ctx, `UPDATE tasks SET sort_order = ?, updated_at = ? WHERE id = ?`,
		sortOrder, timeToDB(updatedAt), id)
	if err != nil {
		return fmt.Errorf("failed to reorder task: %w", err)
	}
	return checkRowsAffected(result, domain.ErrTaskNotFound, id)
}

// NextTaskSortOrder returns max(sort_order)+1 over all tasks.
func (s *Store) NextTaskSortOrder(ctx context.Context) (int, error) {
	var next int
	if err := s.queryRow(ctx, `SELECT COALESCE(MAX(sort_order), -1) + 1 FROM tasks`).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to compute task sort order: %w", err)
	}
	return next, nil
}

// CountTasks counts tasks, optionally restricted to one status.
func (s *Store) CountTasks(ctx context.Context, status *domain.TaskStatus) (int, error) {
	query := `SELECT COUNT(*) FROM tasks`
	var args []any
	if status != nil {
		query += ` WHERE status = ?`
		args = append(args, string(*status))
	}

	var n int
	if err := s.queryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return n, nil
}
