package sqlstore

import (
	"context"
	"fmt"

	"github.com/rezkam/cadence/internal/domain"
)

// === Sub-task Operations ===

// CreateSubTask inserts a sub-task. The parent task must exist.
func (s *Store) CreateSubTask(ctx context.Context, subTask *domain.SubTask) error {
	_, err := s.exec(ctx, `
		INSERT INTO sub_tasks (`+subTaskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		subTask.ID,
		subTask.TaskID,
		subTask.Title,
		stringPtrToDB(subTask.Description),
		string(subTask.Priority),
		datePtrToDB(subTask.DueDate),
		subTask.Completed,
		subTask.SortOrder,
		timeToDB(subTask.CreatedAt),
	)
	if err != nil {
		if classifyConstraint(err) == constraintForeignKey {
			return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, subTask.TaskID)
		}
		return fmt.Errorf("failed to create sub-task: %w", err)
	}
	return nil
}

// FindSubTaskByID retrieves one sub-task.
func (s *Store) FindSubTaskByID(ctx context.Context, id string) (*domain.SubTask, error) {
	st, err := scanSubTask(s.queryRow(ctx, `SELECT `+subTaskColumns+` FROM sub_tasks WHERE id = ?`, id))
	if err != nil {
		return nil, notFoundOr(err, domain.ErrSubTaskNotFound, id, "get sub-task")
	}
	return st, nil
}

// FindSubTasks lists the sub-tasks of a task ordered by sort order.
func (s *Store) FindSubTasks(ctx context.Context, taskID string) ([]*domain.SubTask, error) {
	rows, err := s.query(ctx, `
		SELECT `+subTaskColumns+` FROM sub_tasks
		WHERE task_id = ?
		ORDER BY sort_order ASC, created_at ASC, id ASC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find sub-tasks: %w", err)
	}
	defer rows.Close()

	subTasks := []*domain.SubTask{}
	for rows.Next() {
		st, err := scanSubTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sub-task: %w", err)
		}
		subTasks = append(subTasks, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sub-tasks: %w", err)
	}
	return subTasks, nil
}

// UpdateSubTask overwrites every mutable column of a sub-task.
func (s *Store) UpdateSubTask(ctx context.Context, subTask *domain.SubTask) error {
	result, err := s.exec(ctx, `
		UPDATE sub_tasks SET title = ?, description = ?, priority = ?, due_date = ?,
			completed = ?, sort_order = ?
		WHERE id = ?`,
		subTask.Title,
		stringPtrToDB(subTask.Description),
		string(subTask.Priority),
		datePtrToDB(subTask.DueDate),
		subTask.Completed,
		subTask.SortOrder,
		subTask.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update sub-task: %w", err)
	}
	return checkRowsAffected(result, domain.ErrSubTaskNotFound, subTask.ID)
}

// DeleteSubTask deletes one sub-task.
func (s *Store) DeleteSubTask(ctx context.Context, id string) error {
	result, err := s.exec(ctx, `DELETE FROM sub_tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sub-task: %w", err)
	}
	return checkRowsAffected(result, domain.ErrSubTaskNotFound, id)
}

// NextSubTaskSortOrder returns max(sort_order)+1 within a task.
func (s *Store) NextSubTaskSortOrder(ctx context.Context, taskID string) (int, error) {
	var next int
	err := s.queryRow(ctx, `SELECT COALESCE(MAX(sort_order), -1) + 1 FROM sub_tasks WHERE task_id = ?`, taskID).
		Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to compute sub-task sort order: %w", err)
	}
	return next, nil
}
