package todo

import (
	"context"
	"fmt"

	"github.com/rezkam/cadence/internal/domain"
	"github.com/rezkam/cadence/internal/ptr"
)

// CreateSubTask adds a sub-task to an existing task.
// Without an explicit sort order the sub-task is appended after the last one.
func (s *Service) CreateSubTask(ctx context.Context, taskID string, input domain.CreateSubTaskInput) (*domain.SubTask, error) {
	if err := validateID(taskID); err != nil {
		return nil, err
	}

	title, err := domain.NewTitle(input.Title)
	if err != nil {
		return nil, err
	}
	priority, err := domain.NewPriority(input.Priority)
	if err != nil {
		return nil, err
	}

	subTask := &domain.SubTask{
		TaskID:      taskID,
		Title:       title.String(),
		Description: input.Description,
		Priority:    priority,
		CreatedAt:   s.now(),
	}

	if input.DueDate != nil {
		due, err := domain.NewDueDate(*input.DueDate)
		if err != nil {
			return nil, err
		}
		subTask.DueDate = &due
	}

	if subTask.ID, err = newID(); err != nil {
		return nil, err
	}

	err = s.repo.Atomic(ctx, func(repo Repository) error {
		if _, err := repo.FindTaskByID(ctx, taskID); err != nil {
			return err
		}

		if input.SortOrder != nil {
			subTask.SortOrder = *input.SortOrder
		} else {
			order, err := repo.NextSubTaskSortOrder(ctx, taskID)
			if err != nil {
				return err
			}
			subTask.SortOrder = order
		}

		return repo.CreateSubTask(ctx, subTask)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sub-task: %w", err)
	}

	return subTask, nil
}

// ListSubTasks lists the sub-tasks of a task ordered by sort order.
func (s *Service) ListSubTasks(ctx context.Context, taskID string) ([]*domain.SubTask, error) {
	if err := validateID(taskID); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindTaskByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.repo.FindSubTasks(ctx, taskID)
}

// UpdateSubTask applies a partial update to a sub-task.
func (s *Service) UpdateSubTask(ctx context.Context, params domain.UpdateSubTaskParams) (*domain.SubTask, error) {
	if err := validateID(params.SubTaskID); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	if params.Title != nil {
		title, err := domain.NewTitle(*params.Title)
		if err != nil {
			return nil, err
		}
		params.Title = ptr.To(title.String())
	}
	if params.Priority != nil {
		if _, err := domain.NewPriority(string(*params.Priority)); err != nil {
			return nil, err
		}
	}

	var updated *domain.SubTask
	err := s.repo.Atomic(ctx, func(repo Repository) error {
		subTask, err := repo.FindSubTaskByID(ctx, params.SubTaskID)
		if err != nil {
			return err
		}

		if params.Has(domain.FieldTitle) {
			subTask.Title = *params.Title
		}
		if params.Has(domain.FieldDescription) {
			subTask.Description = params.Description
		}
		if params.Has(domain.FieldPriority) {
			subTask.Priority = *params.Priority
		}
		if params.Has(domain.FieldDueDate) {
			subTask.DueDate = params.DueDate
		}
		if params.Has(domain.FieldCompleted) {
			subTask.Completed = *params.Completed
		}
		if params.Has(domain.FieldSortOrder) {
			subTask.SortOrder = *params.SortOrder
		}

		if err := repo.UpdateSubTask(ctx, subTask); err != nil {
			return err
		}
		updated = subTask
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteSubTask deletes a sub-task.
func (s *Service) DeleteSubTask(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	return s.repo.DeleteSubTask(ctx, id)
}
