package todo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rezkam/cadence/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CompleteTask marks a task completed and, for recurring tasks, creates the
// follow-up task for the next occurrence.
//
// Both writes happen in one transaction: either the task is completed and the
// successor exists, or neither change is visible. No successor is created when
// the rule's end date has passed. Completing an already completed task runs
// the workflow again.
func (s *Service) CompleteTask(ctx context.Context, id string) (*domain.CompletionResult, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	ctx, span := s.telemetry.tracer.Start(ctx, "todo.CompleteTask",
		trace.WithAttributes(attribute.String("task.id", id)))
	defer span.End()

	now := s.now()
	result := &domain.CompletionResult{}

	err := s.repo.Atomic(ctx, func(repo Repository) error {
		task, err := repo.FindTaskByID(ctx, id)
		if err != nil {
			return err
		}

		task.Complete(now)
		if err := repo.UpdateTask(ctx, task); err != nil {
			return fmt.Errorf("failed to mark task completed: %w", err)
		}
		result.Completed = task

		if !task.IsRecurring() {
			return nil
		}

		nextID, err := newID()
		if err != nil {
			return err
		}
		next, ok := task.Successor(nextID, now)
		if !ok {
			slog.DebugContext(ctx, "recurrence ended, no successor created",
				slog.String("task_id", task.ID))
			return nil
		}
		if err := next.CheckDateRange(); err != nil {
			return fmt.Errorf("next occurrence of task %s: %w", task.ID, err)
		}

		order, err := repo.NextTaskSortOrder(ctx)
		if err != nil {
			return err
		}
		next.SortOrder = order
		next.SubTasks = []*domain.SubTask{}
		next.Tags = []*domain.Tag{}

		if err := repo.CreateTask(ctx, next); err != nil {
			return fmt.Errorf("failed to create next occurrence: %w", err)
		}
		result.Next = next
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	recurring := result.Completed.IsRecurring()
	s.telemetry.completed.Add(ctx, 1, metric.WithAttributes(attribute.Bool("recurring", recurring)))
	span.SetAttributes(attribute.Bool("task.recurring", recurring))

	if result.Next != nil {
		s.telemetry.successors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("recurrence.type", result.Next.Recurrence.Type.String())))
		span.SetAttributes(attribute.String("task.next_id", result.Next.ID))
		slog.InfoContext(ctx, "recurring task completed",
			slog.String("task_id", id),
			slog.String("next_task_id", result.Next.ID),
			slog.String("next_due_date", result.Next.DueDate.Format("2006-01-02")))
	}

	return result, nil
}

// UncompleteTask moves a completed task back to todo. A successor created when
// the task was completed is left in place.
func (s *Service) UncompleteTask(ctx context.Context, id string) (*domain.Task, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	var reopened *domain.Task
	err := s.repo.Atomic(ctx, func(repo Repository) error {
		task, err := repo.FindTaskByID(ctx, id)
		if err != nil {
			return err
		}

		task.Reopen(s.now())
		if err := repo.UpdateTask(ctx, task); err != nil {
			return err
		}
		reopened = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reopened, nil
}

// ReorderTasks assigns new manual positions to a set of tasks atomically.
func (s *Service) ReorderTasks(ctx context.Context, orders []domain.TaskOrder) error {
	for _, o := range orders {
		if err := validateID(o.ID); err != nil {
			return err
		}
	}
	if len(orders) == 0 {
		return nil
	}

	now := s.now()
	return s.repo.Atomic(ctx, func(repo Repository) error {
		for _, o := range orders {
			if err := repo.SetTaskSortOrder(ctx, o.ID, o.SortOrder, now); err != nil {
				return fmt.Errorf("failed to reorder task %s: %w", o.ID, err)
			}
		}
		return nil
	})
}
