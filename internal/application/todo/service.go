package todo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rezkam/cadence/internal/domain"
	"github.com/rezkam/cadence/internal/ptr"
)

// Default configuration values.
const (
	DefaultPageSize = 25
	MaxPageSize     = 100

	DefaultPreviewOccurrences = 10
	MaxPreviewOccurrences     = 100
)

// Config holds configuration for the Service.
type Config struct {
	DefaultPageSize       int
	MaxPageSize           int
	MaxPreviewOccurrences int

	// Now returns the current instant. Defaults to time.Now.
	Now func() time.Time
}

// Service provides business logic for the task store.
// It orchestrates operations using the Repository interface.
type Service struct {
	repo      Repository
	config    Config
	telemetry *telemetry
}

// NewService creates a new todo service.
// Applies application defaults for zero or invalid config values.
func NewService(repo Repository, config Config) *Service {
	if config.DefaultPageSize <= 0 {
		config.DefaultPageSize = DefaultPageSize
	}
	if config.MaxPageSize <= 0 {
		config.MaxPageSize = MaxPageSize
	}
	if config.MaxPreviewOccurrences <= 0 {
		config.MaxPreviewOccurrences = MaxPreviewOccurrences
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &Service{
		repo:      repo,
		config:    config,
		telemetry: newTelemetry(),
	}
}

func (s *Service) now() time.Time {
	return s.config.Now().UTC()
}

// CreateTask validates input and persists a new task at the end of the manual order.
func (s *Service) CreateTask(ctx context.Context, input domain.CreateTaskInput) (*domain.Task, error) {
	title, err := domain.NewTitle(input.Title)
	if err != nil {
		return nil, err
	}

	priority, err := domain.NewPriority(input.Priority)
	if err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:       title.String(),
		Description: input.Description,
		Status:      domain.TaskStatusTodo,
		Priority:    priority,
		SubTasks:    []*domain.SubTask{},
		Tags:        []*domain.Tag{},
	}

	if input.CategoryID != nil && *input.CategoryID != "" {
		if err := validateID(*input.CategoryID); err != nil {
			return nil, err
		}
		task.CategoryID = ptr.To(*input.CategoryID)
	}

	if input.DueDate != nil {
		due, err := domain.NewDueDate(*input.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = &due
	}

	if input.ReminderTime != nil {
		task.ReminderTime = ptr.To(input.ReminderTime.UTC())
	}

	if input.Recurrence != nil {
		rule, err := domain.NewRecurrenceRule(*input.Recurrence)
		if err != nil {
			return nil, err
		}
		task.Recurrence = &rule
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}
	task.ID = id

	now := s.now()
	task.CreatedAt = now
	task.UpdatedAt = now

	err = s.repo.Atomic(ctx, func(repo Repository) error {
		order, err := repo.NextTaskSortOrder(ctx)
		if err != nil {
			return err
		}
		task.SortOrder = order
		return repo.CreateTask(ctx, task)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// GetTask retrieves a task with its sub-tasks and tags.
func (s *Service) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	return s.repo.FindTaskByID(ctx, id)
}

// ListTasks retrieves tasks with filtering, sorting, and pagination.
func (s *Service) ListTasks(ctx context.Context, params domain.ListTasksParams) (*domain.PagedResult, error) {
	if params.Offset < 0 {
		params.Offset = 0
	}
	if params.Limit <= 0 {
		params.Limit = s.config.DefaultPageSize
	}
	params.Limit = min(params.Limit, s.config.MaxPageSize)

	orderBy, err := domain.NewTaskOrderBy(params.OrderBy)
	if err != nil {
		return nil, err
	}
	params.OrderBy = orderBy

	orderDir, err := domain.NewSortDirection(params.OrderDir)
	if err != nil {
		return nil, err
	}
	params.OrderDir = orderDir

	for _, id := range []*string{params.CategoryID, params.TagID} {
		if id != nil {
			if err := validateID(*id); err != nil {
				return nil, err
			}
		}
	}

	result, err := s.repo.FindTasks(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return result, nil
}

// UpdateTask applies a partial update. Only fields in UpdateMask change.
func (s *Service) UpdateTask(ctx context.Context, params domain.UpdateTaskParams) (*domain.Task, error) {
	if err := validateID(params.TaskID); err != nil {
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
	if params.CategoryID != nil {
		if err := validateID(*params.CategoryID); err != nil {
			return nil, err
		}
	}
	if params.Recurrence != nil {
		rule, err := domain.NewRecurrenceRule(*params.Recurrence)
		if err != nil {
			return nil, err
		}
		params.Recurrence = &rule
	}
	if params.ReminderTime != nil {
		params.ReminderTime = ptr.To(params.ReminderTime.UTC())
	}

	var updated *domain.Task
	err := s.repo.Atomic(ctx, func(repo Repository) error {
		task, err := repo.FindTaskByID(ctx, params.TaskID)
		if err != nil {
			return err
		}

		applyTaskUpdate(task, params)
		task.UpdatedAt = s.now()

		if err := repo.UpdateTask(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func applyTaskUpdate(task *domain.Task, params domain.UpdateTaskParams) {
	if params.Has(domain.FieldTitle) {
		task.Title = *params.Title
	}
	if params.Has(domain.FieldDescription) {
		task.Description = params.Description
	}
	if params.Has(domain.FieldPriority) {
		task.Priority = *params.Priority
	}
	if params.Has(domain.FieldCategoryID) {
		task.CategoryID = params.CategoryID
	}
	if params.Has(domain.FieldDueDate) {
		task.DueDate = params.DueDate
	}
	if params.Has(domain.FieldReminderTime) {
		task.ReminderTime = params.ReminderTime
	}
	if params.Has(domain.FieldRecurrence) {
		task.Recurrence = params.Recurrence
	}
}

// DeleteTask deletes a task. Sub-tasks and tag links are removed with it.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	return s.repo.DeleteTask(ctx, id)
}

// CountTasks counts tasks, optionally restricted to one status.
func (s *Service) CountTasks(ctx context.Context, status *domain.TaskStatus) (int, error) {
	return s.repo.CountTasks(ctx, status)
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return nil
}
