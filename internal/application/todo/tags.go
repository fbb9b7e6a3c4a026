package todo

import (
	"context"
	"fmt"
	"slices"

	"github.com/rezkam/cadence/internal/domain"
)

// CreateTag creates a tag. Returns domain.ErrDuplicateName when the name is taken.
func (s *Service) CreateTag(ctx context.Context, name string, color *string) (*domain.Tag, error) {
	validName, err := domain.NewName(name)
	if err != nil {
		return nil, err
	}

	tag := &domain.Tag{
		Name:      validName.String(),
		CreatedAt: s.now(),
	}
	if tag.Color, err = optionalColor(color); err != nil {
		return nil, err
	}
	if tag.ID, err = newID(); err != nil {
		return nil, err
	}

	if err := s.repo.CreateTag(ctx, tag); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return tag, nil
}

// ListTags lists all tags ordered by name.
func (s *Service) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return s.repo.FindTags(ctx)
}

// UpdateTag applies a partial update to a tag.
func (s *Service) UpdateTag(ctx context.Context, params domain.UpdateTagParams) (*domain.Tag, error) {
	if err := validateID(params.TagID); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var name string
	if params.Name != nil {
		validName, err := domain.NewName(*params.Name)
		if err != nil {
			return nil, err
		}
		name = validName.String()
	}
	color, err := optionalColor(params.Color)
	if err != nil {
		return nil, err
	}

	var updated *domain.Tag
	err = s.repo.Atomic(ctx, func(repo Repository) error {
		tag, err := repo.FindTagByID(ctx, params.TagID)
		if err != nil {
			return err
		}

		if params.Has(domain.FieldName) {
			tag.Name = name
		}
		if params.Has(domain.FieldColor) {
			tag.Color = color
		}

		if err := repo.UpdateTag(ctx, tag); err != nil {
			return err
		}
		updated = tag
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteTag deletes a tag and detaches it from every task.
func (s *Service) DeleteTag(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.repo.DeleteTag(ctx, id)
}

// SetTaskTags replaces the tag set of a task and returns the reloaded task.
// Duplicate IDs are ignored.
func (s *Service) SetTaskTags(ctx context.Context, taskID string, tagIDs []string) (*domain.Task, error) {
	if err := validateID(taskID); err != nil {
		return nil, err
	}

	unique := make([]string, 0, len(tagIDs))
	for _, id := range tagIDs {
		if err := validateID(id); err != nil {
			return nil, err
		}
		if !slices.Contains(unique, id) {
			unique = append(unique, id)
		}
	}

	var task *domain.Task
	err := s.repo.Atomic(ctx, func(repo Repository) error {
		if _, err := repo.FindTaskByID(ctx, taskID); err != nil {
			return err
		}
		if err := repo.ReplaceTaskTags(ctx, taskID, unique); err != nil {
			return err
		}

		var err error
		task, err = repo.FindTaskByID(ctx, taskID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

// AddTagToTask links one tag to a task.
func (s *Service) AddTagToTask(ctx context.Context, taskID, tagID string) error {
	if err := validateID(taskID); err != nil {
		return err
	}
	if err := validateID(tagID); err != nil {
		return err
	}

	return s.repo.Atomic(ctx, func(repo Repository) error {
		if _, err := repo.FindTaskByID(ctx, taskID); err != nil {
			return err
		}
		if _, err := repo.FindTagByID(ctx, tagID); err != nil {
			return err
		}
		return repo.AddTaskTag(ctx, taskID, tagID)
	})
}

// RemoveTagFromTask unlinks one tag from a task.
func (s *Service) RemoveTagFromTask(ctx context.Context, taskID, tagID string) error {
	if err := validateID(taskID); err != nil {
		return err
	}
	if err := validateID(tagID); err != nil {
		return err
	}

	return s.repo.RemoveTaskTag(ctx, taskID, tagID)
}
