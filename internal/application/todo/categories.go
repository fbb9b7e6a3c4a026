package todo

import (
	"context"
	"fmt"

	"github.com/rezkam/cadence/internal/domain"
)

// CreateCategory creates a category at the end of the category order.
// Returns domain.ErrDuplicateName when the name is taken.
func (s *Service) CreateCategory(ctx context.Context, name string, color *string) (*domain.Category, error) {
	validName, err := domain.NewName(name)
	if err != nil {
		return nil, err
	}

	category := &domain.Category{
		Name:      validName.String(),
		CreatedAt: s.now(),
	}
	if category.Color, err = optionalColor(color); err != nil {
		return nil, err
	}
	if category.ID, err = newID(); err != nil {
		return nil, err
	}

	err = s.repo.Atomic(ctx, func(repo Repository) error {
		order, err := repo.NextCategorySortOrder(ctx)
		if err != nil {
			return err
		}
		category.SortOrder = order
		return repo.CreateCategory(ctx, category)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// GetCategory retrieves a category by ID.
func (s *Service) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.repo.FindCategoryByID(ctx, id)
}

// ListCategories lists all categories in display order.
func (s *Service) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.FindCategories(ctx)
}

// UpdateCategory applies a partial update to a category.
func (s *Service) UpdateCategory(ctx context.Context, params domain.UpdateCategoryParams) (*domain.Category, error) {
	if err := validateID(params.CategoryID); err != nil {
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

	var updated *domain.Category
	err = s.repo.Atomic(ctx, func(repo Repository) error {
		category, err := repo.FindCategoryByID(ctx, params.CategoryID)
		if err != nil {
			return err
		}

		if params.Has(domain.FieldName) {
			category.Name = name
		}
		if params.Has(domain.FieldColor) {
			category.Color = color
		}
		if params.Has(domain.FieldSortOrder) {
			category.SortOrder = *params.SortOrder
		}

		if err := repo.UpdateCategory(ctx, category); err != nil {
			return err
		}
		updated = category
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteCategory deletes a category. Its tasks remain without a category.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.repo.DeleteCategory(ctx, id)
}

func optionalColor(color *string) (*string, error) {
	if color == nil || *color == "" {
		return nil, nil
	}
	c, err := domain.NewColor(*color)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
