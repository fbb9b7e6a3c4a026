package sqlstore

import (
	"context"
	"fmt"

	"github.com/rezkam/cadence/internal/domain"
)

// === Category Operations ===

// CreateCategory inserts a category. Names are unique.
func (s *Store) CreateCategory(ctx context.Context, category *domain.Category) error {
	_, err := s.exec(ctx, `INSERT INTO categories (`+categoryColumns+`) VALUES (?, ?, ?, ?, ?)`,
		category.ID,
		category.Name,
		stringPtrToDB(category.Color),
		category.SortOrder,
		timeToDB(category.CreatedAt),
	)
	if err != nil {
		if classifyConstraint(err) == constraintUnique {
			return fmt.Errorf("%w: category %q", domain.ErrDuplicateName, category.Name)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// FindCategoryByID retrieves one category.
func (s *Store) FindCategoryByID(ctx context.Context, id string) (*domain.Category, error) {
	c, err := scanCategory(s.queryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id))
	if err != nil {
		return nil, notFoundOr(err, domain.ErrCategoryNotFound, id, "get category")
	}
	return c, nil
}

// FindCategories lists all categories ordered by sort order, then name.
func (s *Store) FindCategories(ctx context.Context) ([]*domain.Category, error) {
	rows, err := s.query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY sort_order ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to find categories: %w", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

// UpdateCategory overwrites the name, color and sort order of a category.
func (s *Store) UpdateCategory(ctx context.Context, category *domain.Category) error {
	result, err := s.exec(ctx, `UPDATE categories SET name = ?, color = ?, sort_order = ? WHERE id = ?`,
		category.Name,
		stringPtrToDB(category.Color),
		category.SortOrder,
		category.ID,
	)
	if err != nil {
		if classifyConstraint(err) == constraintUnique {
			return fmt.Errorf("%w: category %q", domain.ErrDuplicateName, category.Name)
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	return checkRowsAffected(result, domain.ErrCategoryNotFound, category.ID)
}

// DeleteCategory deletes a category. Tasks keep existing with a NULL category.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	result, err := s.exec(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return checkRowsAffected(result, domain.ErrCategoryNotFound, id)
}

// NextCategorySortOrder returns max(sort_order)+1 over all categories.
func (s *Store) NextCategorySortOrder(ctx context.Context) (int, error) {
	var next int
	if err := s.queryRow(ctx, `SELECT COALESCE(MAX(sort_order), -1) + 1 FROM categories`).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to compute category sort order: %w", err)
	}
	return next, nil
}
