package sqlstore

import (
	"context"
	"fmt"

	"github.com/rezkam/cadence/internal/domain"
)

// === Tag Operations ===

// CreateTag inserts a tag. Names are unique.
func (s *Store) CreateTag(ctx context.Context, tag *domain.Tag) error {
	_, err := s.exec(ctx, `INSERT INTO tags (`+tagColumns+`) VALUES (?, ?, ?, ?)`,
		tag.ID,
		tag.Name,
		stringPtrToDB(tag.Color),
		timeToDB(tag.CreatedAt),
	)
	if err != nil {
		if classifyConstraint(err) == constraintUnique {
			return fmt.Errorf("%w: tag %q", domain.ErrDuplicateName, tag.Name)
		}
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

// FindTagByID retrieves one tag.
func (s *Store) FindTagByID(ctx context.Context, id string) (*domain.Tag, error) {
	t, err := scanTag(s.queryRow(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = ?`, id))
	if err != nil {
		return nil, notFoundOr(err, domain.ErrTagNotFound, id, "get tag")
	}
	return t, nil
}

// FindTags lists all tags ordered by name.
func (s *Store) FindTags(ctx context.Context) ([]*domain.Tag, error) {
	return s.scanTags(ctx, `SELECT `+tagColumns+` FROM tags ORDER BY name ASC`)
}

func (s *Store) findTagsOfTask(ctx context.Context, taskID string) ([]*domain.Tag, error) {
	return s.scanTags(ctx, `
		SELECT g.id, g.name, g.color, g.created_at
		FROM tags g
		JOIN task_tags tt ON tt.tag_id = g.id
		WHERE tt.task_id = ?
		ORDER BY g.name ASC`, taskID)
}

func (s *Store) scanTags(ctx context.Context, query string, args ...any) ([]*domain.Tag, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find tags: %w", err)
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	return tags, nil
}

// UpdateTag overwrites the name and color of a tag.
func (s *Store) UpdateTag(ctx context.Context, tag *domain.Tag) error {
	result, err := s.exec(ctx, `UPDATE tags SET name = ?, color = ? WHERE id = ?`,
		tag.Name,
		stringPtrToDB(tag.Color),
		tag.ID,
	)
	if err != nil {
		if classifyConstraint(err) == constraintUnique {
			return fmt.Errorf("%w: tag %q", domain.ErrDuplicateName, tag.Name)
		}
		return fmt.Errorf("failed to update tag: %w", err)
	}
	return checkRowsAffected(result, domain.ErrTagNotFound, tag.ID)
}

// DeleteTag deletes a tag. Task links cascade.
func (s *Store) DeleteTag(ctx context.Context, id string) error {
	result, err := s.exec(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	return checkRowsAffected(result, domain.ErrTagNotFound, id)
}

// ReplaceTaskTags makes tagIDs the exact tag set of a task.
// Run it inside Atomic so a missing tag leaves the old set in place.
func (s *Store) ReplaceTaskTags(ctx context.Context, taskID string, tagIDs []string) error {
	if _, err := s.exec(ctx, `DELETE FROM task_tags WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("failed to clear task tags: %w", err)
	}
	for _, tagID := range tagIDs {
		if err := s.AddTaskTag(ctx, taskID, tagID); err != nil {
			return err
		}
	}
	return nil
}

// AddTaskTag links a tag to a task. Linking twice is a no-op.
func (s *Store) AddTaskTag(ctx context.Context, taskID, tagID string) error {
	_, err := s.exec(ctx, `
		INSERT INTO task_tags (task_id, tag_id) VALUES (?, ?)
		ON CONFLICT (task_id, tag_id) DO NOTHING`, taskID, tagID)
	if err != nil {
		if classifyConstraint(err) == constraintForeignKey {
			return fmt.Errorf("%w: %s", domain.ErrTagNotFound, tagID)
		}
		return fmt.Errorf("failed to tag task: %w", err)
	}
	return nil
}

// RemoveTaskTag unlinks a tag from a task.
func (s *Store) RemoveTaskTag(ctx context.Context, taskID, tagID string) error {
	if _, err := s.exec(ctx, `DELETE FROM task_tags WHERE task_id = ? AND tag_id = ?`, taskID, tagID); err != nil {
		return fmt.Errorf("failed to untag task: %w", err)
	}
	return nil
}
