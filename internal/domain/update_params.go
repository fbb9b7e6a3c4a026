package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/rezkam/cadence/internal/recurrence"
)

// Update mask field names.
const (
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldPriority     = "priority"
	FieldCategoryID   = "category_id"
	FieldDueDate      = "due_date"
	FieldReminderTime = "reminder_time"
	FieldRecurrence   = "recurrence_rule"
	FieldCompleted    = "completed"
	FieldSortOrder    = "sort_order"
	FieldName         = "name"
	FieldColor        = "color"
)

// UpdateTaskParams contains parameters for a partial task update.
//
// Only fields listed in UpdateMask are applied. For nullable fields a nil value
// in the mask clears the column; title and priority cannot be cleared.
type UpdateTaskParams struct {
	TaskID     string
	UpdateMask []string

	Title        *string
	Description  *string
	Priority     *Priority
	CategoryID   *string
	DueDate      *time.Time
	ReminderTime *time.Time
	Recurrence   *recurrence.Rule
}

// UpdateSubTaskParams contains parameters for a partial sub-task update.
type UpdateSubTaskParams struct {
	SubTaskID  string
	UpdateMask []string

	Title       *string
	Description *string
	Priority    *Priority
	DueDate     *time.Time
	Completed   *bool
	SortOrder   *int
}

// UpdateCategoryParams contains parameters for a partial category update.
type UpdateCategoryParams struct {
	CategoryID string
	UpdateMask []string

	Name      *string
	Color     *string
	SortOrder *int
}

// UpdateTagParams contains parameters for a partial tag update.
type UpdateTagParams struct {
	TagID      string
	UpdateMask []string

	Name  *string
	Color *string
}

var updateTaskValidFields = map[string]struct{}{
	FieldTitle:        {},
	FieldDescription:  {},
	FieldPriority:     {},
	FieldCategoryID:   {},
	FieldDueDate:      {},
	FieldReminderTime: {},
	FieldRecurrence:   {},
}

// Validate checks that UpdateMask contains only known fields and that
// required fields have non-nil values when included in the mask.
func (p UpdateTaskParams) Validate() error {
	mask, err := checkMask(p.UpdateMask, updateTaskValidFields)
	if err != nil {
		return err
	}

	if mask[FieldTitle] && p.Title == nil {
		return ErrTitleRequired
	}
	if mask[FieldPriority] && p.Priority == nil {
		return fmt.Errorf("%w: priority cannot be cleared", ErrInvalidPriority)
	}

	return nil
}

// Has reports whether field is part of the update mask.
func (p UpdateTaskParams) Has(field string) bool {
	return slices.Contains(p.UpdateMask, field)
}

var updateSubTaskValidFields = map[string]struct{}{
	FieldTitle:       {},
	FieldDescription: {},
	FieldPriority:    {},
	FieldDueDate:     {},
	FieldCompleted:   {},
	FieldSortOrder:   {},
}

// Validate checks that UpdateMask contains only known fields and that
// required fields have non-nil values when included in the mask.
func (p UpdateSubTaskParams) Validate() error {
	mask, err := checkMask(p.UpdateMask, updateSubTaskValidFields)
	if err != nil {
		return err
	}

	if mask[FieldTitle] && p.Title == nil {
		return ErrTitleRequired
	}
	if mask[FieldPriority] && p.Priority == nil {
		return fmt.Errorf("%w: priority cannot be cleared", ErrInvalidPriority)
	}
	if mask[FieldCompleted] && p.Completed == nil {
		return fmt.Errorf("%w: completed", ErrFieldNotNullable)
	}
	if mask[FieldSortOrder] && p.SortOrder == nil {
		return fmt.Errorf("%w: sort_order", ErrFieldNotNullable)
	}

	return nil
}

// Has reports whether field is part of the update mask.
func (p UpdateSubTaskParams) Has(field string) bool {
	return slices.Contains(p.UpdateMask, field)
}

var updateCategoryValidFields = map[string]struct{}{
	FieldName:      {},
	FieldColor:     {},
	FieldSortOrder: {},
}

// Validate checks that UpdateMask contains only known fields and that
// required fields have non-nil values when included in the mask.
func (p UpdateCategoryParams) Validate() error {
	mask, err := checkMask(p.UpdateMask, updateCategoryValidFields)
	if err != nil {
		return err
	}

	if mask[FieldName] && p.Name == nil {
		return ErrNameRequired
	}
	if mask[FieldSortOrder] && p.SortOrder == nil {
		return fmt.Errorf("%w: sort_order", ErrFieldNotNullable)
	}

	return nil
}

// Has reports whether field is part of the update mask.
func (p UpdateCategoryParams) Has(field string) bool {
	return slices.Contains(p.UpdateMask, field)
}

var updateTagValidFields = map[string]struct{}{
	FieldName:  {},
	FieldColor: {},
}

// Validate checks that UpdateMask contains only known fields and that
// required fields have non-nil values when included in the mask.
func (p UpdateTagParams) Validate() error {
	mask, err := checkMask(p.UpdateMask, updateTagValidFields)
	if err != nil {
		return err
	}

	if mask[FieldName] && p.Name == nil {
		return ErrNameRequired
	}

	return nil
}

// Has reports whether field is part of the update mask.
func (p UpdateTagParams) Has(field string) bool {
	return slices.Contains(p.UpdateMask, field)
}

func checkMask(fields []string, valid map[string]struct{}) (map[string]bool, error) {
	if len(fields) == 0 {
		return nil, ErrEmptyUpdate
	}

	mask := make(map[string]bool, len(fields))
	for _, field := range fields {
		if _, ok := valid[field]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		mask[field] = true
	}
	return mask, nil
}
