package domain

import "errors"

// Validation errors returned by value object constructors and the service layer.
var (
	ErrTitleRequired = errors.New("title is required")
	ErrTitleTooLong  = errors.New("title exceeds 255 characters")

	ErrNameRequired = errors.New("name is required")
	ErrNameTooLong  = errors.New("name exceeds 100 characters")

	ErrInvalidTaskStatus     = errors.New("invalid task status")
	ErrInvalidPriority       = errors.New("invalid priority")
	ErrInvalidRecurrenceRule = errors.New("invalid recurrence rule")
	ErrInvalidColor          = errors.New("invalid color")
	ErrInvalidDate           = errors.New("invalid date")
	ErrInvalidStatsPeriod    = errors.New("invalid statistics period")
	ErrInvalidOrderBy        = errors.New("invalid order_by field")
	ErrInvalidOrderDir       = errors.New("invalid order direction")
	ErrEmptyUpdate           = errors.New("update contains no fields")
	ErrUnknownField          = errors.New("unknown field in update mask")
	ErrFieldNotNullable      = errors.New("field cannot be cleared")
)

// Domain errors returned by repository implementations.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	ErrTaskNotFound     = errors.New("task not found")
	ErrSubTaskNotFound  = errors.New("sub-task not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrTagNotFound      = errors.New("tag not found")

	// ErrDuplicateName indicates a category or tag with the same name already exists.
	ErrDuplicateName = errors.New("name already exists")

	// ErrInvalidID indicates the provided ID format is invalid.
	ErrInvalidID = errors.New("invalid ID format")
)
