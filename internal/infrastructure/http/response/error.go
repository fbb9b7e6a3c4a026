package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rezkam/cadence/internal/domain"
	"github.com/rezkam/cadence/internal/recurrence"
)

// Error codes used in the error envelope.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	CodeInternal        = "INTERNAL_ERROR"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []ErrorField `json:"details"` // never null
}

// ErrorField describes a field-specific error.
type ErrorField struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// BadRequest sends a 400 Bad Request error.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, CodeInvalidRequest, message, http.StatusBadRequest)
}

// ValidationError sends a 400 validation error with field details.
func ValidationError(w http.ResponseWriter, field, issue string) {
	ValidationErrors(w, http.StatusBadRequest, []ErrorField{{Field: field, Issue: issue}})
}

// ValidationErrors sends a validation error carrying several field details.
func ValidationErrors(w http.ResponseWriter, statusCode int, details []ErrorField) {
	if details == nil {
		details = []ErrorField{}
	}
	write(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    CodeValidation,
			Message: "validation failed",
			Details: details,
		},
	})
}

// NotFound sends a 404 Not Found error.
func NotFound(w http.ResponseWriter, resource string) {
	Error(w, CodeNotFound, resource+" not found", http.StatusNotFound)
}

// Conflict sends a 409 Conflict error.
func Conflict(w http.ResponseWriter, message string) {
	Error(w, CodeConflict, message, http.StatusConflict)
}

// InternalError sends a 500 Internal Server Error.
// The error is logged server-side; the client only gets a generic message.
func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		slog.ErrorContext(r.Context(), "Internal server error",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
	}

	Error(w, CodeInternal, "an internal error occurred", http.StatusInternalServerError)
}

// Error sends a generic error response.
func Error(w http.ResponseWriter, code, message string, statusCode int) {
	write(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: []ErrorField{},
		},
	})
}

func write(w http.ResponseWriter, statusCode int, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Failed to write error response", "code", resp.Error.Code, "error", err)
	}
}

// FromDomainError maps domain errors to HTTP responses.
func FromDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var ruleErr *recurrence.RuleError

	switch {
	// Validation errors (400)
	case errors.Is(err, domain.ErrTitleRequired):
		ValidationError(w, "title", "required field missing")
	case errors.Is(err, domain.ErrTitleTooLong):
		ValidationError(w, "title", "must be 255 characters or less")
	case errors.Is(err, domain.ErrNameRequired):
		ValidationError(w, "name", "required field missing")
	case errors.Is(err, domain.ErrNameTooLong):
		ValidationError(w, "name", "must be 100 characters or less")
	case errors.Is(err, domain.ErrInvalidID):
		ValidationError(w, "id", "invalid ID format")
	case errors.Is(err, domain.ErrInvalidTaskStatus):
		ValidationError(w, "status", "must be todo or completed")
	case errors.Is(err, domain.ErrInvalidPriority):
		ValidationError(w, "priority", "must be none, low, medium or high")
	case errors.As(err, &ruleErr):
		ValidationError(w, "recurrenceRule."+ruleErr.Field, ruleErr.Issue)
	case errors.Is(err, domain.ErrInvalidRecurrenceRule), errors.Is(err, recurrence.ErrMalformedRule):
		ValidationError(w, "recurrenceRule", err.Error())
	case errors.Is(err, domain.ErrInvalidColor):
		ValidationError(w, "color", "must be a hex color like #RRGGBB")
	case errors.Is(err, domain.ErrInvalidDate):
		ValidationError(w, "date", "must be a calendar date in YYYY-MM-DD form")
	case errors.Is(err, domain.ErrInvalidStatsPeriod):
		ValidationError(w, "period", "must be day, week or month")
	case errors.Is(err, domain.ErrInvalidOrderBy):
		ValidationError(w, "order_by", "unsupported sort field")
	case errors.Is(err, domain.ErrInvalidOrderDir):
		ValidationError(w, "order_dir", "must be asc or desc")
	case errors.Is(err, domain.ErrEmptyUpdate):
		ValidationError(w, "body", "no fields to update")
	case errors.Is(err, domain.ErrUnknownField), errors.Is(err, domain.ErrFieldNotNullable):
		ValidationError(w, "body", err.Error())

	// Not found errors (404)
	case errors.Is(err, domain.ErrTaskNotFound):
		NotFound(w, "task")
	case errors.Is(err, domain.ErrSubTaskNotFound):
		NotFound(w, "sub-task")
	case errors.Is(err, domain.ErrCategoryNotFound):
		NotFound(w, "category")
	case errors.Is(err, domain.ErrTagNotFound):
		NotFound(w, "tag")
	case errors.Is(err, domain.ErrNotFound):
		NotFound(w, "resource")

	// Conflict errors (409)
	case errors.Is(err, domain.ErrDuplicateName):
		Conflict(w, err.Error())

	default:
		InternalError(w, r, err)
	}
}
