package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	nethttpmiddleware "github.com/oapi-codegen/nethttp-middleware"

	"github.com/rezkam/cadence/internal/infrastructure/http/response"
)

// ValidationConfig holds configuration for the OpenAPI validation middleware.
type ValidationConfig struct {
	// MultiError collects all validation errors instead of stopping at the first.
	MultiError bool
}

// NewValidator creates OpenAPI request validation middleware.
// Requests that do not match the document get the standard error envelope:
// unknown routes answer 404 NOT_FOUND, everything else VALIDATION_ERROR.
func NewValidator(spec *openapi3.T, config ValidationConfig) func(http.Handler) http.Handler {
	// The API router is mounted at /api; host matching is not wanted.
	spec.Servers = openapi3.Servers{
		{URL: "/api"},
	}

	opts := &nethttpmiddleware.Options{
		Options: openapi3filter.Options{
			MultiError: config.MultiError,
			AuthenticationFunc: func(context.Context, *openapi3filter.AuthenticationInput) error {
				return nil
			},
		},
		ErrorHandlerWithOpts:  validationErrorHandler,
		SilenceServersWarning: true,
	}

	return nethttpmiddleware.OapiRequestValidatorWithOptions(spec, opts)
}

func validationErrorHandler(ctx context.Context, err error, w http.ResponseWriter, r *http.Request, opts nethttpmiddleware.ErrorHandlerOpts) {
	if opts.StatusCode == http.StatusNotFound || opts.StatusCode == http.StatusMethodNotAllowed {
		response.Error(w, response.CodeNotFound, "no such route", opts.StatusCode)
		return
	}

	details := parseValidationError(err)
	slog.WarnContext(ctx, "request validation failed",
		"path", r.URL.Path,
		"method", r.Method,
		"invalid_field_count", len(details),
		"error", err.Error())

	response.ValidationErrors(w, opts.StatusCode, details)
}

// parseValidationError extracts field details from kin-openapi messages such as
//
//	request body has an error: doesn't match schema: Error at "/title": minimum string length is 1
//	parameter "limit" in query has an error: value abc: an invalid integer
//
// It returns an empty slice when nothing field-shaped is found.
func parseValidationError(err error) []response.ErrorField {
	if err == nil {
		return []response.ErrorField{}
	}
	msg := err.Error()

	if field, rest, ok := quotedAfter(msg, `Error at "/`); ok {
		issue := "validation failed"
		if i := strings.Index(rest, ":"); i >= 0 && strings.TrimSpace(rest[i+1:]) != "" {
			issue = firstLine(strings.TrimSpace(rest[i+1:]))
		}
		return []response.ErrorField{{Field: strings.ReplaceAll(field, "/", "."), Issue: issue}}
	}

	if field, rest, ok := quotedAfter(msg, `parameter "`); ok {
		issue := "invalid parameter"
		const marker = "has an error:"
		if i := strings.Index(rest, marker); i >= 0 {
			issue = firstLine(strings.TrimSpace(rest[i+len(marker):]))
		}
		return []response.ErrorField{{Field: field, Issue: issue}}
	}

	if strings.Contains(msg, "request body") {
		switch {
		case strings.Contains(msg, "doesn't match schema"), strings.Contains(msg, "doesn't match the schema"):
			return []response.ErrorField{{Field: "body", Issue: "request body doesn't match schema"}}
		case strings.Contains(msg, "required"):
			return []response.ErrorField{{Field: "body", Issue: "required field missing"}}
		default:
			return []response.ErrorField{{Field: "body", Issue: "invalid request body"}}
		}
	}

	return []response.ErrorField{}
}

// quotedAfter returns the text between marker and the next double quote,
// and whatever follows that quote.
func quotedAfter(msg, marker string) (quoted, rest string, ok bool) {
	idx := strings.Index(msg, marker)
	if idx < 0 {
		return "", "", false
	}
	after := msg[idx+len(marker):]
	end := strings.Index(after, `"`)
	if end < 0 {
		return "", "", false
	}
	return after[:end], after[end+1:], true
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
