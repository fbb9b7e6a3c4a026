package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/cadence/internal/domain"
	"github.com/rezkam/cadence/internal/infrastructure/http/response"
	"github.com/rezkam/cadence/internal/ptr"
	"github.com/rezkam/cadence/internal/recurrence"
)

var errInvalidJSON = errors.New("invalid JSON")

// fieldError is a request problem tied to one field of the body or query.
type fieldError struct {
	Field string
	Issue string
}

func (e *fieldError) Error() string {
	return e.Field + ": " + e.Issue
}

// writeError sends the error envelope for any error produced while serving a request.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var fe *fieldError
	switch {
	case errors.As(err, &fe):
		response.ValidationError(w, fe.Field, fe.Issue)
	case errors.Is(err, errInvalidJSON):
		response.BadRequest(w, "invalid JSON")
	default:
		response.FromDomainError(w, r, err)
	}
}

// decodeJSON reads the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return classifyDecodeError("", err)
	}
	return nil
}

func classifyDecodeError(field string, err error) error {
	if errors.Is(err, recurrence.ErrMalformedRule) {
		return err
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field != "" {
			field = typeErr.Field
		}
		if field != "" {
			return &fieldError{Field: field, Issue: "has the wrong type"}
		}
	}
	return fmt.Errorf("%w: %v", errInvalidJSON, err)
}

// patchDecoder reads a partial-update body. Keys present in the body form the
// update mask; a JSON null clears the field.
type patchDecoder struct {
	body map[string]json.RawMessage
	err  error
}

func decodePatch(r *http.Request) (*patchDecoder, error) {
	d := &patchDecoder{}
	if err := decodeJSON(r, &d.body); err != nil {
		return nil, err
	}
	return d, nil
}

// mask translates body keys to update mask fields, in key order.
func (d *patchDecoder) mask(fields map[string]string) ([]string, error) {
	keys := slices.Sorted(maps.Keys(d.body))
	mask := make([]string, 0, len(keys))
	for _, key := range keys {
		field, ok := fields[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownField, key)
		}
		mask = append(mask, field)
	}
	return mask, nil
}

// patchField decodes one key. It returns nil for absent keys and for null.
// The first failure is kept in d.err and later calls become no-ops.
func patchField[T any](d *patchDecoder, key string) *T {
	if d.err != nil {
		return nil
	}
	raw, ok := d.body[key]
	if !ok {
		return nil
	}

	var v *T
	if err := json.Unmarshal(raw, &v); err != nil {
		d.err = classifyDecodeError(key, err)
		return nil
	}
	return v
}

func (d *patchDecoder) date(key string) *time.Time {
	s := patchField[string](d, key)
	if s == nil {
		return nil
	}
	t, err := domain.NewDueDate(*s)
	if err != nil {
		d.err = err
		return nil
	}
	return &t
}

func (d *patchDecoder) priority(key string) *domain.Priority {
	s := patchField[string](d, key)
	if s == nil {
		return nil
	}
	p, err := domain.NewPriority(*s)
	if err != nil {
		d.err = err
		return nil
	}
	return &p
}

func queryString(r *http.Request, name string) *string {
	return ptr.NonZero(r.URL.Query().Get(name))
}

func queryInt(r *http.Request, name string) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &fieldError{Field: name, Issue: "must be an integer"}
	}
	return n, nil
}

// queryDate parses a YYYY-MM-DD query value. Absent means the zero time.
func queryDate(r *http.Request, name string) (time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return time.Time{}, nil
	}
	return domain.NewDueDate(s)
}

func queryStatus(r *http.Request) (*domain.TaskStatus, error) {
	s := r.URL.Query().Get("status")
	if s == "" {
		return nil, nil
	}
	status, err := domain.NewTaskStatus(s)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func pathParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}
