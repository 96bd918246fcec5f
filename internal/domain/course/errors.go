package course

import (
	"errors"
	"sort"
	"strings"
)

// Domain errors
var (
	ErrNotFound          = errors.New("course not found")
	ErrEditForbidden     = errors.New("archived courses cannot be edited")
	ErrInvalidTransition = errors.New("course status transition not allowed")
)

// ValidationError maps field names to a human-readable message for that field.
// Callers highlight each entry independently.
type ValidationError map[string]string

// Error joins the field messages in field-name order.
func (v ValidationError) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "invalid course: " + strings.Join(parts, "; ")
}

// FetchError reports a transient failure reading the course collection.
// The read may be retried.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return "fetch courses failed"
	}
	return "fetch courses failed: " + e.Err.Error()
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is a FetchError.
func IsRetryable(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// AsValidation extracts a ValidationError from err, if any.
func AsValidation(err error) (ValidationError, bool) {
	var v ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
