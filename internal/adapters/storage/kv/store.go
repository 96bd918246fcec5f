// Package kv holds the string-keyed blob stores that back the course
// collection and the form draft.
package kv

import (
	"context"
	"errors"
)

// Well-known keys.
const (
	KeyCourses   = "courses"
	KeyFormDraft = "course-form-draft"
)

// ErrMissing is returned by Get when the key has never been set or was deleted.
var ErrMissing = errors.New("kv: key not found")

// Store persists opaque values by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
