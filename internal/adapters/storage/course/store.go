// Package course persists catalog courses. Stores are dumb: they enforce no
// lifecycle rules and report absent records as domain.ErrNotFound.
package course

import (
	"context"
	"time"

	domain "coursecatalog/internal/domain/course"
)

// Store persists Course state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Course, error)
	Save(ctx context.Context, value domain.Course) error
	Delete(ctx context.Context, id string) error
	// List returns every course, oldest first.
	List(ctx context.Context) ([]domain.Course, error)
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
