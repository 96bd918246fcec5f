// Package catalog holds the per-session view state over the course gateway:
// the last fetched collection and its manual display order.
package catalog

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"coursecatalog/internal/application/listview"
	"coursecatalog/internal/domain/course"
)

// Gateway is the CRUD contract the session consumes.
type Gateway interface {
	List(ctx context.Context) ([]course.Course, error)
	Create(ctx context.Context, in course.NewCourse) (course.Course, error)
	Update(ctx context.Context, id string, p course.Patch) (course.Course, error)
	Delete(ctx context.Context, id string) error
}

// Session owns the in-memory collection for one consumer.
// The slice order of courses is the manual order. It survives refreshes but is
// not persisted. The mutex serializes callers; it does not make the session
// multi-user.
type Session struct {
	gw Gateway

	mu      sync.Mutex
	courses []course.Course
	loaded  bool
	lastErr error
}

// NewSession creates a session over gw. Nothing is fetched until Refresh or Load.
func NewSession(gw Gateway) *Session {
	return &Session{gw: gw}
}

// Load fetches the collection unless it has already been loaded.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}
	return s.refreshLocked(ctx)
}

// Refresh re-fetches the collection.
// PRE: none
// POST: on success the collection reflects the gateway, keeping the manual
// order of courses already known; on failure the previous collection is kept
// and the error (a *course.FetchError from CourseGateway) is returned
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Session) refreshLocked(ctx context.Context) error {
	fresh, err := s.gw.List(ctx)
	if err != nil {
		s.lastErr = err
		return err
	}
	s.courses = mergeOrder(s.courses, fresh)
	s.loaded = true
	s.lastErr = nil
	return nil
}

// Status reports whether a collection has been loaded and the error from the
// most recent failed fetch, cleared by the next successful one.
func (s *Session) Status() (loaded bool, lastErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded, s.lastErr
}

// Courses returns a copy of the collection in manual order.
func (s *Session) Courses() []course.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.courses)
}

// View returns the displayed list for p.
func (s *Session) View(p listview.Params) []course.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	return listview.Apply(s.courses, p)
}

// Reorder moves the item at from to to within the manual view for p's
// filters; p's sort settings are ignored, so indices always refer to the list
// the previous Reorder returned. Courses hidden by the filters keep their
// positions. The result becomes the manual order.
// POST: returns false and leaves the order unchanged when an index is out of range
func (s *Session) Reorder(p listview.Params, from, to int) ([]course.Course, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.Mode = listview.ModeManual
	visible := listview.Apply(s.courses, p)
	next, ok := listview.ReorderSubset(s.courses, visible, from, to)
	if !ok {
		slog.Debug("course_event", "event", "reorder_rejected", "from", from, "to", to, "visible", len(visible))
		return visible, false
	}
	s.courses = next
	return listview.Apply(s.courses, p), true
}

// Create adds a course through the gateway.
// POST: on success the collection is refreshed (or patched locally if the
// refresh fails); on failure it is untouched
func (s *Session) Create(ctx context.Context, in course.NewCourse) (course.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.gw.Create(ctx, in)
	if err != nil {
		return course.Course{}, err
	}
	s.afterWrite(ctx, func(list []course.Course) []course.Course {
		return append(list, c)
	})
	return c, nil
}

// Update applies a partial update through the gateway.
func (s *Session) Update(ctx context.Context, id string, p course.Patch) (course.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.gw.Update(ctx, id, p)
	if err != nil {
		return course.Course{}, err
	}
	s.afterWrite(ctx, func(list []course.Course) []course.Course {
		if i := indexOf(list, c.ID); i >= 0 {
			list[i] = c
			return list
		}
		return append(list, c)
	})
	return c, nil
}

// Delete removes a course through the gateway.
func (s *Session) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.gw.Delete(ctx, id); err != nil {
		return err
	}
	s.afterWrite(ctx, func(list []course.Course) []course.Course {
		if i := indexOf(list, id); i >= 0 {
			return slices.Delete(list, i, i+1)
		}
		return list
	})
	return nil
}

// afterWrite re-lists after a successful write. If that read fails the
// confirmed single record is applied locally instead.
func (s *Session) afterWrite(ctx context.Context, patch func([]course.Course) []course.Course) {
	if err := s.refreshLocked(ctx); err != nil {
		slog.Warn("course_event", "event", "refresh_after_write_failed", "error", err)
		s.courses = patch(slices.Clone(s.courses))
	}
}

// mergeOrder returns fresh arranged in prev's order. Courses new to the
// collection follow in fresh's order; courses no longer present are dropped.
func mergeOrder(prev, fresh []course.Course) []course.Course {
	byID := make(map[string]course.Course, len(fresh))
	for _, c := range fresh {
		byID[c.ID] = c
	}
	out := make([]course.Course, 0, len(fresh))
	seen := make(map[string]bool, len(fresh))
	for _, c := range prev {
		if f, ok := byID[c.ID]; ok && !seen[c.ID] {
			out = append(out, f)
			seen[c.ID] = true
		}
	}
	for _, c := range fresh {
		if !seen[c.ID] {
			out = append(out, c)
			seen[c.ID] = true
		}
	}
	return out
}

func indexOf(list []course.Course, id string) int {
	return slices.IndexFunc(list, func(c course.Course) bool { return c.ID == id })
}
