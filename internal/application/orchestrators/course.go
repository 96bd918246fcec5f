package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"coursecatalog/internal/domain/course"
)

// CourseStoreForOrchestrator defines the store interface needed by course orchestrators.
type CourseStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (course.Course, error)
	Save(ctx context.Context, c course.Course) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]course.Course, error)
}

// FormDraftClearer discards the saved create-form draft.
type FormDraftClearer interface {
	Clear(ctx context.Context) error
}

// --- List Courses ---

// ListCoursesDeps holds dependencies for ListCourses.
type ListCoursesDeps struct {
	CourseStore CourseStoreForOrchestrator
}

// ExecuteListCourses returns the full collection.
// PRE: none
// POST: Returns every course, or a *course.FetchError wrapping the backend failure
func ExecuteListCourses(ctx context.Context, deps ListCoursesDeps) ([]course.Course, error) {
	list, err := deps.CourseStore.List(ctx)
	if err != nil {
		slog.Warn("course_event", "event", "course_list_failed", "error", err)
		return nil, &course.FetchError{Err: err}
	}
	if list == nil {
		list = []course.Course{}
	}
	return list, nil
}

// --- Create Course ---

// CreateCourseInput carries input for the create course orchestrator.
type CreateCourseInput struct {
	Title       string
	Description string
	Duration    int
}

// CreateCourseDeps holds dependencies for CreateCourse.
type CreateCourseDeps struct {
	CourseStore CourseStoreForOrchestrator
	Drafts      FormDraftClearer // optional
	GenerateID  func() string
	Now         func() time.Time
}

// ExecuteCreateCourse validates input and stores a new draft course.
// PRE: none
// POST: Course persisted in draft status with a generated ID and CreatedAt; the
// form draft is cleared. On a ValidationError nothing is written.
func ExecuteCreateCourse(ctx context.Context, input CreateCourseInput, deps CreateCourseDeps) (course.Course, error) {
	c, err := course.New(deps.GenerateID(), course.NewCourse{
		Title:       input.Title,
		Description: input.Description,
		Duration:    input.Duration,
	}, deps.Now())
	if err != nil {
		return course.Course{}, err
	}

	if err := deps.CourseStore.Save(ctx, c); err != nil {
		return course.Course{}, fmt.Errorf("save course: %w", err)
	}

	if deps.Drafts != nil {
		if err := deps.Drafts.Clear(ctx); err != nil {
			// The course exists; a stale draft is only an inconvenience.
			slog.Warn("course_event", "event", "form_draft_clear_failed", "course_id", c.ID, "error", err)
		}
	}

	slog.Info("course_event", "event", "course_created", "course_id", c.ID, "duration", c.Duration)
	return c, nil
}

// --- Update Course ---

// UpdateCourseInput carries input for the update course orchestrator.
type UpdateCourseInput struct {
	CourseID string
	Patch    course.Patch
}

// UpdateCourseDeps holds dependencies for UpdateCourse.
type UpdateCourseDeps struct {
	CourseStore CourseStoreForOrchestrator
	Now         func() time.Time
	// OnFirstPublish is called after a course is persisted with PublishedAt newly set. Optional.
	OnFirstPublish func(ctx context.Context, c course.Course)
}

// ExecuteUpdateCourse merges a partial update into an existing course.
// PRE: CourseID is non-empty
// POST: Returns the persisted course. Fails with course.ErrNotFound,
// course.ErrEditForbidden (archived target), course.ValidationError or
// course.ErrInvalidTransition; on failure nothing is written. An empty patch
// on an editable course returns it unchanged without a write.
func ExecuteUpdateCourse(ctx context.Context, input UpdateCourseInput, deps UpdateCourseDeps) (course.Course, error) {
	if input.CourseID == "" {
		return course.Course{}, fmt.Errorf("course id is required: %w", course.ErrNotFound)
	}

	c, err := deps.CourseStore.GetByID(ctx, input.CourseID)
	if err != nil {
		return course.Course{}, err
	}

	if input.Patch.IsEmpty() && c.CanEdit() {
		return c, nil
	}

	wasPublished := c.PublishedAt != nil
	if err := c.ApplyPatch(input.Patch, deps.Now()); err != nil {
		if errors.Is(err, course.ErrEditForbidden) {
			slog.Info("course_event", "event", "course_edit_forbidden", "course_id", c.ID)
		}
		return course.Course{}, err
	}

	if err := deps.CourseStore.Save(ctx, c); err != nil {
		return course.Course{}, fmt.Errorf("save course: %w", err)
	}

	slog.Info("course_event", "event", "course_updated", "course_id", c.ID, "status", string(c.Status))
	if !wasPublished && c.PublishedAt != nil {
		slog.Info("course_event", "event", "course_published", "course_id", c.ID)
		if deps.OnFirstPublish != nil {
			deps.OnFirstPublish(ctx, c)
		}
	}
	return c, nil
}

// --- Delete Course ---

// DeleteCourseInput carries input for the delete course orchestrator.
type DeleteCourseInput struct {
	CourseID string
}

// DeleteCourseDeps holds dependencies for DeleteCourse.
type DeleteCourseDeps struct {
	CourseStore CourseStoreForOrchestrator
}

// ExecuteDeleteCourse removes a course. Archived courses may be deleted.
// PRE: CourseID is non-empty
// POST: Course removed, or course.ErrNotFound
func ExecuteDeleteCourse(ctx context.Context, input DeleteCourseInput, deps DeleteCourseDeps) error {
	if input.CourseID == "" {
		return fmt.Errorf("course id is required: %w", course.ErrNotFound)
	}
	if err := deps.CourseStore.Delete(ctx, input.CourseID); err != nil {
		return err
	}
	slog.Info("course_event", "event", "course_deleted", "course_id", input.CourseID)
	return nil
}
