package orchestrators

import (
	"context"
	"time"

	"github.com/google/uuid"

	"coursecatalog/internal/domain/course"
)

// CourseGateway exposes the course orchestrators as a list/create/update/delete contract.
type CourseGateway struct {
	Store      CourseStoreForOrchestrator
	Drafts     FormDraftClearer // optional
	Announcer  *Announcer       // optional
	GenerateID func() string
	Now        func() time.Time
}

// NewCourseGateway wires a gateway with UUID identifiers and the wall clock.
func NewCourseGateway(store CourseStoreForOrchestrator, drafts FormDraftClearer, announcer *Announcer) *CourseGateway {
	return &CourseGateway{
		Store:      store,
		Drafts:     drafts,
		Announcer:  announcer,
		GenerateID: func() string { return uuid.New().String() },
		Now:        time.Now,
	}
}

// List returns the full collection or a *course.FetchError.
func (g *CourseGateway) List(ctx context.Context) ([]course.Course, error) {
	return ExecuteListCourses(ctx, ListCoursesDeps{CourseStore: g.Store})
}

// Get returns a single course.
func (g *CourseGateway) Get(ctx context.Context, id string) (course.Course, error) {
	return g.Store.GetByID(ctx, id)
}

// Create stores a new draft course.
func (g *CourseGateway) Create(ctx context.Context, in course.NewCourse) (course.Course, error) {
	return ExecuteCreateCourse(ctx, CreateCourseInput{
		Title:       in.Title,
		Description: in.Description,
		Duration:    in.Duration,
	}, CreateCourseDeps{
		CourseStore: g.Store,
		Drafts:      g.Drafts,
		GenerateID:  g.GenerateID,
		Now:         g.Now,
	})
}

// Update applies a partial update and announces a first publish.
func (g *CourseGateway) Update(ctx context.Context, id string, p course.Patch) (course.Course, error) {
	deps := UpdateCourseDeps{CourseStore: g.Store, Now: g.Now}
	if g.Announcer != nil {
		deps.OnFirstPublish = g.Announcer.Announce
	}
	return ExecuteUpdateCourse(ctx, UpdateCourseInput{CourseID: id, Patch: p}, deps)
}

// Delete removes a course.
func (g *CourseGateway) Delete(ctx context.Context, id string) error {
	return ExecuteDeleteCourse(ctx, DeleteCourseInput{CourseID: id}, DeleteCourseDeps{CourseStore: g.Store})
}
