package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"coursecatalog/internal/domain/course"
)

// SeedFile is the YAML document accepted by ExecuteSeedCourses.
type SeedFile struct {
	Courses []SeedCourse `yaml:"courses"`
}

// SeedCourse is one entry in a seed file. Status defaults to draft.
type SeedCourse struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Duration    int    `yaml:"duration"`
	Status      string `yaml:"status"`
}

// SeedCoursesDeps holds dependencies for SeedCourses.
type SeedCoursesDeps struct {
	CourseStore CourseStoreForOrchestrator
	GenerateID  func() string
	Now         func() time.Time
}

// ExecuteSeedCourses loads courses from YAML into an empty store.
// Entries are created in file order, one millisecond apart, then moved to
// their target status through the normal lifecycle rules.
// PRE: data is a YAML SeedFile
// POST: Returns the number of courses written; 0 when the store already has courses.
// Nothing is written if any entry is invalid.
func ExecuteSeedCourses(ctx context.Context, data []byte, deps SeedCoursesDeps) (int, error) {
	var file SeedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return 0, fmt.Errorf("parse seed file: %w", err)
	}

	existing, err := deps.CourseStore.List(ctx)
	if err != nil {
		return 0, &course.FetchError{Err: err}
	}
	if len(existing) > 0 {
		slog.Info("course_event", "event", "seed_skipped", "existing", len(existing))
		return 0, nil
	}

	base := deps.Now()
	built := make([]course.Course, 0, len(file.Courses))
	for i, entry := range file.Courses {
		at := base.Add(time.Duration(i) * time.Millisecond)
		c, err := course.New(deps.GenerateID(), course.NewCourse{
			Title:       entry.Title,
			Description: entry.Description,
			Duration:    entry.Duration,
		}, at)
		if err != nil {
			return 0, fmt.Errorf("seed entry %d: %w", i+1, err)
		}
		if entry.Status != "" {
			target, err := course.ParseStatus(entry.Status)
			if err != nil {
				return 0, fmt.Errorf("seed entry %d: %w", i+1, err)
			}
			if target != course.StatusDraft {
				if err := c.Transition(target, at); err != nil {
					return 0, fmt.Errorf("seed entry %d: %w", i+1, err)
				}
			}
		}
		built = append(built, c)
	}

	for _, c := range built {
		if err := deps.CourseStore.Save(ctx, c); err != nil {
			return 0, fmt.Errorf("save seed course %s: %w", c.ID, err)
		}
	}
	slog.Info("course_event", "event", "courses_seeded", "count", len(built))
	return len(built), nil
}
