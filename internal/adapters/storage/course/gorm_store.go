package course

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "coursecatalog/internal/domain/course"
)

// ListCacheKey holds the cached JSON of the full collection.
const ListCacheKey = "courses:list"

// ListCacheTTL bounds how stale a cached list can be if an invalidation is lost.
const ListCacheTTL = 10 * time.Minute

// CourseRecord is the gorm row for a course.
type CourseRecord struct {
	ID          string    `gorm:"primaryKey;type:varchar(64)"`
	Title       string    `gorm:"type:varchar(100);not null"`
	Description string    `gorm:"type:text;not null;default:''"`
	Duration    int       `gorm:"not null"`
	Status      string    `gorm:"type:varchar(16);not null"`
	CreatedAt   time.Time `gorm:"index;not null;autoCreateTime:false"`
	PublishedAt *time.Time
	UpdatedAt   *time.Time `gorm:"autoUpdateTime:false"`
}

// TableName sets the table used by gorm.
func (CourseRecord) TableName() string {
	return "courses"
}

func toRecord(c domain.Course) CourseRecord {
	rec := CourseRecord{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Duration:    c.Duration,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		PublishedAt: c.PublishedAt,
	}
	if !c.UpdatedAt.IsZero() {
		u := c.UpdatedAt
		rec.UpdatedAt = &u
	}
	return rec
}

func toDomain(rec CourseRecord) domain.Course {
	c := domain.Course{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		Duration:    rec.Duration,
		Status:      domain.Status(rec.Status),
		CreatedAt:   rec.CreatedAt,
		PublishedAt: rec.PublishedAt,
	}
	if rec.UpdatedAt != nil {
		c.UpdatedAt = *rec.UpdatedAt
	}
	return c
}

// NewGormLogger routes gorm's own logging through slog at WARN: slow
// statements and errors only, never record-not-found misses.
func NewGormLogger(slow time.Duration) logger.Interface {
	return logger.New(slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn), logger.Config{
		SlowThreshold:             slow,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// GormStore implements Store on a gorm database (Postgres in production).
// When cache is non-nil, List is read through Redis and every write drops the entry.
type GormStore struct {
	db    *gorm.DB
	cache *redis.Client
}

// NewGormStore creates a new gorm-backed store. cache may be nil.
func NewGormStore(db *gorm.DB, cache *redis.Client) *GormStore {
	return &GormStore{db: db, cache: cache}
}

// AutoMigrate creates or updates the courses table.
func (s *GormStore) AutoMigrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&CourseRecord{})
}

// GetByID retrieves a Course by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping domain.ErrNotFound
func (s *GormStore) GetByID(ctx context.Context, id string) (domain.Course, error) {
	var rec CourseRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Course{}, fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Course{}, err
	}
	return toDomain(rec), nil
}

// Save inserts or updates the Course.
func (s *GormStore) Save(ctx context.Context, value domain.Course) error {
	rec := toRecord(value)
	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes the Course with the given ID.
// POST: returns an error wrapping domain.ErrNotFound when no row was removed
func (s *GormStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&CourseRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
	}
	s.invalidate(ctx)
	return nil
}

// List returns every course, oldest first.
func (s *GormStore) List(ctx context.Context) ([]domain.Course, error) {
	if s.cache != nil {
		if val, err := s.cache.Get(ctx, ListCacheKey).Bytes(); err == nil {
			var cached []domain.Course
			if json.Unmarshal(val, &cached) == nil {
				return cached, nil
			}
		}
	}

	var recs []CourseRecord
	if err := s.db.WithContext(ctx).Order("created_at asc, id asc").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Course, len(recs))
	for i, rec := range recs {
		out[i] = toDomain(rec)
	}

	if s.cache != nil {
		if data, err := json.Marshal(out); err == nil {
			if err := s.cache.Set(ctx, ListCacheKey, data, ListCacheTTL).Err(); err != nil {
				slog.Warn("course_cache_error", "op", "set", "error", err)
			}
		}
	}
	return out, nil
}

func (s *GormStore) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, ListCacheKey).Err(); err != nil {
		slog.Warn("course_cache_error", "op", "del", "error", err)
	}
}
