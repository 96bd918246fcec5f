package course

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"coursecatalog/internal/adapters/storage"
	domain "coursecatalog/internal/domain/course"
)

const selectColumns = "SELECT id, title, description, duration, status, created_at, published_at, updated_at FROM course"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new course store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Course by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping domain.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Course, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	entity, err := scanCourse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Course{}, fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
	}
	return entity, err
}

// Save persists a Course (insert or update).
// PRE: value has been validated
// POST: Course is persisted
func (s *SQLiteStore) Save(ctx context.Context, value domain.Course) error {
	query := `INSERT INTO course (id, title, description, duration, status, created_at, published_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			duration = excluded.duration,
			status = excluded.status,
			published_at = excluded.published_at,
			updated_at = excluded.updated_at`

	var publishedAt, updatedAt sql.NullString
	if value.PublishedAt != nil {
		publishedAt = sql.NullString{String: formatTime(*value.PublishedAt), Valid: true}
	}
	if !value.UpdatedAt.IsZero() {
		updatedAt = sql.NullString{String: formatTime(value.UpdatedAt), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		value.ID,
		value.Title,
		value.Description,
		value.Duration,
		string(value.Status),
		formatTime(value.CreatedAt),
		publishedAt,
		updatedAt,
	)
	return err
}

// Delete removes the Course with the given ID.
// PRE: id is non-empty
// POST: Course is removed, or an error wrapping domain.ErrNotFound is returned
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM course WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// List retrieves all courses, oldest first.
// PRE: none
// POST: Returns courses ordered by created_at then id
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Course, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" ORDER BY created_at ASC, id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Course
	for rows.Next() {
		entity, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCourse(row scanner) (domain.Course, error) {
	var entity domain.Course
	var status, createdAt string
	var publishedAt, updatedAt sql.NullString
	err := row.Scan(
		&entity.ID,
		&entity.Title,
		&entity.Description,
		&entity.Duration,
		&status,
		&createdAt,
		&publishedAt,
		&updatedAt,
	)
	if err != nil {
		return domain.Course{}, err
	}
	entity.Status = domain.Status(status)
	if entity.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Course{}, fmt.Errorf("course %s created_at: %w", entity.ID, err)
	}
	if publishedAt.Valid {
		t, err := parseTime(publishedAt.String)
		if err != nil {
			return domain.Course{}, fmt.Errorf("course %s published_at: %w", entity.ID, err)
		}
		entity.PublishedAt = &t
	}
	if updatedAt.Valid {
		if entity.UpdatedAt, err = parseTime(updatedAt.String); err != nil {
			return domain.Course{}, fmt.Errorf("course %s updated_at: %w", entity.ID, err)
		}
	}
	return entity, nil
}
