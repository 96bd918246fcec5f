package course

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"coursecatalog/internal/adapters/storage/kv"
	domain "coursecatalog/internal/domain/course"
)

// KVStore keeps the whole collection as one JSON array under kv.KeyCourses.
// Writes are read-modify-write and serialized by a mutex, so a KVStore must
// be the only writer of its key.
type KVStore struct {
	kv kv.Store
	mu sync.Mutex
}

// NewKVStore creates a course store over a key-value backend.
func NewKVStore(store kv.Store) *KVStore {
	return &KVStore{kv: store}
}

func (s *KVStore) load(ctx context.Context) ([]domain.Course, error) {
	raw, err := s.kv.Get(ctx, kv.KeyCourses)
	if errors.Is(err, kv.ErrMissing) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []domain.Course
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kv.KeyCourses, err)
	}
	return list, nil
}

func (s *KVStore) store(ctx context.Context, list []domain.Course) error {
	if list == nil {
		list = []domain.Course{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, kv.KeyCourses, raw)
}

// GetByID retrieves a Course by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping domain.ErrNotFound
func (s *KVStore) GetByID(ctx context.Context, id string) (domain.Course, error) {
	list, err := s.load(ctx)
	if err != nil {
		return domain.Course{}, err
	}
	for _, c := range list {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Course{}, fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
}

// Save replaces the course with the same ID or appends a new one.
func (s *KVStore) Save(ctx context.Context, value domain.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load(ctx)
	if err != nil {
		return err
	}
	if i := slices.IndexFunc(list, func(c domain.Course) bool { return c.ID == value.ID }); i >= 0 {
		list[i] = value
	} else {
		list = append(list, value)
	}
	return s.store(ctx, list)
}

// Delete removes the course with the given ID.
// POST: returns an error wrapping domain.ErrNotFound if absent; storage is untouched then
func (s *KVStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(list, func(c domain.Course) bool { return c.ID == id })
	if i < 0 {
		return fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
	}
	return s.store(ctx, slices.Delete(list, i, i+1))
}

// List returns all courses ordered by CreatedAt then ID.
func (s *KVStore) List(ctx context.Context) ([]domain.Course, error) {
	list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(list, func(a, b domain.Course) int {
		if r := a.CreatedAt.Compare(b.CreatedAt); r != 0 {
			return r
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return list, nil
}
