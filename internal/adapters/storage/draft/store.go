// Package draft persists the unsaved course form under kv.KeyFormDraft.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"coursecatalog/internal/adapters/storage/kv"
	domain "coursecatalog/internal/domain/course"
)

// Store reads and writes the single form draft.
type Store struct {
	kv kv.Store
}

// NewStore creates a draft store over a key-value backend.
func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

// Load returns the saved draft, or an empty draft when none exists.
// PRE: none
// POST: a missing key is not an error
func (s *Store) Load(ctx context.Context) (domain.FormDraft, error) {
	raw, err := s.kv.Get(ctx, kv.KeyFormDraft)
	if errors.Is(err, kv.ErrMissing) {
		return domain.FormDraft{}, nil
	}
	if err != nil {
		return domain.FormDraft{}, err
	}
	var d domain.FormDraft
	if err := json.Unmarshal(raw, &d); err != nil {
		return domain.FormDraft{}, fmt.Errorf("decode %s: %w", kv.KeyFormDraft, err)
	}
	return d, nil
}

// Save overwrites the draft.
func (s *Store) Save(ctx context.Context, d domain.FormDraft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, kv.KeyFormDraft, raw)
}

// Clear removes the draft.
func (s *Store) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, kv.KeyFormDraft)
}
