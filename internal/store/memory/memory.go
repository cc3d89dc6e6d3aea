package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/tweetvault/internal/domain"
)

// Store keeps records in process memory.
// Records are copied on the way in and out so callers never share state with it.
type Store struct {
	mu      sync.RWMutex
	records map[string]*domain.Record // ID -> Record
}

// NewStore creates an empty memory store
func NewStore() *Store {
	return &Store{
		records: make(map[string]*domain.Record),
	}
}

// Upsert inserts or overwrites records by ID under a single lock.
func (s *Store) Upsert(ctx context.Context, records []*domain.Record) error {
	if err := ctx.Err(); err != nil {
		return &domain.StorageError{Op: "upsert", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		s.records[r.ID] = r.Clone()
	}
	return nil
}

// Get returns a record by ID, soft-deleted or not.
func (s *Store) Get(_ context.Context, id string) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return r.Clone(), nil
}

// ByCategory returns the live records of one category.
func (s *Store) ByCategory(_ context.Context, category domain.Category) ([]*domain.Record, error) {
	return s.collect(func(r *domain.Record) bool { return r.Category == category }), nil
}

// All returns every live record.
func (s *Store) All(_ context.Context) ([]*domain.Record, error) {
	return s.collect(func(*domain.Record) bool { return true }), nil
}

func (s *Store) collect(keep func(*domain.Record) bool) []*domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Record, 0, len(s.records))
	for _, r := range s.records {
		if r.Deleted || !keep(r) {
			continue
		}
		out = append(out, r.Clone())
	}
	return out
}

// SoftDelete flags a record as deleted.
func (s *Store) SoftDelete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	r.Deleted = true
	return nil
}

// PurgeAll drops every record.
func (s *Store) PurgeAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*domain.Record)
	return nil
}

// Count returns the number of stored records, deleted ones included.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
