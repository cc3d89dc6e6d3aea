package store

import (
	"context"
	"sort"

	"github.com/MrSnakeDoc/tweetvault/internal/domain"
)

// Store persists canonical records keyed by ID.
//
// Upsert is atomic per call. Listing operations never return soft-deleted
// records; Get does, so a deleted record stays addressable.
type Store interface {
	Upsert(ctx context.Context, records []*domain.Record) error
	Get(ctx context.Context, id string) (*domain.Record, error)
	ByCategory(ctx context.Context, category domain.Category) ([]*domain.Record, error)
	All(ctx context.Context) ([]*domain.Record, error)
	SoftDelete(ctx context.Context, id string) error
	PurgeAll(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// SortNewestFirst orders records by creation time, newest first, then by ID.
func SortNewestFirst(records []*domain.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// List returns the live records of one category, or of all categories
// when category is empty, newest first.
func List(ctx context.Context, s Store, category domain.Category) ([]*domain.Record, error) {
	var (
		records []*domain.Record
		err     error
	)
	if category == "" {
		records, err = s.All(ctx)
	} else {
		records, err = s.ByCategory(ctx, category)
	}
	if err != nil {
		return nil, err
	}
	SortNewestFirst(records)
	return records, nil
}
