package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/tweetvault/internal/domain"
)

func rec(id string, c domain.Category) *domain.Record {
	return &domain.Record{
		ID:        id,
		Category:  c,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		MediaURLs: []string{},
	}
}

func TestNewStore(t *testing.T) {
	s := NewStore()
	all, err := s.All(context.Background())
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 0 {
		t.Errorf("NewStore() should start empty, got %v", len(all))
	}
}

func TestUpsertIsIdempotent(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	batch := []*domain.Record{rec("1", domain.CategoryLike), rec("2", domain.CategoryLike)}

	for i := 0; i < 2; i++ {
		if err := s.Upsert(ctx, batch); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	if s.Count() != 2 {
		t.Errorf("Count() = %v, want 2", s.Count())
	}
}

func TestUpsertOverwrites(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	first := rec("1", domain.CategoryLike)
	first.FullText = "old"
	_ = s.Upsert(ctx, []*domain.Record{first})

	second := rec("1", domain.CategoryBookmark)
	second.FullText = "new"
	_ = s.Upsert(ctx, []*domain.Record{second})

	got, err := s.Get(ctx, "1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.FullText != "new" || got.Category != domain.CategoryBookmark {
		t.Errorf("Get() = %+v, want overwritten record", got)
	}
}

func TestUpsertCopiesInput(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	r := rec("1", domain.CategoryLike)
	_ = s.Upsert(ctx, []*domain.Record{r})
	r.FullText = "mutated after upsert"

	got, _ := s.Get(ctx, "1")
	if got.FullText != "" {
		t.Errorf("store shares memory with caller, got %q", got.FullText)
	}
}

func TestByCategory(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	_ = s.Upsert(ctx, []*domain.Record{
		rec("1", domain.CategoryLike),
		rec("2", domain.CategoryBookmark),
		rec("3", domain.CategoryLike),
	})

	likes, _ := s.ByCategory(ctx, domain.CategoryLike)
	if len(likes) != 2 {
		t.Errorf("ByCategory(like) = %v records, want 2", len(likes))
	}
	tweets, _ := s.ByCategory(ctx, domain.CategoryTweet)
	if len(tweets) != 0 {
		t.Errorf("ByCategory(tweet) = %v records, want 0", len(tweets))
	}
}

func TestSoftDelete(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	_ = s.Upsert(ctx, []*domain.Record{rec("1", domain.CategoryLike), rec("2", domain.CategoryLike)})

	if err := s.SoftDelete(ctx, "1"); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}

	likes, _ := s.ByCategory(ctx, domain.CategoryLike)
	if len(likes) != 1 || likes[0].ID != "2" {
		t.Errorf("ByCategory() after delete = %v", likes)
	}

	got, err := s.Get(ctx, "1")
	if err != nil {
		t.Fatalf("Get() on deleted record error = %v", err)
	}
	if !got.Deleted {
		t.Error("Get() should return the record flagged as deleted")
	}

	if err := s.SoftDelete(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("SoftDelete(missing) error = %v, want ErrNotFound", err)
	}
}

func TestReimportRestoresDeleted(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	_ = s.Upsert(ctx, []*domain.Record{rec("1", domain.CategoryLike)})
	_ = s.SoftDelete(ctx, "1")

	_ = s.Upsert(ctx, []*domain.Record{rec("1", domain.CategoryLike)})

	likes, _ := s.ByCategory(ctx, domain.CategoryLike)
	if len(likes) != 1 {
		t.Errorf("re-imported record should be live again, got %v", likes)
	}
}

func TestPurgeAll(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	_ = s.Upsert(ctx, []*domain.Record{rec("1", domain.CategoryLike), rec("2", domain.CategoryTweet)})

	if err := s.PurgeAll(ctx); err != nil {
		t.Fatalf("PurgeAll() error = %v", err)
	}
	if s.Count() != 0 {
		t.Errorf("Count() after purge = %v, want 0", s.Count())
	}
	if _, err := s.Get(ctx, "1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() after purge error = %v, want ErrNotFound", err)
	}
}

func TestUpsertCancelledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Upsert(ctx, []*domain.Record{rec("1", domain.CategoryLike)})
	var se *domain.StorageError
	if !errors.As(err, &se) {
		t.Errorf("Upsert() error = %v, want StorageError", err)
	}
	if s.Count() != 0 {
		t.Error("cancelled upsert must not write")
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Upsert(ctx, []*domain.Record{rec("shared", domain.CategoryLike)})
		}()
		go func() {
			defer wg.Done()
			_, _ = s.All(ctx)
		}()
	}
	wg.Wait()

	if s.Count() != 1 {
		t.Errorf("Count() = %v, want 1", s.Count())
	}
}
