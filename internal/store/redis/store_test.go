package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/tweetvault/internal/domain"
)

// newTestStore connects to the Redis instance named by TWEETVAULT_TEST_REDIS_ADDR
// and skips the test when it is not set. DB 15 is flushed before and after.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	addr := os.Getenv("TWEETVAULT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TWEETVAULT_TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis unavailable at %s: %v", addr, err)
	}

	s := NewStore(client)
	if err := s.PurgeAll(ctx); err != nil {
		t.Fatalf("PurgeAll() error = %v", err)
	}
	t.Cleanup(func() {
		_ = s.PurgeAll(context.Background())
		_ = s.Close()
	})
	return s
}

func rec(id string, c domain.Category) *domain.Record {
	return &domain.Record{
		ID:           id,
		Category:     c,
		CreatedAt:    time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
		AuthorHandle: "gopher",
		AuthorName:   "Go Pher",
		MediaURLs:    []string{},
	}
}

func TestKeys(t *testing.T) {
	if got := RecordKey("42"); got != "tweetvault:record:42" {
		t.Errorf("RecordKey() = %v", got)
	}
	if got := CategoryKey(domain.CategoryLike); got != "tweetvault:category:like" {
		t.Errorf("CategoryKey() = %v", got)
	}
	if got := AllRecordsKey(); got != "tweetvault:records:all" {
		t.Errorf("AllRecordsKey() = %v", got)
	}
}

func TestUpsertAndQuery(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	batch := []*domain.Record{rec("1", domain.CategoryLike), rec("2", domain.CategoryLike), rec("3", domain.CategoryTweet)}
	for i := 0; i < 2; i++ {
		if err := s.Upsert(ctx, batch); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	likes, err := s.ByCategory(ctx, domain.CategoryLike)
	if err != nil {
		t.Fatalf("ByCategory() error = %v", err)
	}
	if len(likes) != 2 {
		t.Errorf("ByCategory(like) = %v records, want 2", len(likes))
	}

	all, _ := s.All(ctx)
	if len(all) != 3 {
		t.Errorf("All() = %v records, want 3", len(all))
	}
}

func TestUpsertMovesCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.Upsert(ctx, []*domain.Record{rec("1", domain.CategoryLike)})
	_ = s.Upsert(ctx, []*domain.Record{rec("1", domain.CategoryBookmark)})

	likes, _ := s.ByCategory(ctx, domain.CategoryLike)
	bookmarks, _ := s.ByCategory(ctx, domain.CategoryBookmark)
	if len(likes) != 0 || len(bookmarks) != 1 {
		t.Errorf("likes = %v, bookmarks = %v", len(likes), len(bookmarks))
	}
}

func TestSoftDeleteAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.Upsert(ctx, []*domain.Record{rec("1", domain.CategoryLike)})
	if err := s.SoftDelete(ctx, "1"); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}

	likes, _ := s.ByCategory(ctx, domain.CategoryLike)
	if len(likes) != 0 {
		t.Errorf("deleted record still listed: %v", likes)
	}

	got, err := s.Get(ctx, "1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.Deleted {
		t.Error("Get() should expose Deleted=true")
	}

	if err := s.SoftDelete(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("SoftDelete(missing) error = %v, want ErrNotFound", err)
	}
}

func TestPurgeAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.Upsert(ctx, []*domain.Record{rec("1", domain.CategoryLike), rec("2", domain.CategoryTweet)})
	if err := s.PurgeAll(ctx); err != nil {
		t.Fatalf("PurgeAll() error = %v", err)
	}

	if _, err := s.Get(ctx, "1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() after purge error = %v, want ErrNotFound", err)
	}
	all, _ := s.All(ctx)
	if len(all) != 0 {
		t.Errorf("All() after purge = %v", len(all))
	}
}
