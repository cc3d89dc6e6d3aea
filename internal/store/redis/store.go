package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/tweetvault/internal/domain"
)

const (
	// mgetChunk bounds the number of keys fetched per MGET
	mgetChunk = 500
	// maxWatchRetries is how often an optimistic update is retried
	maxWatchRetries = 3
)

// Store persists records in Redis: one JSON value per record plus
// ID sets for all records and for each category.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Upsert stores every record inside one MULTI/EXEC block.
func (s *Store) Upsert(ctx context.Context, records []*domain.Record) error {
	payloads := make([][]byte, len(records))
	for i, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return storageErr("upsert", fmt.Errorf("failed to marshal record %s: %w", r.ID, err))
		}
		payloads[i] = data
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, r := range records {
			pipe.Set(ctx, RecordKey(r.ID), payloads[i], 0)
			pipe.SAdd(ctx, AllRecordsKey(), r.ID)
			for _, c := range domain.Categories {
				if c != r.Category {
					pipe.SRem(ctx, CategoryKey(c), r.ID)
				}
			}
			pipe.SAdd(ctx, CategoryKey(r.Category), r.ID)
		}
		return nil
	})
	if err != nil {
		return storageErr("upsert", fmt.Errorf("failed to save records: %w", err))
	}
	return nil
}

// Get retrieves a record by ID, soft-deleted or not.
func (s *Store) Get(ctx context.Context, id string) (*domain.Record, error) {
	data, err := s.client.Get(ctx, RecordKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
		}
		return nil, storageErr("get", fmt.Errorf("failed to get record: %w", err))
	}

	var r domain.Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, storageErr("get", fmt.Errorf("failed to unmarshal record: %w", err))
	}
	return &r, nil
}

// ByCategory returns the live records of one category.
func (s *Store) ByCategory(ctx context.Context, category domain.Category) ([]*domain.Record, error) {
	return s.liveMembers(ctx, CategoryKey(category))
}

// All returns every live record.
func (s *Store) All(ctx context.Context) ([]*domain.Record, error) {
	return s.liveMembers(ctx, AllRecordsKey())
}

func (s *Store) liveMembers(ctx context.Context, setKey string) ([]*domain.Record, error) {
	ids, err := s.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, storageErr("query", fmt.Errorf("failed to get record IDs: %w", err))
	}

	records := make([]*domain.Record, 0, len(ids))
	for start := 0; start < len(ids); start += mgetChunk {
		end := min(start+mgetChunk, len(ids))
		keys := make([]string, 0, end-start)
		for _, id := range ids[start:end] {
			keys = append(keys, RecordKey(id))
		}

		values, err := s.client.MGet(ctx, keys...).Result()
		if err != nil {
			return nil, storageErr("query", fmt.Errorf("failed to get records: %w", err))
		}
		for _, v := range values {
			str, ok := v.(string)
			if !ok {
				// set member without a value: skip it
				continue
			}
			var r domain.Record
			if err := json.Unmarshal([]byte(str), &r); err != nil {
				return nil, storageErr("query", fmt.Errorf("failed to unmarshal record: %w", err))
			}
			if r.Deleted {
				continue
			}
			records = append(records, &r)
		}
	}
	return records, nil
}

// SoftDelete flags a record as deleted using an optimistic transaction.
func (s *Store) SoftDelete(ctx context.Context, id string) error {
	key := RecordKey(id)

	update := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
		}
		if err != nil {
			return err
		}

		var r domain.Record
		if err := json.Unmarshal(data, &r); err != nil {
			return fmt.Errorf("failed to unmarshal record: %w", err)
		}
		r.Deleted = true
		out, err := json.Marshal(&r)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < maxWatchRetries; i++ {
		err = s.client.Watch(ctx, update, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound):
		return err
	default:
		return storageErr("soft delete", err)
	}
}

// PurgeAll removes every key in the store namespace.
func (s *Store) PurgeAll(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, KeyNamespace+"*", 0).Iterator()
	batch := make([]string, 0, mgetChunk)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("failed to delete keys: %w", err)
		}
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := flush(); err != nil {
				return storageErr("purge", err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return storageErr("purge", fmt.Errorf("failed to scan keys: %w", err))
	}
	if err := flush(); err != nil {
		return storageErr("purge", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func storageErr(op string, err error) error {
	return &domain.StorageError{Op: op, Err: err}
}
