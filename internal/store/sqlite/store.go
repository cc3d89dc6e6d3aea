package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/MrSnakeDoc/tweetvault/internal/domain"
)

const recordColumns = `id, category, full_text, created_at, author_handle, author_name,
	avatar_url, media_url, media_urls, video_url, raw_payload, deleted`

// Store implements store.Store on top of a SQLite database.
type Store struct {
	db *sql.DB

	upsert     *sql.Stmt
	get        *sql.Stmt
	byCategory *sql.Stmt
	all        *sql.Stmt
	softDelete *sql.Stmt
}

// Open opens (creating if needed) the database at path and migrates it.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection: writes serialize and ":memory:" stays a single database
	db.SetMaxOpenConns(1)

	if err := NewMigrationRunner(db).Run(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	s, err := NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an already opened and migrated database.
func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}
	return s, nil
}

func (s *Store) prepareStatements() error {
	var err error

	s.upsert, err = s.db.Prepare(`
		INSERT INTO records (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category      = excluded.category,
			full_text     = excluded.full_text,
			created_at    = excluded.created_at,
			author_handle = excluded.author_handle,
			author_name   = excluded.author_name,
			avatar_url    = excluded.avatar_url,
			media_url     = excluded.media_url,
			media_urls    = excluded.media_urls,
			video_url     = excluded.video_url,
			raw_payload   = excluded.raw_payload,
			deleted       = excluded.deleted,
			updated_at    = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return err
	}

	s.get, err = s.db.Prepare(`SELECT ` + recordColumns + ` FROM records WHERE id = ?`)
	if err != nil {
		return err
	}

	s.byCategory, err = s.db.Prepare(`SELECT ` + recordColumns + ` FROM records WHERE category = ? AND deleted = 0`)
	if err != nil {
		return err
	}

	s.all, err = s.db.Prepare(`SELECT ` + recordColumns + ` FROM records WHERE deleted = 0`)
	if err != nil {
		return err
	}

	s.softDelete, err = s.db.Prepare(`UPDATE records SET deleted = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`)
	return err
}

// Upsert writes all records in one transaction: either every record is stored or none.
func (s *Store) Upsert(ctx context.Context, records []*domain.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("upsert", fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback() //nolint:errcheck

	stmt := tx.StmtContext(ctx, s.upsert)
	for _, r := range records {
		mediaURLs, err := json.Marshal(nonNil(r.MediaURLs))
		if err != nil {
			return storageErr("upsert", fmt.Errorf("failed to marshal media urls of %s: %w", r.ID, err))
		}
		var payload any
		if len(r.RawPayload) > 0 {
			payload = string(r.RawPayload)
		}
		if _, err := stmt.ExecContext(ctx,
			r.ID, string(r.Category), r.FullText, formatTime(r.CreatedAt),
			r.AuthorHandle, r.AuthorName, r.AvatarURL,
			r.MediaURL, string(mediaURLs), r.VideoURL,
			payload, r.Deleted,
		); err != nil {
			return storageErr("upsert", fmt.Errorf("failed to upsert record %s: %w", r.ID, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return storageErr("upsert", fmt.Errorf("failed to commit: %w", err))
	}
	return nil
}

// Get returns a record by ID, including soft-deleted ones.
func (s *Store) Get(ctx context.Context, id string) (*domain.Record, error) {
	r, err := scanRecord(s.get.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, storageErr("get", err)
	}
	return r, nil
}

// ByCategory returns the live records of one category.
func (s *Store) ByCategory(ctx context.Context, category domain.Category) ([]*domain.Record, error) {
	rows, err := s.byCategory.QueryContext(ctx, string(category))
	if err != nil {
		return nil, storageErr("query", err)
	}
	return collect(rows)
}

// All returns every live record.
func (s *Store) All(ctx context.Context) ([]*domain.Record, error) {
	rows, err := s.all.QueryContext(ctx)
	if err != nil {
		return nil, storageErr("query", err)
	}
	return collect(rows)
}

// SoftDelete flags a record as deleted.
func (s *Store) SoftDelete(ctx context.Context, id string) error {
	res, err := s.softDelete.ExecContext(ctx, id)
	if err != nil {
		return storageErr("soft delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("soft delete", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return nil
}

// PurgeAll irreversibly removes every record.
func (s *Store) PurgeAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return storageErr("purge", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases prepared statements and the database handle.
func (s *Store) Close() error {
	for _, stmt := range []*sql.Stmt{s.upsert, s.get, s.byCategory, s.all, s.softDelete} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.Record, error) {
	var (
		r         domain.Record
		category  string
		createdAt string
		mediaURLs string
		payload   sql.NullString
	)
	if err := row.Scan(
		&r.ID, &category, &r.FullText, &createdAt,
		&r.AuthorHandle, &r.AuthorName, &r.AvatarURL,
		&r.MediaURL, &mediaURLs, &r.VideoURL,
		&payload, &r.Deleted,
	); err != nil {
		return nil, err
	}

	r.Category = domain.Category(category)

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at for %s: %w", r.ID, err)
	}
	r.CreatedAt = ts.UTC()

	if err := json.Unmarshal([]byte(mediaURLs), &r.MediaURLs); err != nil {
		return nil, fmt.Errorf("invalid media_urls for %s: %w", r.ID, err)
	}
	r.MediaURLs = nonNil(r.MediaURLs)

	if payload.Valid && strings.TrimSpace(payload.String) != "" {
		r.RawPayload = json.RawMessage(payload.String)
	}
	return &r, nil
}

func collect(rows *sql.Rows) ([]*domain.Record, error) {
	defer rows.Close()

	out := make([]*domain.Record, 0)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, storageErr("scan", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("scan", err)
	}
	return out, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func storageErr(op string, err error) error {
	return &domain.StorageError{Op: op, Err: err}
}
