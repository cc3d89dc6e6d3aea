package sqlite

import (
	"context"
	"database/sql"
)

// migrateV001 creates the records table and its indexes.
func migrateV001(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS records (
			id            TEXT PRIMARY KEY,
			category      TEXT NOT NULL CHECK (category IN ('bookmark', 'like', 'tweet')),
			full_text     TEXT NOT NULL DEFAULT '',
			created_at    TEXT NOT NULL,
			author_handle TEXT NOT NULL,
			author_name   TEXT NOT NULL,
			avatar_url    TEXT NOT NULL DEFAULT '',
			media_url     TEXT NOT NULL DEFAULT '',
			media_urls    TEXT NOT NULL DEFAULT '[]',
			video_url     TEXT NOT NULL DEFAULT '',
			raw_payload   TEXT,
			deleted       BOOLEAN NOT NULL DEFAULT 0,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_records_category_deleted ON records(category, deleted)`,
		`CREATE INDEX IF NOT EXISTS idx_records_created_at       ON records(created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
