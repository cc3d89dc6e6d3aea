package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/tweetvault/internal/importer"
	"github.com/MrSnakeDoc/tweetvault/internal/logger"
	"github.com/MrSnakeDoc/tweetvault/internal/store/memory"
)

const sampleExport = `[
  {"id_str": "1001", "full_text": "weekend post", "created_at": "Sat Jan 06 10:00:00 +0000 2024",
   "user": {"screen_name": "alice", "name": "Alice"}, "favorited": true,
   "extended_entities": {"media": [{"media_url_https": "https://pbs.example/media/a.png"}]}},
  {"id_str": "1002", "full_text": "monday post", "created_at": "Mon Jan 08 10:00:00 +0000 2024",
   "user": {"screen_name": "alice", "name": "Alice"}, "favorited": true},
  {"id_str": "1003", "full_text": "saved", "created_at": "Tue Jan 09 10:00:00 +0000 2023",
   "user": {"screen_name": "bob", "name": "Bob"}, "bookmarked": true}
]`

// isolateConfig keeps the developer's config file and variables out of the test.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("TWEETVAULT_CONFIG", "")
	t.Setenv("TWEETVAULT_STORE_BACKEND", "memory")
}

// writeExport writes content to a file named name in a temp dir.
func writeExport(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// openTestStore returns a memory store seeded with sampleExport.
func openTestStore(t *testing.T) *memory.Store {
	t.Helper()
	isolateConfig(t)
	s := memory.NewStore()
	_, err := importer.New(s, logger.NewNop()).Import(context.Background(), []byte(sampleExport), "likes.json")
	require.NoError(t, err)
	return s
}

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}
