package tweets

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/tweetvault/internal/domain"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(WithClock(func() time.Time { return fixedNow }))
}

func TestNormalizeRejectsExtension(t *testing.T) {
	tests := []string{"export.csv", "export", "export.json.bak", "notes.txt"}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := newTestNormalizer().Normalize([]byte(`[{"id":"1"}]`), name)
			if !errors.Is(err, domain.ErrUnsupportedFormat) {
				t.Errorf("Normalize(%q) error = %v, want ErrUnsupportedFormat", name, err)
			}
		})
	}
}

func TestNormalizeAcceptsExtensionCaseInsensitive(t *testing.T) {
	for _, name := range []string{"A.JSON", "b.Jsonl"} {
		if _, _, err := newTestNormalizer().Normalize([]byte(`[{"id":"1"}]`), name); err != nil {
			t.Errorf("Normalize(%q) unexpected error: %v", name, err)
		}
	}
}

func TestNormalizeFileChecksExtensionBeforeReading(t *testing.T) {
	// the file does not exist: the extension must be rejected first
	_, _, err := newTestNormalizer().NormalizeFile(filepath.Join(t.TempDir(), "missing.xml"))
	if !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Errorf("NormalizeFile() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestNormalizeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "likes.json")
	content := `[{"tweet_id":"1","full_text":"hello","favorited":true}]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	records, report, err := newTestNormalizer().NormalizeFile(path)
	if err != nil {
		t.Fatalf("NormalizeFile() error = %v", err)
	}
	if len(records) != 1 || records[0].Category != domain.CategoryLike {
		t.Errorf("NormalizeFile() = %+v", records)
	}
	if report.Format != "json" || report.Entries != 1 {
		t.Errorf("report = %+v", report)
	}
}

func TestNormalizeParseFailures(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{name: "empty file", data: "", wantErr: domain.ErrParseFailure},
		{name: "garbage", data: "this is not json\nnor is this", wantErr: domain.ErrParseFailure},
		{name: "empty array", data: "[]", wantErr: domain.ErrNoValidEntries},
		{name: "array of scalars", data: "[1, 2, 3]", wantErr: domain.ErrNoValidEntries},
		{name: "bare scalar", data: `"hello"`, wantErr: domain.ErrNoValidEntries},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := newTestNormalizer().Normalize([]byte(tt.data), "x.json")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Normalize() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeSingleObject(t *testing.T) {
	records, _, err := newTestNormalizer().Normalize([]byte(`{"id_str":"77","text":"solo"}`), "one.json")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(records) != 1 || records[0].ID != "77" || records[0].FullText != "solo" {
		t.Errorf("Normalize() = %+v", records[0])
	}
}

func TestNormalizeJSONLSkipsBadLines(t *testing.T) {
	data := "{\"id\":\"1\",\"text\":\"a\"}\r\n\nnot json at all\n{\"id\":\"2\",\"text\":\"b\"}\n{broken\n"

	records, report, err := newTestNormalizer().Normalize([]byte(data), "dump.jsonl")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Normalize() returned %d records, want 2", len(records))
	}
	if records[0].ID != "1" || records[1].ID != "2" {
		t.Errorf("ids = %q, %q", records[0].ID, records[1].ID)
	}
	if report.Format != "jsonl" || report.SkippedLines != 2 {
		t.Errorf("report = %+v, want jsonl with 2 skipped lines", report)
	}
}

func TestNormalizeStripsIDPrefix(t *testing.T) {
	data := `[{"id":"bookmark_998877"},{"id":"LIKE_42"},{"id":"retweet_5"},{"text":"no id"}]`

	records, _, err := newTestNormalizer().Normalize([]byte(data), "x.json")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	want := []string{"998877", "42", "retweet_5", domain.UnknownID}
	for i, w := range want {
		if records[i].ID != w {
			t.Errorf("records[%d].ID = %q, want %q", i, records[i].ID, w)
		}
	}
}

func TestNormalizeKeepsLargeNumericIDs(t *testing.T) {
	records, _, err := newTestNormalizer().Normalize([]byte(`[{"id":1790000000000000123}]`), "x.json")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if records[0].ID != "1790000000000000123" {
		t.Errorf("ID = %q, want exact digits", records[0].ID)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	start := time.Now()
	records, _, err := NewNormalizer().Normalize([]byte(`[{"tweet_id":"9"}]`), "x.json")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	r := records[0]
	if r.AuthorHandle != domain.UnknownHandle || r.AuthorName != domain.UnknownName {
		t.Errorf("author = %q/%q, want defaults", r.AuthorHandle, r.AuthorName)
	}
	if r.CreatedAt.Before(start.Truncate(time.Second)) {
		t.Errorf("CreatedAt = %v, want >= %v", r.CreatedAt, start)
	}
	if r.Category != domain.CategoryBookmark {
		t.Errorf("Category = %v, want bookmark", r.Category)
	}
	if r.MediaURLs == nil || len(r.MediaURLs) != 0 || r.MediaURL != "" || r.VideoURL != "" {
		t.Errorf("media = %q %v %q, want empty", r.MediaURL, r.MediaURLs, r.VideoURL)
	}
	if r.Deleted {
		t.Error("Deleted should be false")
	}
}

func TestNormalizeSchemaB(t *testing.T) {
	data := `[{
		"id_str": "1500",
		"full_text": "clip",
		"created_at": "Wed Oct 10 20:19:24 +0000 2018",
		"bookmarked": true,
		"user": {"screen_name": "@vid", "name": "Video Person", "profile_image_url_https": "https://pbs/avatar.jpg"},
		"extended_entities": {"media": [{
			"media_url_https": "https://pbs/thumb.jpg",
			"video_info": {"variants": [
				{"content_type": "application/x-mpegURL", "url": "https://video/pl.m3u8"},
				{"content_type": "video/mp4", "bitrate": 832000, "url": "https://video/low.mp4"},
				{"content_type": "video/mp4", "bitrate": 2176000, "url": "https://video/high.mp4"}
			]}
		}]}
	}]`

	records, _, err := newTestNormalizer().Normalize([]byte(data), "x.json")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	r := records[0]
	if r.ID != "1500" || r.FullText != "clip" {
		t.Errorf("identity = %q %q", r.ID, r.FullText)
	}
	if want := time.Date(2018, 10, 10, 20, 19, 24, 0, time.UTC); !r.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", r.CreatedAt, want)
	}
	if r.AuthorHandle != "vid" || r.AuthorName != "Video Person" || r.AvatarURL != "https://pbs/avatar.jpg" {
		t.Errorf("author = %q %q %q", r.AuthorHandle, r.AuthorName, r.AvatarURL)
	}
	if r.VideoURL != "https://video/high.mp4" {
		t.Errorf("VideoURL = %q, want highest bitrate", r.VideoURL)
	}
	if r.MediaURL != "https://pbs/thumb.jpg" || len(r.MediaURLs) != 1 {
		t.Errorf("media = %q %v", r.MediaURL, r.MediaURLs)
	}
}

func TestNormalizeSchemaATypedMedia(t *testing.T) {
	data := `[{
		"tweet_id": "2",
		"screen_name": "pics",
		"created_at": "2024-05-01T10:00:00.000Z",
		"media": [
			{"type": "photo", "original": "https://img/1-orig.jpg", "thumbnail": "https://img/1-thumb.jpg"},
			{"type": "video", "thumbnail": "https://img/v-thumb.jpg", "original": "https://video/v.mp4"},
			{"type": "photo", "thumbnail": "https://img/3-thumb.jpg"}
		]
	}]`

	records, _, err := newTestNormalizer().Normalize([]byte(data), "x.json")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	r := records[0]
	want := []string{"https://img/1-orig.jpg", "https://img/v-thumb.jpg", "https://img/3-thumb.jpg"}
	if len(r.MediaURLs) != len(want) {
		t.Fatalf("MediaURLs = %v, want %v", r.MediaURLs, want)
	}
	for i := range want {
		if r.MediaURLs[i] != want[i] {
			t.Errorf("MediaURLs[%d] = %q, want %q", i, r.MediaURLs[i], want[i])
		}
	}
	if r.MediaURL != r.MediaURLs[0] {
		t.Errorf("MediaURL = %q, want first of MediaURLs", r.MediaURL)
	}
	if r.VideoURL != "https://video/v.mp4" {
		t.Errorf("VideoURL = %q", r.VideoURL)
	}
	if want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC); !r.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", r.CreatedAt, want)
	}
}

func TestNormalizeSchemaC(t *testing.T) {
	data := `{"id":"like_31","text":"namespaced","timestamp":1700000000,"username":"c_user","display_name":"C",
		"media_items":[{"media_url_https":"https://img/a.png"},{"media_url_https":"https://img/b.png"}]}`

	records, _, err := newTestNormalizer().Normalize([]byte(data), "x.jsonl")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	r := records[0]
	if r.ID != "31" {
		t.Errorf("ID = %q, want 31", r.ID)
	}
	if !r.CreatedAt.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("CreatedAt = %v", r.CreatedAt)
	}
	if r.AuthorHandle != "c_user" || r.AuthorName != "C" {
		t.Errorf("author = %q %q", r.AuthorHandle, r.AuthorName)
	}
	if len(r.MediaURLs) != 2 || r.MediaURL != "https://img/a.png" {
		t.Errorf("media = %q %v", r.MediaURL, r.MediaURLs)
	}
}

func TestNormalizeInternalRepairsMediaInvariant(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantFirst string
		wantLen   int
	}{
		{
			name:      "mediaUrl disagrees with list",
			data:      `[{"id":"1","mediaUrl":"https://x/other.jpg","mediaUrls":["https://x/a.jpg","https://x/b.jpg"]}]`,
			wantFirst: "https://x/a.jpg",
			wantLen:   2,
		},
		{
			name:      "lone mediaUrl",
			data:      `[{"id":"1","mediaUrl":"https://x/only.jpg"}]`,
			wantFirst: "https://x/only.jpg",
			wantLen:   1,
		},
		{
			name:    "empty list",
			data:    `[{"id":"1","mediaUrls":[]}]`,
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, _, err := newTestNormalizer().Normalize([]byte(tt.data), "x.json")
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			r := records[0]
			if len(r.MediaURLs) != tt.wantLen || r.MediaURL != tt.wantFirst {
				t.Errorf("media = %q %v, want first %q len %d", r.MediaURL, r.MediaURLs, tt.wantFirst, tt.wantLen)
			}
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		name string
		data string
		want domain.Category
	}{
		{name: "explicit", data: `{"id":"1","category":"tweet","favorited":true}`, want: domain.CategoryTweet},
		{name: "invalid explicit falls back", data: `{"id":"1","category":"retweet","favorited":true}`, want: domain.CategoryLike},
		{name: "bookmarked flag", data: `{"id":"1","bookmarked":true,"favorited":true}`, want: domain.CategoryBookmark},
		{name: "favorited flag", data: `{"id":"1","favorited":"true"}`, want: domain.CategoryLike},
		{name: "default", data: `{"id":"1"}`, want: domain.CategoryBookmark},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, _, err := newTestNormalizer().Normalize([]byte(tt.data), "x.json")
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if records[0].Category != tt.want {
				t.Errorf("Category = %v, want %v", records[0].Category, tt.want)
			}
		})
	}
}

func TestNormalizeRawPayload(t *testing.T) {
	t.Run("original entry kept", func(t *testing.T) {
		records, _, err := newTestNormalizer().Normalize([]byte(`[ { "tweet_id" : "1", "extra": [1, 2] } ]`), "x.json")
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		if got := string(records[0].RawPayload); got != `{"tweet_id":"1","extra":[1,2]}` {
			t.Errorf("RawPayload = %s", got)
		}
	})

	t.Run("round-tripped payload preserved", func(t *testing.T) {
		data := `[{"id":"1","rawPayload":{"tweet_id":"1","source":"tool-a"}}]`
		records, _, err := newTestNormalizer().Normalize([]byte(data), "x.json")
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		var payload map[string]string
		if err := json.Unmarshal(records[0].RawPayload, &payload); err != nil {
			t.Fatalf("RawPayload is not JSON: %v", err)
		}
		if payload["source"] != "tool-a" {
			t.Errorf("RawPayload = %s", records[0].RawPayload)
		}
	})
}

func TestNormalizeOutOfRangeTimestampFallsBackToNow(t *testing.T) {
	records, _, err := newTestNormalizer().Normalize([]byte(`[{"id":"2","timestamp":999999999999999}]`), "x.json")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if !records[0].CreatedAt.Equal(fixedNow) {
		t.Errorf("CreatedAt = %v, want %v", records[0].CreatedAt, fixedNow)
	}
	if _, err := json.Marshal(records[0]); err != nil {
		t.Errorf("json.Marshal(record) error = %v", err)
	}
}

func TestNormalizeKeepsTextWhitespace(t *testing.T) {
	content := `[{"id":"3","full_text":"  line one\nline two\n","screen_name":"  carol  "}]`
	records, _, err := newTestNormalizer().Normalize([]byte(content), "x.json")
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if got := records[0].FullText; got != "  line one\nline two\n" {
		t.Errorf("FullText = %q, want the text as written", got)
	}
	if got := records[0].AuthorHandle; got != "carol" {
		t.Errorf("AuthorHandle = %q, want %q", got, "carol")
	}
}
