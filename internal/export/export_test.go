package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/tweetvault/internal/domain"
)

func sample() []*domain.Record {
	return []*domain.Record{
		{
			ID:           "100",
			Category:     domain.CategoryBookmark,
			FullText:     `she said "hi", then left`,
			CreatedAt:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			AuthorHandle: "alice",
			AuthorName:   "Alice A.",
			MediaURL:     "https://img/1.jpg",
			MediaURLs:    []string{"https://img/1.jpg", "https://img/2.jpg"},
			VideoURL:     "https://vid/1.mp4",
			RawPayload:   json.RawMessage(`{"id":"100"}`),
		},
		{
			ID:           "200",
			Category:     domain.CategoryLike,
			FullText:     "newer\nline",
			CreatedAt:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			AuthorHandle: "bob",
			AuthorName:   "Bob",
			MediaURLs:    []string{},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "json", want: FormatJSON},
		{in: " JSONL ", want: FormatJSONL},
		{in: "Csv", want: FormatCSV},
		{in: "xml", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sample()); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	if !strings.HasPrefix(buf.String(), "[\n  {\n    \"id\": \"200\"") {
		t.Errorf("WriteJSON() should be indented and newest first, got:\n%s", buf.String())
	}

	var back []*domain.Record
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(back) != 2 {
		t.Fatalf("decoded %d records, want 2", len(back))
	}
	var raw bytes.Buffer
	if err := json.Compact(&raw, back[1].RawPayload); err != nil || raw.String() != `{"id":"100"}` {
		t.Errorf("rawPayload = %s", back[1].RawPayload)
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	_ = WriteJSON(&buf, nil)
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("WriteJSON(nil) = %q, want []", buf.String())
	}
}

func TestWriteJSONL(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSONL(&buf, sample()); err != nil {
		t.Fatalf("WriteJSONL() error = %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("WriteJSONL() lines = %d, want 2", len(lines))
	}
	for _, l := range lines {
		if !json.Valid([]byte(l)) {
			t.Errorf("line is not valid JSON: %s", l)
		}
	}
	if !strings.Contains(lines[0], `"id":"200"`) {
		t.Errorf("first line = %s, want newest record", lines[0])
	}
}

func TestWriteCSV(t *testing.T) {
	tests := []struct {
		name       string
		opts       CSVOptions
		wantHeader string
		wantRow    string
	}{
		{
			name:       "without video",
			wantHeader: "id,created_at,author_handle,author_name,text,media_count,media_urls,url",
			wantRow: `"100",2024-01-02T03:04:05.000Z,"alice","Alice A.","she said ""hi"", then left",2,` +
				`"https://img/1.jpg;https://img/2.jpg","https://x.com/alice/status/100"`,
		},
		{
			name:       "with video",
			opts:       CSVOptions{IncludeVideo: true},
			wantHeader: "id,created_at,author_handle,author_name,text,media_count,media_urls,video_url,url",
			wantRow: `"100",2024-01-02T03:04:05.000Z,"alice","Alice A.","she said ""hi"", then left",2,` +
				`"https://img/1.jpg;https://img/2.jpg","https://vid/1.mp4","https://x.com/alice/status/100"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteCSV(&buf, sample(), tt.opts); err != nil {
				t.Fatalf("WriteCSV() error = %v", err)
			}
			out := buf.String()
			if !strings.HasPrefix(out, tt.wantHeader+"\n") {
				t.Errorf("header = %q", strings.SplitN(out, "\n", 2)[0])
			}
			if !strings.HasSuffix(out, tt.wantRow+"\n") {
				t.Errorf("last row mismatch, output:\n%s", out)
			}
		})
	}
}

func TestWriteDispatch(t *testing.T) {
	for _, f := range Formats {
		var buf bytes.Buffer
		if err := Write(&buf, f, sample(), CSVOptions{}); err != nil {
			t.Errorf("Write(%s) error = %v", f, err)
		}
		if buf.Len() == 0 {
			t.Errorf("Write(%s) wrote nothing", f)
		}
	}
	if err := Write(&bytes.Buffer{}, Format("xml"), nil, CSVOptions{}); err == nil {
		t.Error("Write(xml) should fail")
	}
}

func TestFileName(t *testing.T) {
	now := time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC)
	if got := FileName(FormatCSV, domain.CategoryLike, now); got != "tweetvault-likes-2024-05-01.csv" {
		t.Errorf("FileName() = %s", got)
	}
	if got := FileName(FormatJSON, "", now); got != "tweetvault-all-2024-05-01.json" {
		t.Errorf("FileName() = %s", got)
	}
}
