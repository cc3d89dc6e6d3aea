package tweets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrSnakeDoc/tweetvault/internal/domain"
)

// Report describes how an input file was read.
type Report struct {
	Format         string `json:"format"`          // "json" or "jsonl"
	Entries        int    `json:"entries"`         // records produced
	SkippedLines   int    `json:"skipped_lines"`   // unparsable JSONL lines
	SkippedEntries int    `json:"skipped_entries"` // elements that were not objects
}

// Normalizer converts export files of any supported tool into canonical records.
type Normalizer struct {
	now func() time.Time
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithClock overrides the clock used for missing timestamps.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) { n.now = now }
}

// NewNormalizer creates a normalizer instance
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{now: time.Now}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// CheckExtension rejects anything that is not a .json or .jsonl file.
func CheckExtension(fileName string) error {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".json", ".jsonl":
		return nil
	}
	return fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, filepath.Base(fileName))
}

// NormalizeFile reads and normalizes the export file at path.
func (n *Normalizer) NormalizeFile(path string) ([]*domain.Record, Report, error) {
	if err := CheckExtension(path); err != nil {
		return nil, Report{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Report{}, fmt.Errorf("failed to read export file: %w", err)
	}
	return n.Normalize(data, filepath.Base(path))
}

// Normalize parses data as a whole JSON document, falling back to JSONL,
// and maps every object entry to a record.
func (n *Normalizer) Normalize(data []byte, fileName string) ([]*domain.Record, Report, error) {
	if err := CheckExtension(fileName); err != nil {
		return nil, Report{}, err
	}

	raws, report, err := splitEntries(data)
	if err != nil {
		return nil, report, err
	}

	now := n.now().UTC()
	records := make([]*domain.Record, 0, len(raws))
	for _, raw := range raws {
		entry, ok := newEntry(raw)
		if !ok {
			report.SkippedEntries++
			continue
		}
		records = append(records, mapEntry(entry, now))
	}

	if len(records) == 0 {
		return nil, report, domain.ErrNoValidEntries
	}
	report.Entries = len(records)
	return records, report, nil
}

// splitEntries returns the raw entries of a JSON array, a single JSON object
// or a JSONL stream.
func splitEntries(data []byte) ([]json.RawMessage, Report, error) {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))

	if len(trimmed) > 0 && json.Valid(trimmed) {
		report := Report{Format: "json"}
		switch trimmed[0] {
		case '[':
			var items []json.RawMessage
			if err := json.Unmarshal(trimmed, &items); err != nil {
				return nil, report, fmt.Errorf("%w: %v", domain.ErrParseFailure, err)
			}
			return items, report, nil
		case '{':
			return []json.RawMessage{json.RawMessage(trimmed)}, report, nil
		}
		// a bare scalar parses but holds no entries
		return nil, report, nil
	}

	report := Report{Format: "jsonl"}
	var raws []json.RawMessage
	for _, line := range bytes.Split(trimmed, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			report.SkippedLines++
			continue
		}
		raws = append(raws, json.RawMessage(line))
	}
	if len(raws) == 0 {
		return nil, report, domain.ErrParseFailure
	}
	return raws, report, nil
}

func mapEntry(e Entry, now time.Time) *domain.Record {
	media := resolveMedia(e)
	if media.display == nil {
		media.display = []string{}
	}

	rec := &domain.Record{
		ID:           resolveID(e),
		Category:     resolveCategory(e),
		FullText:     e.firstText(textKeys...),
		CreatedAt:    resolveCreatedAt(e, now),
		AuthorHandle: resolveHandle(e),
		AuthorName:   resolveName(e),
		AvatarURL:    e.firstString(avatarKeys...),
		MediaURLs:    media.display,
		VideoURL:     media.video,
		RawPayload:   resolvePayload(e),
	}
	if len(rec.MediaURLs) > 0 {
		rec.MediaURL = rec.MediaURLs[0]
	}
	return rec
}

// resolvePayload keeps a round-tripped payload as is, otherwise the entry itself.
func resolvePayload(e Entry) json.RawMessage {
	raw := e.raw
	if inner, ok := e.lookup("rawPayload"); ok {
		raw = inner
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return append(json.RawMessage(nil), raw...)
	}
	return json.RawMessage(buf.Bytes())
}
