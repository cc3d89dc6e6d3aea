package export

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/MrSnakeDoc/tweetvault/internal/domain"
	"github.com/MrSnakeDoc/tweetvault/internal/store"
)

// Format is an export file format.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatJSONL, FormatCSV}

// CSVOptions tunes the CSV writer.
type CSVOptions struct {
	IncludeVideo bool // add the video_url column
}

// ParseFormat accepts "json", "jsonl" and "csv", case-insensitive.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Formats, f) {
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (expected json, jsonl or csv)", s)
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatJSONL:
		return "application/x-ndjson"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	}
	return "application/octet-stream"
}

// FileName suggests a download name such as "tweetvault-likes-2024-05-01.csv".
func FileName(f Format, category domain.Category, now time.Time) string {
	scope := "all"
	if category != "" {
		scope = string(category) + "s"
	}
	return fmt.Sprintf("tweetvault-%s-%s.%s", scope, now.UTC().Format("2006-01-02"), f)
}

// Write dispatches to the writer of format f.
func Write(w io.Writer, f Format, records []*domain.Record, opts CSVOptions) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, records)
	case FormatJSONL:
		return WriteJSONL(w, records)
	case FormatCSV:
		return WriteCSV(w, records, opts)
	}
	return fmt.Errorf("unknown export format %q", f)
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []*domain.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ordered(records)); err != nil {
		return fmt.Errorf("failed to encode json export: %w", err)
	}
	return nil
}

// WriteJSONL writes one compact record per line.
func WriteJSONL(w io.Writer, records []*domain.Record) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, r := range ordered(records) {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode record %s: %w", r.ID, err)
		}
	}
	return nil
}

// ordered returns a newest-first copy that never encodes as null.
func ordered(records []*domain.Record) []*domain.Record {
	out := make([]*domain.Record, len(records))
	copy(out, records)
	store.SortNewestFirst(out)
	return out
}
