package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/tweetvault/internal/domain"
)

// csvTimeLayout keeps millisecond precision in UTC.
const csvTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// WriteCSV writes a header and one row per record. Text columns are always
// quoted with inner quotes doubled.
func WriteCSV(w io.Writer, records []*domain.Record, opts CSVOptions) error {
	bw := bufio.NewWriter(w)

	header := []string{"id", "created_at", "author_handle", "author_name", "text", "media_count", "media_urls"}
	if opts.IncludeVideo {
		header = append(header, "video_url")
	}
	header = append(header, "url")
	if _, err := bw.WriteString(strings.Join(header, ",") + "\n"); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, r := range ordered(records) {
		row := []string{
			quote(r.ID),
			r.CreatedAt.UTC().Format(csvTimeLayout),
			quote(r.AuthorHandle),
			quote(r.AuthorName),
			quote(r.FullText),
			strconv.Itoa(len(r.MediaURLs)),
			quote(strings.Join(r.MediaURLs, ";")),
		}
		if opts.IncludeVideo {
			row = append(row, quote(r.VideoURL))
		}
		row = append(row, quote(r.Permalink()))

		if _, err := bw.WriteString(strings.Join(row, ",") + "\n"); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", r.ID, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
