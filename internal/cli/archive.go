package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/MrSnakeDoc/tweetvault/internal/app"
	"github.com/MrSnakeDoc/tweetvault/internal/archive"
	"github.com/MrSnakeDoc/tweetvault/internal/domain"
	"github.com/MrSnakeDoc/tweetvault/internal/store"
)

type archiveJSON struct {
	Output   string `json:"output"`
	Archived int    `json:"archived"`
	Total    int    `json:"total"`
}

// Execute implements the go-flags Commander interface for ArchiveCommand.
func (c *ArchiveCommand) Execute(args []string) error {
	if c.Output == "" {
		return errors.New("archive requires --output")
	}
	category, err := domain.ParseCategoryFilter(c.Category)
	if err != nil {
		return err
	}

	ctx := context.Background()
	sess, closeFn, err := openSession(ctx, c.globals, c.store)
	if err != nil {
		return err
	}
	defer closeFn()

	records, err := store.List(ctx, sess.store, category)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}

	fetcher := c.fetcher
	if fetcher == nil {
		fetcher = app.NewFetcher(sess.cfg)
	}
	batchSize := c.BatchSize
	if batchSize < 1 {
		batchSize = sess.cfg.ArchiveBatchSize
	}
	archiver := archive.New(fetcher, sess.log, batchSize)

	stderr := c.stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	total := 0
	progress := func(completed, n int) {
		total = n
		fmt.Fprintf(stderr, "\rdownloading media %d/%d", completed, n)
		if completed == n {
			fmt.Fprintln(stderr)
		}
	}

	var archived int
	err = writeFile(c.Output, func(w io.Writer) error {
		var err error
		archived, err = archiver.Archive(ctx, records, c.Owner, w, progress)
		return err
	})
	if err != nil {
		return fmt.Errorf("archive: %w", err)
	}

	if c.globals.JSON {
		return printJSON(archiveJSON{Output: c.Output, Archived: archived, Total: total})
	}
	fmt.Printf("Archived %d of %s to %s\n", archived, plural(total, "file"), c.Output)
	if failed := total - archived; failed > 0 {
		fmt.Printf("  %s could not be downloaded\n", plural(failed, "file"))
	}
	return nil
}
