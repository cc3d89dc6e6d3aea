package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/MrSnakeDoc/tweetvault/internal/domain"
	"github.com/MrSnakeDoc/tweetvault/internal/export"
	"github.com/MrSnakeDoc/tweetvault/internal/store"
)

type exportJSON struct {
	Format   export.Format   `json:"format"`
	Category domain.Category `json:"category,omitempty"`
	Count    int             `json:"count"`
	Output   string          `json:"output"`
}

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(args []string) error {
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
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

	opts := export.CSVOptions{IncludeVideo: c.Video}
	if c.Output == "" || c.Output == "-" {
		return export.Write(os.Stdout, format, records, opts)
	}

	if err := writeFile(c.Output, func(w io.Writer) error {
		return export.Write(w, format, records, opts)
	}); err != nil {
		return err
	}

	if c.globals.JSON {
		return printJSON(exportJSON{Format: format, Category: category, Count: len(records), Output: c.Output})
	}
	fmt.Printf("Exported %s to %s\n", plural(len(records), "record"), c.Output)
	return nil
}

// writeFile creates path and hands it to write. The file is removed on failure.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	return write(f)
}
