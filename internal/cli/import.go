package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/tweetvault/internal/domain"
	"github.com/MrSnakeDoc/tweetvault/internal/importer"
)

// Execute implements the go-flags Commander interface for ImportCommand.
// Files are imported in order; the first failure stops the run.
func (c *ImportCommand) Execute(args []string) error {
	ctx := context.Background()
	sess, closeFn, err := openSession(ctx, c.globals, c.store)
	if err != nil {
		return err
	}
	defer closeFn()

	imp := importer.New(sess.store, sess.log)
	results := make([]importer.Result, 0, len(c.Args.Files))
	for _, path := range c.Args.Files {
		res, err := imp.ImportFile(ctx, path)
		if err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
		results = append(results, res)
		if !c.globals.JSON {
			printImportResult(res)
		}
	}

	if c.globals.JSON {
		return printJSON(results)
	}
	return nil
}

func printImportResult(res importer.Result) {
	fmt.Printf("Imported %s from %s (%s)\n", plural(res.Count, "record"), res.FileName, categorySummary(res.Categories))
	if res.SkippedLines > 0 {
		fmt.Printf("  skipped %s (invalid JSON)\n", plural(res.SkippedLines, "line"))
	}
	if res.SkippedEntries > 0 {
		fmt.Printf("  skipped %d non-object entries\n", res.SkippedEntries)
	}
}

// categorySummary renders counts as "bookmark: 2, like: 1" in category order.
func categorySummary(counts map[domain.Category]int) string {
	parts := make([]string, 0, len(counts))
	for _, cat := range domain.Categories {
		if n, ok := counts[cat]; ok {
			parts = append(parts, fmt.Sprintf("%s: %d", cat, n))
		}
	}
	return strings.Join(parts, ", ")
}
