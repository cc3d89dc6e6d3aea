package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// purgeConfirmation is the text the user must type to confirm a purge.
const purgeConfirmation = "PURGE"

// Execute implements the go-flags Commander interface for PurgeCommand.
func (c *PurgeCommand) Execute(args []string) error {
	if !c.All {
		return errors.New("purge requires --all flag for safety")
	}

	// Confirmation prompt unless --force
	if !c.Force {
		fmt.Println("⚠ WARNING: This will permanently delete ALL tweetvault data.")
		fmt.Println("  - All bookmarks, likes and posts")
		fmt.Println("  - Soft-deleted records")
		fmt.Println()
		fmt.Println("This action cannot be undone.")
		fmt.Println()
		fmt.Printf("Type %q to confirm: ", purgeConfirmation)

		in := c.stdin
		if in == nil {
			in = os.Stdin
		}
		scanner := bufio.NewScanner(in)
		if !scanner.Scan() {
			return errors.New("aborted: no input received")
		}
		if strings.TrimSpace(scanner.Text()) != purgeConfirmation {
			return errors.New("aborted: confirmation text did not match")
		}
	}

	ctx := context.Background()
	sess, closeFn, err := openSession(ctx, c.globals, c.store)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := sess.store.PurgeAll(ctx); err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}

	if c.globals.JSON {
		return printJSON(map[string]any{
			"purged":  true,
			"message": "all records removed",
		})
	}

	fmt.Println("Purged all records. The vault is empty.")
	return nil
}
