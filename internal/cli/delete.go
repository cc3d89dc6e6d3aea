package cli

import (
	"context"
	"fmt"
)

type deleteJSON struct {
	Deleted []string `json:"deleted"`
}

// Execute implements the go-flags Commander interface for DeleteCommand.
func (c *DeleteCommand) Execute(args []string) error {
	ctx := context.Background()
	sess, closeFn, err := openSession(ctx, c.globals, c.store)
	if err != nil {
		return err
	}
	defer closeFn()

	deleted := make([]string, 0, len(c.Args.IDs))
	for _, id := range c.Args.IDs {
		if err := sess.store.SoftDelete(ctx, id); err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}
		deleted = append(deleted, id)
		if !c.globals.JSON {
			fmt.Printf("Deleted %s\n", id)
		}
	}

	if c.globals.JSON {
		return printJSON(deleteJSON{Deleted: deleted})
	}
	return nil
}
