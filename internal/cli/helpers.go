package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/MrSnakeDoc/tweetvault/internal/config"
	"github.com/MrSnakeDoc/tweetvault/internal/logger"
	"github.com/MrSnakeDoc/tweetvault/internal/store"
)

// session is what a store-backed command runs against.
type session struct {
	cfg   *config.Config
	log   logger.Logger
	store store.Store
}

// openSession loads the configuration and opens the configured store,
// unless the command carries an injected one.
func openSession(ctx context.Context, g *GlobalFlags, injected store.Store) (*session, func(), error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, nil, err
	}
	log := commandLogger(g, cfg)

	if injected != nil {
		return &session{cfg: cfg, log: log, store: injected}, func() { _ = log.Sync() }, nil
	}

	s, err := store.Open(ctx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	closeFn := func() {
		if err := s.Close(); err != nil {
			log.Warn("failed to close store", logger.Error(err))
		}
		_ = log.Sync()
	}
	return &session{cfg: cfg, log: log, store: s}, closeFn, nil
}

// commandLogger keeps one-shot commands quiet unless --verbose is set.
func commandLogger(g *GlobalFlags, cfg *config.Config) logger.Logger {
	if g != nil && g.Verbose {
		return logger.New("debug", cfg.PrettyLog)
	}
	return logger.NewNop()
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// plural returns "1 record" / "2 records".
func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
