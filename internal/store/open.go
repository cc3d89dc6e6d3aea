package store

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/tweetvault/internal/config"
	"github.com/MrSnakeDoc/tweetvault/internal/logger"
	redisconn "github.com/MrSnakeDoc/tweetvault/internal/redis"
	"github.com/MrSnakeDoc/tweetvault/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/tweetvault/internal/store/redis"
	"github.com/MrSnakeDoc/tweetvault/internal/store/sqlite"
)

var (
	_ Store = (*memory.Store)(nil)
	_ Store = (*sqlite.Store)(nil)
	_ Store = (*redisstore.Store)(nil)
)

// Open returns the backend selected by cfg.StoreBackend.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Warn("using in-memory store, records are lost on exit")
		return memory.NewStore(), nil

	case config.BackendSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info("sqlite store opened", logger.String("path", cfg.SQLitePath))
		return s, nil

	case config.BackendRedis:
		client, err := redisconn.New(ctx, redisconn.OptionsFromConfig(cfg), log)
		if err != nil {
			return nil, err
		}
		return redisstore.NewStore(client), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
