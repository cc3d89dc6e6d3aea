package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/tweetvault/internal/config"
	"github.com/MrSnakeDoc/tweetvault/internal/logger"
)

// ConnectOptions configures the vault's redis client and how long New keeps
// pinging a server that is not up yet.
type ConnectOptions struct {
	Addr         string
	User         string
	Password     string
	RedisDB      int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int

	ConnectTimeout time.Duration // overall budget for the startup pings
	RetryInterval  time.Duration // first pause, doubled after every failure
	MaxWait        time.Duration // ceiling for the pause
	PingTimeout    time.Duration
	WarnThreshold  int // failures logged as warnings before they become errors
}

// OptionsFromConfig maps the redis_* config keys onto ConnectOptions.
func OptionsFromConfig(cfg *config.Config) ConnectOptions {
	return ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}
}

func (o ConnectOptions) validate() error {
	positive := []struct {
		name string
		d    time.Duration
	}{
		{"ConnectTimeout", o.ConnectTimeout},
		{"RetryInterval", o.RetryInterval},
		{"MaxWait", o.MaxWait},
		{"PingTimeout", o.PingTimeout},
	}
	for _, p := range positive {
		if p.d <= 0 {
			return fmt.Errorf("redis store: %s must be > 0, got %v", p.name, p.d)
		}
	}
	if o.WarnThreshold < 0 {
		return fmt.Errorf("redis store: WarnThreshold must be >= 0, got %d", o.WarnThreshold)
	}
	return nil
}

// New opens the client backing the redis record store and waits for the
// server to answer a PING. It gives up after ConnectTimeout or when ctx ends.
func New(ctx context.Context, opts ConnectOptions, log logger.Logger) (*redis.Client, error) {
	if err := opts.validate(); err != nil {
		log.Error("invalid redis store options", logger.Error(err))
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Username:     opts.User,
		Password:     opts.Password,
		DB:           opts.RedisDB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolSize:     opts.PoolSize,
	})

	if err := waitForServer(ctx, client, opts, log); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func waitForServer(parent context.Context, client *redis.Client, opts ConnectOptions, log logger.Logger) error {
	ctx, cancel := context.WithTimeout(parent, opts.ConnectTimeout)
	defer cancel()

	addr := logger.String("addr", opts.Addr)
	log.Info("opening redis record store", addr, logger.Duration("budget", opts.ConnectTimeout))

	start := time.Now()
	pause := opts.RetryInterval
	for attempt := 1; ; attempt++ {
		pingCtx, pingCancel := context.WithTimeout(ctx, opts.PingTimeout)
		err := client.Ping(pingCtx).Err()
		pingCancel()

		if err == nil {
			if attempt > 1 {
				log.Warn("redis record store reachable after retries", addr,
					logger.Int("attempts", attempt), logger.Duration("elapsed", time.Since(start)))
			} else {
				log.Info("redis record store reachable", addr)
			}
			return nil
		}

		timer := time.NewTimer(pause)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Error("giving up on redis record store", addr,
				logger.Int("attempts", attempt), logger.Error(err))
			return fmt.Errorf("redis store at %s unreachable after %d attempts (budget %v): %w",
				opts.Addr, attempt, opts.ConnectTimeout, err)
		case <-timer.C:
		}

		report := log.Warn
		if attempt > opts.WarnThreshold {
			report = log.Error
		}
		report("redis record store not reachable yet", addr, logger.Int("attempt", attempt),
			logger.Duration("waited", pause), logger.Error(err))

		pause = min(pause*2, opts.MaxWait)
	}
}
