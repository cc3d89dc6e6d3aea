package cli

import (
	"context"

	"github.com/MrSnakeDoc/tweetvault/internal/app"
	"github.com/MrSnakeDoc/tweetvault/internal/config"
	"github.com/MrSnakeDoc/tweetvault/internal/logger"
)

// Execute implements the go-flags Commander interface for ServeCommand.
func (c *ServeCommand) Execute(args []string) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = loggerClient.Sync() }()

	a, err := app.New(context.Background(), cfg, loggerClient)
	if err != nil {
		return err
	}
	return a.Run()
}

// config loads the configuration and applies the command line overrides.
func (c *ServeCommand) config() (*config.Config, error) {
	cfg, err := config.Load(c.globals.Config)
	if err != nil {
		return nil, err
	}
	if c.Listen != "" {
		cfg.ListenAddr = c.Listen
	}
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}
	if c.globals.Verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
