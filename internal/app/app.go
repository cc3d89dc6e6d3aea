package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/tweetvault/internal/archive"
	"github.com/MrSnakeDoc/tweetvault/internal/config"
	"github.com/MrSnakeDoc/tweetvault/internal/httpserver"
	"github.com/MrSnakeDoc/tweetvault/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tweetvault/internal/importer"
	"github.com/MrSnakeDoc/tweetvault/internal/logger"
	"github.com/MrSnakeDoc/tweetvault/internal/scheduler"
	"github.com/MrSnakeDoc/tweetvault/internal/store"
	"github.com/MrSnakeDoc/tweetvault/internal/version"
)

type App struct {
	cfg     *config.Config
	logger  logger.Logger
	server  *httpserver.Server
	store   store.Store
	watcher *scheduler.ImportWatcher
}

// NewFetcher builds the media fetcher described by cfg.
func NewFetcher(cfg *config.Config) *archive.HTTPFetcher {
	return archive.NewHTTPFetcher(archive.FetcherOptions{
		Timeout:   cfg.FetchTimeout,
		Attempts:  cfg.FetchAttempts,
		RPS:       cfg.FetchRPS,
		MaxBytes:  cfg.FetchMaxBytes,
		UserAgent: "tweetvault/" + version.Version,
	})
}

// New opens the store and wires the HTTP server and the optional import watcher.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	loggerClient.Debug("configuration loaded", logger.Any("config", cfg.Redacted()))

	// Open the store early - fail fast if unavailable
	s, err := store.Open(ctx, cfg, loggerClient)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.StoreBackend, err)
	}
	loggerClient.Info("store initialized", logger.String("backend", cfg.StoreBackend))

	imp := importer.New(s, loggerClient)
	archiver := archive.New(NewFetcher(cfg), loggerClient, cfg.ArchiveBatchSize)

	// Initialize import watcher (if an import file is configured)
	var watcher *scheduler.ImportWatcher
	var importTrigger chan struct{}
	if cfg.ImportFile != "" {
		loggerClient.Info("import file configured, initializing import watcher",
			logger.String("file", cfg.ImportFile))
		importTrigger = make(chan struct{}, 1)
		watcher = scheduler.NewImportWatcher(
			imp,
			cfg.ImportFile,
			loggerClient,
			cfg.ReloadInterval,
			importTrigger,
		)
	} else {
		loggerClient.Info("import file not configured, automatic re-import disabled")
	}

	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		StoreBackend:   cfg.StoreBackend,
		Store:          s,
		Importer:       imp,
		Archiver:       archiver,
		MaxUploadBytes: cfg.MaxUploadBytes,
		ImportTrigger:  importTrigger,
	}

	return &App{
		cfg:     cfg,
		logger:  loggerClient,
		server:  httpserver.New(cfg, loggerClient, d),
		store:   s,
		watcher: watcher,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting tweetvault v%s on %s", version.Version, a.cfg.ListenAddr)
	a.logger.Infof("tweetvault %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.watcher != nil {
		if err := a.watcher.Start(ctx); err != nil {
			a.closeStore()
			return fmt.Errorf("failed to start import watcher: %w", err)
		}
		a.logger.Info("import watcher started",
			logger.Duration("interval", a.cfg.ReloadInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	if a.watcher != nil {
		a.watcher.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	a.closeStore()
	if runErr != nil {
		return runErr
	}
	a.logger.Info("✅ tweetvault stopped cleanly")
	return nil
}

func (a *App) closeStore() {
	if err := a.store.Close(); err != nil {
		a.logger.Warnf("failed to close store: %v", err)
		return
	}
	a.logger.Info("✅ store closed cleanly")
}
