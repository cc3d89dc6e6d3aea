package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MrSnakeDoc/tweetvault/internal/domain"
	"github.com/MrSnakeDoc/tweetvault/internal/importer"
	"github.com/MrSnakeDoc/tweetvault/internal/logger"
)

// DefaultDebounce is how long file events are coalesced before re-importing.
const DefaultDebounce = 500 * time.Millisecond

// FileImporter imports an export file from disk.
type FileImporter interface {
	ImportFile(ctx context.Context, path string) (importer.Result, error)
}

// ImportWatcher re-imports one export file periodically, when it changes
// on disk and on manual trigger.
type ImportWatcher struct {
	importer      FileImporter
	path          string
	logger        logger.Logger
	interval      time.Duration
	debounce      time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	started       atomic.Bool
	done          chan struct{}
	manualTrigger chan struct{}

	mu       sync.Mutex
	last     importer.Result
	lastErr  error
	lastTime time.Time
}

// NewImportWatcher creates a new import watcher
func NewImportWatcher(
	imp FileImporter,
	path string,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *ImportWatcher {
	return &ImportWatcher{
		importer:      imp,
		path:          path,
		logger:        log,
		interval:      interval,
		debounce:      DefaultDebounce,
		stopCh:        make(chan struct{}),
		done:          make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// SetDebounce overrides DefaultDebounce. Call before Start.
func (iw *ImportWatcher) SetDebounce(d time.Duration) { iw.debounce = d }

// Start imports the file once, then keeps it in sync until Stop or ctx ends.
// A failing initial import is logged; the file may appear later.
func (iw *ImportWatcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	// watch the directory so editors that replace the file are seen too
	if err := watcher.Add(filepath.Dir(iw.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(iw.path), err)
	}

	if err := iw.Reload(ctx); err != nil {
		iw.logger.Warn("initial import failed", logger.String("file", iw.path), logger.Error(err))
	}

	iw.started.Store(true)
	go iw.loop(ctx, watcher)
	return nil
}

func (iw *ImportWatcher) loop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer close(iw.done)
	defer func() { _ = watcher.Close() }()

	ticker := time.NewTicker(iw.interval)
	defer ticker.Stop()

	var (
		debounceTimer *time.Timer
		debounced     <-chan time.Time
	)
	target := filepath.Clean(iw.path)

	reload := func(reason string) {
		iw.logger.Info("re-importing export file",
			logger.String("file", iw.path),
			logger.String("reason", reason))
		err := iw.Reload(ctx)
		switch {
		case err == nil:
		case domain.IsImportError(err):
			// the file may be mid-write, the next event retries
			iw.logger.Warn("export file rejected", logger.String("file", iw.path), logger.Error(err))
		default:
			iw.logger.Error("failed to re-import export file", logger.Error(err))
		}
	}

	for {
		select {
		case <-ticker.C:
			reload("interval")
		case <-iw.manualTrigger:
			reload("manual")
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(iw.debounce)
			debounced = debounceTimer.C
		case <-debounced:
			debounced = nil
			reload("file changed")
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			iw.logger.Error("file watcher error", logger.Error(err))
		case <-iw.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop stops the watcher and waits for the loop to exit.
func (iw *ImportWatcher) Stop() {
	iw.stopOnce.Do(func() { close(iw.stopCh) })
	if iw.started.Load() {
		<-iw.done
	}
}

// Reload imports the file now.
func (iw *ImportWatcher) Reload(ctx context.Context) error {
	res, err := iw.importer.ImportFile(ctx, iw.path)

	iw.mu.Lock()
	defer iw.mu.Unlock()
	iw.lastTime = time.Now()
	iw.lastErr = err
	if err != nil {
		return err
	}
	iw.last = res
	return nil
}

// Last returns the most recent successful result, the time of the latest
// attempt and its error.
func (iw *ImportWatcher) Last() (importer.Result, time.Time, error) {
	iw.mu.Lock()
	defer iw.mu.Unlock()
	return iw.last, iw.lastTime, iw.lastErr
}
