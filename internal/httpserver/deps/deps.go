package deps

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/tweetvault/internal/archive"
	"github.com/MrSnakeDoc/tweetvault/internal/importer"
	"github.com/MrSnakeDoc/tweetvault/internal/logger"
	"github.com/MrSnakeDoc/tweetvault/internal/store"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time // for testing, defaults to time.Now
	StoreBackend   string           // "sqlite" | "redis" | "memory"
	Store          store.Store
	Importer       *importer.Importer
	Archiver       *archive.Archiver
	MaxUploadBytes int64                           // request body cap for /api/import
	ImportTrigger  chan struct{}                   // manual re-import of the watched file (nil when disabled)
	HeavyLimit     func(http.Handler) http.Handler // per-client throttle for import, archive and purge
}

// Now returns TimeNow() or time.Now().
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
