package cli

import (
	"io"

	"github.com/MrSnakeDoc/tweetvault/internal/archive"
	"github.com/MrSnakeDoc/tweetvault/internal/store"
)

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to YAML config file (default: $TWEETVAULT_CONFIG)" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// ServeCommand — run the HTTP API (and the import watcher when configured).
type ServeCommand struct {
	Listen   string `long:"listen" description:"Override listen address (e.g. :8080)"`
	LogLevel string `long:"log-level" description:"Override log level"`

	globals *GlobalFlags
	version string
}

// ImportCommand — normalize export files and upsert them into the store.
type ImportCommand struct {
	Args struct {
		Files []string `positional-arg-name:"file" required:"1"`
	} `positional-args:"yes"`

	globals *GlobalFlags
	version string
	store   store.Store // injectable for testing; nil means open the configured store
}

// ExportCommand — write the live records as JSON, JSONL or CSV.
type ExportCommand struct {
	Format   string `long:"format" description:"Output format: json | jsonl | csv" default:"json"`
	Category string `long:"category" description:"Only this category: bookmarks | likes | tweets | all" default:"all"`
	Output   string `long:"output" short:"o" description:"Output file (default: stdout)"`
	Video    bool   `long:"video" description:"Add a video_url column to CSV output"`

	globals *GlobalFlags
	version string
	store   store.Store
}

// StatsCommand — print activity statistics for one year.
type StatsCommand struct {
	Year     int    `long:"year" description:"Calendar year (default: newest year with activity)"`
	Category string `long:"category" description:"Only this category: bookmarks | likes | tweets | all" default:"all"`
	TZ       string `long:"tz" description:"IANA time zone used to bucket days" default:"UTC"`
	Years    bool   `long:"years" description:"List the years with activity instead"`

	globals *GlobalFlags
	version string
	store   store.Store
}

// ArchiveCommand — download the media of the live records into a zip file.
type ArchiveCommand struct {
	Output    string `long:"output" short:"o" description:"Zip file to write (required)"`
	Category  string `long:"category" description:"Only this category: bookmarks | likes | tweets | all" default:"all"`
	Owner     string `long:"owner" description:"Account handle used to name the files"`
	BatchSize int    `long:"batch-size" description:"Override concurrent downloads per batch"`

	globals *GlobalFlags
	version string
	store   store.Store
	fetcher archive.Fetcher // injectable for testing; nil means the configured HTTP fetcher
	stderr  io.Writer
}

// DeleteCommand — soft-delete records by ID.
type DeleteCommand struct {
	Args struct {
		IDs []string `positional-arg-name:"id" required:"1"`
	} `positional-args:"yes"`

	globals *GlobalFlags
	version string
	store   store.Store
}

// PurgeCommand — delete ALL records with safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
	store   store.Store
	stdin   io.Reader
}
