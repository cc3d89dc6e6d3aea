package handlers

import (
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/tweetvault/internal/archive"
	"github.com/MrSnakeDoc/tweetvault/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tweetvault/internal/logger"
	"github.com/MrSnakeDoc/tweetvault/internal/store"
)

// Archive downloads the media of the live records and returns them as a zip.
func Archive(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, err := categoryParam(r)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		records, err := store.List(r.Context(), d.Store, category)
		if err != nil {
			writeError(w, r, d, err)
			return
		}

		owner := archive.OwnerLabel(r.URL.Query().Get("owner"))
		progress := func(completed, total int) {
			d.Logger.Debug("archive progress",
				logger.Int("completed", completed),
				logger.Int("total", total))
		}

		// the archiver writes nothing on failure, so headers can still change
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("%s-media-%s.zip", owner, d.Now().UTC().Format("2006-01-02"))))

		if _, err := d.Archiver.Archive(r.Context(), records, owner, w, progress); err != nil {
			w.Header().Del("Content-Disposition")
			writeError(w, r, d, err)
		}
	}
}
