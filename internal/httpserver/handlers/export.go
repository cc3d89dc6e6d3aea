package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/tweetvault/internal/export"
	"github.com/MrSnakeDoc/tweetvault/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tweetvault/internal/logger"
	"github.com/MrSnakeDoc/tweetvault/internal/store"
)

// Export streams the live records as JSON, JSONL or CSV.
func Export(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		format := export.FormatJSON
		if raw := q.Get("format"); raw != "" {
			f, err := export.ParseFormat(raw)
			if err != nil {
				writeError(w, r, d, fmt.Errorf("%w: %v", errBadRequest, err))
				return
			}
			format = f
		}

		var opts export.CSVOptions
		if raw := q.Get("video"); raw != "" {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				writeError(w, r, d, fmt.Errorf("%w: video must be a boolean", errBadRequest))
				return
			}
			opts.IncludeVideo = v
		}

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

		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", export.FileName(format, category, d.Now())))
		if err := export.Write(w, format, records, opts); err != nil {
			// headers are gone already
			d.Logger.Error("export interrupted", logger.String("format", string(format)), logger.Error(err))
		}
	}
}
