package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/MrSnakeDoc/tweetvault/internal/analytics"
	"github.com/MrSnakeDoc/tweetvault/internal/domain"
	"github.com/MrSnakeDoc/tweetvault/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tweetvault/internal/store"
)

type yearsResponse struct {
	Category domain.Category `json:"category,omitempty"`
	Years    []int           `json:"years"`
}

type statsResponse struct {
	Category domain.Category `json:"category,omitempty"`
	analytics.YearStats
}

// Years lists the years that hold records, newest first.
func Years(d deps.Deps) http.HandlerFunc {
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
		writeJSON(w, http.StatusOK, yearsResponse{Category: category, Years: analytics.Years(records, time.UTC)})
	}
}

// Stats computes the activity statistics of one year. Without ?year= the
// newest year with records is used, or the current year when there are none.
func Stats(d deps.Deps) http.HandlerFunc {
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

		year, err := yearParam(r, records, d.Now())
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, statsResponse{
			Category:  category,
			YearStats: analytics.ComputeYearStats(records, year),
		})
	}
}

func yearParam(r *http.Request, records []*domain.Record, now time.Time) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		if years := analytics.Years(records, time.UTC); len(years) > 0 {
			return years[0], nil
		}
		return now.UTC().Year(), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1000 || year > 9999 {
		return 0, fmt.Errorf("%w: year must be a four-digit number, got %q", errBadRequest, raw)
	}
	return year, nil
}
