package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/tweetvault/internal/domain"
	"github.com/MrSnakeDoc/tweetvault/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tweetvault/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		storageErr *domain.StorageError
		tooLarge   *http.MaxBytesError
	)
	switch {
	case errors.Is(err, domain.ErrNoValidEntries):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUnsupportedFormat),
		errors.Is(err, domain.ErrParseFailure),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrNoMediaFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAllDownloadsFailed):
		return http.StatusBadGateway
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &storageErr):
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// writeError answers with the mapped status. Server errors are logged and
// their detail is not returned to the client.
func writeError(w http.ResponseWriter, r *http.Request, d deps.Deps, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		d.Logger.Error("request failed",
			logger.String("path", r.URL.Path),
			logger.Error(err))
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

var errBadRequest = errors.New("bad request")

// categoryParam reads the optional ?category= filter. Empty means all.
func categoryParam(r *http.Request) (domain.Category, error) {
	return domain.ParseCategoryFilter(r.URL.Query().Get("category"))
}
