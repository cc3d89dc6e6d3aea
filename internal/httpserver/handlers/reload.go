package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/tweetvault/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tweetvault/internal/logger"
)

type reloadResponse struct {
	Triggered bool   `json:"triggered"`
	Message   string `json:"message"`
}

// Reload asks the import watcher to re-import its file now.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.ImportTrigger == nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "import watcher disabled, set import_file to enable it"})
			return
		}

		select {
		case d.ImportTrigger <- struct{}{}:
			d.Logger.Info("manual re-import triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, reloadResponse{Triggered: true, Message: "re-import triggered"})
		default:
			d.Logger.Warn("re-import already pending",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusTooManyRequests, reloadResponse{Message: "re-import already pending, please wait"})
		}
	}
}
