package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tweetvault/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tweetvault/internal/httpserver/handlers"
)

func init() { Register(registerTransfer) }

// registerTransfer mounts the long-running endpoints, which stay outside the
// per-request timeout.
func registerTransfer(r chi.Router, d deps.Deps) {
	r.With(heavy(d)).Post("/api/import", handlers.Import(d))
	r.Get("/api/export", handlers.Export(d))
	r.With(heavy(d)).Post("/api/archive", handlers.Archive(d))
}
