package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/tweetvault/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tweetvault/internal/httpserver/handlers"
)

func init() { Register(registerStats, middleware.Timeout(lightTimeout)) }

func registerStats(r chi.Router, d deps.Deps) {
	r.Get("/api/years", handlers.Years(d))
	r.Get("/api/stats", handlers.Stats(d))
}
