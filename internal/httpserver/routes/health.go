package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/tweetvault/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tweetvault/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/tweetvault/internal/metrics"
)

func init() { Register(registerHealth, middleware.Timeout(lightTimeout)) }

func registerHealth(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
	r.Get("/readyz", handlers.Readyz(d))
	r.Method("GET", "/metrics", metrics.Handler())
}
