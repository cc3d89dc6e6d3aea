package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/tweetvault/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tweetvault/internal/httpserver/handlers"
)

func init() { Register(registerReload, middleware.Timeout(lightTimeout)) }

func registerReload(r chi.Router, d deps.Deps) {
	r.With(heavy(d)).Post("/reload", handlers.Reload(d))
}
