package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/tweetvault/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tweetvault/internal/httpserver/handlers"
)

func init() { Register(registerRecords, middleware.Timeout(lightTimeout)) }

func registerRecords(r chi.Router, d deps.Deps) {
	r.Get("/api/records", handlers.ListRecords(d))
	r.Get("/api/records/{id}", handlers.GetRecord(d))
	r.Delete("/api/records/{id}", handlers.DeleteRecord(d))
	r.With(heavy(d)).Delete("/api/records", handlers.PurgeRecords(d))
}
