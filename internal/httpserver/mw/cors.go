package mw

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows cross-origin calls from origins. With no origins it is a
// passthrough and browsers enforce same-origin.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "HEAD", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition", "Retry-After"},
		MaxAge:         300,
	})
}
