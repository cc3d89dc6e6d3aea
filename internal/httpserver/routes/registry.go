package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tweetvault/internal/httpserver/deps"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	reg Registrar
	mws []Middleware
}

// lightTimeout bounds handlers that only read or write the store.
// Import, export and archive run under the server WriteTimeout instead.
const lightTimeout = 15 * time.Second

var registry []entry

// Register a registrar with optional per-route middlewares.
func Register(reg Registrar, mws ...Middleware) {
	registry = append(registry, entry{reg: reg, mws: mws})
}

// RegisterAll is called once from server.New()
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, e := range registry {
		if len(e.mws) == 0 {
			e.reg(r, d)
			continue
		}
		sub := r.With(e.mws...) // apply per-route middlewares
		e.reg(sub, d)
	}
}

// heavy returns the throttle shared by expensive endpoints.
func heavy(d deps.Deps) Middleware {
	if d.HeavyLimit == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return d.HeavyLimit
}
