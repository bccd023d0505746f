// Package httpapi exposes the tracker query surface as a read-only JSON
// API.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/arofre/FinTrack"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(tracker *fintrack.Tracker, cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	h := &handler{tracker: tracker}
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)
		r.Get("/holdings", h.holdings)
		r.Get("/holdings/range", h.holdingsRange)
		r.Get("/cash", h.cash)
		r.Get("/value", h.value)
		r.Get("/summary", h.summary)
		r.Get("/returns", h.returns)
		r.Get("/returns/index", h.indexReturns)
	})
	return r
}
