package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds and returns the Chi router with all routes configured.
// redis may be nil when the slug cache is disabled.
func NewRouter(handlers *Handlers, db, redis Pinger, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger(log))
	r.Use(Recoverer(log))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", HealthHandlerFunc(db, redis, log))
		r.Post("/scrape/destinations", handlers.ScrapeDestinations)
		r.Post("/scrape/itineraries", handlers.ScrapeItineraries)
		r.Post("/maintenance/slugs", handlers.RepairSlugs)
		r.Get("/itineraries/{country}/{name}", handlers.GetItinerary)
	})

	return r
}

// Ensure chi.Mux implements http.Handler.
var _ http.Handler = (*chi.Mux)(nil)
