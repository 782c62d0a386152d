package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/neexbeast/tripcatalog/internal/catalog"
	"github.com/neexbeast/tripcatalog/internal/slug"
)

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	svc         CatalogService
	itineraries ItineraryReader
	log         *slog.Logger
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(svc CatalogService, itineraries ItineraryReader, log *slog.Logger) *Handlers {
	return &Handlers{
		svc:         svc,
		itineraries: itineraries,
		log:         log,
	}
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeInternalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

type destinationsResponse struct {
	Status   string         `json:"status"`
	Inserted []string       `json:"inserted"`
	Skipped  []catalog.Skip `json:"skipped"`
}

type filteredResponse struct {
	Status   string `json:"status"`
	Inserted int    `json:"inserted"`
}

type itinerariesResponse struct {
	Status   string         `json:"status"`
	Source   string         `json:"source"`
	Inserted int            `json:"inserted"`
	Replaced int            `json:"replaced"`
	Skipped  []catalog.Skip `json:"skipped"`
}

// ScrapeDestinations handles POST /api/v1/scrape/destinations[?slug=].
// With a slug filter only the insert count is returned.
func (h *Handlers) ScrapeDestinations(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("slug")

	sum, err := h.svc.ScrapeDestinations(r.Context(), filter)
	if err != nil {
		h.log.Error("destination run failed", "filter", filter, "err", err)
		writeInternalError(w)
		return
	}

	if filter != "" {
		writeJSON(w, http.StatusOK, filteredResponse{Status: catalog.StatusOK, Inserted: len(sum.Inserted)})
		return
	}

	writeJSON(w, http.StatusOK, destinationsResponse{
		Status:   sum.Status,
		Inserted: sum.Inserted,
		Skipped:  sum.Skipped,
	})
}

// ScrapeItineraries handles POST /api/v1/scrape/itineraries.
func (h *Handlers) ScrapeItineraries(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.ScrapeItineraries(r.Context())
	if err != nil {
		h.log.Error("itinerary run failed", "err", err)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, itinerariesResponse{
		Status:   sum.Status,
		Source:   sum.Source,
		Inserted: len(sum.Inserted),
		Replaced: len(sum.Replaced),
		Skipped:  sum.Skipped,
	})
}

// RepairSlugs handles POST /api/v1/maintenance/slugs.
func (h *Handlers) RepairSlugs(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.RepairSlugs(r.Context())
	if err != nil {
		h.log.Error("slug repair failed", "err", err)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// GetItinerary handles GET /api/v1/itineraries/{country}/{name}.
func (h *Handlers) GetItinerary(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "country") + slug.Separator + chi.URLParam(r, "name")

	it, err := h.itineraries.GetItinerary(r.Context(), key)
	if err != nil {
		h.log.Error("itinerary lookup failed", "slug", key, "err", err)
		writeInternalError(w)
		return
	}
	if it == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "itinerary not found"})
		return
	}

	writeJSON(w, http.StatusOK, it)
}

// Pinger reports backend connectivity for the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlerFunc returns an http.HandlerFunc that pings db and redis
// concurrently. A nil redis pinger is reported as "disabled" and does not
// degrade the status.
func HealthHandlerFunc(db, redis Pinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		dbStatus, redisStatus := "ok", "disabled"

		var g errgroup.Group
		g.Go(func() error {
			if err := db.Ping(ctx); err != nil {
				log.Error("health check: db ping failed", "err", err)
				dbStatus = "error"
			}
			return nil
		})
		if redis != nil {
			redisStatus = "ok"
			g.Go(func() error {
				if err := redis.Ping(ctx); err != nil {
					log.Error("health check: redis ping failed", "err", err)
					redisStatus = "error"
				}
				return nil
			})
		}
		_ = g.Wait()

		status, overall := http.StatusOK, "ok"
		if dbStatus == "error" || redisStatus == "error" {
			status, overall = http.StatusServiceUnavailable, "degraded"
		}

		writeJSON(w, status, map[string]string{
			"status": overall,
			"db":     dbStatus,
			"redis":  redisStatus,
		})
	}
}
