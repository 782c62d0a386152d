package api

import (
	"context"

	"github.com/neexbeast/tripcatalog/internal/catalog"
	"github.com/neexbeast/tripcatalog/internal/itinerary"
)

// CatalogService defines the pipeline runs the handlers trigger.
type CatalogService interface {
	ScrapeDestinations(ctx context.Context, filter string) (*catalog.Summary, error)
	ScrapeItineraries(ctx context.Context) (*catalog.Summary, error)
	RepairSlugs(ctx context.Context) (*catalog.RepairReport, error)
}

// ItineraryReader defines the read access needed by the itinerary lookup route.
type ItineraryReader interface {
	GetItinerary(ctx context.Context, slug string) (*itinerary.Itinerary, error)
}
