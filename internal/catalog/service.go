package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/neexbeast/tripcatalog/internal/destination"
	"github.com/neexbeast/tripcatalog/internal/itinerary"
	"github.com/neexbeast/tripcatalog/internal/slug"
)

// DestinationSource yields destination candidates without slugs.
type DestinationSource interface {
	Destinations(ctx context.Context) ([]*destination.Destination, error)
}

// ItineraryAdapter fetches raw itinerary pages for a site.
type ItineraryAdapter interface {
	ID() string
	Sources() []itinerary.Source
	Fetch(ctx context.Context, src itinerary.Source) (string, error)
}

// Deps holds everything a Service needs. Stores are constructed once by the
// caller and shared for the life of the process.
type Deps struct {
	Log              *slog.Logger
	Destinations     DestinationSource
	DestinationStore Store[*destination.Destination]
	Adapter          ItineraryAdapter
	Extractor        *itinerary.Extractor
	ItineraryStore   Store[*itinerary.Itinerary]
	SlugStore        SlugStore
	Repair           slug.RepairPolicy
}

// Service runs the extraction and reconciliation pipelines.
// Runs are serialized: one logical worker processes one source at a time.
type Service struct {
	mu sync.Mutex

	log          *slog.Logger
	destinations DestinationSource
	destRec      *Reconciler[*destination.Destination]
	adapter      ItineraryAdapter
	extractor    *itinerary.Extractor
	itinRec      *Reconciler[*itinerary.Itinerary]
	slugStore    SlugStore
	repair       slug.RepairPolicy
}

// NewService wires a Service. Destinations use SkipIfExists, itineraries Upsert.
func NewService(d Deps) *Service {
	extractor := d.Extractor
	if extractor == nil {
		extractor = itinerary.NewExtractor()
	}
	repair := d.Repair
	if repair == nil {
		repair = slug.DefaultRepair
	}

	return &Service{
		log:          d.Log,
		destinations: d.Destinations,
		destRec:      NewReconciler(d.DestinationStore, SkipIfExists),
		adapter:      d.Adapter,
		extractor:    extractor,
		itinRec:      NewReconciler(d.ItineraryStore, Upsert),
		slugStore:    d.SlugStore,
		repair:       repair,
	}
}

// ScrapeDestinations derives a slug for every destination candidate and
// reconciles those whose slug contains filter (all of them when filter is empty).
func (s *Service) ScrapeDestinations(ctx context.Context, filter string) (*Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := newSummary(StatusSuccess, "")
	log := s.log.With("run_id", sum.RunID, "catalog", "destinations")

	items, err := s.destinations.Destinations(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading destination candidates: %w", err)
	}

	for _, d := range items {
		d.Slug = slug.FromDestination(d.Name, d.City, d.Country)
		if filter != "" && !strings.Contains(d.Slug, filter) {
			continue
		}

		o := s.destRec.Reconcile(ctx, d)
		logOutcome(log, o)
		sum.Add(o)
	}

	log.Info("destination run finished",
		"inserted", len(sum.Inserted), "skipped", len(sum.Skipped), "filter", filter)
	return sum, nil
}

// ScrapeItineraries fetches, extracts and upserts every source of the adapter
// in order. A failing source is recorded as a skip and the run moves on.
func (s *Service) ScrapeItineraries(ctx context.Context) (*Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := newSummary(StatusOK, s.adapter.ID())
	log := s.log.With("run_id", sum.RunID, "catalog", "itineraries", "adapter", s.adapter.ID())

	for _, src := range s.adapter.Sources() {
		o := s.scrapeItinerary(ctx, src)
		logOutcome(log, o)
		sum.Add(o)
	}

	log.Info("itinerary run finished",
		"inserted", len(sum.Inserted), "replaced", len(sum.Replaced), "skipped", len(sum.Skipped))
	return sum, nil
}

func (s *Service) scrapeItinerary(ctx context.Context, src itinerary.Source) Outcome {
	raw, err := s.adapter.Fetch(ctx, src)
	if err != nil {
		return Outcome{Source: src.Key, Action: ActionSkip, Reason: ReasonFetchError, Detail: err.Error()}
	}

	it, err := s.extractor.Extract(raw, src, s.adapter.ID())
	if errors.Is(err, itinerary.ErrNoValidDayRange) {
		return Outcome{Source: src.Key, Action: ActionSkip, Reason: ReasonNoDayRange}
	}
	if err != nil {
		return Outcome{Source: src.Key, Action: ActionSkip, Reason: ReasonExtractError, Detail: err.Error()}
	}

	it.Slug = slug.FromItinerary(it.Country, it.Title)

	o := s.itinRec.Reconcile(ctx, it)
	o.Source = src.Key
	return o
}

// RepairSlugs runs the slug maintenance pass against the destination catalog.
func (s *Service) RepairSlugs(ctx context.Context) (*RepairReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return RepairSlugs(ctx, s.log, s.slugStore, s.repair)
}
