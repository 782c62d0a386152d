package catalog_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/tripcatalog/internal/catalog"
	"github.com/neexbeast/tripcatalog/internal/destination"
	"github.com/neexbeast/tripcatalog/internal/itinerary"
	"github.com/neexbeast/tripcatalog/internal/slug"
)

type destSourceFunc func(ctx context.Context) ([]*destination.Destination, error)

func (f destSourceFunc) Destinations(ctx context.Context) ([]*destination.Destination, error) {
	return f(ctx)
}

func dayPage(title string, days int) string {
	var b strings.Builder
	b.WriteString("<html><body><h1>" + title + "</h1>")
	for i := 1; i <= days; i++ {
		fmt.Fprintf(&b, "<h3>Day %d</h3><p>Morning walk and an afternoon of exploring the old town.</p>", i)
	}
	b.WriteString("</body></html>")
	return b.String()
}

type harness struct {
	svc     *catalog.Service
	dests   *memStore[*destination.Destination]
	itins   *memStore[*itinerary.Itinerary]
	adapter *fakeAdapter
	slugs   *fakeSlugStore
}

func newHarness(src catalog.DestinationSource) *harness {
	h := &harness{
		dests: newMemStore[*destination.Destination](),
		itins: newMemStore[*itinerary.Itinerary](),
		adapter: &fakeAdapter{
			sources: []itinerary.Source{
				{Key: "jordan", Country: "Jordan", Region: "Middle East"},
				{Key: "japan", Country: "Japan", Region: "Asia"},
				{Key: "italy", Country: "Italy", Region: "Europe"},
				{Key: "peru", Country: "Peru", Region: "South America"},
			},
			pages: map[string]string{
				"jordan": dayPage("Petra and Wadi Rum", 3),
				"japan":  dayPage("Japan", 0),
				"peru":   dayPage("Inca Trail", 9),
			},
			errs: map[string]error{"italy": fmt.Errorf("GET https://www.elsewhere.io/italy returned status 503")},
		},
		slugs: &fakeSlugStore{},
	}
	if src == nil {
		src = destination.NewStaticSource(nil)
	}
	h.svc = catalog.NewService(catalog.Deps{
		Log:              discardLogger(),
		Destinations:     src,
		DestinationStore: h.dests,
		Adapter:          h.adapter,
		ItineraryStore:   h.itins,
		SlugStore:        h.slugs,
	})
	return h
}

func TestScrapeDestinations_InsertsThenSkips(t *testing.T) {
	h := newHarness(nil)
	ctx := context.Background()

	first, err := h.svc.ScrapeDestinations(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, catalog.StatusSuccess, first.Status)
	assert.Equal(t, []string{"usa/new-york", "japan/tokyo"}, first.Inserted)
	assert.Empty(t, first.Skipped)
	assert.NotEmpty(t, first.RunID)

	stored := h.dests.rows["usa/new-york"]
	require.NotNil(t, stored)
	assert.Equal(t, "New York City, USA", stored.Name)
	assert.Equal(t, []string{stored.Image}, stored.Images)

	second, err := h.svc.ScrapeDestinations(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, second.Inserted)
	assert.Equal(t, []catalog.Skip{
		{Slug: "usa/new-york", Reason: catalog.ReasonExists},
		{Slug: "japan/tokyo", Reason: catalog.ReasonExists},
	}, second.Skipped)
	assert.Equal(t, 2, h.dests.inserts)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestScrapeDestinations_Filter(t *testing.T) {
	h := newHarness(nil)

	sum, err := h.svc.ScrapeDestinations(context.Background(), "tokyo")
	require.NoError(t, err)
	assert.Equal(t, []string{"japan/tokyo"}, sum.Inserted)
	assert.Equal(t, 1, h.dests.finds)
}

func TestScrapeDestinations_SourceError(t *testing.T) {
	h := newHarness(destSourceFunc(func(context.Context) ([]*destination.Destination, error) {
		return nil, fmt.Errorf("seed unavailable")
	}))

	_, err := h.svc.ScrapeDestinations(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading destination candidates")
}

func TestScrapeDestinations_PartialFailure(t *testing.T) {
	h := newHarness(destSourceFunc(func(context.Context) ([]*destination.Destination, error) {
		return []*destination.Destination{
			{Name: "Lisbon", City: "Lisbon", Country: "Portugal"},
			{Name: "Porto", City: "Porto", Country: "Portugal"},
			{Name: "Faro", City: "Faro", Country: "Portugal"},
		}, nil
	}))
	h.dests.writeErr["portugal/porto"] = fmt.Errorf("disk full")

	sum, err := h.svc.ScrapeDestinations(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 3, h.dests.inserts)
	assert.Equal(t, []string{"portugal/lisbon", "portugal/faro"}, sum.Inserted)
	require.Len(t, sum.Skipped, 1)
	assert.Equal(t, catalog.Skip{Slug: "portugal/porto", Reason: catalog.ReasonInsertError}, sum.Skipped[0])
}

func TestScrapeDestinations_SummaryHidesErrorDetail(t *testing.T) {
	h := newHarness(nil)
	h.dests.findErr = fmt.Errorf("password authentication failed for user postgres")

	sum, err := h.svc.ScrapeDestinations(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, sum.Skipped, 2)

	b, err := json.Marshal(sum)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "password")
	assert.Contains(t, string(b), catalog.ReasonCheckError)
	assert.Equal(t, "password authentication failed for user postgres", sum.Outcomes[0].Detail)
}

func TestScrapeItineraries_Outcomes(t *testing.T) {
	h := newHarness(nil)

	sum, err := h.svc.ScrapeItineraries(context.Background())
	require.NoError(t, err)

	assert.Equal(t, catalog.StatusOK, sum.Status)
	assert.Equal(t, "fake", sum.Source)
	assert.Equal(t, []string{"jordan", "japan", "italy", "peru"}, h.adapter.fetched)
	assert.Equal(t, []string{"jordan/petra-and-wadi-rum"}, sum.Inserted)
	assert.Equal(t, []catalog.Skip{
		{Source: "japan", Reason: catalog.ReasonNoDayRange},
		{Source: "italy", Reason: catalog.ReasonFetchError},
		{Source: "peru", Reason: catalog.ReasonNoDayRange},
	}, sum.Skipped)

	stored := h.itins.rows["jordan/petra-and-wadi-rum"]
	require.NotNil(t, stored)
	assert.Equal(t, 3, stored.Days)
	assert.Equal(t, "fake", stored.Source)
	assert.Equal(t, itinerary.DefaultTheme, stored.Theme)
	assert.Equal(t, []string{stored.Image}, stored.Images)
}

func TestScrapeItineraries_IdempotentConvergence(t *testing.T) {
	h := newHarness(nil)
	ctx := context.Background()

	first, err := h.svc.ScrapeItineraries(ctx)
	require.NoError(t, err)
	require.Len(t, first.Inserted, 1)
	afterFirst := *h.itins.rows["jordan/petra-and-wadi-rum"]

	second, err := h.svc.ScrapeItineraries(ctx)
	require.NoError(t, err)
	assert.Empty(t, second.Inserted)
	assert.Equal(t, []string{"jordan/petra-and-wadi-rum"}, second.Replaced)

	afterSecond := *h.itins.rows["jordan/petra-and-wadi-rum"]
	assert.Equal(t, afterFirst, afterSecond)
	assert.Len(t, h.itins.ids, 1)
	assert.Equal(t, 1, h.itins.upserts)
}

func TestScrapeItineraries_WriteFailureIsolated(t *testing.T) {
	h := newHarness(nil)
	h.adapter.pages["japan"] = dayPage("Kyoto and Nara", 4)
	h.itins.writeErr["jordan/petra-and-wadi-rum"] = fmt.Errorf("constraint violation")

	sum, err := h.svc.ScrapeItineraries(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"japan/kyoto-and-nara"}, sum.Inserted)
	var reasons []string
	for _, s := range sum.Skipped {
		reasons = append(reasons, s.Reason)
	}
	assert.Equal(t, []string{catalog.ReasonInsertError, catalog.ReasonFetchError, catalog.ReasonNoDayRange}, reasons)
	assert.Equal(t, "jordan/petra-and-wadi-rum", sum.Skipped[0].Slug)
	assert.Equal(t, "jordan", sum.Skipped[0].Source)
}

func TestService_RepairSlugs(t *testing.T) {
	h := newHarness(nil)
	h.slugs.rows = []slug.Row{{ID: 1, Slug: "jordanpetra"}, {ID: 2, Slug: "usa/new-york"}}

	report, err := h.svc.RepairSlugs(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Fixed, 1)
	assert.Equal(t, "jordanpetr/a", report.Fixed[0].New)
}
