package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/neexbeast/tripcatalog/internal/itinerary"
)

// ElsewhereID tags records produced by the Elsewhere adapter.
const ElsewhereID = "elsewhere"

// ElsewhereDefaultURL is the production site root.
const ElsewhereDefaultURL = "https://www.elsewhere.io"

// ElsewhereCountries lists the country pages scraped by default.
var ElsewhereCountries = []itinerary.Source{
	{Key: "jordan", Country: "Jordan", Region: "Middle East"},
	{Key: "japan", Country: "Japan", Region: "Asia"},
	{Key: "italy", Country: "Italy", Region: "Europe"},
	{Key: "morocco", Country: "Morocco", Region: "Africa"},
	{Key: "peru", Country: "Peru", Region: "South America"},
}

// Elsewhere fetches one itinerary page per country from elsewhere.io.
type Elsewhere struct {
	baseURL   string
	countries []itinerary.Source
	client    *http.Client
}

// NewElsewhere constructs an adapter for the production site.
func NewElsewhere(timeout time.Duration) *Elsewhere {
	return NewElsewhereWithURL(ElsewhereDefaultURL, timeout, nil)
}

// NewElsewhereWithURL constructs an adapter pointing at a custom base URL
// and country list. A nil list means ElsewhereCountries.
func NewElsewhereWithURL(baseURL string, timeout time.Duration, countries []itinerary.Source) *Elsewhere {
	if countries == nil {
		countries = ElsewhereCountries
	}
	return &Elsewhere{
		baseURL:   strings.TrimRight(baseURL, "/"),
		countries: countries,
		client:    newHTTPClient(timeout),
	}
}

// ID returns the provenance tag for records from this adapter.
func (e *Elsewhere) ID() string { return ElsewhereID }

// Sources returns the country pages in scrape order.
func (e *Elsewhere) Sources() []itinerary.Source { return e.countries }

// Fetch retrieves the page for src. Failures are *FetchError.
func (e *Elsewhere) Fetch(ctx context.Context, src itinerary.Source) (string, error) {
	pageURL := e.baseURL + "/" + url.PathEscape(src.Key)

	body, err := getPage(ctx, e.client, pageURL)
	if err != nil {
		return "", fmt.Errorf("elsewhere fetch for %s: %w", src.Country, err)
	}
	return body, nil
}
