package itinerary

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoValidDayRange means the page did not yield between MinDays and MaxDays
// day sections. It is a skip, not a failure.
var ErrNoValidDayRange = errors.New("no valid day range")

// minBodyLength is the shortest paragraph kept as narrative text (exclusive).
const minBodyLength = 30

// blockSelector lists the narrative elements scanned in document order.
const blockSelector = "h3, h4, p"

// DayMatcher decides whether a block of text opens a new day section.
type DayMatcher interface {
	IsDayMarker(text string) bool
}

// DayPattern matches text against a regular expression.
type DayPattern struct {
	re *regexp.Regexp
}

// NewDayPattern compiles expr into a DayPattern.
func NewDayPattern(expr string) (*DayPattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling day pattern %q: %w", expr, err)
	}
	return &DayPattern{re: re}, nil
}

// IsDayMarker implements DayMatcher.
func (p *DayPattern) IsDayMarker(text string) bool { return p.re.MatchString(text) }

// DefaultDayPattern accepts "Day 1", "day3", "DAY  12: Arrival" and so on.
// Unicode space separators count, so "Day&nbsp;1" is a marker too.
var DefaultDayPattern = &DayPattern{re: regexp.MustCompile(`(?i)^day[\s\p{Zs}]*\d+`)}

// StockImage returns a stock-photo search URL for the country. It is the
// image used when a page has no og:image.
func StockImage(country string) string {
	term := strings.ReplaceAll(url.QueryEscape(country), "+", "%20")
	return "https://source.unsplash.com/featured/?" + term + ",travel"
}

// Extractor turns itinerary pages into candidate records.
type Extractor struct {
	days          DayMatcher
	fallbackImage func(country string) string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithDayMatcher replaces the day-marker heuristic.
func WithDayMatcher(m DayMatcher) Option {
	return func(e *Extractor) { e.days = m }
}

// WithImageFallback replaces the image used when a page has no og:image.
func WithImageFallback(fn func(country string) string) Option {
	return func(e *Extractor) { e.fallbackImage = fn }
}

// NewExtractor constructs an Extractor with DefaultDayPattern and StockImage.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{days: DefaultDayPattern, fallbackImage: StockImage}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses rawHTML fetched for src by the adapter named adapterID.
// It returns ErrNoValidDayRange when the day count falls outside [MinDays, MaxDays].
// The returned itinerary has no slug yet.
func (e *Extractor) Extract(rawHTML string, src Source, adapterID string) (*Itinerary, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("parsing itinerary page for %s: %w", src.Country, err)
	}

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = "Trip to " + src.Country
	}

	var md strings.Builder
	days := 0

	doc.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())

		switch {
		case e.days.IsDayMarker(text):
			md.WriteString("\n\n### " + text + "\n")
			days++
		case goquery.NodeName(sel) == "p" && utf8.RuneCountInString(text) > minBodyLength:
			md.WriteString(text + "\n")
		}
	})

	if days < MinDays || days > MaxDays {
		return nil, fmt.Errorf("%s: %d day sections: %w", src.Country, days, ErrNoValidDayRange)
	}

	image, _ := doc.Find(`meta[property="og:image"]`).Attr("content")
	if image == "" {
		image = e.fallbackImage(src.Country)
	}

	return &Itinerary{
		Title:    title,
		Region:   src.Region,
		Country:  src.Country,
		Theme:    DefaultTheme,
		Days:     days,
		Places:   []string{},
		Markdown: md.String(),
		Source:   adapterID,
		Image:    image,
	}, nil
}
