package itinerary

import "time"

// Limits on the number of day sections an itinerary may have.
const (
	MinDays = 1
	MaxDays = 7
)

// DefaultTheme is assigned to every extracted itinerary.
const DefaultTheme = "Classic"

// Source identifies one page an adapter can fetch, plus the provenance
// fields copied onto the extracted record.
type Source struct {
	Key     string `json:"key"`
	Country string `json:"country"`
	Region  string `json:"region"`
}

// Itinerary is a day-by-day travel plan, either a candidate fresh from
// extraction or a record loaded from the catalog.
type Itinerary struct {
	ID       int64    `json:"id,omitempty"`
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Region   string   `json:"region"`
	Country  string   `json:"country"`
	Theme    string   `json:"theme"`
	Days     int      `json:"days"`
	Places   []string `json:"places"`
	Markdown string   `json:"markdown"`
	Source   string   `json:"source"`
	Image    string   `json:"image"`
	Images   []string `json:"images"`

	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// Key returns the catalog key.
func (it *Itinerary) Key() string { return it.Slug }

// EnsureImages seeds Images with the primary image when none were provided.
func (it *Itinerary) EnsureImages() {
	if len(it.Images) == 0 && it.Image != "" {
		it.Images = []string{it.Image}
	}
}
