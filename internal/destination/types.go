package destination

import "time"

// Destination is a city or country entry in the destination catalog.
type Destination struct {
	ID        int64    `json:"id,omitempty" yaml:"-"`
	Slug      string   `json:"slug" yaml:"-"`
	Name      string   `json:"name" yaml:"-"`
	Title     string   `json:"-" yaml:"title"`
	Summary   string   `json:"summary" yaml:"summary"`
	Image     string   `json:"image" yaml:"image"`
	Images    []string `json:"images" yaml:"images,omitempty"`
	City      string   `json:"city" yaml:"city"`
	Country   string   `json:"country" yaml:"country"`
	Category  string   `json:"category" yaml:"category"`
	Interests []string `json:"interests" yaml:"interests"`

	CreatedAt time.Time `json:"created_at,omitzero" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at,omitzero" yaml:"-"`
}

// Key returns the catalog key.
func (d *Destination) Key() string { return d.Slug }

// EnsureImages seeds Images with the primary image when none were provided.
func (d *Destination) EnsureImages() {
	if len(d.Images) == 0 && d.Image != "" {
		d.Images = []string{d.Image}
	}
}
