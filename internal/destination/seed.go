package destination

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Seed returns the built-in destination list.
func Seed() []Destination {
	return []Destination{
		{
			Title:     "New York City, USA",
			Summary:   "The Big Apple—iconic, energetic, diverse.",
			Image:     "https://source.unsplash.com/featured/?new-york,travel",
			City:      "new york",
			Country:   "usa",
			Category:  "trending",
			Interests: []string{"trending", "cultural", "luxury"},
		},
		{
			Title:     "Tokyo, Japan",
			Summary:   "Futuristic energy meets ancient temples.",
			Image:     "https://source.unsplash.com/featured/?tokyo,travel",
			City:      "tokyo",
			Country:   "japan",
			Category:  "trending",
			Interests: []string{"cultural", "food"},
		},
	}
}

type seedFile struct {
	Destinations []Destination `yaml:"destinations"`
}

// ErrEmptySeed means a seed file has no destinations.
var ErrEmptySeed = errors.New("no destinations listed")

// LoadSeed reads a YAML file with a top-level "destinations" list.
func LoadSeed(path string) ([]Destination, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file %s: %w", path, err)
	}

	var f seedFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decoding seed file %s: %w", path, err)
	}
	if len(f.Destinations) == 0 {
		return nil, fmt.Errorf("seed file %s: %w", path, ErrEmptySeed)
	}

	return f.Destinations, nil
}

// StaticSource serves a fixed list of destination candidates.
type StaticSource struct {
	items []Destination
}

// NewStaticSource constructs a StaticSource. A nil list means Seed().
func NewStaticSource(items []Destination) *StaticSource {
	if items == nil {
		items = Seed()
	}
	return &StaticSource{items: items}
}

// Destinations returns fresh copies of the candidates, with Name set from Title.
func (s *StaticSource) Destinations(_ context.Context) ([]*Destination, error) {
	out := make([]*Destination, 0, len(s.items))
	for _, item := range s.items {
		d := item
		d.Name = d.Title
		d.Images = append([]string(nil), item.Images...)
		d.Interests = append([]string(nil), item.Interests...)
		out = append(out, &d)
	}
	return out, nil
}
