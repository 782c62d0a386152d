package slug_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/tripcatalog/internal/slug"
)

var canonical = regexp.MustCompile(`^[a-z0-9_\-/]*$`)

func TestFromDestination(t *testing.T) {
	tests := []struct {
		name, title, city, country string
		want                       string
	}{
		{"city and country", "", "New York", "USA", "usa/new-york"},
		{"country only", "", "", "Japan", "japan"},
		{"city without country falls back to name", "Tokyo, Japan", "Tokyo", "", "tokyo-japan"},
		{"punctuation only", "??", "", "", "destination"},
		{"nothing at all", "", "", "", "destination"},
		{"collapses whitespace runs", "", "Rio  de \t Janeiro", "Brazil", "brazil/rio-de-janeiro"},
		{"strips punctuation", "", "St. John's", "Antigua & Barbuda", "antigua-barbuda/st-johns"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, slug.FromDestination(tc.title, tc.city, tc.country))
		})
	}
}

func TestFromDestination_Deterministic(t *testing.T) {
	inputs := [][3]string{
		{"New York City, USA", "new york", "usa"},
		{"Tokyo, Japan", "tokyo", "japan"},
		{"Zürich!", "Zürich", "Schweiz / Suisse"},
		{"", "  São Paulo  ", "Brasil"},
		{"¿Qué?", "", ""},
	}

	for _, in := range inputs {
		first := slug.FromDestination(in[0], in[1], in[2])
		second := slug.FromDestination(in[0], in[1], in[2])
		assert.Equal(t, first, second)
		assert.Regexp(t, canonical, first)
		assert.NotContains(t, first, " ")
	}
}

func TestFromItinerary(t *testing.T) {
	assert.Equal(t, "jordan/petra-and-wadi-rum", slug.FromItinerary("Jordan", "Petra and Wadi Rum"))
	assert.Equal(t, "peru/trip-to-peru", slug.FromItinerary("Peru", "Trip to Peru"))
	assert.Equal(t, "cote-divoire/best-of-abidjan", slug.FromItinerary("Côte d'Ivoire", "Best of Abidjan!"))
}

func TestFromItinerary_AlwaysTwoSegments(t *testing.T) {
	got := slug.FromItinerary("Morocco", "???")
	assert.Equal(t, "morocco/", got)
	assert.Regexp(t, canonical, got)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, "hello-world", slug.Tokenize("Hello,   World"))
	assert.Equal(t, "snake_case", slug.Tokenize("snake_case"))
	assert.Equal(t, "", slug.Tokenize("!!!"))
	assert.Equal(t, "new-york", slug.Tokenize("New\u00a0York"))
	assert.Equal(t, "a-b", slug.Tokenize("a \u00a0\u2009b"))
}

func TestSlugs_NonBreakingSpace(t *testing.T) {
	assert.Equal(t, "usa/new-york", slug.FromDestination("", "New\u00a0York", "USA"))
	assert.Equal(t, "jordan/seven-days-in-jordan", slug.FromItinerary("Jordan", "Seven\u00a0Days in Jordan"))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"jordanpetra", "jordanpetr/a"},
		{"JapanKyoto", "japankyot/o"},
		{"already/has-slash", "already/has-slash"},
		{"", ""},
		{"new-york", "new-york"},
		{"area51", "area51"},
		{"x", "x"},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, slug.Normalize(tc.in))
		})
	}
}

func TestNormalize_IdempotentOnWellFormed(t *testing.T) {
	for _, s := range []string{"usa/new-york", "japan/tokyo", "a/b"} {
		assert.Equal(t, s, slug.Normalize(s))
		assert.Equal(t, slug.Normalize(s), slug.Normalize(slug.Normalize(s)))
	}
}

func TestConcatenatedRuns_Unrepairable(t *testing.T) {
	var p slug.ConcatenatedRuns

	for _, raw := range []string{"new-york", "route66", "a", "two words"} {
		got, err := p.Repair(raw)
		require.ErrorIs(t, err, slug.ErrUnrepairable, raw)
		assert.Equal(t, raw, got)
	}
}

func TestIsMalformed(t *testing.T) {
	assert.True(t, slug.IsMalformed("japantokyo"))
	assert.False(t, slug.IsMalformed("japan/tokyo"))
	assert.False(t, slug.IsMalformed(""))
}

type splitAt struct{ n int }

func (s splitAt) Repair(raw string) (string, error) {
	if len(raw) <= s.n {
		return raw, slug.ErrUnrepairable
	}
	return raw[:s.n] + "/" + raw[s.n:], nil
}

func TestPlan(t *testing.T) {
	rows := []slug.Row{
		{ID: 1, Slug: "usa/new-york"},
		{ID: 2, Slug: "jordanpetra"},
		{ID: 3, Slug: "new-york"},
		{ID: 4, Slug: ""},
	}

	fixes, unrepairable := slug.Plan(rows, nil)
	require.Len(t, fixes, 1)
	assert.Equal(t, slug.Fix{ID: 2, Old: "jordanpetra", New: "jordanpetr/a"}, fixes[0])
	require.Len(t, unrepairable, 1)
	assert.Equal(t, int64(3), unrepairable[0].ID)
}

func TestPlan_CustomPolicy(t *testing.T) {
	rows := []slug.Row{{ID: 7, Slug: "japankyoto"}, {ID: 8, Slug: "usa"}}

	fixes, unrepairable := slug.Plan(rows, splitAt{n: 5})
	require.Len(t, fixes, 1)
	assert.Equal(t, "japan/kyoto", fixes[0].New)
	require.Len(t, unrepairable, 1)
	assert.Equal(t, "usa", unrepairable[0].Slug)
}
