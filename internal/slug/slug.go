// Package slug derives and repairs the catalog's slug keys.
//
// A slug is either hierarchical ("country/name") or a single segment. Segments are
// lowercase ASCII word characters joined by hyphens.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Separator joins the country segment to the name segment.
const Separator = "/"

// DefaultDestination is used when no destination field yields a token.
const DefaultDestination = "destination"

var (
	nonWord    = regexp.MustCompile(`[^\w\s\p{Zs}]`)
	whitespace = regexp.MustCompile(`[\s\p{Zs}]+`)
)

// Tokenize lowercases s, drops every character that is not a word character or
// whitespace, and collapses whitespace runs into a single hyphen. Unicode space
// separators such as U+00A0 count as whitespace.
func Tokenize(s string) string {
	t := strings.ToLower(s)
	t = nonWord.ReplaceAllString(t, "")
	return whitespace.ReplaceAllString(t, "-")
}

// FromDestination builds a destination slug: "country/city" when both are present,
// "country" when only the country is, then the name, then DefaultDestination.
func FromDestination(name, city, country string) string {
	c := Tokenize(city)
	co := Tokenize(country)

	switch {
	case c != "" && co != "":
		return co + Separator + c
	case co != "":
		return co
	}

	if n := Tokenize(name); n != "" {
		return n
	}
	return DefaultDestination
}

// FromItinerary builds the two-segment "country/title" slug used by the itinerary
// catalog. Accented letters are folded to ASCII before tokenizing.
func FromItinerary(country, title string) string {
	return Tokenize(fold(country)) + Separator + Tokenize(fold(title))
}

// fold strips combining marks after canonical decomposition, so "é" becomes "e".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
