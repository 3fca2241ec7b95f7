// Package normalize provides utilities for normalizing categories,
// continents and free-text search input.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// All is the filter value that disables category and continent filters.
const All = "all"

var whitespaceRun = regexp.MustCompile(`\s+`)

// categoryAliases maps stored category spellings onto the story filter set.
//
//nolint:gochecknoglobals // Static lookup table for category normalization
var categoryAliases = map[string]string{
	"food_cafe":  "food",
	"foodcafe":   "food",
	"heritage":   "culture",
	"mountain":   "mountains",
	"mountainss": "mountains",
}

// continentLabels maps continent keys to display names.
//
//nolint:gochecknoglobals // Static lookup table
var continentLabels = map[string]string{
	"europe":        "Europe",
	"asia":          "Asia",
	"africa":        "Africa",
	"north_america": "North America",
	"south_america": "South America",
	"oceania":       "Oceania",
}

// StoryCategories lists the category filters offered on the stories page.
var StoryCategories = []string{All, "adventure", "culture", "food", "nature", "city", "beach", "mountains"}

// DestinationCategories lists the category filters offered on the destinations page.
var DestinationCategories = []string{All, "city", "local", "adventure", "food_cafe", "heritage"}

// Key lowercases, trims and joins whitespace runs with underscores.
// "  North America " -> "north_america".
func Key(raw string) string {
	s := strings.ToLower(strings.TrimSpace(sanitizeString(norm.NFKC.String(raw))))
	return whitespaceRun.ReplaceAllString(s, "_")
}

// Category normalizes a story category and resolves known aliases.
// "Food Cafe" -> "food_cafe" -> "food".
func Category(raw string) string {
	k := Key(raw)
	if alias, ok := categoryAliases[k]; ok {
		return alias
	}
	return k
}

// IsAll reports whether a filter value means "no filter".
func IsAll(filter string) bool {
	k := Key(filter)
	return k == "" || k == All
}

// ContinentLabel returns the display name for a continent key, or the raw
// value when the key is unknown.
func ContinentLabel(continent string) string {
	if label, ok := continentLabels[Key(continent)]; ok {
		return label
	}
	return continent
}

// Folder performs case-insensitive substring matching using Unicode case
// folding, so "STRASSE" matches "straße".
type Folder struct {
	caser cases.Caser
}

// NewFolder creates a Folder. A Caser is stateful; use one Folder per goroutine.
func NewFolder() *Folder {
	return &Folder{caser: cases.Fold()}
}

// Fold returns the case-folded form of s.
func (f *Folder) Fold(s string) string {
	return f.caser.String(norm.NFKC.String(s))
}

// Contains reports whether needle occurs in any of the haystacks after folding.
// An empty needle matches everything.
func (f *Folder) Contains(needle string, haystacks ...string) bool {
	n := f.Fold(strings.TrimSpace(needle))
	if n == "" {
		return true
	}
	for _, h := range haystacks {
		if strings.Contains(f.Fold(h), n) {
			return true
		}
	}
	return false
}

// sanitizeString removes null bytes, which some backends return in text columns.
func sanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, s)
}
