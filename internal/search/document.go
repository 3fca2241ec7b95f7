// Package search provides full-text search over posts and destinations
// using Bleve, with fuzzy and prefix matching on titles and names.
package search

import (
	"github.com/offroutechronicles/offroute-server/internal/domain"
	"github.com/offroutechronicles/offroute-server/internal/normalize"
)

// DocType represents the type of document in the unified index.
type DocType string

// Document types for the search index.
const (
	DocTypePost        DocType = "post"
	DocTypeDestination DocType = "destination"
)

// Valid reports whether t is a known document type.
func (t DocType) Valid() bool {
	return t == DocTypePost || t == DocTypeDestination
}

// SearchDocument is the unified document structure for the Bleve index.
// Posts and destinations share one index and are told apart by Type.
type SearchDocument struct {
	// Identity
	ID   string  `json:"id"`   // Entity id as stored in the backend
	Type DocType `json:"type"` // Discriminator for result grouping

	// Primary searchable text. Post: title, Destination: name.
	Name string `json:"name"`

	// Secondary text. Post: excerpt, Destination: description.
	Summary string `json:"summary,omitempty"`
	// Post body; indexed, not stored.
	Content string `json:"content,omitempty"`

	Author      string `json:"author,omitempty"`      // posts only
	Destination string `json:"destination,omitempty"` // posts only
	Country     string `json:"country,omitempty"`     // destinations only
	Continent   string `json:"continent,omitempty"`   // destinations only

	// Normalized category key for exact filtering and facets.
	Category string `json:"category,omitempty"`
	Image    string `json:"image,omitempty"`
	Featured bool   `json:"featured,omitempty"`

	CreatedAt int64 `json:"created_at"` // Unix millis
}

// DocID is the index key. Posts and destinations may share backend ids,
// so the type is part of it.
func (d *SearchDocument) DocID() string {
	return string(d.Type) + ":" + d.ID
}

// ToMap converts the document to a map whose keys match the index
// mapping.
func (d *SearchDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"type":       string(d.Type),
		"name":       d.Name,
		"featured":   d.Featured,
		"created_at": d.CreatedAt,
	}

	optional := map[string]string{
		"summary":     d.Summary,
		"content":     d.Content,
		"author":      d.Author,
		"destination": d.Destination,
		"country":     d.Country,
		"continent":   d.Continent,
		"category":    d.Category,
		"image":       d.Image,
	}
	for k, v := range optional {
		if v != "" {
			m[k] = v
		}
	}
	return m
}

// PostToSearchDocument converts a post to a search document.
func PostToSearchDocument(p domain.BlogPost) *SearchDocument {
	return &SearchDocument{
		ID:          p.ID,
		Type:        DocTypePost,
		Name:        p.Title,
		Summary:     p.Excerpt,
		Content:     p.Content,
		Author:      p.Author,
		Destination: p.Destination,
		Category:    normalize.Category(p.Category),
		Image:       p.Image,
		Featured:    p.Featured,
		CreatedAt:   p.CreatedDate.UnixMilli(),
	}
}

// DestinationToSearchDocument converts a destination to a search document.
func DestinationToSearchDocument(d domain.Destination) *SearchDocument {
	doc := &SearchDocument{
		ID:        d.ID,
		Type:      DocTypeDestination,
		Name:      d.Name,
		Summary:   d.Description,
		Country:   d.Country,
		Continent: d.Continent,
		Category:  normalize.Category(d.Category),
		Image:     d.Image,
		Featured:  d.Featured,
	}
	if !d.CreatedDate.IsZero() {
		doc.CreatedAt = d.CreatedDate.UnixMilli()
	}
	return doc
}
