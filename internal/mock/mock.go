// Package mock holds the built-in sample dataset served when no remote
// backend is reachable.
package mock

import (
	"encoding/json"
	"slices"

	"github.com/offroutechronicles/offroute-server/internal/backend"
	"github.com/offroutechronicles/offroute-server/internal/domain"
)

// Dataset is a complete set of rows for every entity kind.
// Treat it as read-only once built.
type Dataset struct {
	Posts         []domain.BlogPost
	Destinations  []domain.Destination
	GalleryImages []domain.GalleryImage
	Comments      []domain.Comment
	Reactions     []domain.Reaction
	Subscribers   []domain.Subscriber
}

// Option customizes a dataset built with New.
type Option func(*Dataset)

// WithPosts sets the posts.
func WithPosts(posts ...domain.BlogPost) Option {
	return func(d *Dataset) { d.Posts = posts }
}

// WithDestinations sets the destinations.
func WithDestinations(dests ...domain.Destination) Option {
	return func(d *Dataset) { d.Destinations = dests }
}

// WithGalleryImages sets the gallery images.
func WithGalleryImages(images ...domain.GalleryImage) Option {
	return func(d *Dataset) { d.GalleryImages = images }
}

// WithComments sets the comments.
func WithComments(comments ...domain.Comment) Option {
	return func(d *Dataset) { d.Comments = comments }
}

// WithReactions sets the reactions.
func WithReactions(reactions ...domain.Reaction) Option {
	return func(d *Dataset) { d.Reactions = reactions }
}

// WithSubscribers sets the subscribers.
func WithSubscribers(subs ...domain.Subscriber) Option {
	return func(d *Dataset) { d.Subscribers = subs }
}

// Default returns a fresh deep copy of the built-in dataset.
func Default() *Dataset {
	return builtin.Clone()
}

// New builds a dataset from options, starting empty.
func New(opts ...Option) *Dataset {
	d := &Dataset{}
	for _, opt := range opts {
		opt(d)
	}
	return d.Clone()
}

// Clone returns a deep copy of d.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		Posts:         slices.Clone(d.Posts),
		Destinations:  slices.Clone(d.Destinations),
		GalleryImages: slices.Clone(d.GalleryImages),
		Comments:      slices.Clone(d.Comments),
		Reactions:     slices.Clone(d.Reactions),
		Subscribers:   slices.Clone(d.Subscribers),
	}
	for i := range out.Posts {
		out.Posts[i].GalleryImages = slices.Clone(out.Posts[i].GalleryImages)
		if rt := out.Posts[i].ReadTime; rt != nil {
			v := *rt
			out.Posts[i].ReadTime = &v
		}
	}
	for i := range out.Destinations {
		out.Destinations[i].Highlights = slices.Clone(out.Destinations[i].Highlights)
	}
	return out
}

// Records returns the rows of table in the same shape a REST backend
// returns them. Each call returns new maps. Unknown tables yield nil.
func (d *Dataset) Records(table string) []backend.Record {
	var rows any
	switch table {
	case domain.TableBlogPosts:
		rows = d.Posts
	case domain.TableDestinations:
		rows = d.Destinations
	case domain.TableGalleryImages:
		rows = d.GalleryImages
	case domain.TableComments:
		rows = d.Comments
	case domain.TableReactions:
		rows = d.Reactions
	case domain.TableSubscribers:
		rows = d.Subscribers
	default:
		return nil
	}

	data, err := json.Marshal(rows)
	if err != nil {
		// Entities are plain structs; marshaling cannot fail.
		panic("mock: marshal " + table + ": " + err.Error())
	}
	var out []backend.Record
	if err := json.Unmarshal(data, &out); err != nil {
		panic("mock: unmarshal " + table + ": " + err.Error())
	}
	return out
}
