package facade

import (
	"context"

	"github.com/offroutechronicles/offroute-server/internal/backend"
	"github.com/offroutechronicles/offroute-server/internal/domain"
)

const (
	entityDestination = "destination"
	entityGallery     = "gallery_image"
)

// Destinations reads places.
type Destinations struct {
	c *Client
}

// List returns every destination. An empty remote table is treated like
// an unreachable one and served from mock data.
func (d *Destinations) List(ctx context.Context) []domain.Destination {
	return d.ListResult(ctx).Value
}

// ListResult is List with the path that produced the value.
func (d *Destinations) ListResult(ctx context.Context) Result[[]domain.Destination] {
	return list[domain.Destination](ctx, d.c, entityDestination, "list", backend.From(domain.TableDestinations), true)
}

// Get returns the destination with id, or nil. Unlike BlogPosts.Get there
// is no placeholder, and a remote miss is final.
func (d *Destinations) Get(ctx context.Context, id string) *domain.Destination {
	return d.GetResult(ctx, id).Value
}

// GetResult is Get with the path that produced the value.
func (d *Destinations) GetResult(ctx context.Context, id string) Result[*domain.Destination] {
	q := backend.From(domain.TableDestinations).Where("id", id).One()

	vals, attempted, err := fetch[domain.Destination](ctx, d.c, entityDestination, "get", q)
	switch {
	case !attempted:
		return Result[*domain.Destination]{Value: first(local[domain.Destination](d.c, q)), Source: SourceMock}
	case err != nil:
		return Result[*domain.Destination]{Value: first(local[domain.Destination](d.c, q)), Source: SourceFallback, Err: err}
	}
	return Result[*domain.Destination]{Value: first(vals), Source: SourceRemote}
}

// GalleryImages reads the extra images attached to posts.
type GalleryImages struct {
	c *Client
}

// List returns a post's gallery, oldest first.
func (g *GalleryImages) List(ctx context.Context, postID string) []domain.GalleryImage {
	return g.ListResult(ctx, postID).Value
}

// ListResult is List with the path that produced the value.
func (g *GalleryImages) ListResult(ctx context.Context, postID string) Result[[]domain.GalleryImage] {
	q := backend.From(domain.TableGalleryImages).Where("post_id", postID).OrderBy("created_date", false)
	return list[domain.GalleryImage](ctx, g.c, entityGallery, "list", q, false)
}

func first[T any](vals []T) *T {
	if len(vals) == 0 {
		return nil
	}
	return &vals[0]
}
