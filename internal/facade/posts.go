package facade

import (
	"context"
	"slices"

	"github.com/offroutechronicles/offroute-server/internal/backend"
	"github.com/offroutechronicles/offroute-server/internal/domain"
)

const entityPost = "blog_post"

// SortNewest requests descending created_date order.
const SortNewest = "-created_date"

// BlogPosts reads travel stories.
type BlogPosts struct {
	c *Client
}

// PostFilter selects posts by equality. Empty fields are ignored.
type PostFilter struct {
	Category string
	Featured *bool
}

// List returns every post. SortNewest orders by created_date descending;
// any other sort keeps insertion order.
func (p *BlogPosts) List(ctx context.Context, sort string) []domain.BlogPost {
	return p.ListResult(ctx, sort).Value
}

// ListResult is List with the path that produced the value.
// An empty remote list is returned as is.
func (p *BlogPosts) ListResult(ctx context.Context, sort string) Result[[]domain.BlogPost] {
	q := backend.From(domain.TableBlogPosts)
	if sort == SortNewest {
		q = q.OrderBy("created_date", true)
	}
	res := list[domain.BlogPost](ctx, p.c, entityPost, "list", q, false)
	if sort == SortNewest {
		sortNewest(res.Value)
	}
	return res
}

// Get returns the post with id. It never comes back empty: a post found
// nowhere is replaced by the "Blog Post Not Found" placeholder.
func (p *BlogPosts) Get(ctx context.Context, id string) domain.BlogPost {
	return p.GetResult(ctx, id).Value
}

// GetResult is Get with the path that produced the value. A remote miss
// is looked up in the mock dataset and reported as mock-only.
func (p *BlogPosts) GetResult(ctx context.Context, id string) Result[domain.BlogPost] {
	q := backend.From(domain.TableBlogPosts).Where("id", id).One()

	vals, attempted, err := fetch[domain.BlogPost](ctx, p.c, entityPost, "get", q)
	if attempted && err == nil && len(vals) > 0 {
		return Result[domain.BlogPost]{Value: vals[0], Source: SourceRemote}
	}

	res := Result[domain.BlogPost]{Source: SourceMock, Err: err}
	if err != nil {
		res.Source = SourceFallback
	}
	if found := local[domain.BlogPost](p.c, q); len(found) > 0 {
		res.Value = found[0]
	} else {
		res.Value = domain.NotFoundPost(id, p.c.now())
	}
	return res
}

// ListByDestination returns the posts about a destination, newest first.
// It matches destination_id first and falls back to the destination name
// only when no post matches by id.
func (p *BlogPosts) ListByDestination(ctx context.Context, idOrName string) []domain.BlogPost {
	return p.ListByDestinationResult(ctx, idOrName).Value
}

// ListByDestinationResult is ListByDestination with its source. An error
// in either remote phase reruns both phases on the mock dataset.
func (p *BlogPosts) ListByDestinationResult(ctx context.Context, idOrName string) Result[[]domain.BlogPost] {
	byID := backend.From(domain.TableBlogPosts).Where("destination_id", idOrName).OrderBy("created_date", true)
	byName := backend.From(domain.TableBlogPosts).Where("destination", idOrName).OrderBy("created_date", true)

	mockLookup := func() []domain.BlogPost {
		if posts := local[domain.BlogPost](p.c, byID); len(posts) > 0 {
			return posts
		}
		return local[domain.BlogPost](p.c, byName)
	}

	vals, attempted, err := fetch[domain.BlogPost](ctx, p.c, entityPost, "listByDestination", byID)
	if attempted && err == nil && len(vals) == 0 {
		vals, _, err = fetch[domain.BlogPost](ctx, p.c, entityPost, "listByDestination", byName)
	}

	var res Result[[]domain.BlogPost]
	switch {
	case !attempted:
		res = Result[[]domain.BlogPost]{Value: mockLookup(), Source: SourceMock}
	case err != nil:
		res = Result[[]domain.BlogPost]{Value: mockLookup(), Source: SourceFallback, Err: err}
	default:
		res = Result[[]domain.BlogPost]{Value: vals, Source: SourceRemote}
	}
	sortNewest(res.Value)
	return res
}

// Filter returns posts matching every set field, newest first.
func (p *BlogPosts) Filter(ctx context.Context, f PostFilter) []domain.BlogPost {
	return p.FilterResult(ctx, f).Value
}

// FilterResult is Filter with the path that produced the value.
func (p *BlogPosts) FilterResult(ctx context.Context, f PostFilter) Result[[]domain.BlogPost] {
	q := backend.From(domain.TableBlogPosts).OrderBy("created_date", true)
	if f.Category != "" {
		q = q.Where("category", f.Category)
	}
	if f.Featured != nil {
		q = q.Where("featured", *f.Featured)
	}
	res := list[domain.BlogPost](ctx, p.c, entityPost, "filter", q, false)
	sortNewest(res.Value)
	return res
}

// sortNewest orders posts by created_date descending, keeping the relative
// order of equal dates.
func sortNewest(posts []domain.BlogPost) {
	slices.SortStableFunc(posts, func(a, b domain.BlogPost) int {
		return b.CreatedDate.Compare(a.CreatedDate.Time)
	})
}
