package service

import (
	"context"
	"log/slog"

	"github.com/offroutechronicles/offroute-server/internal/domain"
	"github.com/offroutechronicles/offroute-server/internal/facade"
	"github.com/offroutechronicles/offroute-server/internal/normalize"
	"github.com/offroutechronicles/offroute-server/internal/querycache"
)

// Page sizes used by the home page sections.
const (
	DefaultFeaturedLimit = 3
	DefaultLatestLimit   = 6
	DefaultRelatedLimit  = 3
)

// StoryQuery filters the stories list. Empty fields and the category
// "all" match everything.
type StoryQuery struct {
	Category string
	Search   string
	Sort     string
	Featured *bool
}

// StoryService serves blog posts.
type StoryService struct {
	data   *facade.Client
	cache  *querycache.Cache
	logger *slog.Logger
}

// NewStoryService creates a new story service.
func NewStoryService(data *facade.Client, cache *querycache.Cache, logger *slog.Logger) *StoryService {
	return &StoryService{
		data:   data,
		cache:  cache,
		logger: logger,
	}
}

// all returns every post in the given order through the cache.
func (s *StoryService) all(ctx context.Context, sort string) Sourced[[]domain.BlogPost] {
	if sort == "" {
		sort = facade.SortNewest
	}
	return cached(ctx, s.cache, querycache.K(querycache.KeyPosts, sort), func(ctx context.Context) facade.Result[[]domain.BlogPost] {
		return s.data.BlogPosts.ListResult(ctx, sort)
	})
}

// List returns the posts matching q. Categories are compared after
// normalization, so "Food Cafe" matches the "food" filter. Search is a
// case-insensitive substring match on title or excerpt.
func (s *StoryService) List(ctx context.Context, q StoryQuery) Sourced[[]domain.BlogPost] {
	category := ""
	if !normalize.IsAll(q.Category) {
		category = normalize.Category(q.Category)
	}
	folder := normalize.NewFolder()

	return mapSourced(s.all(ctx, q.Sort), func(posts []domain.BlogPost) []domain.BlogPost {
		out := make([]domain.BlogPost, 0, len(posts))
		for _, p := range posts {
			if category != "" && normalize.Category(p.Category) != category {
				continue
			}
			if q.Featured != nil && p.Featured != *q.Featured {
				continue
			}
			if !folder.Contains(q.Search, p.Title, p.Excerpt) {
				continue
			}
			out = append(out, p)
		}
		return out
	})
}

// Featured returns up to limit featured posts, newest first.
func (s *StoryService) Featured(ctx context.Context, limit int) Sourced[[]domain.BlogPost] {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	return s.pick(ctx, limit, func(p domain.BlogPost) bool { return p.Featured })
}

// Latest returns up to limit posts that are not featured, newest first.
func (s *StoryService) Latest(ctx context.Context, limit int) Sourced[[]domain.BlogPost] {
	if limit <= 0 {
		limit = DefaultLatestLimit
	}
	return s.pick(ctx, limit, func(p domain.BlogPost) bool { return !p.Featured })
}

func (s *StoryService) pick(ctx context.Context, limit int, match func(domain.BlogPost) bool) Sourced[[]domain.BlogPost] {
	return mapSourced(s.all(ctx, facade.SortNewest), func(posts []domain.BlogPost) []domain.BlogPost {
		out := make([]domain.BlogPost, 0, limit)
		for _, p := range posts {
			if len(out) == limit {
				break
			}
			if match(p) {
				out = append(out, p)
			}
		}
		return out
	})
}

// Get returns the post with id, or the "not found" placeholder.
func (s *StoryService) Get(ctx context.Context, id string) Sourced[domain.BlogPost] {
	return cached(ctx, s.cache, querycache.K(querycache.KeyPost, id), func(ctx context.Context) facade.Result[domain.BlogPost] {
		return s.data.BlogPosts.GetResult(ctx, id)
	})
}

// Related returns up to limit other posts in the same category as the
// post with id. A post without a category has no related posts.
func (s *StoryService) Related(ctx context.Context, id string, limit int) Sourced[[]domain.BlogPost] {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	post := s.Get(ctx, id)
	category := post.Value.Category
	if category == "" {
		return Sourced[[]domain.BlogPost]{Value: []domain.BlogPost{}, Source: post.Source}
	}

	return cached(ctx, s.cache, querycache.K(querycache.KeyRelatedPosts, category, id), func(ctx context.Context) facade.Result[[]domain.BlogPost] {
		res := s.data.BlogPosts.FilterResult(ctx, facade.PostFilter{Category: category})
		related := make([]domain.BlogPost, 0, limit)
		for _, p := range res.Value {
			if len(related) == limit {
				break
			}
			if p.ID != id {
				related = append(related, p)
			}
		}
		res.Value = related
		return res
	})
}

// ByDestination returns the posts linked to a destination, given either
// its id or its name.
func (s *StoryService) ByDestination(ctx context.Context, idOrName string) Sourced[[]domain.BlogPost] {
	return cached(ctx, s.cache, querycache.K(querycache.KeyPostsByDestination, idOrName), func(ctx context.Context) facade.Result[[]domain.BlogPost] {
		return s.data.BlogPosts.ListByDestinationResult(ctx, idOrName)
	})
}

// Gallery returns a post's extra images, oldest first.
func (s *StoryService) Gallery(ctx context.Context, postID string) Sourced[[]domain.GalleryImage] {
	return cached(ctx, s.cache, querycache.K(querycache.KeyGallery, postID), func(ctx context.Context) facade.Result[[]domain.GalleryImage] {
		return s.data.GalleryImages.ListResult(ctx, postID)
	})
}
