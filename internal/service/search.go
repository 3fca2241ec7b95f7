package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	domainerrors "github.com/offroutechronicles/offroute-server/internal/errors"
	"github.com/offroutechronicles/offroute-server/internal/facade"
	"github.com/offroutechronicles/offroute-server/internal/search"
)

// SearchService keeps the search index in step with the facade and runs
// queries against it.
type SearchService struct {
	data   *facade.Client
	index  *search.SearchIndex
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(data *facade.Client, index *search.SearchIndex, logger *slog.Logger) *SearchService {
	return &SearchService{
		data:   data,
		index:  index,
		logger: logger,
	}
}

// ReindexStats reports what a reindex loaded.
type ReindexStats struct {
	Posts        int           `json:"posts"`
	Destinations int           `json:"destinations"`
	Source       facade.Source `json:"source"`
	Took         time.Duration `json:"took"`
}

// Reindex replaces the index contents with every post and destination
// the facade returns.
func (s *SearchService) Reindex(ctx context.Context) (ReindexStats, error) {
	start := time.Now()

	posts := s.data.BlogPosts.ListResult(ctx, facade.SortNewest)
	dests := s.data.Destinations.ListResult(ctx)

	docs := make([]*search.SearchDocument, 0, len(posts.Value)+len(dests.Value))
	for _, p := range posts.Value {
		docs = append(docs, search.PostToSearchDocument(p))
	}
	for _, d := range dests.Value {
		docs = append(docs, search.DestinationToSearchDocument(d))
	}

	if err := s.index.Replace(docs); err != nil {
		return ReindexStats{}, fmt.Errorf("replace search index: %w", err)
	}

	stats := ReindexStats{
		Posts:        len(posts.Value),
		Destinations: len(dests.Value),
		Source:       posts.Source,
		Took:         time.Since(start),
	}
	s.logger.Info("search index rebuilt",
		"posts", stats.Posts,
		"destinations", stats.Destinations,
		"source", stats.Source,
		"took", stats.Took,
	)
	return stats, nil
}

// Run reindexes every interval until ctx is done.
func (s *SearchService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.Reindex(ctx); err != nil {
				s.logger.Warn("periodic reindex failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Search runs params against the index.
func (s *SearchService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	for _, t := range params.Types {
		if !t.Valid() {
			return nil, domainerrors.Validationf("unknown search type %q", t)
		}
	}
	return s.index.Search(ctx, params)
}

// DocumentCount reports the number of indexed documents.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}
