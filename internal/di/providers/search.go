package providers

import (
	"context"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/offroutechronicles/offroute-server/internal/config"
	"github.com/offroutechronicles/offroute-server/internal/facade"
	"github.com/offroutechronicles/offroute-server/internal/logger"
	"github.com/offroutechronicles/offroute-server/internal/search"
	"github.com/offroutechronicles/offroute-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewSearchIndex(search.Options{
		DataPath: filepath.Join(cfg.App.DataPath, "search"),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{SearchIndex: index}, nil
}

// SearchIndexerHandle stops the periodic reindex loop.
type SearchIndexerHandle struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexerHandle) Shutdown() error {
	h.cancel()
	return nil
}

// ProvideSearchService provides the search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	data := do.MustInvoke[*facade.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSearchService(data, indexHandle.SearchIndex, log.Logger), nil
}

// ProvideSearchIndexer starts the initial reindex and, when an interval
// is configured, the periodic one.
func ProvideSearchIndexer(i do.Injector) (*SearchIndexerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		stats, err := searchService.Reindex(ctx)
		if err != nil {
			log.Error("Initial search reindex failed", "error", err)
		} else {
			log.Info("Initial search reindex completed",
				"posts", stats.Posts,
				"destinations", stats.Destinations,
				"source", stats.Source,
			)
		}

		if cfg.Search.ReindexInterval > 0 {
			searchService.Run(ctx, cfg.Search.ReindexInterval)
		}
	}()

	return &SearchIndexerHandle{cancel: cancel}, nil
}
