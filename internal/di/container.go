// Package di provides dependency injection configuration for the offRoute server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/offroutechronicles/offroute-server/internal/auth"
	"github.com/offroutechronicles/offroute-server/internal/config"
	"github.com/offroutechronicles/offroute-server/internal/di/providers"
	"github.com/offroutechronicles/offroute-server/internal/facade"
	"github.com/offroutechronicles/offroute-server/internal/logger"
	"github.com/offroutechronicles/offroute-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideSSEManager)

	// Data layer
	do.Provide(injector, providers.ProvideConnector)
	do.Provide(injector, providers.ProvideFacade)
	do.Provide(injector, providers.ProvideQueryCache)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)
	do.Provide(injector, providers.ProvideSearchIndexer)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideStoryService)
	do.Provide(injector, providers.ProvideDestinationService)
	do.Provide(injector, providers.ProvideCommentService)
	do.Provide(injector, providers.ProvideReactionService)
	do.Provide(injector, providers.ProvideSubscriberService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the HTTP server.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*providers.ConnectorHandle](injector)
	_ = do.MustInvoke[*facade.Client](injector)
	_ = do.MustInvoke[*providers.CacheHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.StoryService](injector)
	_ = do.MustInvoke[*service.DestinationService](injector)
	_ = do.MustInvoke[*service.CommentService](injector)
	_ = do.MustInvoke[*service.ReactionService](injector)
	_ = do.MustInvoke[*service.SubscriberService](injector)

	// Workers
	_ = do.MustInvoke[*providers.SearchIndexerHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
