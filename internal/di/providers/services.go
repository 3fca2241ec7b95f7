package providers

import (
	"github.com/samber/do/v2"

	"github.com/offroutechronicles/offroute-server/internal/config"
	"github.com/offroutechronicles/offroute-server/internal/facade"
	"github.com/offroutechronicles/offroute-server/internal/logger"
	"github.com/offroutechronicles/offroute-server/internal/service"
)

// ProvideStoryService provides the blog post service.
func ProvideStoryService(i do.Injector) (*service.StoryService, error) {
	data := do.MustInvoke[*facade.Client](i)
	cache := do.MustInvoke[*CacheHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStoryService(data, cache.Cache, log.Logger), nil
}

// ProvideDestinationService provides the destination service.
func ProvideDestinationService(i do.Injector) (*service.DestinationService, error) {
	data := do.MustInvoke[*facade.Client](i)
	cache := do.MustInvoke[*CacheHandle](i)
	stories := do.MustInvoke[*service.StoryService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewDestinationService(data, cache.Cache, stories, log.Logger), nil
}

// ProvideCommentService provides the comment service.
func ProvideCommentService(i do.Injector) (*service.CommentService, error) {
	data := do.MustInvoke[*facade.Client](i)
	cache := do.MustInvoke[*CacheHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCommentService(data, cache.Cache, sseHandle.Manager, log.Logger), nil
}

// ProvideReactionService provides the reaction service.
func ProvideReactionService(i do.Injector) (*service.ReactionService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	data := do.MustInvoke[*facade.Client](i)
	cache := do.MustInvoke[*CacheHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReactionService(data, cache.Cache, sseHandle.Manager, cfg.Reactions, log.Logger), nil
}

// ProvideSubscriberService provides the newsletter signup service.
func ProvideSubscriberService(i do.Injector) (*service.SubscriberService, error) {
	data := do.MustInvoke[*facade.Client](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSubscriberService(data, sseHandle.Manager, log.Logger), nil
}
