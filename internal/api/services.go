package api

import (
	"github.com/offroutechronicles/offroute-server/internal/auth"
	"github.com/offroutechronicles/offroute-server/internal/backend"
	"github.com/offroutechronicles/offroute-server/internal/querycache"
	"github.com/offroutechronicles/offroute-server/internal/service"
	"github.com/offroutechronicles/offroute-server/internal/sse"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Stories      *service.StoryService
	Destinations *service.DestinationService
	Comments     *service.CommentService
	Reactions    *service.ReactionService
	Subscribers  *service.SubscriberService
	Search       *service.SearchService
	Tokens       *auth.TokenService // guest identity tokens
}

// Infrastructure groups the shared components the health check reports on.
// Any field may be nil.
type Infrastructure struct {
	Connector  *backend.Connector
	Cache      *querycache.Cache
	SSEManager *sse.Manager
	SSEHandler *sse.Handler
}
