package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/offroutechronicles/offroute-server/internal/api"
	"github.com/offroutechronicles/offroute-server/internal/auth"
	"github.com/offroutechronicles/offroute-server/internal/config"
	"github.com/offroutechronicles/offroute-server/internal/logger"
	"github.com/offroutechronicles/offroute-server/internal/service"
	"github.com/offroutechronicles/offroute-server/internal/sse"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	api *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.api.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	conn := do.MustInvoke[*ConnectorHandle](i)
	cache := do.MustInvoke[*CacheHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)

	services := &api.Services{
		Stories:      do.MustInvoke[*service.StoryService](i),
		Destinations: do.MustInvoke[*service.DestinationService](i),
		Comments:     do.MustInvoke[*service.CommentService](i),
		Reactions:    do.MustInvoke[*service.ReactionService](i),
		Subscribers:  do.MustInvoke[*service.SubscriberService](i),
		Search:       do.MustInvoke[*service.SearchService](i),
		Tokens:       do.MustInvoke[*auth.TokenService](i),
	}

	infra := &api.Infrastructure{
		Connector:  conn.Connector,
		Cache:      cache.Cache,
		SSEManager: sseHandle.Manager,
		SSEHandler: sse.NewHandler(sseHandle.Manager, log.Logger),
	}

	handler := api.NewServer(services, infra, cfg, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv, api: handler}, nil
}
