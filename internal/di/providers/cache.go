package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/offroutechronicles/offroute-server/internal/config"
	"github.com/offroutechronicles/offroute-server/internal/logger"
	"github.com/offroutechronicles/offroute-server/internal/querycache"
	"github.com/offroutechronicles/offroute-server/internal/sse"
)

// SSEManagerHandle wraps the SSE manager with its context for lifecycle management.
type SSEManagerHandle struct {
	*sse.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *SSEManagerHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

// ProvideSSEManager provides the server-sent events manager.
func ProvideSSEManager(i do.Injector) (*SSEManagerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	manager := sse.NewManager(log.Logger)

	// Start in background
	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)

	log.Info("SSE manager started")

	return &SSEManagerHandle{
		Manager: manager,
		cancel:  cancel,
	}, nil
}

// CacheHandle wraps the query cache with shutdown capability.
type CacheHandle struct {
	*querycache.Cache
}

// Shutdown implements do.Shutdownable.
func (h *CacheHandle) Shutdown() error {
	return h.Close()
}

// ProvideQueryCache provides the query cache. Every invalidation is
// broadcast so connected clients can refetch.
func ProvideQueryCache(i do.Injector) (*CacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)

	cache, err := querycache.Open(cfg.Cache, log.Logger,
		querycache.OnInvalidate(func(key querycache.Key) {
			sseHandle.Emit(sse.NewCacheInvalidatedEvent(key))
		}),
	)
	if err != nil {
		return nil, err
	}

	return &CacheHandle{Cache: cache}, nil
}
