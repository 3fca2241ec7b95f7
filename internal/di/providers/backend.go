package providers

import (
	"github.com/samber/do/v2"

	"github.com/offroutechronicles/offroute-server/internal/backend"
	// Registers every driver scheme with backend.Open.
	_ "github.com/offroutechronicles/offroute-server/internal/backend/drivers"
	"github.com/offroutechronicles/offroute-server/internal/config"
	"github.com/offroutechronicles/offroute-server/internal/facade"
	"github.com/offroutechronicles/offroute-server/internal/logger"
	"github.com/offroutechronicles/offroute-server/internal/mock"
	"github.com/offroutechronicles/offroute-server/internal/validation"
)

// ConnectorHandle wraps the backend connector with shutdown capability.
type ConnectorHandle struct {
	*backend.Connector
}

// Shutdown implements do.Shutdownable.
func (h *ConnectorHandle) Shutdown() error {
	return h.Close()
}

// ProvideConnector provides the shared backend connector. The connection
// attempt starts in the background so the first request does not pay for
// it.
func ProvideConnector(i do.Injector) (*ConnectorHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	conn := backend.NewConnector(backend.Config{
		URL:            cfg.Backend.URL,
		Key:            cfg.Backend.Key,
		ConnectTimeout: cfg.Backend.ConnectTimeout,
		RequestRate:    cfg.Backend.RequestRate,
	}, log.Logger)

	if conn.Enabled() {
		conn.Start()
		log.Info("Backend connection started")
	} else {
		log.Info("No backend configured, serving mock data")
	}

	return &ConnectorHandle{Connector: conn}, nil
}

// ProvideFacade provides the entity data facade.
func ProvideFacade(i do.Injector) (*facade.Client, error) {
	conn := do.MustInvoke[*ConnectorHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return facade.New(conn.Connector, mock.Default(),
		facade.WithLogger(log.Logger),
		facade.WithValidator(validation.New()),
	), nil
}
