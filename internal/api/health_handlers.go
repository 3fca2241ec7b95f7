package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/offroutechronicles/offroute-server/internal/backend"
)

// Component statuses.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// pingTimeout bounds the backend ping done by the health check.
const pingTimeout = 2 * time.Second

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"backend": s.checkBackend(ctx),
		"cache":   s.checkCache(),
		"search":  s.checkSearchIndex(),
		"sse":     s.checkSSEManager(),
	}

	// The facade serves mock data whenever the backend is away, so no
	// single component makes the server unhealthy on its own.
	overall := StatusHealthy
	for _, c := range components {
		if c.Status != StatusHealthy {
			overall = StatusDegraded
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkBackend reports the connector mode and, when connected, pings the
// driver. It never starts a connection attempt.
func (s *Server) checkBackend(ctx context.Context) ComponentHealth {
	conn := s.infra.Connector
	if conn == nil {
		return ComponentHealth{Status: StatusHealthy, Message: "no backend configured, serving mock data"}
	}

	switch conn.Mode() {
	case backend.ModeDisabled:
		return ComponentHealth{Status: StatusHealthy, Message: "no backend configured, serving mock data"}
	case backend.ModePending:
		return ComponentHealth{Status: StatusDegraded, Message: "connecting, serving mock data"}
	case backend.ModeUnavailable:
		msg := "backend unavailable, serving mock data"
		if err := conn.Err(); err != nil {
			msg += ": " + err.Error()
		}
		return ComponentHealth{Status: StatusDegraded, Message: msg}
	}

	drv := conn.Connect(ctx)
	if drv == nil {
		return ComponentHealth{Status: StatusDegraded, Message: "backend unavailable, serving mock data"}
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	err := drv.Ping(pingCtx)
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  StatusDegraded,
			Latency: latency.String(),
			Message: drv.Name() + " ping failed",
		}
	}
	return ComponentHealth{
		Status:  StatusHealthy,
		Latency: latency.String(),
		Message: drv.Name(),
	}
}

// checkCache reports the query cache store and its hit counters.
func (s *Server) checkCache() ComponentHealth {
	if s.infra.Cache == nil {
		return ComponentHealth{Status: StatusDegraded, Message: "query cache not configured"}
	}

	stats := s.infra.Cache.Stats()
	status := StatusHealthy
	if stats.Errors > 0 && stats.Hits+stats.Misses > 0 && stats.Errors*2 > stats.Hits+stats.Misses {
		status = StatusDegraded
	}
	return ComponentHealth{
		Status:  status,
		Message: fmt.Sprintf("%s: %d hits, %d misses, %d errors", stats.Store, stats.Hits, stats.Misses, stats.Errors),
	}
}

// checkSearchIndex verifies the Bleve index is accessible.
func (s *Server) checkSearchIndex() ComponentHealth {
	if s.services == nil || s.services.Search == nil {
		return ComponentHealth{
			Status:  StatusDegraded,
			Message: "search service not configured",
		}
	}

	start := time.Now()

	docCount, err := s.services.Search.DocumentCount()
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  StatusUnhealthy,
			Latency: latency.String(),
			Message: "search index unreachable",
		}
	}

	// Index is accessible but empty until the first reindex finishes.
	if docCount == 0 {
		return ComponentHealth{
			Status:  StatusDegraded,
			Latency: latency.String(),
			Message: "search index empty",
		}
	}

	return ComponentHealth{
		Status:  StatusHealthy,
		Latency: latency.String(),
		Message: fmt.Sprintf("%d documents", docCount),
	}
}

// checkSSEManager verifies the SSE event system is running.
func (s *Server) checkSSEManager() ComponentHealth {
	if s.infra.SSEManager == nil {
		return ComponentHealth{
			Status:  StatusDegraded,
			Message: "SSE manager not configured",
		}
	}

	return ComponentHealth{
		Status:  StatusHealthy,
		Message: formatSSEStatus(s.infra.SSEManager.ClientCount()),
	}
}

func formatSSEStatus(count int) string {
	switch count {
	case 0:
		return "no connected clients"
	case 1:
		return "1 connected client"
	default:
		return fmt.Sprintf("%d connected clients", count)
	}
}
