// Package api provides the HTTP API server and handlers for offRoute Chronicles.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/offroutechronicles/offroute-server/internal/config"
)

// Version is reported in the OpenAPI document.
const Version = "1.0.0"

// Server holds dependencies for HTTP handlers.
type Server struct {
	services     *Services
	infra        *Infrastructure
	router       *chi.Mux
	api          huma.API
	writeLimiter *RateLimiter
	origins      []string
	logger       *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, infra *Infrastructure, cfg *config.Config, logger *slog.Logger) *Server {
	if infra == nil {
		infra = &Infrastructure{}
	}

	s := &Server{
		services: services,
		infra:    infra,
		router:   chi.NewRouter(),
		origins:  cfg.Server.AllowedOrigins,
		logger:   logger,
	}
	if cfg.RateLimit.WritesPerMinute > 0 {
		s.writeLimiter = NewRateLimiter(cfg.RateLimit.WritesPerMinute, cfg.RateLimit.Burst)
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("offRoute Chronicles API", Version)
	humaConfig.Info.Description = "Travel stories, destinations, comments and reactions."
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"guest": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases the write limiter's cleanup goroutine.
func (s *Server) Close() {
	if s.writeLimiter != nil {
		s.writeLimiter.Stop()
	}
}

// setupMiddleware configures the middleware stack. It must run before any
// route is registered on the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)

	origins := s.origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{HeaderDataSource, "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes registers every operation.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerPostRoutes()
	s.registerDestinationRoutes()
	s.registerCommentRoutes()
	s.registerReactionRoutes()
	s.registerSubscriberRoutes()
	s.registerSearchRoutes()
	s.registerIdentityRoutes()

	// The event stream is plain chi; huma does not model SSE bodies.
	if s.infra.SSEHandler != nil {
		s.router.Get("/api/v1/events", s.infra.SSEHandler.ServeHTTP)
	}
}
