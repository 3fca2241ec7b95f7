package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/offroutechronicles/offroute-server/internal/auth"
	"github.com/offroutechronicles/offroute-server/internal/backend"
	"github.com/offroutechronicles/offroute-server/internal/backend/memory"
	"github.com/offroutechronicles/offroute-server/internal/config"
	"github.com/offroutechronicles/offroute-server/internal/facade"
	"github.com/offroutechronicles/offroute-server/internal/mock"
	"github.com/offroutechronicles/offroute-server/internal/querycache"
	"github.com/offroutechronicles/offroute-server/internal/search"
	"github.com/offroutechronicles/offroute-server/internal/service"
	"github.com/offroutechronicles/offroute-server/internal/sse"
)

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api    humatest.TestAPI
	tokens *auth.TokenService
	drv    *memory.Driver // nil in mock mode
}

type testOption func(*testConfig)

type testConfig struct {
	remote          bool
	writesPerMinute int
}

func withRemoteBackend() testOption {
	return func(c *testConfig) { c.remote = true }
}

func withWriteLimit(perMinute int) testOption {
	return func(c *testConfig) { c.writesPerMinute = perMinute }
}

// setupTestServer creates a test server with all dependencies. The
// backend is a seeded in-memory driver when withRemoteBackend is given,
// otherwise the server runs on mock data.
func setupTestServer(t *testing.T, opts ...testOption) *testServer {
	t.Helper()

	var tc testConfig
	for _, opt := range opts {
		opt(&tc)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	cfg := &config.Config{
		Server: config.ServerConfig{AllowedOrigins: []string{"*"}},
		RateLimit: config.RateLimitConfig{
			WritesPerMinute: tc.writesPerMinute,
			Burst:           tc.writesPerMinute,
		},
	}

	ts := &testServer{}

	backendCfg := backend.Config{}
	var connOpts []backend.ConnectorOption
	if tc.remote {
		ts.drv = memory.New()
		ts.drv.Seed(mock.Default())
		backendCfg.URL = "memory://test"
		connOpts = append(connOpts, backend.WithOpenFunc(func(context.Context, backend.Config, *slog.Logger) (backend.Driver, error) {
			return ts.drv, nil
		}))
	}
	connector := backend.NewConnector(backendCfg, logger, connOpts...)
	if tc.remote {
		require.NotNil(t, connector.Connect(ctx))
	}

	store, err := querycache.OpenBadger("")
	require.NoError(t, err)
	cache := querycache.New(store, time.Minute, querycache.WithLogger(logger))
	t.Cleanup(func() { _ = cache.Close() })

	index, err := search.NewSearchIndex(search.Options{Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	sseManager := sse.NewManager(logger)

	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	ts.tokens, err = auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	data := facade.New(connector, mock.Default(), facade.WithLogger(logger))
	stories := service.NewStoryService(data, cache, logger)
	services := &Services{
		Stories:      stories,
		Destinations: service.NewDestinationService(data, cache, stories, logger),
		Comments:     service.NewCommentService(data, cache, sseManager, logger),
		Reactions:    service.NewReactionService(data, cache, sseManager, config.ReactionConfig{}, logger),
		Subscribers:  service.NewSubscriberService(data, sseManager, logger),
		Search:       service.NewSearchService(data, index, logger),
		Tokens:       ts.tokens,
	}
	_, err = services.Search.Reindex(ctx)
	require.NoError(t, err)

	infra := &Infrastructure{
		Connector:  connector,
		Cache:      cache,
		SSEManager: sseManager,
		SSEHandler: sse.NewHandler(sseManager, logger),
	}

	ts.Server = NewServer(services, infra, cfg, logger)
	t.Cleanup(ts.Server.Close)
	ts.api = humatest.Wrap(t, ts.Server.API())

	return ts
}

// guestToken issues a token through the API.
func (ts *testServer) guestToken(t *testing.T) (token, user string) {
	t.Helper()
	resp := ts.api.Post("/api/v1/identity")
	require.Equal(t, 201, resp.Code, resp.Body.String())

	identity := decodeData[auth.Identity](t, resp)
	return identity.Token, identity.UserIdentifier
}

// testEnvelope covers both the success and error envelope shapes.
type testEnvelope struct {
	V       int               `json:"v"`
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

func decodeEnvelope(t *testing.T, resp *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), resp.Body.String())
	require.Equal(t, EnvelopeVersion, env.V)
	return env
}

func decodeData[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	env := decodeEnvelope(t, resp)
	require.True(t, env.Success, resp.Body.String())

	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func postIDs(posts []PostResponse) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}
