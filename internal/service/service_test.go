package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/offroutechronicles/offroute-server/internal/backend"
	"github.com/offroutechronicles/offroute-server/internal/backend/memory"
	"github.com/offroutechronicles/offroute-server/internal/config"
	"github.com/offroutechronicles/offroute-server/internal/facade"
	"github.com/offroutechronicles/offroute-server/internal/mock"
	"github.com/offroutechronicles/offroute-server/internal/querycache"
	"github.com/offroutechronicles/offroute-server/internal/sse"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// staticConn hands out a fixed driver; nil means no backend.
type staticConn struct {
	drv backend.Driver
}

func (s staticConn) Connect(context.Context) backend.Driver { return s.drv }

// recordingDriver logs the write operations that reach the backend.
type recordingDriver struct {
	*memory.Driver
	mu  sync.Mutex
	ops []string
}

func (r *recordingDriver) record(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op)
}

func (r *recordingDriver) Ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ops...)
}

func (r *recordingDriver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = nil
}

func (r *recordingDriver) Insert(ctx context.Context, table string, rec backend.Record) (backend.Record, error) {
	r.record("insert " + table)
	return r.Driver.Insert(ctx, table, rec)
}

func (r *recordingDriver) Upsert(ctx context.Context, table string, rec backend.Record, conflict []string) (backend.Record, error) {
	r.record("upsert " + table)
	return r.Driver.Upsert(ctx, table, rec, conflict)
}

func (r *recordingDriver) Delete(ctx context.Context, table string, filters []backend.Filter) (int64, error) {
	r.record("delete " + table)
	return r.Driver.Delete(ctx, table, filters)
}

// recordingEmitter collects emitted events.
type recordingEmitter struct {
	mu     sync.Mutex
	events []sse.Event
}

func (e *recordingEmitter) Emit(event sse.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

func (e *recordingEmitter) Types() []sse.EventType {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]sse.EventType, len(e.events))
	for i, ev := range e.events {
		out[i] = ev.Type
	}
	return out
}

// fixture wires every service over one facade and cache.
type fixture struct {
	drv      *recordingDriver
	emitter  *recordingEmitter
	cache    *querycache.Cache
	data     *facade.Client
	stories  *StoryService
	dests    *DestinationService
	comments *CommentService
	reaction *ReactionService
	subs     *SubscriberService
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	remote   bool
	dataset  *mock.Dataset
	reaction config.ReactionConfig
}

func withRemote() fixtureOption {
	return func(c *fixtureConfig) { c.remote = true }
}

func withDataset(d *mock.Dataset) fixtureOption {
	return func(c *fixtureConfig) { c.dataset = d }
}

func withReactionMode(mode string, delay time.Duration) fixtureOption {
	return func(c *fixtureConfig) { c.reaction = config.ReactionConfig{Mode: mode, SwitchDelay: delay} }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	cfg := fixtureConfig{dataset: mock.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	store, err := querycache.OpenBadger("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	cache := querycache.New(store, time.Minute, querycache.WithLogger(testLogger))

	f := &fixture{emitter: &recordingEmitter{}, cache: cache}

	var conn staticConn
	if cfg.remote {
		f.drv = &recordingDriver{Driver: memory.New()}
		f.drv.Seed(cfg.dataset)
		conn.drv = f.drv
	}
	f.data = facade.New(conn, cfg.dataset, facade.WithLogger(testLogger))

	f.stories = NewStoryService(f.data, cache, testLogger)
	f.dests = NewDestinationService(f.data, cache, f.stories, testLogger)
	f.comments = NewCommentService(f.data, cache, f.emitter, testLogger)
	f.reaction = NewReactionService(f.data, cache, f.emitter, cfg.reaction, testLogger)
	f.subs = NewSubscriberService(f.data, f.emitter, testLogger)
	return f
}
