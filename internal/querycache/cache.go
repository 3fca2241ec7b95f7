// Package querycache keeps query results for a stale time and collapses
// concurrent misses on the same key into a single load.
package querycache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/offroutechronicles/offroute-server/internal/config"
)

// DefaultStaleTime is used when no stale time is configured.
const DefaultStaleTime = 5 * time.Minute

// Store holds encoded values by key.
type Store interface {
	// Get returns the value for key. ok is false on a miss or expiry.
	Get(ctx context.Context, key string) (val []byte, ok bool, err error)
	// Set stores val until ttl elapses.
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
	// Name identifies the store in logs and health output.
	Name() string
	Close() error
}

// Stats counts cache outcomes since startup.
type Stats struct {
	Store  string `json:"store"`
	Hits   int64  `json:"hits"`
	Misses int64  `json:"misses"`
	Errors int64  `json:"errors"`
}

// Cache is a keyed query cache over a Store.
type Cache struct {
	store     Store
	staleTime time.Duration
	logger    *slog.Logger
	group     singleflight.Group

	onInvalidate func(Key)

	hits   atomic.Int64
	misses atomic.Int64
	errs   atomic.Int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger for store failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// OnInvalidate registers fn to run after each invalidation.
func OnInvalidate(fn func(Key)) Option {
	return func(c *Cache) { c.onInvalidate = fn }
}

// New creates a cache over store. A non-positive staleTime uses
// DefaultStaleTime.
func New(store Store, staleTime time.Duration, opts ...Option) *Cache {
	if staleTime <= 0 {
		staleTime = DefaultStaleTime
	}
	c := &Cache{
		store:     store,
		staleTime: staleTime,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open builds the store named by cfg.Backend and wraps it in a Cache.
func Open(cfg config.CacheConfig, logger *slog.Logger, opts ...Option) (*Cache, error) {
	var (
		store Store
		err   error
	)
	switch cfg.Backend {
	case config.CacheBadger, "":
		store, err = OpenBadger(cfg.Path)
	case config.CacheRedis:
		store, err = OpenRedis(cfg.RedisURL)
	case config.CacheNone:
		store = Nop{}
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", cfg.Backend, err)
	}

	logger.Info("query cache ready", "store", store.Name(), "stale_time", cfg.StaleTime)
	return New(store, cfg.StaleTime, append([]Option{WithLogger(logger)}, opts...)...), nil
}

// Fetch returns the cached value for key, or loads it with fn. Concurrent
// misses on the same key share one call to fn. Errors from fn are not
// cached. A nil cache always calls fn.
//
// Store failures are logged and treated as misses.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(context.Context) (T, error)) (T, error) {
	return FetchWhen(ctx, c, key, fn, nil)
}

// FetchWhen is Fetch, except a loaded value is only stored when keep
// reports true for it. A nil keep stores every value.
//
// The shared load runs without the caller's cancellation, so one caller
// giving up neither fails the others nor leaves a half-finished result in
// the store. A caller whose ctx ends first gets ctx.Err().
func FetchWhen[T any](ctx context.Context, c *Cache, key Key, fn func(context.Context) (T, error), keep func(T) bool) (T, error) {
	if c == nil {
		return fn(ctx)
	}
	k := key.String()

	var zero T
	if data, ok := c.lookup(ctx, k); ok {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			c.hits.Add(1)
			return v, nil
		}
	}
	c.misses.Add(1)

	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(k, func() (any, error) {
		v, err := fn(loadCtx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %v: %w", []string(key), err)
		}
		if keep == nil || keep(v) {
			if err := c.store.Set(loadCtx, k, data, c.staleTime); err != nil {
				c.fail("set", key, err)
			}
		}
		return data, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	if res.Err != nil {
		return zero, res.Err
	}

	// Each caller decodes its own copy so shared slices are never aliased.
	var v T
	if err := json.Unmarshal(res.Val.([]byte), &v); err != nil {
		return zero, fmt.Errorf("decode %v: %w", []string(key), err)
	}
	return v, nil
}

// Set stores v under key, replacing any cached value.
func Set[T any](ctx context.Context, c *Cache, key Key, v T) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %v: %w", []string(key), err)
	}
	return c.store.Set(ctx, key.String(), data, c.staleTime)
}

// Invalidate drops every entry whose key starts with one of keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...Key) {
	if c == nil {
		return
	}
	for _, key := range keys {
		if err := c.store.DeletePrefix(ctx, key.String()); err != nil {
			c.fail("invalidate", key, err)
			continue
		}
		c.logger.Debug("query cache invalidated", "key", []string(key))
		if c.onInvalidate != nil {
			c.onInvalidate(key)
		}
	}
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Store:  c.store.Name(),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Errors: c.errs.Load(),
	}
}

// StaleTime returns how long entries stay fresh.
func (c *Cache) StaleTime() time.Duration {
	return c.staleTime
}

// Close closes the underlying store.
func (c *Cache) Close() error {
	return c.store.Close()
}

func (c *Cache) lookup(ctx context.Context, k string) ([]byte, bool) {
	data, ok, err := c.store.Get(ctx, k)
	if err != nil {
		c.errs.Add(1)
		c.logger.Warn("query cache read failed", "store", c.store.Name(), "error", err)
		return nil, false
	}
	return data, ok
}

func (c *Cache) fail(op string, key Key, err error) {
	c.errs.Add(1)
	c.logger.Warn("query cache "+op+" failed",
		"store", c.store.Name(),
		"key", []string(key),
		"error", err,
	)
}

// Nop is a Store that never holds anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (Nop) DeletePrefix(context.Context, string) error { return nil }

func (Nop) Name() string { return config.CacheNone }

func (Nop) Close() error { return nil }
