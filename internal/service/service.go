// Package service holds the presentation rules the site applies on top
// of the entity facade: filtering, threading, reaction toggles, and the
// query cache that keeps repeated page loads off the backend.
package service

import (
	"context"

	"github.com/offroutechronicles/offroute-server/internal/facade"
	"github.com/offroutechronicles/offroute-server/internal/querycache"
	"github.com/offroutechronicles/offroute-server/internal/sse"
)

// Sourced pairs a value with the data path that produced it.
type Sourced[T any] struct {
	Value  T             `json:"value"`
	Source facade.Source `json:"source"`
}

// sourced converts a facade result.
func sourced[T any](r facade.Result[T]) Sourced[T] {
	return Sourced[T]{Value: r.Value, Source: r.Source}
}

// cached serves read through the query cache under key. Values served
// from mock data after a backend failure are returned but not stored, so
// the next request retries the backend. Neither is anything read under a
// ctx that had already ended.
func cached[T any](ctx context.Context, cache *querycache.Cache, key querycache.Key, read func(context.Context) facade.Result[T]) Sourced[T] {
	var loadCtx context.Context
	v, err := querycache.FetchWhen(ctx, cache, key,
		func(ctx context.Context) (Sourced[T], error) {
			loadCtx = ctx
			return sourced(read(ctx)), nil
		},
		func(v Sourced[T]) bool {
			return v.Source != facade.SourceFallback && loadCtx.Err() == nil
		},
	)
	if err != nil {
		// The caller's ctx ended before the shared load finished.
		return sourced(read(ctx))
	}
	return v
}

// mapSourced transforms a sourced value and keeps its source.
func mapSourced[T, U any](s Sourced[T], fn func(T) U) Sourced[U] {
	return Sourced[U]{Value: fn(s.Value), Source: s.Source}
}

// nopEmitter discards events.
type nopEmitter struct{}

func (nopEmitter) Emit(sse.Event) {}

func emitterOrNop(e sse.Emitter) sse.Emitter {
	if e == nil {
		return nopEmitter{}
	}
	return e
}
