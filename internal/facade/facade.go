// Package facade is the single point of data access for every entity kind.
//
// Each read first tries the remote backend through the shared connection.
// When the backend is disabled or unavailable, or the call fails, the same
// query is evaluated against the mock dataset. Reads never return an
// error to the caller; writes report failure as nil or false.
//
// Every operation also has a Result form that reports which path produced
// the value:
//
//	res := client.BlogPosts.ListResult(ctx, "-created_date")
//	if res.Source == facade.SourceFallback {
//	    log.Warn("serving mock posts", "error", res.Err)
//	}
package facade

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/offroutechronicles/offroute-server/internal/backend"
	domainerrors "github.com/offroutechronicles/offroute-server/internal/errors"
	"github.com/offroutechronicles/offroute-server/internal/mock"
	"github.com/offroutechronicles/offroute-server/internal/validation"
)

// Source identifies the path that produced a result.
type Source string

// Result sources.
const (
	SourceRemote   Source = "remote-ok"
	SourceFallback Source = "remote-error-fell-back"
	SourceMock     Source = "mock-only"
)

// Result carries an operation's value with the path that produced it.
// Err holds the swallowed remote error, or a validation error for writes
// whose input was rejected. Source is empty when input was rejected
// before either path ran.
type Result[T any] struct {
	Value  T
	Source Source
	Err    error
}

// Connection hands out the shared backend driver, or nil when the backend
// is disabled or unavailable. *backend.Connector implements it.
type Connection interface {
	Connect(ctx context.Context) backend.Driver
}

// Client groups the per-entity accessors.
type Client struct {
	conn      Connection
	data      *mock.Dataset
	logger    *slog.Logger
	validator *validation.Validator
	now       func() time.Time

	BlogPosts     *BlogPosts
	Destinations  *Destinations
	GalleryImages *GalleryImages
	Comments      *Comments
	Reactions     *Reactions
	Subscribers   *Subscribers
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for fallback warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithClock replaces time.Now for created_date and placeholders.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithValidator sets the validator for write inputs.
func WithValidator(v *validation.Validator) Option {
	return func(c *Client) { c.validator = v }
}

// New creates a facade over conn with data as the fallback dataset.
// A nil data uses mock.Default().
func New(conn Connection, data *mock.Dataset, opts ...Option) *Client {
	if data == nil {
		data = mock.Default()
	}
	c := &Client{
		conn:   conn,
		data:   data,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.validator == nil {
		c.validator = validation.New()
	}

	c.BlogPosts = &BlogPosts{c: c}
	c.Destinations = &Destinations{c: c}
	c.GalleryImages = &GalleryImages{c: c}
	c.Comments = &Comments{c: c}
	c.Reactions = &Reactions{c: c}
	c.Subscribers = &Subscribers{c: c}
	return c
}

// driver returns the connected driver, or nil when there is none. A ctx
// that ends while the connection attempt is still pending is an error,
// not a missing backend.
func (c *Client) driver(ctx context.Context) (backend.Driver, error) {
	if c.conn == nil {
		return nil, nil
	}
	drv := c.conn.Connect(ctx)
	if drv == nil && ctx.Err() != nil {
		return nil, fmt.Errorf("waiting for backend: %w", ctx.Err())
	}
	return drv, nil
}

// fetch runs q on the backend. attempted is false when no driver is
// available. Remote rows are decoded into T with HTML content converted.
func fetch[T any](ctx context.Context, c *Client, entity, op string, q backend.Query) (vals []T, attempted bool, err error) {
	drv, err := c.driver(ctx)
	if err != nil {
		c.warn(entity, op, err)
		return nil, true, err
	}
	if drv == nil {
		return nil, false, nil
	}

	rows, err := drv.Select(ctx, q)
	if err == nil {
		for _, r := range rows {
			normalizeContent(r)
		}
		vals, err = decode[T](rows)
	}
	if err != nil {
		c.warn(entity, op, err)
		return nil, true, err
	}
	return vals, true, nil
}

// local evaluates q against the mock dataset.
func local[T any](c *Client, q backend.Query) []T {
	vals, err := decode[T](backend.Evaluate(c.data.Records(q.Table), q))
	if err != nil {
		// Mock rows come from the same structs; decoding cannot fail.
		panic(fmt.Sprintf("facade: decode mock %s: %v", q.Table, err))
	}
	return vals
}

// list is the read path shared by list-style operations. With
// fallbackOnEmpty, an empty remote result is also served from mock data.
func list[T any](ctx context.Context, c *Client, entity, op string, q backend.Query, fallbackOnEmpty bool) Result[[]T] {
	vals, attempted, err := fetch[T](ctx, c, entity, op, q)
	switch {
	case !attempted:
		return Result[[]T]{Value: local[T](c, q), Source: SourceMock}
	case err != nil:
		return Result[[]T]{Value: local[T](c, q), Source: SourceFallback, Err: err}
	case len(vals) == 0 && fallbackOnEmpty:
		return Result[[]T]{Value: local[T](c, q), Source: SourceMock}
	}
	return Result[[]T]{Value: vals, Source: SourceRemote}
}

// decode converts rows into T through their JSON form. The result is
// never nil.
func decode[T any](rows []backend.Record) ([]T, error) {
	out := make([]T, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encode rows: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return out, nil
}

// write runs fn against the backend and decodes its row. A nil value means
// the write did not happen.
func write[T any](ctx context.Context, c *Client, entity, op string, fn func(backend.Driver) (backend.Record, error)) Result[*T] {
	drv, err := c.driver(ctx)
	if err != nil {
		c.warn(entity, op, err)
		return Result[*T]{Source: SourceFallback, Err: err}
	}
	if drv == nil {
		c.logger.Debug("write skipped, no backend", "entity", entity, "op", op)
		return Result[*T]{Source: SourceMock}
	}

	row, err := fn(drv)
	if err == nil {
		var vals []T
		vals, err = decode[T]([]backend.Record{row})
		if err == nil {
			return Result[*T]{Value: &vals[0], Source: SourceRemote}
		}
	}
	if domainerrors.Is(err, domainerrors.ErrValidation) {
		return Result[*T]{Err: err}
	}
	c.warn(entity, op, err)
	return Result[*T]{Source: SourceFallback, Err: err}
}

func (c *Client) warn(entity, op string, err error) {
	c.logger.Warn("backend call failed, using fallback",
		"entity", entity,
		"op", op,
		"error", err,
	)
}

// timestampLayout keeps a fixed-width fraction so stored timestamps sort
// the same as text and as time.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func (c *Client) timestamp() string {
	return c.now().UTC().Format(timestampLayout)
}
