// Package backend defines the table-agnostic driver contract used to reach
// the remote data store, plus the Connector that lazily opens one shared
// driver per process.
package backend

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"
)

// Record is one row as a column → value map.
type Record map[string]any

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Filter is an equality predicate on one column.
type Filter struct {
	Column string
	Value  any
}

// Eq builds an equality filter.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

// Order sorts results by one column.
type Order struct {
	Column     string
	Descending bool
}

// Query selects rows from one table. Filters are combined with AND.
// Single limits the result to at most one row.
type Query struct {
	Table   string
	Filters []Filter
	Order   *Order
	Single  bool
}

// From starts a query on table.
func From(table string) Query {
	return Query{Table: table}
}

// Where returns a copy of q with an extra equality filter.
func (q Query) Where(column string, value any) Query {
	q.Filters = append(slices.Clone(q.Filters), Eq(column, value))
	return q
}

// OrderBy returns a copy of q ordered by column.
func (q Query) OrderBy(column string, descending bool) Query {
	q.Order = &Order{Column: column, Descending: descending}
	return q
}

// One returns a copy of q limited to a single row.
func (q Query) One() Query {
	q.Single = true
	return q
}

// Driver is the minimal tabular client every backend implements.
// Implementations must be safe for concurrent use.
type Driver interface {
	Select(ctx context.Context, q Query) ([]Record, error)
	Insert(ctx context.Context, table string, rec Record) (Record, error)
	Upsert(ctx context.Context, table string, rec Record, conflict []string) (Record, error)
	Delete(ctx context.Context, table string, filters []Filter) (int64, error)
	Ping(ctx context.Context) error
	Close() error
	Name() string
}

// Config configures how a driver is opened.
type Config struct {
	URL            string
	Key            string
	ConnectTimeout time.Duration
	RequestRate    float64
}

// OpenFunc opens a driver for a URL.
type OpenFunc func(ctx context.Context, cfg Config, logger *slog.Logger) (Driver, error)

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]OpenFunc)
)

// Register makes a driver available for the given URL schemes.
// It panics if a scheme is registered twice.
func Register(open OpenFunc, schemes ...string) {
	driversMu.Lock()
	defer driversMu.Unlock()
	for _, scheme := range schemes {
		if _, dup := drivers[scheme]; dup {
			panic("backend: Register called twice for scheme " + scheme)
		}
		drivers[scheme] = open
	}
}

// Schemes returns the registered URL schemes, sorted.
func Schemes() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	out := make([]string, 0, len(drivers))
	for s := range drivers {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Open opens the driver registered for cfg.URL's scheme.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (Driver, error) {
	scheme, err := Scheme(cfg.URL)
	if err != nil {
		return nil, err
	}

	driversMu.RLock()
	open, ok := drivers[scheme]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %s)", ErrUnsupportedScheme, scheme, strings.Join(Schemes(), ", "))
	}
	return open(ctx, cfg, logger)
}

// Scheme returns the lowercased scheme of a backend URL.
func Scheme(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme == "" {
		return "", fmt.Errorf("%w: missing scheme in %q", ErrUnsupportedScheme, raw)
	}
	return strings.ToLower(u.Scheme), nil
}
