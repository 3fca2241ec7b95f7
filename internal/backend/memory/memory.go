// Package memory implements an in-process backend driver. It serves tests
// and demos; "memory://demo" starts with the built-in sample dataset.
package memory

import (
	"context"
	"log/slog"
	"net/url"
	"sync"

	"github.com/offroutechronicles/offroute-server/internal/backend"
	"github.com/offroutechronicles/offroute-server/internal/domain"
	"github.com/offroutechronicles/offroute-server/internal/mock"
)

const driverName = "memory"

func init() {
	backend.Register(open, "memory")
}

func open(_ context.Context, cfg backend.Config, logger *slog.Logger) (backend.Driver, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, err
	}
	d := New()
	if u.Host == "demo" || u.Opaque == "demo" {
		d.Seed(mock.Default())
		logger.Debug("memory backend seeded with sample dataset")
	}
	return d, nil
}

// Driver keeps every table as an ordered slice of records.
type Driver struct {
	mu     sync.RWMutex
	tables map[string][]backend.Record
	closed bool
}

// New creates an empty driver with all known tables.
func New() *Driver {
	d := &Driver{tables: make(map[string][]backend.Record)}
	for _, t := range domain.Tables() {
		d.tables[t] = nil
	}
	return d
}

// Seed replaces the tables' contents with a dataset.
func (d *Driver) Seed(data *mock.Dataset) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, t := range domain.Tables() {
		d.tables[t] = data.Records(t)
	}
}

// Name implements backend.Driver.
func (d *Driver) Name() string { return driverName }

// Ping implements backend.Driver.
func (d *Driver) Ping(context.Context) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return backend.ErrClosed
	}
	return nil
}

// Close implements backend.Driver.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Select implements backend.Driver.
func (d *Driver) Select(ctx context.Context, q backend.Query) ([]backend.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	rows, err := d.table("select", q.Table)
	if err != nil {
		return nil, err
	}
	return backend.Evaluate(rows, q), nil
}

// Insert implements backend.Driver. A missing id is generated.
func (d *Driver) Insert(ctx context.Context, table string, rec backend.Record) (backend.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	rows, err := d.table("insert", table)
	if err != nil {
		return nil, err
	}

	row := backend.WithID(rec)
	for _, existing := range rows {
		if existing["id"] == row["id"] {
			return nil, backend.WrapError(driverName, "insert", table, errDuplicateKey)
		}
	}
	d.tables[table] = append(rows, row)
	return row.Clone(), nil
}

// Upsert implements backend.Driver. The row whose conflict columns match
// rec is merged with rec; otherwise rec is appended.
func (d *Driver) Upsert(ctx context.Context, table string, rec backend.Record, conflict []string) (backend.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	rows, err := d.table("upsert", table)
	if err != nil {
		return nil, err
	}

	filters := make([]backend.Filter, 0, len(conflict))
	for _, col := range conflict {
		filters = append(filters, backend.Eq(col, rec[col]))
	}

	for i, existing := range rows {
		if len(filters) > 0 && backend.MatchRecord(existing, filters) {
			merged := existing.Clone()
			for k, v := range rec {
				if k == "id" {
					continue
				}
				merged[k] = v
			}
			rows[i] = merged
			return merged.Clone(), nil
		}
	}

	row := backend.WithID(rec)
	d.tables[table] = append(rows, row)
	return row.Clone(), nil
}

// Delete implements backend.Driver.
func (d *Driver) Delete(ctx context.Context, table string, filters []backend.Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	rows, err := d.table("delete", table)
	if err != nil {
		return 0, err
	}

	kept := rows[:0:0]
	var n int64
	for _, r := range rows {
		if backend.MatchRecord(r, filters) {
			n++
			continue
		}
		kept = append(kept, r)
	}
	d.tables[table] = kept
	return n, nil
}

func (d *Driver) table(op, name string) ([]backend.Record, error) {
	if d.closed {
		return nil, backend.WrapError(driverName, op, name, backend.ErrClosed)
	}
	rows, ok := d.tables[name]
	if !ok {
		return nil, backend.WrapError(driverName, op, name, backend.ErrUnknownTable)
	}
	return rows, nil
}
