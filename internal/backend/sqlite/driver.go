// Package sqlite implements a backend driver on an embedded SQLite file,
// for running the server with real persistence and no hosted project.
package sqlite

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/offroutechronicles/offroute-server/internal/backend"
	"github.com/offroutechronicles/offroute-server/internal/domain"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

//go:embed schema.sql
var schemaSQL string

func init() {
	backend.Register(open, "sqlite", "file")
}

func open(ctx context.Context, cfg backend.Config, logger *slog.Logger) (backend.Driver, error) {
	path, err := dsn(cfg.URL)
	if err != nil {
		return nil, err
	}
	return Open(ctx, path, logger)
}

// dsn maps a backend URL to a sqlite data source name.
// "sqlite:///var/lib/offroute.db" and "file:offroute.db" are both accepted.
func dsn(raw string) (string, error) {
	switch {
	case strings.HasPrefix(raw, "sqlite://"):
		path := strings.TrimPrefix(raw, "sqlite://")
		if path == "" {
			return "", errors.New("sqlite url has no path")
		}
		return path, nil
	case strings.HasPrefix(raw, "file:"):
		return raw, nil
	default:
		return "", fmt.Errorf("%w: %q", backend.ErrUnsupportedScheme, raw)
	}
}

// Driver stores every table in one SQLite database.
type Driver struct {
	db     *sqlx.DB
	logger *slog.Logger
	tables map[string]bool
}

// Open opens (or creates) the database at path and applies the schema.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Driver, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	if strings.Contains(path, ":memory:") {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(2)
	}
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	d := &Driver{db: db, logger: logger, tables: make(map[string]bool)}
	for _, t := range domain.Tables() {
		d.tables[t] = true
	}

	logger.Debug("sqlite backend opened", "path", path)
	return d, nil
}

// Name implements backend.Driver.
func (d *Driver) Name() string { return driverName }

// Ping implements backend.Driver.
func (d *Driver) Ping(ctx context.Context) error {
	return backend.WrapError(driverName, "ping", "", d.db.PingContext(ctx))
}

// Close implements backend.Driver.
func (d *Driver) Close() error {
	return d.db.Close()
}

// Select implements backend.Driver.
func (d *Driver) Select(ctx context.Context, q backend.Query) ([]backend.Record, error) {
	if err := d.checkTable(q.Table); err != nil {
		return nil, backend.WrapError(driverName, "select", q.Table, err)
	}
	st, err := backend.SelectStatement(q)
	if err != nil {
		return nil, backend.WrapError(driverName, "select", q.Table, err)
	}

	rows, err := d.db.QueryxContext(ctx, st.SQL, st.Args...)
	if err != nil {
		return nil, backend.WrapError(driverName, "select", q.Table, err)
	}
	defer rows.Close()

	var out []backend.Record
	for rows.Next() {
		m := make(map[string]any)
		if err := rows.MapScan(m); err != nil {
			return nil, backend.WrapError(driverName, "select", q.Table, fmt.Errorf("scan: %w", err))
		}
		rec, err := backend.DecodeRecord(m)
		if err != nil {
			return nil, backend.WrapError(driverName, "select", q.Table, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, backend.WrapError(driverName, "select", q.Table, err)
	}
	return out, nil
}

// Insert implements backend.Driver. A missing id is generated.
func (d *Driver) Insert(ctx context.Context, table string, rec backend.Record) (backend.Record, error) {
	row, err := d.write(ctx, table, backend.WithID(rec), nil)
	return row, backend.WrapError(driverName, "insert", table, err)
}

// Upsert implements backend.Driver. On a conflict the existing row keeps
// its id and takes every other column from rec.
func (d *Driver) Upsert(ctx context.Context, table string, rec backend.Record, conflict []string) (backend.Record, error) {
	if len(conflict) == 0 {
		conflict = []string{"id"}
	}
	row, err := d.write(ctx, table, backend.WithID(rec), conflict)
	return row, backend.WrapError(driverName, "upsert", table, err)
}

func (d *Driver) write(ctx context.Context, table string, rec backend.Record, conflict []string) (backend.Record, error) {
	if err := d.checkTable(table); err != nil {
		return nil, err
	}
	enc, err := backend.EncodeRecord(rec)
	if err != nil {
		return nil, err
	}
	st, err := backend.InsertStatement(table, enc, conflict)
	if err != nil {
		return nil, err
	}

	m := make(map[string]any)
	if err := d.db.QueryRowxContext(ctx, st.SQL, st.Args...).MapScan(m); err != nil {
		return nil, err
	}
	return backend.DecodeRecord(m)
}

// Delete implements backend.Driver.
func (d *Driver) Delete(ctx context.Context, table string, filters []backend.Filter) (int64, error) {
	if err := d.checkTable(table); err != nil {
		return 0, backend.WrapError(driverName, "delete", table, err)
	}
	st, err := backend.DeleteStatement(table, filters)
	if err != nil {
		return 0, backend.WrapError(driverName, "delete", table, err)
	}

	res, err := d.db.ExecContext(ctx, st.SQL, st.Args...)
	if err != nil {
		return 0, backend.WrapError(driverName, "delete", table, err)
	}
	n, err := res.RowsAffected()
	return n, backend.WrapError(driverName, "delete", table, err)
}

func (d *Driver) checkTable(table string) error {
	if !d.tables[table] {
		return backend.ErrUnknownTable
	}
	return nil
}
