// Package postgres implements a backend driver that talks to Postgres
// directly through gorm, for deployments that skip the REST gateway.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/offroutechronicles/offroute-server/internal/backend"
	"github.com/offroutechronicles/offroute-server/internal/domain"
)

const driverName = "postgres"

//go:embed schema.sql
var schemaSQL string

func init() {
	backend.Register(open, "postgres", "postgresql")
}

func open(ctx context.Context, cfg backend.Config, logger *slog.Logger) (backend.Driver, error) {
	return Open(ctx, cfg.URL, logger)
}

// Driver runs every table operation through one gorm handle.
type Driver struct {
	db     *gorm.DB
	logger *slog.Logger
	tables map[string]bool
}

// Open connects to dsn and creates any missing tables.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Driver, error) {
	db, err := gorm.Open(pgdriver.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	for _, stmt := range strings.Split(schemaSQL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("exec schema: %w", err)
		}
	}

	d := &Driver{db: db, logger: logger, tables: make(map[string]bool)}
	for _, t := range domain.Tables() {
		d.tables[t] = true
	}

	logger.Debug("postgres backend opened", "tables", len(d.tables))
	return d, nil
}

// Name implements backend.Driver.
func (d *Driver) Name() string { return driverName }

// Ping implements backend.Driver.
func (d *Driver) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return backend.WrapError(driverName, "ping", "", err)
	}
	return backend.WrapError(driverName, "ping", "", sqlDB.PingContext(ctx))
}

// Close implements backend.Driver.
func (d *Driver) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Select implements backend.Driver.
func (d *Driver) Select(ctx context.Context, q backend.Query) ([]backend.Record, error) {
	if !d.tables[q.Table] {
		return nil, backend.WrapError(driverName, "select", q.Table, backend.ErrUnknownTable)
	}

	tx := d.db.WithContext(ctx).Table(q.Table)
	// clause.Eq renders a nil value as IS NULL.
	for _, f := range q.Filters {
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: f.Column}, Value: f.Value})
	}
	if q.Order != nil {
		tx = tx.Order(clause.OrderByColumn{
			Column: clause.Column{Name: q.Order.Column},
			Desc:   q.Order.Descending,
		})
	}
	if q.Single {
		tx = tx.Limit(1)
	}

	var rows []map[string]any
	if err := tx.Find(&rows).Error; err != nil {
		return nil, backend.WrapError(driverName, "select", q.Table, err)
	}
	return decodeRows(q.Table, "select", rows)
}

// Insert implements backend.Driver.
func (d *Driver) Insert(ctx context.Context, table string, rec backend.Record) (backend.Record, error) {
	return d.write(ctx, "insert", table, backend.WithID(rec), nil)
}

// Upsert implements backend.Driver. The existing row keeps its id.
func (d *Driver) Upsert(ctx context.Context, table string, rec backend.Record, conflict []string) (backend.Record, error) {
	if len(conflict) == 0 {
		conflict = []string{"id"}
	}
	return d.write(ctx, "upsert", table, backend.WithID(rec), conflict)
}

func (d *Driver) write(ctx context.Context, op, table string, rec backend.Record, conflict []string) (backend.Record, error) {
	if !d.tables[table] {
		return nil, backend.WrapError(driverName, op, table, backend.ErrUnknownTable)
	}
	enc, err := backend.EncodeRecord(rec)
	if err != nil {
		return nil, backend.WrapError(driverName, op, table, err)
	}
	st, err := backend.InsertStatement(table, enc, conflict)
	if err != nil {
		return nil, backend.WrapError(driverName, op, table, err)
	}

	var rows []map[string]any
	if err := d.db.WithContext(ctx).Raw(st.SQL, st.Args...).Scan(&rows).Error; err != nil {
		return nil, backend.WrapError(driverName, op, table, err)
	}
	out, err := decodeRows(table, op, rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, backend.WrapError(driverName, op, table, errors.New("no row returned"))
	}
	return out[0], nil
}

// Delete implements backend.Driver.
func (d *Driver) Delete(ctx context.Context, table string, filters []backend.Filter) (int64, error) {
	if !d.tables[table] {
		return 0, backend.WrapError(driverName, "delete", table, backend.ErrUnknownTable)
	}
	st, err := backend.DeleteStatement(table, filters)
	if err != nil {
		return 0, backend.WrapError(driverName, "delete", table, err)
	}

	res := d.db.WithContext(ctx).Exec(st.SQL, st.Args...)
	if res.Error != nil {
		return 0, backend.WrapError(driverName, "delete", table, res.Error)
	}
	return res.RowsAffected, nil
}

func decodeRows(table, op string, rows []map[string]any) ([]backend.Record, error) {
	out := make([]backend.Record, 0, len(rows))
	for _, m := range rows {
		rec, err := backend.DecodeRecord(m)
		if err != nil {
			return nil, backend.WrapError(driverName, op, table, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
