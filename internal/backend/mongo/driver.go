// Package mongo implements a backend driver that keeps each table as a
// MongoDB collection of flat documents.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/offroutechronicles/offroute-server/internal/backend"
	"github.com/offroutechronicles/offroute-server/internal/domain"
)

const (
	driverName = "mongo"

	defaultDatabase = "offroute"

	disconnectTimeout = 10 * time.Second
)

func init() {
	backend.Register(open, "mongodb", "mongodb+srv")
}

func open(ctx context.Context, cfg backend.Config, logger *slog.Logger) (backend.Driver, error) {
	return Open(ctx, cfg.URL, logger)
}

// Driver maps tables onto collections of one database.
type Driver struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger
	tables map[string]bool
}

// Open connects to uri and ensures the unique indexes exist. The database
// name comes from the URI path, defaulting to "offroute".
func Open(ctx context.Context, uri string, logger *slog.Logger) (*Driver, error) {
	name, err := databaseName(uri)
	if err != nil {
		return nil, err
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	d := &Driver{
		client: client,
		db:     client.Database(name),
		logger: logger,
		tables: make(map[string]bool),
	}
	for _, t := range domain.Tables() {
		d.tables[t] = true
	}

	if err := d.ensureIndexes(ctx); err != nil {
		_ = d.Close()
		return nil, err
	}

	logger.Debug("mongo backend opened", "database", name)
	return d, nil
}

func databaseName(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse mongo url: %w", err)
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name, nil
	}
	return defaultDatabase, nil
}

func (d *Driver) ensureIndexes(ctx context.Context) error {
	for table := range d.tables {
		_, err := d.db.Collection(table).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("create id index on %s: %w", table, err)
		}
	}

	triple := bson.D{}
	for _, col := range domain.ReactionKey {
		triple = append(triple, bson.E{Key: col, Value: 1})
	}
	_, err := d.db.Collection(domain.TableReactions).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    triple,
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create reaction index: %w", err)
	}
	return nil
}

// Name implements backend.Driver.
func (d *Driver) Name() string { return driverName }

// Ping implements backend.Driver.
func (d *Driver) Ping(ctx context.Context) error {
	return backend.WrapError(driverName, "ping", "", d.client.Ping(ctx, readpref.Primary()))
}

// Close implements backend.Driver.
func (d *Driver) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	return d.client.Disconnect(ctx)
}

// Select implements backend.Driver.
func (d *Driver) Select(ctx context.Context, q backend.Query) ([]backend.Record, error) {
	coll, err := d.collection(q.Table)
	if err != nil {
		return nil, backend.WrapError(driverName, "select", q.Table, err)
	}

	opts := options.Find().SetProjection(bson.M{"_id": 0})
	if q.Order != nil {
		dir := 1
		if q.Order.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.Order.Column, Value: dir}})
	}
	if q.Single {
		opts.SetLimit(1)
	}

	cur, err := coll.Find(ctx, filterDoc(q.Filters), opts)
	if err != nil {
		return nil, backend.WrapError(driverName, "select", q.Table, err)
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, backend.WrapError(driverName, "select", q.Table, err)
	}

	out := make([]backend.Record, 0, len(docs))
	for _, doc := range docs {
		out = append(out, fromDocument(doc))
	}
	return out, nil
}

// Insert implements backend.Driver.
func (d *Driver) Insert(ctx context.Context, table string, rec backend.Record) (backend.Record, error) {
	coll, err := d.collection(table)
	if err != nil {
		return nil, backend.WrapError(driverName, "insert", table, err)
	}

	doc := toDocument(backend.WithID(rec))
	if _, ok := doc["created_date"]; !ok {
		doc["created_date"] = time.Now().UTC()
	}
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return nil, backend.WrapError(driverName, "insert", table, err)
	}
	delete(doc, "_id")
	return fromDocument(doc), nil
}

// Upsert implements backend.Driver. The conflict columns select the
// document; a new document gets a generated id.
func (d *Driver) Upsert(ctx context.Context, table string, rec backend.Record, conflict []string) (backend.Record, error) {
	coll, err := d.collection(table)
	if err != nil {
		return nil, backend.WrapError(driverName, "upsert", table, err)
	}
	if len(conflict) == 0 {
		conflict = []string{"id"}
	}

	doc := toDocument(rec)
	filter := bson.M{}
	for _, col := range conflict {
		filter[col] = doc[col]
	}

	set := bson.M{}
	for k, v := range doc {
		if k == "id" {
			continue
		}
		set[k] = v
	}
	onInsert := bson.M{}
	if _, keyed := filter["id"]; !keyed {
		onInsert["id"] = backend.WithID(rec)["id"]
	}
	if _, ok := set["created_date"]; !ok {
		onInsert["created_date"] = time.Now().UTC()
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(onInsert) > 0 {
		update["$setOnInsert"] = onInsert
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After).
		SetProjection(bson.M{"_id": 0})

	var out bson.M
	if err := coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out); err != nil {
		return nil, backend.WrapError(driverName, "upsert", table, err)
	}
	return fromDocument(out), nil
}

// Delete implements backend.Driver.
func (d *Driver) Delete(ctx context.Context, table string, filters []backend.Filter) (int64, error) {
	coll, err := d.collection(table)
	if err != nil {
		return 0, backend.WrapError(driverName, "delete", table, err)
	}
	if len(filters) == 0 {
		return 0, backend.WrapError(driverName, "delete", table, errors.New("no filters"))
	}

	res, err := coll.DeleteMany(ctx, filterDoc(filters))
	if err != nil {
		return 0, backend.WrapError(driverName, "delete", table, err)
	}
	return res.DeletedCount, nil
}

func (d *Driver) collection(table string) (*mongo.Collection, error) {
	if !d.tables[table] {
		return nil, backend.ErrUnknownTable
	}
	return d.db.Collection(table), nil
}

// filterDoc builds an equality filter. A nil value matches both null and
// a missing field, the same as the other drivers.
func filterDoc(filters []backend.Filter) bson.M {
	doc := bson.M{}
	for _, f := range filters {
		v := f.Value
		if f.Column == "created_date" {
			v = toTime(v)
		}
		doc[f.Column] = v
	}
	return doc
}

// toDocument stores created_date as a BSON date so it sorts by instant.
func toDocument(rec backend.Record) bson.M {
	doc := make(bson.M, len(rec))
	for k, v := range rec {
		if k == "created_date" {
			v = toTime(v)
		}
		doc[k] = v
	}
	return doc
}

func toTime(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	ts, err := domain.ParseTimestamp(s)
	if err != nil {
		return v
	}
	return ts.UTC()
}

// fromDocument converts driver types back to plain values.
func fromDocument(doc bson.M) backend.Record {
	rec := make(backend.Record, len(doc))
	for k, v := range doc {
		rec[k] = plain(v)
	}
	return rec
}

func plain(v any) any {
	switch x := v.(type) {
	case primitive.A:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	case primitive.DateTime:
		return domain.NewTimestamp(x.Time()).String()
	case time.Time:
		return domain.NewTimestamp(x).String()
	case int32:
		return int64(x)
	default:
		return v
	}
}
