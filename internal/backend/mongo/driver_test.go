package mongo

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/offroutechronicles/offroute-server/internal/backend"
	"github.com/offroutechronicles/offroute-server/internal/domain"
)

func TestDatabaseName(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"mongodb://localhost:27017", "offroute"},
		{"mongodb://localhost:27017/", "offroute"},
		{"mongodb://localhost:27017/travel", "travel"},
		{"mongodb+srv://user:pw@cluster.example.net/journal?retryWrites=true", "journal"},
	}
	for _, tt := range tests {
		got, err := databaseName(tt.uri)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.uri)
	}
}

func TestDocumentConversion(t *testing.T) {
	doc := toDocument(backend.Record{
		"id":           "1",
		"created_date": "2024-01-15T00:00:00Z",
		"highlights":   []any{"a", "b"},
	})
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), doc["created_date"])

	stored := bson.M{
		"id":           "1",
		"created_date": primitive.NewDateTimeFromTime(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
		"highlights":   primitive.A{"a", "b"},
		"read_time":    int32(7),
	}
	rec := fromDocument(stored)
	assert.Equal(t, "2024-01-15T00:00:00Z", rec["created_date"])
	assert.Equal(t, []any{"a", "b"}, rec["highlights"])
	assert.Equal(t, int64(7), rec["read_time"])
}

func TestFilterDoc(t *testing.T) {
	doc := filterDoc([]backend.Filter{
		backend.Eq("post_id", "1"),
		backend.Eq("parent_id", nil),
	})
	assert.Equal(t, bson.M{"post_id": "1", "parent_id": nil}, doc)
}

// Set OFFROUTE_TEST_MONGO_URL to a scratch database to run this.
func TestDriver_Integration(t *testing.T) {
	uri := os.Getenv("OFFROUTE_TEST_MONGO_URL")
	if uri == "" {
		t.Skip("OFFROUTE_TEST_MONGO_URL not set")
	}
	ctx := context.Background()

	d, err := Open(ctx, uri, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer d.Close()
	require.NoError(t, d.Ping(ctx))

	_, err = d.db.Collection(domain.TableReactions).DeleteMany(ctx, bson.M{})
	require.NoError(t, err)

	rec := backend.Record{
		"entity_type":     "destination",
		"entity_id":       "3",
		"user_identifier": "guest_1_mongo",
		"reaction_type":   "wow",
	}
	first, err := d.Upsert(ctx, domain.TableReactions, rec, domain.ReactionKey)
	require.NoError(t, err)
	assert.NotEmpty(t, first["id"])

	rec["reaction_type"] = "like"
	second, err := d.Upsert(ctx, domain.TableReactions, rec, domain.ReactionKey)
	require.NoError(t, err)
	assert.Equal(t, first["id"], second["id"])

	rows, err := d.Select(ctx, backend.From(domain.TableReactions).Where("entity_id", "3"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "like", rows[0]["reaction_type"])

	n, err := d.Delete(ctx, domain.TableReactions, []backend.Filter{backend.Eq("id", second["id"])})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
