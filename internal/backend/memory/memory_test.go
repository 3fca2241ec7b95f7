package memory

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offroutechronicles/offroute-server/internal/backend"
	"github.com/offroutechronicles/offroute-server/internal/domain"
)

func TestOpen_DemoIsSeeded(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	drv, err := backend.Open(ctx, backend.Config{URL: "memory://demo"}, logger)
	require.NoError(t, err)
	defer drv.Close()

	rows, err := drv.Select(ctx, backend.From(domain.TableBlogPosts))
	require.NoError(t, err)
	assert.Len(t, rows, 6)

	empty, err := backend.Open(ctx, backend.Config{URL: "memory://"}, logger)
	require.NoError(t, err)
	rows, err = empty.Select(ctx, backend.From(domain.TableBlogPosts))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDriver_InsertGeneratesID(t *testing.T) {
	d := New()
	ctx := context.Background()

	row, err := d.Insert(ctx, domain.TableSubscribers, backend.Record{"email": "a@b.co"})
	require.NoError(t, err)
	assert.NotEmpty(t, row["id"])

	_, err = d.Insert(ctx, domain.TableSubscribers, backend.Record{"id": row["id"], "email": "x@y.co"})
	assert.Error(t, err, "duplicate id")
}

func TestDriver_UpsertReplacesOnTriple(t *testing.T) {
	d := New()
	ctx := context.Background()

	first, err := d.Upsert(ctx, domain.TableReactions, backend.Record{
		"entity_type": "blog_post", "entity_id": "1", "user_identifier": "guest_1_abc", "reaction_type": "like",
	}, domain.ReactionKey)
	require.NoError(t, err)

	second, err := d.Upsert(ctx, domain.TableReactions, backend.Record{
		"entity_type": "blog_post", "entity_id": "1", "user_identifier": "guest_1_abc", "reaction_type": "wow",
	}, domain.ReactionKey)
	require.NoError(t, err)

	assert.Equal(t, first["id"], second["id"], "same row replaced")
	rows, err := d.Select(ctx, backend.From(domain.TableReactions))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "wow", rows[0]["reaction_type"])
}

func TestDriver_DeleteCounts(t *testing.T) {
	d := New()
	ctx := context.Background()

	for _, rt := range []string{"like", "love"} {
		_, err := d.Insert(ctx, domain.TableReactions, backend.Record{"entity_id": "1", "reaction_type": rt})
		require.NoError(t, err)
	}

	n, err := d.Delete(ctx, domain.TableReactions, []backend.Filter{backend.Eq("reaction_type", "like")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = d.Delete(ctx, domain.TableReactions, []backend.Filter{backend.Eq("id", "missing")})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDriver_UnknownTableAndClosed(t *testing.T) {
	d := New()
	ctx := context.Background()

	_, err := d.Select(ctx, backend.From("trips"))
	assert.ErrorIs(t, err, backend.ErrUnknownTable)

	require.NoError(t, d.Close())
	assert.ErrorIs(t, d.Ping(ctx), backend.ErrClosed)
	_, err = d.Select(ctx, backend.From(domain.TableBlogPosts))
	assert.ErrorIs(t, err, backend.ErrClosed)
}
