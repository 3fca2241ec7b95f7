package facade

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offroutechronicles/offroute-server/internal/backend"
	"github.com/offroutechronicles/offroute-server/internal/backend/memory"
	"github.com/offroutechronicles/offroute-server/internal/domain"
	domainerrors "github.com/offroutechronicles/offroute-server/internal/errors"
	"github.com/offroutechronicles/offroute-server/internal/mock"
)

// staticConn hands out a fixed driver (nil means remote mode is off).
type staticConn struct {
	drv backend.Driver
}

func (s staticConn) Connect(context.Context) backend.Driver { return s.drv }

// failingDriver fails every call.
type failingDriver struct{}

var errBackendDown = errors.New("connection refused")

func (failingDriver) Select(context.Context, backend.Query) ([]backend.Record, error) {
	return nil, errBackendDown
}

func (failingDriver) Insert(context.Context, string, backend.Record) (backend.Record, error) {
	return nil, errBackendDown
}

func (failingDriver) Upsert(context.Context, string, backend.Record, []string) (backend.Record, error) {
	return nil, errBackendDown
}

func (failingDriver) Delete(context.Context, string, []backend.Filter) (int64, error) {
	return 0, errBackendDown
}
func (failingDriver) Ping(context.Context) error { return errBackendDown }
func (failingDriver) Close() error               { return nil }
func (failingDriver) Name() string               { return "failing" }

var fixedNow = time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T, drv backend.Driver, data *mock.Dataset) *Client {
	t.Helper()
	return New(staticConn{drv: drv}, data,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(func() time.Time { return fixedNow }),
	)
}

func TestMockMode_ListsMatchDataset(t *testing.T) {
	c := newTestClient(t, nil, nil)
	ctx := context.Background()
	data := mock.Default()

	posts := c.BlogPosts.ListResult(ctx, "")
	assert.Equal(t, SourceMock, posts.Source)
	assert.NoError(t, posts.Err)
	assert.Equal(t, data.Posts, posts.Value)

	assert.Equal(t, data.Destinations, c.Destinations.List(ctx))
	assert.Len(t, c.GalleryImages.List(ctx, "1"), 2)
	assert.Len(t, c.Comments.Filter(ctx, CommentFilter{}), len(data.Comments))

	reactions := c.Reactions.Filter(ctx, ReactionFilter{EntityType: domain.EntityBlogPost, EntityID: "1"})
	assert.NotNil(t, reactions)
	assert.Empty(t, reactions)
}

func TestBlogPosts_GetPlaceholder(t *testing.T) {
	c := newTestClient(t, nil, nil)

	post := c.BlogPosts.Get(context.Background(), "nonexistent-id")
	assert.Equal(t, "nonexistent-id", post.ID)
	assert.Equal(t, "Blog Post Not Found", post.Title)
	assert.Equal(t, "This blog post does not exist", post.Content)
	assert.Equal(t, "Unknown", post.Author)
	assert.True(t, post.CreatedDate.Equal(fixedNow))
}

func TestDestinations_GetMissIsNil(t *testing.T) {
	c := newTestClient(t, nil, nil)
	ctx := context.Background()

	assert.Nil(t, c.Destinations.Get(ctx, "nonexistent-id"))

	dest := c.Destinations.Get(ctx, "3")
	require.NotNil(t, dest)
	assert.Equal(t, "Paris, France", dest.Name)
}

func TestBlogPosts_ListOrder(t *testing.T) {
	c := newTestClient(t, nil, nil)
	ctx := context.Background()

	newest := c.BlogPosts.List(ctx, SortNewest)
	require.Len(t, newest, 6)
	for i := 1; i < len(newest); i++ {
		assert.False(t, newest[i].CreatedDate.After(newest[i-1].CreatedDate.Time),
			"%s is newer than %s", newest[i].ID, newest[i-1].ID)
	}

	ids := func(posts []domain.BlogPost) []string {
		out := make([]string, len(posts))
		for i, p := range posts {
			out[i] = p.ID
		}
		return out
	}
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, ids(c.BlogPosts.List(ctx, "")))
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, ids(c.BlogPosts.List(ctx, "created_date")))
	assert.Equal(t, []string{"1", "3", "2", "4", "5", "6"}, ids(newest))
}

func TestBlogPosts_EndToEndScenario(t *testing.T) {
	data := mock.New(mock.WithPosts(
		domain.BlogPost{ID: "2", Title: "Older", Content: "b", CreatedDate: domain.Date(2024, 1, 10)},
		domain.BlogPost{ID: "1", Title: "Newer", Content: "# Heading\n\nBody *text*", CreatedDate: domain.Date(2024, 1, 15)},
	))
	c := newTestClient(t, nil, data)
	ctx := context.Background()

	posts := c.BlogPosts.List(ctx, SortNewest)
	require.Len(t, posts, 2)
	assert.Equal(t, "1", posts[0].ID)

	got := c.BlogPosts.Get(ctx, "1")
	assert.Equal(t, "# Heading\n\nBody *text*", got.Content)

	missing := c.BlogPosts.Get(ctx, "999")
	assert.Equal(t, "999", missing.ID)
	assert.Equal(t, "Blog Post Not Found", missing.Title)
}

func TestBlogPosts_ListByDestination(t *testing.T) {
	data := mock.New(mock.WithPosts(
		domain.BlogPost{ID: "a", DestinationID: "7", Destination: "Lisbon", CreatedDate: domain.Date(2024, 1, 1)},
		domain.BlogPost{ID: "b", Destination: "7", CreatedDate: domain.Date(2024, 1, 2)},
		domain.BlogPost{ID: "c", Destination: "Lisbon", CreatedDate: domain.Date(2024, 1, 3)},
		domain.BlogPost{ID: "d", Destination: "Lisbon", CreatedDate: domain.Date(2024, 1, 4)},
	))
	c := newTestClient(t, nil, data)
	ctx := context.Background()

	// "7" matches post a by id and post b by name; the id match wins.
	byID := c.BlogPosts.ListByDestination(ctx, "7")
	require.Len(t, byID, 1)
	assert.Equal(t, "a", byID[0].ID)

	byName := c.BlogPosts.ListByDestination(ctx, "Lisbon")
	require.Len(t, byName, 3)
	assert.Equal(t, []string{"d", "c", "a"}, []string{byName[0].ID, byName[1].ID, byName[2].ID})

	assert.Empty(t, c.BlogPosts.ListByDestination(ctx, "Atlantis"))
}

func TestBlogPosts_ListByDestinationRemote(t *testing.T) {
	drv := memory.New()
	drv.Seed(mock.Default())
	c := newTestClient(t, drv, nil)
	ctx := context.Background()

	res := c.BlogPosts.ListByDestinationResult(ctx, "Bali, Indonesia")
	assert.Equal(t, SourceRemote, res.Source)
	require.Len(t, res.Value, 1)
	assert.Equal(t, "3", res.Value[0].ID)

	res = c.BlogPosts.ListByDestinationResult(ctx, "4")
	require.Len(t, res.Value, 1)
	assert.Equal(t, "3", res.Value[0].ID)
}

func TestBlogPosts_Filter(t *testing.T) {
	c := newTestClient(t, nil, nil)
	featured := true

	posts := c.BlogPosts.Filter(context.Background(), PostFilter{Featured: &featured})
	require.Len(t, posts, 3)
	assert.Equal(t, "1", posts[0].ID)
	for _, p := range posts {
		assert.True(t, p.Featured)
	}
}

func TestReactions_FilterMatchesAllCriteria(t *testing.T) {
	data := mock.New(mock.WithReactions(
		domain.Reaction{ID: "r1", EntityType: domain.EntityBlogPost, EntityID: "1", ReactionType: domain.ReactionLike, UserIdentifier: "alice"},
		domain.Reaction{ID: "r2", EntityType: domain.EntityBlogPost, EntityID: "1", ReactionType: domain.ReactionWow, UserIdentifier: "bob"},
		domain.Reaction{ID: "r3", EntityType: domain.EntityDestination, EntityID: "1", ReactionType: domain.ReactionLove, UserIdentifier: "alice"},
		domain.Reaction{ID: "r4", EntityType: domain.EntityBlogPost, EntityID: "2", ReactionType: domain.ReactionLike, UserIdentifier: "alice"},
	))
	c := newTestClient(t, nil, data)

	got := c.Reactions.Filter(context.Background(), ReactionFilter{
		EntityType:     domain.EntityBlogPost,
		EntityID:       "1",
		UserIdentifier: "alice",
	})
	require.Len(t, got, 1)
	assert.Equal(t, "r1", got[0].ID)

	all := c.Reactions.Filter(context.Background(), ReactionFilter{EntityType: domain.EntityBlogPost, EntityID: "1"})
	assert.Len(t, all, 2)
}

func TestWrites_NoOpWithoutBackend(t *testing.T) {
	c := newTestClient(t, nil, nil)
	ctx := context.Background()

	in := domain.NewReaction{
		EntityType:     domain.EntityBlogPost,
		EntityID:       "1",
		ReactionType:   domain.ReactionLike,
		UserIdentifier: "guest_1_abc",
	}
	created := c.Reactions.CreateResult(ctx, in)
	assert.Nil(t, created.Value)
	assert.Equal(t, SourceMock, created.Source)

	assert.False(t, c.Reactions.Delete(ctx, "r1"))
	assert.Empty(t, c.Reactions.Filter(ctx, ReactionFilter{
		EntityType: in.EntityType, EntityID: in.EntityID, UserIdentifier: in.UserIdentifier,
	}))

	assert.Nil(t, c.Subscribers.Create(ctx, "reader@example.com"))
	assert.Nil(t, c.Comments.Create(ctx, domain.NewComment{
		PostID: "1", AuthorName: "A", AuthorEmail: "a@b.co", Content: "hi",
	}))
}

func TestFailingBackend_FallsBack(t *testing.T) {
	c := newTestClient(t, failingDriver{}, nil)
	ctx := context.Background()

	posts := c.BlogPosts.ListResult(ctx, SortNewest)
	assert.Equal(t, SourceFallback, posts.Source)
	assert.ErrorIs(t, posts.Err, errBackendDown)
	assert.Len(t, posts.Value, 6)

	post := c.BlogPosts.GetResult(ctx, "2")
	assert.Equal(t, SourceFallback, post.Source)
	assert.Equal(t, "Street Food Adventures in Bangkok", post.Value.Title)

	dest := c.Destinations.GetResult(ctx, "1")
	assert.Equal(t, SourceFallback, dest.Source)
	require.NotNil(t, dest.Value)

	del := c.Reactions.DeleteResult(ctx, "r1")
	assert.False(t, del.Value)
	assert.Equal(t, SourceFallback, del.Source)

	sub := c.Subscribers.CreateResult(ctx, "a@b.co")
	assert.Nil(t, sub.Value)
	assert.Equal(t, SourceFallback, sub.Source)
	assert.ErrorIs(t, sub.Err, errBackendDown)
}

func TestRemote_EmptyResults(t *testing.T) {
	c := newTestClient(t, memory.New(), nil)
	ctx := context.Background()

	// Posts trust an empty remote table.
	posts := c.BlogPosts.ListResult(ctx, "")
	assert.Equal(t, SourceRemote, posts.Source)
	assert.Empty(t, posts.Value)

	// Destinations do not.
	dests := c.Destinations.ListResult(ctx)
	assert.Equal(t, SourceMock, dests.Source)
	assert.Len(t, dests.Value, 6)

	// A remote post miss is looked up in mock data.
	post := c.BlogPosts.GetResult(ctx, "1")
	assert.Equal(t, SourceMock, post.Source)
	assert.Equal(t, "Discovering Hidden Gems in Tokyo", post.Value.Title)

	// A remote destination miss is final.
	dest := c.Destinations.GetResult(ctx, "1")
	assert.Equal(t, SourceRemote, dest.Source)
	assert.Nil(t, dest.Value)
}

func TestRemote_WriteRoundTrip(t *testing.T) {
	c := newTestClient(t, memory.New(), nil)
	ctx := context.Background()

	in := domain.NewReaction{
		EntityType:     domain.EntityDestination,
		EntityID:       "2",
		ReactionType:   domain.ReactionInspire,
		UserIdentifier: "guest_1_abc",
	}
	created := c.Reactions.Create(ctx, in)
	require.NotNil(t, created)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.CreatedDate.Equal(fixedNow))

	res := c.Reactions.FilterResult(ctx, ReactionFilter{UserIdentifier: "guest_1_abc"})
	assert.Equal(t, SourceRemote, res.Source)
	require.Len(t, res.Value, 1)

	assert.True(t, c.Reactions.Delete(ctx, created.ID))
	assert.False(t, c.Reactions.Delete(ctx, created.ID), "second delete affects nothing")
}

func TestReactions_UpsertReplaces(t *testing.T) {
	c := newTestClient(t, memory.New(), nil)
	ctx := context.Background()

	in := domain.NewReaction{
		EntityType:     domain.EntityBlogPost,
		EntityID:       "1",
		ReactionType:   domain.ReactionLike,
		UserIdentifier: "guest_1_abc",
	}
	first := c.Reactions.Upsert(ctx, in)
	require.NotNil(t, first)

	in.ReactionType = domain.ReactionLove
	second := c.Reactions.Upsert(ctx, in)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)

	got := c.Reactions.Filter(ctx, ReactionFilter{EntityID: "1"})
	require.Len(t, got, 1)
	assert.Equal(t, domain.ReactionLove, got[0].ReactionType)
}

func TestComments_CreateEnforcesDepth(t *testing.T) {
	drv := memory.New()
	drv.Seed(mock.Default())
	c := newTestClient(t, drv, nil)
	ctx := context.Background()

	reply := c.Comments.CreateResult(ctx, domain.NewComment{
		PostID: "1", AuthorName: "Ana", AuthorEmail: "ana@example.com", Content: "Me too", ParentID: "c1",
	})
	require.NotNil(t, reply.Value)
	assert.Equal(t, "c1", reply.Value.ParentID)
	assert.Equal(t, "ana@example.com", reply.Value.AuthorEmail)

	nested := c.Comments.CreateResult(ctx, domain.NewComment{
		PostID: "1", AuthorName: "Ana", AuthorEmail: "ana@example.com", Content: "deeper", ParentID: "c2",
	})
	assert.Nil(t, nested.Value)
	assert.ErrorIs(t, nested.Err, domainerrors.ErrValidation)
	assert.Empty(t, nested.Source)

	otherPost := c.Comments.CreateResult(ctx, domain.NewComment{
		PostID: "2", AuthorName: "Ana", AuthorEmail: "ana@example.com", Content: "wrong post", ParentID: "c1",
	})
	assert.ErrorIs(t, otherPost.Err, domainerrors.ErrValidation)

	orphan := c.Comments.CreateResult(ctx, domain.NewComment{
		PostID: "1", AuthorName: "Ana", AuthorEmail: "ana@example.com", Content: "?", ParentID: "missing",
	})
	assert.ErrorIs(t, orphan.Err, domainerrors.ErrValidation)
}

func TestWrites_ValidateInput(t *testing.T) {
	c := newTestClient(t, memory.New(), nil)
	ctx := context.Background()

	res := c.Comments.CreateResult(ctx, domain.NewComment{PostID: "1", AuthorName: "A", AuthorEmail: "not-an-email", Content: "x"})
	assert.Nil(t, res.Value)
	assert.ErrorIs(t, res.Err, domainerrors.ErrValidation)

	rr := c.Reactions.CreateResult(ctx, domain.NewReaction{EntityType: "page", EntityID: "1", ReactionType: "like", UserIdentifier: "u"})
	assert.ErrorIs(t, rr.Err, domainerrors.ErrValidation)

	sub := c.Subscribers.CreateResult(ctx, "  reader@example.com ")
	require.NotNil(t, sub.Value)
	assert.Equal(t, "reader@example.com", sub.Value.Email)
}

func TestRemote_HTMLContentBecomesMarkdown(t *testing.T) {
	drv := memory.New()
	_, err := drv.Insert(context.Background(), domain.TableBlogPosts, backend.Record{
		"id":           "h1",
		"title":        "HTML post",
		"content":      "<h2>Day one</h2><p>We took the <strong>early</strong> train.</p>",
		"created_date": "2024-03-01T00:00:00Z",
	})
	require.NoError(t, err)
	c := newTestClient(t, drv, nil)

	post := c.BlogPosts.Get(context.Background(), "h1")
	assert.Contains(t, post.Content, "## Day one")
	assert.Contains(t, post.Content, "**early**")
	assert.NotContains(t, post.Content, "<p>")
}

func TestToMarkdown_PassesMarkdownThrough(t *testing.T) {
	md := "# Title\n\n- one\n- two"
	assert.Equal(t, md, toMarkdown(md))
	assert.Equal(t, "", toMarkdown(""))
	assert.Equal(t, "a < b", toMarkdown("a < b"))
}

func TestRemote_MarkdownWithInlineHTMLIsKept(t *testing.T) {
	mixed := "## Day two\n\nThe pass was closed.\n\n<img src=\"/pass.jpg\" alt=\"Pass\">\n\n- chains\n- <b>water</b>"
	drv := memory.New()
	_, err := drv.Insert(context.Background(), domain.TableBlogPosts, backend.Record{
		"id":           "m1",
		"title":        "Mixed post",
		"content":      mixed,
		"created_date": "2024-03-02T00:00:00Z",
	})
	require.NoError(t, err)
	c := newTestClient(t, drv, nil)

	post := c.BlogPosts.Get(context.Background(), "m1")
	assert.Equal(t, mixed, post.Content)
}

func TestToMarkdown_OnlyConvertsHTMLDocuments(t *testing.T) {
	assert.Equal(t, "Hello **world**", toMarkdown("<p>Hello <b>world</b></p>"))

	inline := "Sunrise over the ridge <img src=\"/ridge.jpg\">"
	assert.Equal(t, inline, toMarkdown(inline))

	leading := "<p>Intro</p>\n\n## Route\n\n1. Start early"
	assert.Equal(t, leading, toMarkdown(leading))
}
