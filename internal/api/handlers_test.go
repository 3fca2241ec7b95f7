package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offroutechronicles/offroute-server/internal/facade"
	"github.com/offroutechronicles/offroute-server/internal/search"
	"github.com/offroutechronicles/offroute-server/internal/service"
)

func TestHealthCheck_Success(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	health := decodeData[HealthResponse](t, resp)
	assert.Equal(t, StatusHealthy, health.Status)
	assert.Contains(t, health.Components["backend"].Message, "mock data")
	assert.Equal(t, StatusHealthy, health.Components["search"].Status)
	assert.Equal(t, StatusHealthy, health.Components["sse"].Status)
}

func TestHealthCheck_ReportsConnectedBackend(t *testing.T) {
	ts := setupTestServer(t, withRemoteBackend())

	health := decodeData[HealthResponse](t, ts.api.Get("/health"))
	assert.Equal(t, StatusHealthy, health.Components["backend"].Status)
	assert.Equal(t, "memory", health.Components["backend"].Message)
	assert.NotEmpty(t, health.Components["backend"].Latency)
}

func TestListPosts(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/posts")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, string(facade.SourceMock), resp.Header().Get(HeaderDataSource))

	list := decodeData[PostListResponse](t, resp)
	assert.Equal(t, []string{"1", "3", "2", "4", "5", "6"}, postIDs(list.Posts))
	assert.Equal(t, 6, list.Total)
	assert.Equal(t, 5, list.Posts[0].ReadTime)
}

func TestListPosts_Filters(t *testing.T) {
	ts := setupTestServer(t)

	tests := []struct {
		name string
		path string
		want []string
	}{
		{"category alias", "/api/v1/posts?category=Food%20Cafe", []string{"2"}},
		{"text search", "/api/v1/posts?q=TOKYO", []string{"1"}},
		{"featured only", "/api/v1/posts?featured=true", []string{"1", "3", "2"}},
		{"regular only", "/api/v1/posts?featured=false", []string{"4", "5", "6"}},
		{"featured endpoint", "/api/v1/posts/featured", []string{"1", "3", "2"}},
		{"latest endpoint", "/api/v1/posts/latest?limit=2", []string{"4", "5"}},
		{"by destination", "/api/v1/destinations/1/posts", []string{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Get(tt.path)
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
			assert.Equal(t, tt.want, postIDs(decodeData[PostListResponse](t, resp).Posts))
		})
	}
}

func TestGetPost_PlaceholderOnMiss(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/posts/does-not-exist")
	require.Equal(t, http.StatusOK, resp.Code)

	post := decodeData[PostResponse](t, resp)
	assert.Equal(t, "does-not-exist", post.ID)
	assert.Equal(t, "Blog Post Not Found", post.Title)
	assert.Equal(t, 5, post.ReadTime)
}

func TestPostGallery(t *testing.T) {
	ts := setupTestServer(t)

	gallery := decodeData[GalleryResponse](t, ts.api.Get("/api/v1/posts/1/gallery"))
	require.Len(t, gallery.Images, 2)
	assert.Equal(t, "g1", gallery.Images[0].ID)
}

func TestGetDestination(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/destinations/3")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Paris, France", decodeData[DestinationResponse](t, resp).Name)
}

func TestGetDestination_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/destinations/missing")
	require.Equal(t, http.StatusNotFound, resp.Code)

	env := decodeEnvelope(t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, "NOT_FOUND", env.Code)
	assert.Equal(t, "destination missing not found", env.Message)
}

func TestListDestinations(t *testing.T) {
	ts := setupTestServer(t)

	list := decodeData[DestinationListResponse](t, ts.api.Get("/api/v1/destinations?continent=europe"))
	require.Len(t, list.Destinations, 1)
	assert.Equal(t, "3", list.Destinations[0].ID)

	continents := decodeData[ContinentsResponse](t, ts.api.Get("/api/v1/destinations/continents"))
	assert.Equal(t, []service.Continent{
		{Key: "asia", Label: "Asia", Count: 5},
		{Key: "europe", Label: "Europe", Count: 1},
	}, continents.Continents)
}

func TestListComments_HidesEmail(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/posts/1/comments")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.NotContains(t, resp.Body.String(), "author_email")
	assert.NotContains(t, resp.Body.String(), "sarah@example.com")

	comments := decodeData[CommentsResponse](t, resp)
	require.Len(t, comments.Threads, 1)
	assert.Equal(t, "c1", comments.Threads[0].ID)
	require.Len(t, comments.Threads[0].Replies, 1)
	assert.Equal(t, "c2", comments.Threads[0].Replies[0].ID)
	assert.Equal(t, 2, comments.Total)
}

func TestCreateComment_WithoutBackend(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/posts/1/comments", map[string]any{
		"author_name":  "Reader",
		"author_email": "reader@example.com",
		"content":      "Great post",
	})
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Equal(t, "UNAVAILABLE", decodeEnvelope(t, resp).Code)
}

func TestCreateComment(t *testing.T) {
	ts := setupTestServer(t, withRemoteBackend())

	resp := ts.api.Post("/api/v1/posts/2/comments", map[string]any{
		"author_name":  "Reader",
		"author_email": "reader@example.com",
		"content":      "Great post",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	created := decodeData[CommentResponse](t, resp)
	assert.Equal(t, "2", created.PostID)

	resp = ts.api.Get("/api/v1/posts/2/comments")
	assert.Equal(t, string(facade.SourceRemote), resp.Header().Get(HeaderDataSource))
	comments := decodeData[CommentsResponse](t, resp)
	require.Len(t, comments.Threads, 1)
	assert.Equal(t, created.ID, comments.Threads[0].ID)
}

func TestCreateComment_Validation(t *testing.T) {
	ts := setupTestServer(t, withRemoteBackend())

	resp := ts.api.Post("/api/v1/posts/2/comments", map[string]any{
		"author_name":  "Reader",
		"author_email": "not-an-email",
		"content":      "Great post",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	env := decodeEnvelope(t, resp)
	assert.Equal(t, "VALIDATION", env.Code)
	assert.Contains(t, env.Details, "author_email")

	resp = ts.api.Post("/api/v1/posts/1/comments", map[string]any{
		"author_name":  "Reader",
		"author_email": "reader@example.com",
		"content":      "Replying to a reply",
		"parent_id":    "c2",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION", decodeEnvelope(t, resp).Code)
}

func TestReactions_ToggleRequiresGuestToken(t *testing.T) {
	ts := setupTestServer(t, withRemoteBackend())

	resp := ts.api.Post("/api/v1/reactions/blog_post/1", map[string]any{"reaction_type": "like"})
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "UNAUTHORIZED", decodeEnvelope(t, resp).Code)

	resp = ts.api.Post("/api/v1/reactions/blog_post/1", "Authorization: Bearer v4.local.garbage", map[string]any{"reaction_type": "like"})
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestReactions_Toggle(t *testing.T) {
	ts := setupTestServer(t, withRemoteBackend())
	token, user := ts.guestToken(t)
	bearer := "Authorization: Bearer " + token

	resp := ts.api.Post("/api/v1/reactions/blog_post/1", bearer, map[string]any{"reaction_type": "like"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	added := decodeData[service.ToggleResult](t, resp)
	assert.Equal(t, service.ToggleAdded, added.Action)
	assert.Equal(t, 1, added.Summary.Total)

	resp = ts.api.Get("/api/v1/reactions/blog_post/1", bearer)
	require.Equal(t, http.StatusOK, resp.Code)
	summary := decodeData[service.ReactionSummary](t, resp)
	assert.EqualValues(t, "like", summary.UserReaction)
	assert.Equal(t, 1, summary.Counts["like"])

	anonymous := decodeData[service.ReactionSummary](t, ts.api.Get("/api/v1/reactions/blog_post/1"))
	assert.Empty(t, anonymous.UserReaction)
	assert.Equal(t, 1, anonymous.Total)

	resp = ts.api.Post("/api/v1/reactions/blog_post/1", bearer, map[string]any{"reaction_type": "love"})
	require.Equal(t, http.StatusOK, resp.Code)
	switched := decodeData[service.ToggleResult](t, resp)
	assert.Equal(t, service.ToggleSwitched, switched.Action)
	assert.Equal(t, 1, switched.Summary.Counts["love"])
	assert.Zero(t, switched.Summary.Counts["like"])

	assert.NotEmpty(t, user)
}

func TestReactions_RejectsUnknownEntityType(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/reactions/photo/1")
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION", decodeEnvelope(t, resp).Code)
}

func TestSubscribe(t *testing.T) {
	ts := setupTestServer(t, withRemoteBackend())

	resp := ts.api.Post("/api/v1/subscribers", map[string]any{"email": "traveler@example.com"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.Equal(t, "traveler@example.com", decodeData[SubscriberResponse](t, resp).Email)

	resp = ts.api.Post("/api/v1/subscribers", map[string]any{"email": "nobody"})
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestSearch(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/search?q=tokyo&type=post")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	result := decodeData[search.SearchResult](t, resp)
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "1", result.Hits[0].ID)
	assert.Equal(t, search.DocTypePost, result.Hits[0].Type)

	resp = ts.api.Get("/api/v1/search?q=tokyo&type=photo")
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestWriteRateLimit(t *testing.T) {
	ts := setupTestServer(t, withWriteLimit(1))

	require.Equal(t, http.StatusCreated, ts.api.Post("/api/v1/identity").Code)

	resp := ts.api.Post("/api/v1/identity")
	require.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "60", resp.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMITED", decodeEnvelope(t, resp).Code)

	// Reads are never limited.
	assert.Equal(t, http.StatusOK, ts.api.Get("/api/v1/posts").Code)
}

func TestCORSPreflight(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Do(http.MethodOptions, "/api/v1/posts",
		"Origin: https://offroute.example",
		"Access-Control-Request-Method: GET",
	)
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
}
