package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/offroutechronicles/offroute-server/internal/domain"
	"github.com/offroutechronicles/offroute-server/internal/service"
)

func (s *Server) registerPostRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts",
		Summary:     "List posts",
		Description: "Returns stories filtered by category, text and featured flag",
		Tags:        []string{"Posts"},
	}, s.handleListPosts)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFeaturedPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/featured",
		Summary:     "List featured posts",
		Description: "Returns the newest featured stories",
		Tags:        []string{"Posts"},
	}, s.handleListFeaturedPosts)

	huma.Register(s.api, huma.Operation{
		OperationID: "listLatestPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/latest",
		Summary:     "List latest posts",
		Description: "Returns the newest stories that are not featured",
		Tags:        []string{"Posts"},
	}, s.handleListLatestPosts)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPost",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/{id}",
		Summary:     "Get post",
		Description: "Returns a story by ID. An unknown ID returns a placeholder story, not 404.",
		Tags:        []string{"Posts"},
	}, s.handleGetPost)

	huma.Register(s.api, huma.Operation{
		OperationID: "listRelatedPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/{id}/related",
		Summary:     "List related posts",
		Description: "Returns other stories in the same category",
		Tags:        []string{"Posts"},
	}, s.handleListRelatedPosts)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPostGallery",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/{id}/gallery",
		Summary:     "List post gallery",
		Description: "Returns the gallery images of a story, oldest first",
		Tags:        []string{"Posts"},
	}, s.handleListPostGallery)
}

// === DTOs ===

// ListPostsInput contains parameters for listing posts.
type ListPostsInput struct {
	Sort     string `query:"sort" default:"-created_date" maxLength:"64" doc:"Sort field; -created_date is newest first, anything else keeps backend order"`
	Category string `query:"category" maxLength:"64" doc:"Category filter; aliases such as 'Food Cafe' and 'heritage' are resolved. 'all' disables it."`
	Query    string `query:"q" maxLength:"200" doc:"Case-insensitive match on title and excerpt"`
	Featured string `query:"featured" enum:"true,false" doc:"Only featured (true) or only regular (false) posts"`
}

// LimitInput contains an optional result limit.
type LimitInput struct {
	Limit int `query:"limit" minimum:"0" maximum:"12" doc:"Maximum number of posts (default 3 for featured and related, 6 for latest)"`
}

// PostIDInput contains the post ID path parameter.
type PostIDInput struct {
	ID string `path:"id" maxLength:"128" doc:"Post ID"`
}

// RelatedPostsInput contains parameters for related posts.
type RelatedPostsInput struct {
	ID    string `path:"id" maxLength:"128" doc:"Post ID"`
	Limit int    `query:"limit" minimum:"0" maximum:"12" doc:"Maximum number of posts (default 3)"`
}

// PostResponse contains post data in API responses.
type PostResponse struct {
	ID            string    `json:"id" doc:"Post ID"`
	Title         string    `json:"title" doc:"Title"`
	Excerpt       string    `json:"excerpt,omitempty" doc:"Short summary"`
	Content       string    `json:"content" doc:"Body in markdown"`
	Author        string    `json:"author" doc:"Author name"`
	CreatedDate   time.Time `json:"created_date" doc:"Publication time"`
	Image         string    `json:"image,omitempty" doc:"Cover image URL"`
	Category      string    `json:"category,omitempty" doc:"Category"`
	Featured      bool      `json:"featured" doc:"Whether the post is featured"`
	Destination   string    `json:"destination,omitempty" doc:"Destination name"`
	DestinationID string    `json:"destination_id,omitempty" doc:"Destination ID"`
	GalleryImages []string  `json:"gallery_images,omitempty" doc:"Inline gallery image URLs"`
	ReadTime      int       `json:"read_time" doc:"Reading time in minutes"`
}

// PostListResponse contains a list of posts.
type PostListResponse struct {
	Posts []PostResponse `json:"posts" doc:"Posts"`
	Total int            `json:"total" doc:"Number of posts returned"`
}

// PostListOutput wraps a post list for Huma.
type PostListOutput struct {
	DataSource string `header:"X-Data-Source" doc:"Which path produced the data"`
	Body       PostListResponse
}

// PostOutput wraps a single post for Huma.
type PostOutput struct {
	DataSource string `header:"X-Data-Source" doc:"Which path produced the data"`
	Body       PostResponse
}

// GalleryImageResponse contains a gallery image in API responses.
type GalleryImageResponse struct {
	ID          string    `json:"id" doc:"Image ID"`
	PostID      string    `json:"post_id" doc:"Post ID"`
	ImageURL    string    `json:"image_url" doc:"Image URL"`
	AltText     string    `json:"alt_text,omitempty" doc:"Alternative text"`
	CreatedDate time.Time `json:"created_date" doc:"Upload time"`
}

// GalleryResponse contains a post's gallery.
type GalleryResponse struct {
	Images []GalleryImageResponse `json:"images" doc:"Gallery images"`
}

// GalleryOutput wraps a gallery for Huma.
type GalleryOutput struct {
	DataSource string `header:"X-Data-Source" doc:"Which path produced the data"`
	Body       GalleryResponse
}

// === Handlers ===

func (s *Server) handleListPosts(ctx context.Context, input *ListPostsInput) (*PostListOutput, error) {
	q := service.StoryQuery{
		Category: input.Category,
		Search:   input.Query,
		Sort:     input.Sort,
	}
	if input.Featured != "" {
		featured := input.Featured == "true"
		q.Featured = &featured
	}

	return postListOutput(s.services.Stories.List(ctx, q)), nil
}

func (s *Server) handleListFeaturedPosts(ctx context.Context, input *LimitInput) (*PostListOutput, error) {
	return postListOutput(s.services.Stories.Featured(ctx, input.Limit)), nil
}

func (s *Server) handleListLatestPosts(ctx context.Context, input *LimitInput) (*PostListOutput, error) {
	return postListOutput(s.services.Stories.Latest(ctx, input.Limit)), nil
}

func (s *Server) handleGetPost(ctx context.Context, input *PostIDInput) (*PostOutput, error) {
	post := s.services.Stories.Get(ctx, input.ID)
	return &PostOutput{
		DataSource: string(post.Source),
		Body:       toPostResponse(post.Value),
	}, nil
}

func (s *Server) handleListRelatedPosts(ctx context.Context, input *RelatedPostsInput) (*PostListOutput, error) {
	return postListOutput(s.services.Stories.Related(ctx, input.ID, input.Limit)), nil
}

func (s *Server) handleListPostGallery(ctx context.Context, input *PostIDInput) (*GalleryOutput, error) {
	gallery := s.services.Stories.Gallery(ctx, input.ID)

	images := make([]GalleryImageResponse, len(gallery.Value))
	for i, img := range gallery.Value {
		images[i] = GalleryImageResponse{
			ID:          img.ID,
			PostID:      img.PostID,
			ImageURL:    img.ImageURL,
			AltText:     img.AltText,
			CreatedDate: img.CreatedDate.Time,
		}
	}

	return &GalleryOutput{
		DataSource: string(gallery.Source),
		Body:       GalleryResponse{Images: images},
	}, nil
}

// === Helpers ===

func postListOutput(posts service.Sourced[[]domain.BlogPost]) *PostListOutput {
	return &PostListOutput{
		DataSource: string(posts.Source),
		Body: PostListResponse{
			Posts: toPostResponses(posts.Value),
			Total: len(posts.Value),
		},
	}
}

func toPostResponses(posts []domain.BlogPost) []PostResponse {
	out := make([]PostResponse, len(posts))
	for i, p := range posts {
		out[i] = toPostResponse(p)
	}
	return out
}

func toPostResponse(p domain.BlogPost) PostResponse {
	return PostResponse{
		ID:            p.ID,
		Title:         p.Title,
		Excerpt:       p.Excerpt,
		Content:       p.Content,
		Author:        p.Author,
		CreatedDate:   p.CreatedDate.Time,
		Image:         p.Image,
		Category:      p.Category,
		Featured:      p.Featured,
		Destination:   p.Destination,
		DestinationID: p.DestinationID,
		GalleryImages: p.GalleryImages,
		ReadTime:      p.DisplayReadTime(),
	}
}
