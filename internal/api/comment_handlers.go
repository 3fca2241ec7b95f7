package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/offroutechronicles/offroute-server/internal/domain"
)

func (s *Server) registerCommentRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listComments",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/{id}/comments",
		Summary:     "List comments",
		Description: "Returns a post's comment threads, newest first. Replies are nested one level deep.",
		Tags:        []string{"Comments"},
	}, s.handleListComments)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createComment",
		Method:        http.MethodPost,
		Path:          "/api/v1/posts/{id}/comments",
		Summary:       "Create comment",
		Description:   "Adds a comment, or a reply when parent_id names a top-level comment on the same post",
		Tags:          []string{"Comments"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   huma.Middlewares{s.limitWrites},
	}, s.handleCreateComment)
}

// === DTOs ===

// CommentResponse contains comment data in API responses. The author's
// email is collected but never returned.
type CommentResponse struct {
	ID          string    `json:"id" doc:"Comment ID"`
	PostID      string    `json:"post_id" doc:"Post ID"`
	AuthorName  string    `json:"author_name" doc:"Author display name"`
	Content     string    `json:"content" doc:"Comment text"`
	ParentID    string    `json:"parent_id,omitempty" doc:"Parent comment ID for replies"`
	CreatedDate time.Time `json:"created_date" doc:"Creation time"`
}

// ThreadResponse is a top-level comment with its replies.
type ThreadResponse struct {
	CommentResponse
	Replies []CommentResponse `json:"replies" doc:"Replies, newest first"`
}

// CommentsResponse contains a post's comment threads.
type CommentsResponse struct {
	Threads []ThreadResponse `json:"threads" doc:"Top-level comments with replies"`
	Total   int              `json:"total" doc:"Number of comments, replies included"`
}

// CommentsOutput wraps comment threads for Huma.
type CommentsOutput struct {
	DataSource string `header:"X-Data-Source" doc:"Which path produced the data"`
	Body       CommentsResponse
}

// CreateCommentRequest is the request body for creating a comment.
type CreateCommentRequest struct {
	AuthorName  string `json:"author_name" minLength:"1" maxLength:"100" doc:"Author display name"`
	AuthorEmail string `json:"author_email" minLength:"3" maxLength:"254" doc:"Author email; stored, never shown"`
	Content     string `json:"content" minLength:"1" maxLength:"5000" doc:"Comment text"`
	ParentID    string `json:"parent_id,omitempty" maxLength:"128" doc:"Top-level comment to reply to"`
}

// CreateCommentInput wraps the create comment request for Huma.
type CreateCommentInput struct {
	ID   string `path:"id" maxLength:"128" doc:"Post ID"`
	Body CreateCommentRequest
}

// CommentOutput wraps a created comment for Huma.
type CommentOutput struct {
	Body CommentResponse
}

// === Handlers ===

func (s *Server) handleListComments(ctx context.Context, input *PostIDInput) (*CommentsOutput, error) {
	threads := s.services.Comments.Thread(ctx, input.ID)

	resp := CommentsResponse{Threads: make([]ThreadResponse, len(threads.Value))}
	for i, t := range threads.Value {
		replies := make([]CommentResponse, len(t.Replies))
		for j, r := range t.Replies {
			replies[j] = toCommentResponse(r)
		}
		resp.Threads[i] = ThreadResponse{
			CommentResponse: toCommentResponse(t.Comment),
			Replies:         replies,
		}
		resp.Total += 1 + len(replies)
	}

	return &CommentsOutput{
		DataSource: string(threads.Source),
		Body:       resp,
	}, nil
}

func (s *Server) handleCreateComment(ctx context.Context, input *CreateCommentInput) (*CommentOutput, error) {
	comment, err := s.services.Comments.Create(ctx, domain.NewComment{
		PostID:      input.ID,
		AuthorName:  input.Body.AuthorName,
		AuthorEmail: input.Body.AuthorEmail,
		Content:     input.Body.Content,
		ParentID:    input.Body.ParentID,
	})
	if err != nil {
		return nil, err
	}

	return &CommentOutput{Body: toCommentResponse(*comment)}, nil
}

func toCommentResponse(c domain.Comment) CommentResponse {
	return CommentResponse{
		ID:          c.ID,
		PostID:      c.PostID,
		AuthorName:  c.AuthorName,
		Content:     c.Content,
		ParentID:    c.ParentID,
		CreatedDate: c.CreatedDate.Time,
	}
}
