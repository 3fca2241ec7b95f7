package service

import (
	"context"
	"log/slog"

	"github.com/offroutechronicles/offroute-server/internal/domain"
	domainerrors "github.com/offroutechronicles/offroute-server/internal/errors"
	"github.com/offroutechronicles/offroute-server/internal/facade"
	"github.com/offroutechronicles/offroute-server/internal/querycache"
	"github.com/offroutechronicles/offroute-server/internal/sse"
)

// Thread is a top-level comment with its replies.
type Thread struct {
	domain.Comment
	Replies []domain.Comment `json:"replies"`
}

// CommentService serves post comments.
type CommentService struct {
	data    *facade.Client
	cache   *querycache.Cache
	emitter sse.Emitter
	logger  *slog.Logger
}

// NewCommentService creates a new comment service. A nil emitter drops
// events.
func NewCommentService(data *facade.Client, cache *querycache.Cache, emitter sse.Emitter, logger *slog.Logger) *CommentService {
	return &CommentService{
		data:    data,
		cache:   cache,
		emitter: emitterOrNop(emitter),
		logger:  logger,
	}
}

// Thread returns a post's top-level comments, newest first, each with
// its replies, also newest first. Replies whose parent is not a
// top-level comment on the post are left out.
func (s *CommentService) Thread(ctx context.Context, postID string) Sourced[[]Thread] {
	comments := cached(ctx, s.cache, querycache.K(querycache.KeyComments, postID), func(ctx context.Context) facade.Result[[]domain.Comment] {
		return s.data.Comments.FilterResult(ctx, facade.CommentFilter{PostID: postID})
	})
	return mapSourced(comments, BuildThreads)
}

// BuildThreads groups comments, already ordered, into two-level threads.
func BuildThreads(comments []domain.Comment) []Thread {
	threads := []Thread{}
	index := map[string]int{}
	for _, c := range comments {
		if c.IsReply() {
			continue
		}
		index[c.ID] = len(threads)
		threads = append(threads, Thread{Comment: c, Replies: []domain.Comment{}})
	}
	for _, c := range comments {
		if !c.IsReply() {
			continue
		}
		if i, ok := index[c.ParentID]; ok {
			threads[i].Replies = append(threads[i].Replies, c)
		}
	}
	return threads
}

// Create stores a comment, refreshes the post's thread and announces it.
func (s *CommentService) Create(ctx context.Context, in domain.NewComment) (*domain.Comment, error) {
	res := s.data.Comments.CreateResult(ctx, in)
	if res.Value == nil {
		return nil, writeError("comment", res)
	}

	s.cache.Invalidate(ctx, querycache.K(querycache.KeyComments, res.Value.PostID))
	s.emitter.Emit(sse.NewCommentCreatedEvent(*res.Value))

	s.logger.Info("comment created",
		"comment_id", res.Value.ID,
		"post_id", res.Value.PostID,
		"reply", res.Value.IsReply(),
	)
	return res.Value, nil
}

// writeError explains why a facade write returned nothing.
func writeError[T any](entity string, res facade.Result[T]) error {
	switch {
	case res.Err != nil && domainerrors.Is(res.Err, domainerrors.ErrValidation):
		return res.Err
	case res.Source == facade.SourceMock:
		return domainerrors.Unavailable(entity + " not saved: no backend is configured")
	case res.Err != nil:
		return domainerrors.Wrap(res.Err, domainerrors.CodeUnavailable, entity+" not saved: backend unavailable")
	}
	return domainerrors.Unavailable(entity + " not saved")
}
