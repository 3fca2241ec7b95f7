package facade

import (
	"context"
	"fmt"
	"slices"

	"github.com/offroutechronicles/offroute-server/internal/backend"
	"github.com/offroutechronicles/offroute-server/internal/domain"
	domainerrors "github.com/offroutechronicles/offroute-server/internal/errors"
)

const entityComment = "comment"

// Comments reads and writes post comments.
type Comments struct {
	c *Client
}

// CommentFilter selects comments. An empty PostID selects all comments.
type CommentFilter struct {
	PostID string
}

// Filter returns matching comments, newest first.
func (cm *Comments) Filter(ctx context.Context, f CommentFilter) []domain.Comment {
	return cm.FilterResult(ctx, f).Value
}

// FilterResult is Filter with the path that produced the value.
func (cm *Comments) FilterResult(ctx context.Context, f CommentFilter) Result[[]domain.Comment] {
	q := backend.From(domain.TableComments).OrderBy("created_date", true)
	if f.PostID != "" {
		q = q.Where("post_id", f.PostID)
	}
	res := list[domain.Comment](ctx, cm.c, entityComment, "filter", q, false)
	// Backends that store created_date as text order it lexically, which
	// breaks for fractions of different widths.
	slices.SortStableFunc(res.Value, func(a, b domain.Comment) int {
		return b.CreatedDate.Compare(a.CreatedDate.Time)
	})
	return res
}

// Create stores a comment and returns it, or nil when it was rejected or
// the backend could not take it.
func (cm *Comments) Create(ctx context.Context, in domain.NewComment) *domain.Comment {
	return cm.CreateResult(ctx, in).Value
}

// CreateResult is Create with the path taken. A reply must target a
// top-level comment on the same post.
func (cm *Comments) CreateResult(ctx context.Context, in domain.NewComment) Result[*domain.Comment] {
	if err := cm.c.validator.Validate(in); err != nil {
		return Result[*domain.Comment]{Err: err}
	}

	return write[domain.Comment](ctx, cm.c, entityComment, "create", func(drv backend.Driver) (backend.Record, error) {
		if in.ParentID != "" {
			if err := cm.checkParent(ctx, drv, in); err != nil {
				return nil, err
			}
		}

		rec := backend.Record{
			"post_id":      in.PostID,
			"author_name":  in.AuthorName,
			"author_email": in.AuthorEmail,
			"content":      in.Content,
			"created_date": cm.c.timestamp(),
		}
		if in.ParentID != "" {
			rec["parent_id"] = in.ParentID
		}
		return drv.Insert(ctx, domain.TableComments, rec)
	})
}

func (cm *Comments) checkParent(ctx context.Context, drv backend.Driver, in domain.NewComment) error {
	rows, err := drv.Select(ctx, backend.From(domain.TableComments).Where("id", in.ParentID).One())
	if err != nil {
		return fmt.Errorf("load parent comment: %w", err)
	}
	parents, err := decode[domain.Comment](rows)
	if err != nil {
		return err
	}

	switch {
	case len(parents) == 0:
		return domainerrors.Validationf("parent comment %s not found", in.ParentID)
	case parents[0].PostID != in.PostID:
		return domainerrors.Validation("parent comment belongs to another post")
	case parents[0].IsReply():
		return domainerrors.Validation("replies cannot be replied to")
	}
	return nil
}
