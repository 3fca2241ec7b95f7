package facade

import (
	"context"
	"strings"

	"github.com/offroutechronicles/offroute-server/internal/backend"
	"github.com/offroutechronicles/offroute-server/internal/domain"
)

const (
	entityReaction   = "reaction"
	entitySubscriber = "subscriber"
)

// Reactions reads and writes guest reactions.
type Reactions struct {
	c *Client
}

// ReactionFilter combines its non-empty fields with AND.
type ReactionFilter struct {
	EntityType     domain.EntityType
	EntityID       string
	UserIdentifier string
}

// Filter returns the matching reactions. The mock dataset has none.
func (r *Reactions) Filter(ctx context.Context, f ReactionFilter) []domain.Reaction {
	return r.FilterResult(ctx, f).Value
}

// FilterResult is Filter with the path that produced the value.
func (r *Reactions) FilterResult(ctx context.Context, f ReactionFilter) Result[[]domain.Reaction] {
	q := backend.From(domain.TableReactions)
	if f.EntityType != "" {
		q = q.Where("entity_type", string(f.EntityType))
	}
	if f.EntityID != "" {
		q = q.Where("entity_id", f.EntityID)
	}
	if f.UserIdentifier != "" {
		q = q.Where("user_identifier", f.UserIdentifier)
	}
	return list[domain.Reaction](ctx, r.c, entityReaction, "filter", q, false)
}

// Create stores a reaction and returns it, or nil.
func (r *Reactions) Create(ctx context.Context, in domain.NewReaction) *domain.Reaction {
	return r.CreateResult(ctx, in).Value
}

// CreateResult is Create with the path taken.
func (r *Reactions) CreateResult(ctx context.Context, in domain.NewReaction) Result[*domain.Reaction] {
	if err := r.c.validator.Validate(in); err != nil {
		return Result[*domain.Reaction]{Err: err}
	}
	return write[domain.Reaction](ctx, r.c, entityReaction, "create", func(drv backend.Driver) (backend.Record, error) {
		return drv.Insert(ctx, domain.TableReactions, r.record(in))
	})
}

// Upsert replaces the caller's reaction on an entity in one call, keyed
// on (entity_type, entity_id, user_identifier). Unlike Delete followed by
// Create, readers never see the user without a reaction in between.
func (r *Reactions) Upsert(ctx context.Context, in domain.NewReaction) *domain.Reaction {
	return r.UpsertResult(ctx, in).Value
}

// UpsertResult is Upsert with the path taken.
func (r *Reactions) UpsertResult(ctx context.Context, in domain.NewReaction) Result[*domain.Reaction] {
	if err := r.c.validator.Validate(in); err != nil {
		return Result[*domain.Reaction]{Err: err}
	}
	return write[domain.Reaction](ctx, r.c, entityReaction, "upsert", func(drv backend.Driver) (backend.Record, error) {
		return drv.Upsert(ctx, domain.TableReactions, r.record(in), domain.ReactionKey)
	})
}

// Delete removes a reaction by id. It reports true only when the backend
// deleted a row.
func (r *Reactions) Delete(ctx context.Context, id string) bool {
	return r.DeleteResult(ctx, id).Value
}

// DeleteResult is Delete with the path taken.
func (r *Reactions) DeleteResult(ctx context.Context, id string) Result[bool] {
	drv, err := r.c.driver(ctx)
	if err != nil {
		r.c.warn(entityReaction, "delete", err)
		return Result[bool]{Source: SourceFallback, Err: err}
	}
	if drv == nil {
		return Result[bool]{Source: SourceMock}
	}

	n, err := drv.Delete(ctx, domain.TableReactions, []backend.Filter{backend.Eq("id", id)})
	if err != nil {
		r.c.warn(entityReaction, "delete", err)
		return Result[bool]{Source: SourceFallback, Err: err}
	}
	return Result[bool]{Value: n > 0, Source: SourceRemote}
}

func (r *Reactions) record(in domain.NewReaction) backend.Record {
	return backend.Record{
		"entity_type":     string(in.EntityType),
		"entity_id":       in.EntityID,
		"reaction_type":   string(in.ReactionType),
		"user_identifier": in.UserIdentifier,
		"created_date":    r.c.timestamp(),
	}
}

// Subscribers writes newsletter signups.
type Subscribers struct {
	c *Client
}

// Create stores a signup and returns it, or nil.
func (s *Subscribers) Create(ctx context.Context, email string) *domain.Subscriber {
	return s.CreateResult(ctx, email).Value
}

// CreateResult is Create with the path taken.
func (s *Subscribers) CreateResult(ctx context.Context, email string) Result[*domain.Subscriber] {
	in := domain.NewSubscriber{Email: strings.TrimSpace(email)}
	if err := s.c.validator.Validate(in); err != nil {
		return Result[*domain.Subscriber]{Err: err}
	}
	return write[domain.Subscriber](ctx, s.c, entitySubscriber, "create", func(drv backend.Driver) (backend.Record, error) {
		return drv.Insert(ctx, domain.TableSubscribers, backend.Record{
			"email":        in.Email,
			"created_date": s.c.timestamp(),
		})
	})
}
