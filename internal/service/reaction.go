package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/offroutechronicles/offroute-server/internal/config"
	"github.com/offroutechronicles/offroute-server/internal/domain"
	domainerrors "github.com/offroutechronicles/offroute-server/internal/errors"
	"github.com/offroutechronicles/offroute-server/internal/facade"
	"github.com/offroutechronicles/offroute-server/internal/querycache"
	"github.com/offroutechronicles/offroute-server/internal/sse"
)

// DefaultSwitchDelay separates the delete and the create of a reaction
// switch in toggle mode.
const DefaultSwitchDelay = 100 * time.Millisecond

// ReactionSummary is what a reaction bar shows for one entity.
type ReactionSummary struct {
	EntityType domain.EntityType           `json:"entity_type"`
	EntityID   string                      `json:"entity_id"`
	Counts     map[domain.ReactionType]int `json:"counts"`
	Total      int                         `json:"total"`

	// UserReaction is the caller's current reaction, or empty.
	UserReaction domain.ReactionType `json:"user_reaction,omitempty"`
}

// ToggleAction says what a toggle did.
type ToggleAction string

// Toggle outcomes.
const (
	ToggleAdded    ToggleAction = "added"
	ToggleRemoved  ToggleAction = "removed"
	ToggleSwitched ToggleAction = "switched"
)

// ToggleResult is the outcome of a toggle with the summary after it.
type ToggleResult struct {
	Action  ToggleAction    `json:"action"`
	Summary ReactionSummary `json:"summary"`
}

// ReactionService serves reaction counts and applies toggles.
type ReactionService struct {
	data        *facade.Client
	cache       *querycache.Cache
	emitter     sse.Emitter
	mode        string
	switchDelay time.Duration
	logger      *slog.Logger
}

// NewReactionService creates a new reaction service. cfg.Mode selects
// between the two-step toggle and the atomic upsert.
func NewReactionService(data *facade.Client, cache *querycache.Cache, emitter sse.Emitter, cfg config.ReactionConfig, logger *slog.Logger) *ReactionService {
	mode := cfg.Mode
	if mode == "" {
		mode = config.ReactionModeToggle
	}
	delay := cfg.SwitchDelay
	if delay < 0 {
		delay = DefaultSwitchDelay
	}
	return &ReactionService{
		data:        data,
		cache:       cache,
		emitter:     emitterOrNop(emitter),
		mode:        mode,
		switchDelay: delay,
		logger:      logger,
	}
}

func validateTarget(entityType domain.EntityType, entityID string) error {
	if !entityType.Valid() {
		return domainerrors.Validationf("unknown entity type %q", entityType)
	}
	if entityID == "" {
		return domainerrors.Validation("entity id is required")
	}
	return nil
}

func reactionsKey(entityType domain.EntityType, entityID string) querycache.Key {
	return querycache.K(querycache.KeyReactions, string(entityType), entityID)
}

func userReactionKey(entityType domain.EntityType, entityID, user string) querycache.Key {
	return querycache.K(querycache.KeyUserReaction, string(entityType), entityID, user)
}

// Summary returns per-type counts for an entity and, when user is set,
// that user's current reaction. Every reaction type has a count.
func (s *ReactionService) Summary(ctx context.Context, entityType domain.EntityType, entityID, user string) (Sourced[ReactionSummary], error) {
	if err := validateTarget(entityType, entityID); err != nil {
		return Sourced[ReactionSummary]{}, err
	}

	reactions := cached(ctx, s.cache, reactionsKey(entityType, entityID), func(ctx context.Context) facade.Result[[]domain.Reaction] {
		return s.data.Reactions.FilterResult(ctx, facade.ReactionFilter{EntityType: entityType, EntityID: entityID})
	})

	summary := ReactionSummary{
		EntityType: entityType,
		EntityID:   entityID,
		Counts:     make(map[domain.ReactionType]int, len(domain.ReactionTypes)),
	}
	for _, t := range domain.ReactionTypes {
		summary.Counts[t] = 0
	}
	for _, r := range reactions.Value {
		if _, ok := summary.Counts[r.ReactionType]; ok {
			summary.Counts[r.ReactionType]++
			summary.Total++
		}
	}

	if user != "" {
		if mine := s.userReaction(ctx, entityType, entityID, user); mine.Value != nil {
			summary.UserReaction = mine.Value.ReactionType
		}
	}

	return Sourced[ReactionSummary]{Value: summary, Source: reactions.Source}, nil
}

func (s *ReactionService) userReaction(ctx context.Context, entityType domain.EntityType, entityID, user string) Sourced[*domain.Reaction] {
	return cached(ctx, s.cache, userReactionKey(entityType, entityID, user), func(ctx context.Context) facade.Result[*domain.Reaction] {
		return s.current(ctx, entityType, entityID, user)
	})
}

// current reads the user's reaction from the facade, bypassing the cache.
func (s *ReactionService) current(ctx context.Context, entityType domain.EntityType, entityID, user string) facade.Result[*domain.Reaction] {
	res := s.data.Reactions.FilterResult(ctx, facade.ReactionFilter{
		EntityType:     entityType,
		EntityID:       entityID,
		UserIdentifier: user,
	})
	out := facade.Result[*domain.Reaction]{Source: res.Source, Err: res.Err}
	if len(res.Value) > 0 {
		r := res.Value[0]
		out.Value = &r
	}
	return out
}

// Toggle applies a reaction click:
//   - clicking the current reaction removes it;
//   - clicking another type replaces it;
//   - with no reaction, it adds one.
//
// In toggle mode a replacement is a delete, a pause of the switch delay,
// then a create. Readers may see the user without a reaction in between,
// and a failed create leaves it removed. In atomic mode replacements and
// additions are a single upsert.
func (s *ReactionService) Toggle(ctx context.Context, entityType domain.EntityType, entityID, user string, reactionType domain.ReactionType) (*ToggleResult, error) {
	if err := validateTarget(entityType, entityID); err != nil {
		return nil, err
	}
	if !reactionType.Valid() {
		return nil, domainerrors.Validationf("unknown reaction type %q", reactionType)
	}
	if user == "" {
		return nil, domainerrors.Unauthorized("a guest identity is required to react")
	}

	in := domain.NewReaction{
		EntityType:     entityType,
		EntityID:       entityID,
		ReactionType:   reactionType,
		UserIdentifier: user,
	}

	cur := s.current(ctx, entityType, entityID, user)
	if cur.Source == facade.SourceMock {
		return nil, domainerrors.Unavailable("reaction not saved: no backend is configured")
	}
	if cur.Err != nil {
		return nil, domainerrors.Wrap(cur.Err, domainerrors.CodeUnavailable, "reaction not saved: backend unavailable")
	}

	var (
		action ToggleAction
		err    error
	)
	switch {
	case cur.Value != nil && cur.Value.ReactionType == reactionType:
		action = ToggleRemoved
		err = s.remove(ctx, cur.Value.ID)
	case cur.Value != nil:
		action = ToggleSwitched
		err = s.replace(ctx, cur.Value.ID, in)
	default:
		action = ToggleAdded
		err = s.add(ctx, in)
	}

	s.cache.Invalidate(ctx,
		reactionsKey(entityType, entityID),
		userReactionKey(entityType, entityID, user),
	)
	if err != nil {
		return nil, err
	}

	summary, err := s.Summary(ctx, entityType, entityID, user)
	if err != nil {
		return nil, err
	}

	s.emitter.Emit(sse.NewReactionChangedEvent(sse.ReactionChangedData{
		EntityType:     entityType,
		EntityID:       entityID,
		UserIdentifier: user,
		Reaction:       summary.Value.UserReaction,
		Counts:         summary.Value.Counts,
		Total:          summary.Value.Total,
	}))

	s.logger.Debug("reaction toggled",
		"entity_type", entityType,
		"entity_id", entityID,
		"reaction", reactionType,
		"action", action,
		"mode", s.mode,
	)
	return &ToggleResult{Action: action, Summary: summary.Value}, nil
}

func (s *ReactionService) remove(ctx context.Context, id string) error {
	res := s.data.Reactions.DeleteResult(ctx, id)
	if res.Err != nil || res.Source == facade.SourceMock {
		return writeError("reaction", res)
	}
	return nil
}

func (s *ReactionService) add(ctx context.Context, in domain.NewReaction) error {
	var res facade.Result[*domain.Reaction]
	if s.mode == config.ReactionModeAtomic {
		res = s.data.Reactions.UpsertResult(ctx, in)
	} else {
		res = s.data.Reactions.CreateResult(ctx, in)
	}
	if res.Value == nil {
		return writeError("reaction", res)
	}
	return nil
}

func (s *ReactionService) replace(ctx context.Context, oldID string, in domain.NewReaction) error {
	if s.mode == config.ReactionModeAtomic {
		return s.add(ctx, in)
	}

	if err := s.remove(ctx, oldID); err != nil {
		return err
	}

	s.logger.Debug("reaction switch: removed old reaction, creating new one after delay",
		"entity_type", in.EntityType,
		"entity_id", in.EntityID,
		"delay", s.switchDelay,
	)

	timer := time.NewTimer(s.switchDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return ctx.Err()
	}

	return s.add(ctx, in)
}
