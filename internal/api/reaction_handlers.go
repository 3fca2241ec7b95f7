package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/offroutechronicles/offroute-server/internal/domain"
	"github.com/offroutechronicles/offroute-server/internal/service"
)

func (s *Server) registerReactionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getReactions",
		Method:      http.MethodGet,
		Path:        "/api/v1/reactions/{entity_type}/{entity_id}",
		Summary:     "Get reactions",
		Description: "Returns per-type reaction counts. With a guest token, also the caller's reaction.",
		Tags:        []string{"Reactions"},
	}, s.handleGetReactions)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleReaction",
		Method:      http.MethodPost,
		Path:        "/api/v1/reactions/{entity_type}/{entity_id}",
		Summary:     "Toggle reaction",
		Description: "Adds the reaction, removes it when it is already the caller's, or switches to it",
		Tags:        []string{"Reactions"},
		Security:    []map[string][]string{{"guest": {}}},
		Middlewares: huma.Middlewares{s.limitWrites},
	}, s.handleToggleReaction)
}

// === DTOs ===

// ReactionTargetInput identifies the entity being reacted to.
type ReactionTargetInput struct {
	Authorization string `header:"Authorization" doc:"Optional guest token, Bearer <token>"`
	EntityType    string `path:"entity_type" enum:"blog_post,destination" doc:"Kind of entity"`
	EntityID      string `path:"entity_id" maxLength:"128" doc:"Entity ID"`
}

// ToggleReactionRequest is the request body for toggling a reaction.
type ToggleReactionRequest struct {
	ReactionType string `json:"reaction_type" enum:"like,love,wow,inspire" doc:"Reaction to toggle"`
}

// ToggleReactionInput wraps the toggle request for Huma.
type ToggleReactionInput struct {
	Authorization string `header:"Authorization" doc:"Guest token, Bearer <token>"`
	EntityType    string `path:"entity_type" enum:"blog_post,destination" doc:"Kind of entity"`
	EntityID      string `path:"entity_id" maxLength:"128" doc:"Entity ID"`
	Body          ToggleReactionRequest
}

// ReactionSummaryOutput wraps a reaction summary for Huma.
type ReactionSummaryOutput struct {
	DataSource string `header:"X-Data-Source" doc:"Which path produced the data"`
	Body       service.ReactionSummary
}

// ToggleReactionOutput wraps a toggle result for Huma.
type ToggleReactionOutput struct {
	Body service.ToggleResult
}

// === Handlers ===

func (s *Server) handleGetReactions(ctx context.Context, input *ReactionTargetInput) (*ReactionSummaryOutput, error) {
	user := s.optionalGuestIdentity(input.Authorization)

	summary, err := s.services.Reactions.Summary(ctx, domain.EntityType(input.EntityType), input.EntityID, user)
	if err != nil {
		return nil, err
	}

	return &ReactionSummaryOutput{
		DataSource: string(summary.Source),
		Body:       summary.Value,
	}, nil
}

func (s *Server) handleToggleReaction(ctx context.Context, input *ToggleReactionInput) (*ToggleReactionOutput, error) {
	user, err := s.guestIdentity(input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Reactions.Toggle(ctx,
		domain.EntityType(input.EntityType),
		input.EntityID,
		user,
		domain.ReactionType(input.Body.ReactionType),
	)
	if err != nil {
		return nil, err
	}

	return &ToggleReactionOutput{Body: *result}, nil
}
