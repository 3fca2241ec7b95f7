package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/offroutechronicles/offroute-server/internal/auth"
	domainerrors "github.com/offroutechronicles/offroute-server/internal/errors"
)

func (s *Server) registerIdentityRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createIdentity",
		Method:        http.MethodPost,
		Path:          "/api/v1/identity",
		Summary:       "Create guest identity",
		Description:   "Issues a guest user identifier and the token that proves it. Reactions require the token.",
		Tags:          []string{"Identity"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   huma.Middlewares{s.limitWrites},
	}, s.handleCreateIdentity)
}

// IdentityOutput wraps a new guest identity for Huma.
type IdentityOutput struct {
	Body *auth.Identity
}

func (s *Server) handleCreateIdentity(_ context.Context, _ *struct{}) (*IdentityOutput, error) {
	if s.services.Tokens == nil {
		return nil, domainerrors.Unavailable("guest identities are not enabled")
	}

	identity, err := s.services.Tokens.Issue()
	if err != nil {
		s.logger.Error("issue guest identity", "error", err)
		return nil, domainerrors.Internal("could not issue a guest identity")
	}

	s.logger.Debug("guest identity issued", "user_identifier", identity.UserIdentifier)
	return &IdentityOutput{Body: identity}, nil
}
