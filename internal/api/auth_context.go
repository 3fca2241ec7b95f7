package api

import (
	"strings"

	domainerrors "github.com/offroutechronicles/offroute-server/internal/errors"
)

// guestIdentity validates a "Bearer <token>" header and returns the guest
// user identifier the token was issued for.
func (s *Server) guestIdentity(authHeader string) (string, error) {
	if authHeader == "" {
		return "", domainerrors.Unauthorized("missing guest token")
	}

	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || token == "" {
		return "", domainerrors.Unauthorized("invalid authorization header format")
	}

	if s.services.Tokens == nil {
		return "", domainerrors.Unavailable("guest identities are not enabled")
	}

	claims, err := s.services.Tokens.Verify(token)
	if err != nil {
		return "", domainerrors.Unauthorized("invalid or expired guest token")
	}
	return claims.UserIdentifier, nil
}

// optionalGuestIdentity is guestIdentity for endpoints that also serve
// anonymous callers. A missing or bad token yields "".
func (s *Server) optionalGuestIdentity(authHeader string) string {
	if authHeader == "" {
		return ""
	}
	user, err := s.guestIdentity(authHeader)
	if err != nil {
		s.logger.Debug("ignoring guest token", "error", err)
		return ""
	}
	return user
}
