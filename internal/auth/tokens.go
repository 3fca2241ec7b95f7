package auth

import (
	"encoding/json"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/offroutechronicles/offroute-server/internal/id"
)

const (
	tokenIssuer   = "offroute-server"
	tokenAudience = "offroute-web"
)

// TokenService issues and verifies guest tokens.
type TokenService struct {
	symmetricKey paseto.V4SymmetricKey
	duration     time.Duration
	now          func() time.Time
}

// NewTokenService creates a token service from a 32-byte key.
func NewTokenService(key []byte, duration time.Duration) (*TokenService, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d bytes, got %d", keyLength, len(key))
	}

	symmetricKey, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	return &TokenService{
		symmetricKey: symmetricKey,
		duration:     duration,
		now:          time.Now,
	}, nil
}

// Issue mints a new guest identifier and a token carrying it.
func (s *TokenService) Issue() (*Identity, error) {
	now := s.now()

	userIdentifier, err := id.GuestIdentifier(now)
	if err != nil {
		return nil, err
	}

	tokenID, err := id.Generate("gt")
	if err != nil {
		return nil, fmt.Errorf("generate token ID: %w", err)
	}

	expires := now.Add(s.duration)

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetSubject(userIdentifier)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(expires)
	token.SetJti(tokenID)
	//nolint:errcheck // Token.Set only errors on invalid types, which we control
	_ = token.Set("user_identifier", userIdentifier)

	return &Identity{
		UserIdentifier: userIdentifier,
		Token:          token.V4Encrypt(s.symmetricKey, nil),
		ExpiresAt:      expires,
	}, nil
}

// Verify decrypts a guest token and checks its issuer, audience and
// validity window.
func (s *TokenService) Verify(tokenString string) (*GuestClaims, error) {
	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.ValidAt(s.now()))

	token, err := parser.ParseV4Local(s.symmetricKey, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	var claims GuestClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}
	if claims.UserIdentifier == "" {
		return nil, fmt.Errorf("invalid token: missing user_identifier")
	}

	return &claims, nil
}

// Duration returns the configured token lifetime.
func (s *TokenService) Duration() time.Duration {
	return s.duration
}
