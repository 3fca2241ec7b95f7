package auth

import (
	"time"
)

// GuestClaims are the claims inside a guest token. v4.local tokens are
// encrypted, so clients cannot read or forge them.
type GuestClaims struct {
	UserIdentifier string `json:"user_identifier"`

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// Identity is what a new guest receives.
type Identity struct {
	UserIdentifier string    `json:"user_identifier"`
	Token          string    `json:"token"`
	ExpiresAt      time.Time `json:"expires_at"`
}
