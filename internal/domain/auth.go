package domain

import "time"

// TokenClaims are the trusted fields of a decoded access token.
// ExpiresAt is zero when the token carries no exp claim.
type TokenClaims struct {
	Identity  string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// RevokedToken is a denylist entry. Only revoked tokens are ever persisted.
type RevokedToken struct {
	ID        int64
	Token     string
	ExpiresAt time.Time
	RevokedAt time.Time
}
