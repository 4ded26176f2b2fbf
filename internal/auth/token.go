package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/chart-eval/internal/domain"
	apperrors "github.com/spec-kit/chart-eval/pkg/util/errorutil"
)

// DefaultTokenTTL is the lifetime of an access token when none is configured.
const DefaultTokenTTL = 7 * 24 * time.Hour

// TokenManager issues and decodes HS256 access tokens. The secret is fixed for the
// life of the manager; replacing it invalidates every outstanding token.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customizes a TokenManager.
type TokenOption func(*TokenManager)

// WithClock overrides the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) { tm.now = now }
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration, opts ...TokenOption) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	tm := &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// Claims describes the JWT payload. Only sub and exp are trusted.
type Claims struct {
	jwt.RegisteredClaims
}

// Issue signs a token for identity that expires ttl from now.
func (tm *TokenManager) Issue(identity string) (string, time.Time, error) {
	if identity == "" {
		return "", time.Time{}, errors.New("identity is required")
	}
	now := tm.now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, claims.ExpiresAt.Time.UTC(), nil
}

// Decode verifies the signature and then the expiry of tokenStr.
// It returns ErrInvalidToken for malformed or forged tokens and ErrTokenExpired
// for correctly signed tokens whose exp is not in the future.
func (tm *TokenManager) Decode(tokenStr string) (*domain.TokenClaims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired.Wrap(err)
		}
		return nil, apperrors.ErrInvalidToken.Wrap(err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, apperrors.ErrInvalidToken
	}

	out := &domain.TokenClaims{Identity: claims.Subject}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	return out, nil
}
