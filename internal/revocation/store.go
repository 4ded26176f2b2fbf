// Package revocation implements the access-token denylist.
//
// Postgres is the source of truth. When a Redis client is configured, successful
// revocations are also written to Redis with a TTL ending at the token's expiry, and
// lookups consult Redis first. Only positive answers are cached: a revoked token can
// never become valid again, so a cached hit is never stale.
package revocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/chart-eval/internal/domain"
	"github.com/spec-kit/chart-eval/internal/repository"
	apperrors "github.com/spec-kit/chart-eval/pkg/util/errorutil"
)

const cacheKeyPrefix = "revoked:"

// Store checks and records revoked tokens.
type Store struct {
	repo   repository.RevokedTokenRepository
	cache  redis.Cmdable
	logger *zap.Logger
	now    func() time.Time
}

// NewStore builds a Store. cache may be nil.
func NewStore(repo repository.RevokedTokenRepository, cache redis.Cmdable, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{repo: repo, cache: cache, logger: logger, now: time.Now}
}

// IsRevoked reports whether token has an entry in the denylist.
func (s *Store) IsRevoked(ctx context.Context, token string) (bool, error) {
	if s.cache != nil {
		n, err := s.cache.Exists(ctx, cacheKey(token)).Result()
		if err != nil {
			s.logger.Warn("revocation cache lookup failed", zap.Error(err))
		} else if n > 0 {
			return true, nil
		}
	}

	revoked, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return false, err
	}
	return revoked != nil, nil
}

// Revoke records token as revoked until expiresAt. A second revocation of the same
// token fails with ErrAlreadyRevoked; the unique constraint on the token column
// settles concurrent revocations.
func (s *Store) Revoke(ctx context.Context, token string, expiresAt time.Time) (*domain.RevokedToken, error) {
	existing, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrAlreadyRevoked
	}
	if expiresAt.IsZero() {
		return nil, apperrors.ErrMissingExpiry
	}

	revoked := &domain.RevokedToken{Token: token, ExpiresAt: expiresAt}
	if err := s.repo.Insert(ctx, revoked); err != nil {
		return nil, err
	}

	s.remember(ctx, token, expiresAt)
	return revoked, nil
}

// PruneExpired removes entries whose token expired before cutoff. Expired tokens
// already fail decoding, so their denylist entries no longer matter.
func (s *Store) PruneExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.repo.DeleteExpired(ctx, cutoff)
}

func (s *Store) remember(ctx context.Context, token string, expiresAt time.Time) {
	if s.cache == nil {
		return
	}
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(token), "1", ttl).Err(); err != nil {
		s.logger.Warn("revocation cache write failed", zap.Error(err))
	}
}

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
