package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/chart-eval/internal/domain"
	apperrors "github.com/spec-kit/chart-eval/pkg/util/errorutil"
)

// RevokedTokenRepository persists the token denylist. Tokens are matched by exact value.
type RevokedTokenRepository interface {
	// FindByToken returns nil without error when token has not been revoked.
	FindByToken(ctx context.Context, token string) (*domain.RevokedToken, error)
	// Insert fails with ErrAlreadyRevoked when token is already present.
	Insert(ctx context.Context, revoked *domain.RevokedToken) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type revokedTokenRepository struct {
	db DBTX
}

// NewRevokedTokenRepository returns a Postgres-backed implementation.
func NewRevokedTokenRepository(db DBTX) RevokedTokenRepository {
	return &revokedTokenRepository{db: db}
}

func (r *revokedTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RevokedToken, error) {
	const query = `
        SELECT id, token, expires_at, revoked_at
        FROM revoked_tokens WHERE token=$1`

	var revoked domain.RevokedToken
	if err := r.db.QueryRow(ctx, query, token).Scan(
		&revoked.ID,
		&revoked.Token,
		&revoked.ExpiresAt,
		&revoked.RevokedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &revoked, nil
}

func (r *revokedTokenRepository) Insert(ctx context.Context, revoked *domain.RevokedToken) error {
	const query = `
        INSERT INTO revoked_tokens (token, expires_at)
        VALUES ($1, $2)
        RETURNING id, revoked_at`

	err := r.db.QueryRow(ctx, query, revoked.Token, revoked.ExpiresAt).Scan(&revoked.ID, &revoked.RevokedAt)
	if isUniqueViolation(err) {
		return apperrors.ErrAlreadyRevoked.Wrap(err)
	}
	return err
}

func (r *revokedTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	const query = `DELETE FROM revoked_tokens WHERE expires_at < $1`

	cmd, err := r.db.Exec(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
