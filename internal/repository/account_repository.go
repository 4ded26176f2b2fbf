package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/chart-eval/internal/domain"
	apperrors "github.com/spec-kit/chart-eval/pkg/util/errorutil"
)

// AccountRepository is the identity store. Lookups are by primary key only.
type AccountRepository interface {
	GetByIdentity(ctx context.Context, identity string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
	// CreateIfAbsent inserts account unless the identity already exists and reports
	// whether a row was written.
	CreateIfAbsent(ctx context.Context, account *domain.Account) (bool, error)
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, identity string) error
}

type accountRepository struct {
	db DBTX
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(db DBTX) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) GetByIdentity(ctx context.Context, identity string) (*domain.Account, error) {
	const query = `
        SELECT identity, display_name, role, disabled, password_hash, created_at, updated_at
        FROM accounts WHERE identity=$1`

	var account domain.Account
	if err := r.db.QueryRow(ctx, query, identity).Scan(
		&account.Identity,
		&account.DisplayName,
		&account.Role,
		&account.Disabled,
		&account.PasswordHash,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (identity, display_name, role, disabled, password_hash)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		account.Identity,
		account.DisplayName,
		account.Role,
		account.Disabled,
		account.PasswordHash,
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	if isUniqueViolation(err) {
		return apperrors.NewConflict("account already exists", map[string]any{"identity": account.Identity})
	}
	return err
}

func (r *accountRepository) CreateIfAbsent(ctx context.Context, account *domain.Account) (bool, error) {
	const query = `
        INSERT INTO accounts (identity, display_name, role, disabled, password_hash)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (identity) DO NOTHING`

	cmd, err := r.db.Exec(ctx, query,
		account.Identity,
		account.DisplayName,
		account.Role,
		account.Disabled,
		account.PasswordHash,
	)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	const query = `
        UPDATE accounts SET display_name=$1, role=$2, disabled=$3, password_hash=$4, updated_at=NOW()
        WHERE identity=$5`

	cmd, err := r.db.Exec(ctx, query,
		account.DisplayName,
		account.Role,
		account.Disabled,
		account.PasswordHash,
		account.Identity,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, identity string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE identity=$1`, identity)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}
