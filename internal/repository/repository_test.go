package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/chart-eval/internal/domain"
	apperrors "github.com/spec-kit/chart-eval/pkg/util/errorutil"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestAccountRepository_GetByIdentity(t *testing.T) {
	mock := newMock(t)
	repo := NewAccountRepository(mock)
	now := time.Now()
	hash := "$argon2id$hash"

	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE identity=$1")).
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows([]string{"identity", "display_name", "role", "disabled", "password_hash", "created_at", "updated_at"}).
			AddRow("alice", "Alice", domain.RoleAdmin, false, &hash, now, now))

	account, err := repo.GetByIdentity(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", account.Identity)
	assert.Equal(t, domain.RoleAdmin, account.Role)
	require.NotNil(t, account.PasswordHash)
	assert.Equal(t, hash, *account.PasswordHash)
}

func TestAccountRepository_GetByIdentityNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewAccountRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE identity=$1")).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByIdentity(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
}

func TestAccountRepository_CreateIfAbsent(t *testing.T) {
	mock := newMock(t)
	repo := NewAccountRepository(mock)
	account := &domain.Account{Identity: "a@example.com", DisplayName: "Quiet Otter", Role: domain.RoleUser}

	query := regexp.QuoteMeta("ON CONFLICT (identity) DO NOTHING")
	mock.ExpectExec(query).
		WithArgs(account.Identity, account.DisplayName, account.Role, false, account.PasswordHash).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(query).
		WithArgs(account.Identity, account.DisplayName, account.Role, false, account.PasswordHash).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	created, err := repo.CreateIfAbsent(context.Background(), account)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateIfAbsent(context.Background(), account)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestAccountRepository_CreateConflict(t *testing.T) {
	mock := newMock(t)
	repo := NewAccountRepository(mock)
	account := &domain.Account{Identity: "alice", DisplayName: "Alice", Role: domain.RoleUser}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO accounts")).
		WithArgs(account.Identity, account.DisplayName, account.Role, false, account.PasswordHash).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	err := repo.Create(context.Background(), account)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestAccountRepository_UpdateMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewAccountRepository(mock)
	account := &domain.Account{Identity: "ghost", DisplayName: "Ghost", Role: domain.RoleUser, Disabled: true}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts SET")).
		WithArgs(account.DisplayName, account.Role, true, account.PasswordHash, account.Identity).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), account)
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
}

func TestAccountRepository_Delete(t *testing.T) {
	mock := newMock(t)
	repo := NewAccountRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM accounts WHERE identity=$1")).
		WithArgs("alice").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM accounts WHERE identity=$1")).
		WithArgs("ghost").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), "alice"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "ghost"), apperrors.ErrAccountNotFound)
}

func TestRevokedTokenRepository_FindByToken(t *testing.T) {
	mock := newMock(t)
	repo := NewRevokedTokenRepository(mock)
	exp := time.Now().Add(time.Hour)
	query := regexp.QuoteMeta("FROM revoked_tokens WHERE token=$1")

	mock.ExpectQuery(query).WithArgs("missing").WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(query).WithArgs("tok").
		WillReturnRows(pgxmock.NewRows([]string{"id", "token", "expires_at", "revoked_at"}).
			AddRow(int64(7), "tok", exp, time.Now()))

	revoked, err := repo.FindByToken(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, revoked)

	revoked, err = repo.FindByToken(context.Background(), "tok")
	require.NoError(t, err)
	require.NotNil(t, revoked)
	assert.Equal(t, int64(7), revoked.ID)
	assert.Equal(t, "tok", revoked.Token)
}

func TestRevokedTokenRepository_InsertDuplicate(t *testing.T) {
	mock := newMock(t)
	repo := NewRevokedTokenRepository(mock)
	exp := time.Now().Add(time.Hour)
	query := regexp.QuoteMeta("INSERT INTO revoked_tokens")

	mock.ExpectQuery(query).WithArgs("tok", exp).
		WillReturnRows(pgxmock.NewRows([]string{"id", "revoked_at"}).AddRow(int64(1), time.Now()))
	mock.ExpectQuery(query).WithArgs("tok", exp).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "revoked_tokens_token_key"})

	first := &domain.RevokedToken{Token: "tok", ExpiresAt: exp}
	require.NoError(t, repo.Insert(context.Background(), first))
	assert.Equal(t, int64(1), first.ID)

	err := repo.Insert(context.Background(), &domain.RevokedToken{Token: "tok", ExpiresAt: exp})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRevoked)
}

func TestRevokedTokenRepository_DeleteExpired(t *testing.T) {
	mock := newMock(t)
	repo := NewRevokedTokenRepository(mock)
	before := time.Now()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM revoked_tokens WHERE expires_at < $1")).
		WithArgs(before).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := repo.DeleteExpired(context.Background(), before)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
