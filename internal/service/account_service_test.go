package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/chart-eval/internal/auth"
	"github.com/spec-kit/chart-eval/internal/domain"
	"github.com/spec-kit/chart-eval/internal/repository/memory"
	apperrors "github.com/spec-kit/chart-eval/pkg/util/errorutil"
)

func TestAccountServiceCreate(t *testing.T) {
	svc := NewAccountService(memory.NewAccountRepository())
	ctx := context.Background()

	account, err := svc.Create(ctx, CreateAccountInput{Identity: " alice ", DisplayName: "Alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "alice", account.Identity)
	assert.Equal(t, domain.RoleUser, account.Role)
	require.NotNil(t, account.PasswordHash)

	ok, err := auth.ComparePassword(*account.PasswordHash, "pw")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.Create(ctx, CreateAccountInput{Identity: "alice", DisplayName: "Again"})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestAccountServiceCreateValidation(t *testing.T) {
	svc := NewAccountService(memory.NewAccountRepository())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateAccountInput{Identity: "", DisplayName: "X"})
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.Create(ctx, CreateAccountInput{Identity: "x", DisplayName: "X", Role: "owner"})
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestAccountServiceUpdate(t *testing.T) {
	repo := memory.NewAccountRepository()
	svc := NewAccountService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateAccountInput{Identity: "alice", DisplayName: "Alice", Password: "old"})
	require.NoError(t, err)

	name := "Alice A."
	role := domain.RoleAdmin
	password := "new"
	updated, err := svc.Update(ctx, "alice", UpdateAccountInput{DisplayName: &name, Role: &role, Password: &password})
	require.NoError(t, err)
	assert.Equal(t, name, updated.DisplayName)
	assert.Equal(t, domain.RoleAdmin, updated.Role)
	assert.False(t, updated.Disabled)

	stored, err := svc.Get(ctx, "alice")
	require.NoError(t, err)
	ok, err := auth.ComparePassword(*stored.PasswordHash, "new")
	require.NoError(t, err)
	assert.True(t, ok)

	bad := domain.Role("root")
	_, err = svc.Update(ctx, "alice", UpdateAccountInput{Role: &bad})
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.Update(ctx, "ghost", UpdateAccountInput{DisplayName: &name})
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
}

func TestAccountServiceDelete(t *testing.T) {
	repo := memory.NewAccountRepository()
	svc := NewAccountService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateAccountInput{Identity: "alice", DisplayName: "Alice"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "alice"))
	assert.Zero(t, repo.Len())
	assert.ErrorIs(t, svc.Delete(ctx, "alice"), apperrors.ErrAccountNotFound)
}
