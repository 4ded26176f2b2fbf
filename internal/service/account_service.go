package service

import (
	"context"
	"strings"

	"github.com/spec-kit/chart-eval/internal/auth"
	"github.com/spec-kit/chart-eval/internal/domain"
	"github.com/spec-kit/chart-eval/internal/repository"
	apperrors "github.com/spec-kit/chart-eval/pkg/util/errorutil"
)

// CreateAccountInput describes a new account created by an admin.
type CreateAccountInput struct {
	Identity    string
	DisplayName string
	Role        domain.Role
	Disabled    bool
	Password    string
}

// UpdateAccountInput holds optional changes; nil fields are left as they are.
type UpdateAccountInput struct {
	DisplayName *string
	Role        *domain.Role
	Disabled    *bool
	Password    *string
}

// AccountService manages accounts on behalf of admins.
type AccountService struct {
	accounts repository.AccountRepository
}

// NewAccountService builds the service.
func NewAccountService(accounts repository.AccountRepository) *AccountService {
	return &AccountService{accounts: accounts}
}

// Get returns the account for identity.
func (s *AccountService) Get(ctx context.Context, identity string) (*domain.Account, error) {
	return s.accounts.GetByIdentity(ctx, identity)
}

// Create stores a new account, hashing the password when one is given.
func (s *AccountService) Create(ctx context.Context, in CreateAccountInput) (*domain.Account, error) {
	identity := strings.TrimSpace(in.Identity)
	if identity == "" || strings.TrimSpace(in.DisplayName) == "" {
		return nil, apperrors.NewValidationError("identity and display name required", nil)
	}
	if in.Role == "" {
		in.Role = domain.RoleUser
	}
	if !in.Role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": in.Role})
	}

	account := &domain.Account{
		Identity:    identity,
		DisplayName: in.DisplayName,
		Role:        in.Role,
		Disabled:    in.Disabled,
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		account.PasswordHash = &hash
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Update applies in to the account. Setting Disabled takes effect for every
// outstanding token of the account on its next use.
func (s *AccountService) Update(ctx context.Context, identity string, in UpdateAccountInput) (*domain.Account, error) {
	account, err := s.accounts.GetByIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}

	if in.DisplayName != nil {
		account.DisplayName = *in.DisplayName
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": *in.Role})
		}
		account.Role = *in.Role
	}
	if in.Disabled != nil {
		account.Disabled = *in.Disabled
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		account.PasswordHash = &hash
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Delete removes the account. Its outstanding tokens then fail with ErrAccountNotFound.
func (s *AccountService) Delete(ctx context.Context, identity string) error {
	return s.accounts.Delete(ctx, identity)
}
