package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/spec-kit/chart-eval/internal/auth"
	"github.com/spec-kit/chart-eval/internal/config"
	"github.com/spec-kit/chart-eval/internal/domain"
	"github.com/spec-kit/chart-eval/internal/repository"
	apperrors "github.com/spec-kit/chart-eval/pkg/util/errorutil"
)

// LoginInput carries the submitted credentials. Password is ignored by the
// passwordless policy.
type LoginInput struct {
	Identity string
	Password string
}

// LoginPolicy decides whether a login attempt may receive a token.
type LoginPolicy interface {
	Name() string
	// Resolve returns the account to issue a token for, and whether the account was
	// created by this call. The account may be non-nil alongside an error.
	Resolve(ctx context.Context, in LoginInput) (*domain.Account, bool, error)
}

// NewLoginPolicy returns the policy called name.
func NewLoginPolicy(name string, accounts repository.AccountRepository) (LoginPolicy, error) {
	switch name {
	case config.LoginPolicyPassword:
		return NewPasswordPolicy(accounts), nil
	case config.LoginPolicyPasswordless:
		return NewPasswordlessPolicy(accounts), nil
	default:
		return nil, apperrors.NewValidationError("unknown login policy", map[string]any{"policy": name})
	}
}

// PasswordPolicy verifies an argon2id password hash.
type PasswordPolicy struct {
	accounts repository.AccountRepository
}

// NewPasswordPolicy builds the policy.
func NewPasswordPolicy(accounts repository.AccountRepository) *PasswordPolicy {
	return &PasswordPolicy{accounts: accounts}
}

func (p *PasswordPolicy) Name() string { return config.LoginPolicyPassword }

// Resolve checks existence, then the password, then the disabled flag.
func (p *PasswordPolicy) Resolve(ctx context.Context, in LoginInput) (*domain.Account, bool, error) {
	if in.Identity == "" || in.Password == "" {
		return nil, false, apperrors.NewValidationError("identity and password required", nil)
	}

	account, err := p.accounts.GetByIdentity(ctx, in.Identity)
	if err != nil {
		return nil, false, err
	}
	if account.PasswordHash == nil {
		return nil, false, apperrors.ErrInvalidCredentials
	}
	match, err := auth.ComparePassword(*account.PasswordHash, in.Password)
	if err != nil {
		return nil, false, apperrors.NewInternalError(err)
	}
	if !match {
		return nil, false, apperrors.ErrInvalidCredentials
	}
	if account.Disabled {
		return nil, false, apperrors.ErrAccountDisabled
	}
	return account, false, nil
}

// PasswordlessPolicy trusts the submitted identity and provisions unknown accounts
// with the user role. It must only be exposed behind a trusted network boundary.
type PasswordlessPolicy struct {
	accounts repository.AccountRepository
	names    func() string
}

// NewPasswordlessPolicy builds the policy.
func NewPasswordlessPolicy(accounts repository.AccountRepository) *PasswordlessPolicy {
	return &PasswordlessPolicy{accounts: accounts, names: randomDisplayName}
}

func (p *PasswordlessPolicy) Name() string { return config.LoginPolicyPasswordless }

// Resolve inserts the account if absent, then reloads it so a concurrent first
// login and a pre-existing disabled account are both observed. Identities are
// e-mail addresses here and are compared case-insensitively.
func (p *PasswordlessPolicy) Resolve(ctx context.Context, in LoginInput) (*domain.Account, bool, error) {
	identity := normalizeEmailIdentity(in.Identity)
	if identity == "" {
		return nil, false, apperrors.NewValidationError("identity required", nil)
	}

	created, err := p.accounts.CreateIfAbsent(ctx, &domain.Account{
		Identity:    identity,
		DisplayName: p.names(),
		Role:        domain.RoleUser,
	})
	if err != nil {
		return nil, false, err
	}

	account, err := p.accounts.GetByIdentity(ctx, identity)
	if err != nil {
		return nil, false, err
	}
	if account.Disabled {
		return account, created, apperrors.ErrAccountDisabled
	}
	return account, created, nil
}

// normalizeEmailIdentity trims and lower-cases an identity claimed without a password.
func normalizeEmailIdentity(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}

func randomDisplayName() string {
	return "user-" + strings.SplitN(uuid.NewString(), "-", 2)[0]
}
