package auth

import (
	"context"

	"github.com/spec-kit/chart-eval/internal/domain"
	apperrors "github.com/spec-kit/chart-eval/pkg/util/errorutil"
)

// AccountReader looks up accounts by identity. Missing accounts yield ErrAccountNotFound.
type AccountReader interface {
	GetByIdentity(ctx context.Context, identity string) (*domain.Account, error)
}

// RevocationChecker answers exact-match denylist queries.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Authenticator turns a presented token into an account or a typed rejection.
type Authenticator struct {
	tokens      *TokenManager
	accounts    AccountReader
	revocations RevocationChecker
}

// NewAuthenticator wires the codec and both stores.
func NewAuthenticator(tokens *TokenManager, accounts AccountReader, revocations RevocationChecker) *Authenticator {
	return &Authenticator{tokens: tokens, accounts: accounts, revocations: revocations}
}

// Authenticate checks, in order: signature and expiry, account existence, disabled
// flag, revocation. The first failure is returned and later checks do not run.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*domain.Account, error) {
	claims, err := a.tokens.Decode(token)
	if err != nil {
		return nil, err
	}

	account, err := a.accounts.GetByIdentity(ctx, claims.Identity)
	if err != nil {
		return nil, err
	}
	if account.Disabled {
		return nil, apperrors.ErrAccountDisabled
	}

	revoked, err := a.revocations.IsRevoked(ctx, token)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperrors.ErrTokenRevoked
	}
	return account, nil
}

// Authorize authenticates token and then requires the account to hold role.
// The role check always runs last so a disabled or revoked admin token reports that
// condition rather than ErrInsufficientRole.
func (a *Authenticator) Authorize(ctx context.Context, token string, role domain.Role) (*domain.Account, error) {
	account, err := a.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := RequireRole(account, role); err != nil {
		return nil, err
	}
	return account, nil
}

// RequireRole fails with ErrInsufficientRole unless account holds role.
func RequireRole(account *domain.Account, role domain.Role) error {
	if account == nil || account.Role != role {
		return apperrors.ErrInsufficientRole
	}
	return nil
}

