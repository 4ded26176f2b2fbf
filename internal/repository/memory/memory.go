// Package memory provides in-memory repositories with the same contracts as the
// Postgres ones. Used by tests and local runs without a database.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/chart-eval/internal/domain"
	"github.com/spec-kit/chart-eval/internal/repository"
	apperrors "github.com/spec-kit/chart-eval/pkg/util/errorutil"
)

var (
	_ repository.AccountRepository      = (*AccountRepository)(nil)
	_ repository.RevokedTokenRepository = (*RevokedTokenRepository)(nil)
)

// AccountRepository stores accounts keyed by identity.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
	lookups  int
}

// NewAccountRepository returns an empty store.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[string]domain.Account)}
}

// Lookups returns how many GetByIdentity calls were served.
func (r *AccountRepository) Lookups() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookups
}

// Len returns the number of stored accounts.
func (r *AccountRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}

func (r *AccountRepository) GetByIdentity(_ context.Context, identity string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	account, ok := r.accounts[identity]
	if !ok {
		return nil, apperrors.ErrAccountNotFound
	}
	return &account, nil
}

func (r *AccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.Identity]; ok {
		return apperrors.NewConflict("account already exists", map[string]any{"identity": account.Identity})
	}
	r.insert(account)
	return nil
}

func (r *AccountRepository) CreateIfAbsent(_ context.Context, account *domain.Account) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.Identity]; ok {
		return false, nil
	}
	r.insert(account)
	return true, nil
}

func (r *AccountRepository) Update(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.accounts[account.Identity]
	if !ok {
		return apperrors.ErrAccountNotFound
	}
	account.CreatedAt = existing.CreatedAt
	account.UpdatedAt = time.Now()
	r.accounts[account.Identity] = *account
	return nil
}

func (r *AccountRepository) Delete(_ context.Context, identity string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[identity]; !ok {
		return apperrors.ErrAccountNotFound
	}
	delete(r.accounts, identity)
	return nil
}

func (r *AccountRepository) insert(account *domain.Account) {
	account.Identity = strings.Clone(account.Identity)
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	r.accounts[account.Identity] = *account
}

// RevokedTokenRepository stores revoked tokens with a unique index on the token.
type RevokedTokenRepository struct {
	mu      sync.RWMutex
	byToken map[string]domain.RevokedToken
	nextID  int64
	lookups int
}

// NewRevokedTokenRepository returns an empty store.
func NewRevokedTokenRepository() *RevokedTokenRepository {
	return &RevokedTokenRepository{byToken: make(map[string]domain.RevokedToken)}
}

// Lookups returns how many FindByToken calls were served.
func (r *RevokedTokenRepository) Lookups() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookups
}

// Len returns the number of stored entries.
func (r *RevokedTokenRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byToken)
}

func (r *RevokedTokenRepository) FindByToken(_ context.Context, token string) (*domain.RevokedToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	revoked, ok := r.byToken[token]
	if !ok {
		return nil, nil
	}
	return &revoked, nil
}

func (r *RevokedTokenRepository) Insert(_ context.Context, revoked *domain.RevokedToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byToken[revoked.Token]; ok {
		return apperrors.ErrAlreadyRevoked
	}
	r.nextID++
	revoked.ID = r.nextID
	revoked.Token = strings.Clone(revoked.Token)
	revoked.RevokedAt = time.Now()
	r.byToken[revoked.Token] = *revoked
	return nil
}

func (r *RevokedTokenRepository) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for token, revoked := range r.byToken {
		if revoked.ExpiresAt.Before(before) {
			delete(r.byToken, token)
			n++
		}
	}
	return n, nil
}
