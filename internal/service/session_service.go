package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/chart-eval/internal/auth"
	"github.com/spec-kit/chart-eval/internal/domain"
	"github.com/spec-kit/chart-eval/internal/events"
	"github.com/spec-kit/chart-eval/internal/observability"
	"github.com/spec-kit/chart-eval/internal/repository"
)

// TokenRevoker records a token on the denylist.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) (*domain.RevokedToken, error)
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Account   *domain.Account
}

// SessionService issues tokens on login and revokes them on request.
type SessionService struct {
	tokens      *auth.TokenManager
	policy      LoginPolicy
	accounts    repository.AccountRepository
	revocations TokenRevoker
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// SessionDependencies encapsulates collaborators for the session service.
type SessionDependencies struct {
	Tokens      *auth.TokenManager
	Policy      LoginPolicy
	Accounts    repository.AccountRepository
	Revocations TokenRevoker
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

// NewSessionService builds the service.
func NewSessionService(deps SessionDependencies) *SessionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		tokens:      deps.Tokens,
		policy:      deps.Policy,
		accounts:    deps.Accounts,
		revocations: deps.Revocations,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      logger,
	}
}

// Policy returns the active login policy.
func (s *SessionService) Policy() LoginPolicy {
	return s.policy
}

// Login resolves the account through the active policy and issues a token.
// No token is issued when the policy rejects the attempt.
func (s *SessionService) Login(ctx context.Context, in LoginInput) (session *Session, err error) {
	defer func() { s.metrics.RecordOutcome("login", err) }()

	account, provisioned, err := s.policy.Resolve(ctx, in)
	if provisioned && account != nil {
		s.publish(ctx, events.EventAccountProvisioned, account.Identity, events.AccountProvisionedPayload{
			DisplayName: account.DisplayName,
			Role:        account.Role,
		})
	}
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(account.Identity)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventSessionIssued, account.Identity, events.SessionIssuedPayload{
		Policy:    s.policy.Name(),
		Role:      account.Role,
		ExpiresAt: expiresAt,
	})
	return &Session{Token: token, ExpiresAt: expiresAt, Account: account}, nil
}

// Revoke decodes token, confirms its account exists and adds it to the denylist.
// Decode failures return before any store is touched.
func (s *SessionService) Revoke(ctx context.Context, token string) (revoked *domain.RevokedToken, err error) {
	defer func() { s.metrics.RecordOutcome("revoke", err) }()

	claims, err := s.tokens.Decode(token)
	if err != nil {
		return nil, err
	}
	if _, err := s.accounts.GetByIdentity(ctx, claims.Identity); err != nil {
		return nil, err
	}

	revoked, err = s.revocations.Revoke(ctx, token, claims.ExpiresAt)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTokenRevoked, claims.Identity, events.TokenRevokedPayload{
		RevocationID: revoked.ID,
		ExpiresAt:    revoked.ExpiresAt,
	})
	return revoked, nil
}

func (s *SessionService) publish(ctx context.Context, eventType events.EventType, identity string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Identity:  identity,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}
