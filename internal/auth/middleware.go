package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chart-eval/internal/domain"
	"github.com/spec-kit/chart-eval/internal/observability"
	apperrors "github.com/spec-kit/chart-eval/pkg/util/errorutil"
)

const (
	principalKey = "auth_principal"
	tokenKey     = "auth_token"
)

// AuthMiddleware validates bearer tokens and loads the account behind them.
type AuthMiddleware struct {
	authenticator *Authenticator
	metrics       *observability.Metrics
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(authenticator *Authenticator, metrics *observability.Metrics) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator, metrics: metrics}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, err := BearerToken(c)
	if err != nil {
		return err
	}

	account, err := m.authenticator.Authenticate(c.UserContext(), token)
	m.metrics.RecordOutcome("authenticate", err)
	if err != nil {
		return err
	}

	c.Locals(principalKey, account)
	c.Locals(tokenKey, token)
	return c.Next()
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperrors.NewUnauthorized("invalid token format")
	}
	return strings.TrimSpace(parts[1]), nil
}

// PrincipalFromContext retrieves the authenticated account.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Account, bool) {
	account, ok := c.Locals(principalKey).(*domain.Account)
	return account, ok && account != nil
}

// TokenFromContext returns the raw token the request authenticated with.
func TokenFromContext(c *fiber.Ctx) (string, bool) {
	token, ok := c.Locals(tokenKey).(string)
	return token, ok && token != ""
}
