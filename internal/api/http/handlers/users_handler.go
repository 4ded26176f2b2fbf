package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chart-eval/internal/api/dto"
	"github.com/spec-kit/chart-eval/internal/auth"
	"github.com/spec-kit/chart-eval/internal/observability"
	"github.com/spec-kit/chart-eval/internal/service"
	apperrors "github.com/spec-kit/chart-eval/pkg/util/errorutil"
)

// UsersHandler exposes the token lifecycle and account endpoints.
type UsersHandler struct {
	sessions      *service.SessionService
	accounts      *service.AccountService
	authenticator *auth.Authenticator
	metrics       *observability.Metrics
}

// NewUsersHandler constructs handler.
func NewUsersHandler(sessions *service.SessionService, accounts *service.AccountService, authenticator *auth.Authenticator, metrics *observability.Metrics) *UsersHandler {
	return &UsersHandler{sessions: sessions, accounts: accounts, authenticator: authenticator, metrics: metrics}
}

// Login handles POST /users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	session, err := h.sessions.Login(c.UserContext(), service.LoginInput{
		Identity: req.ResolvedIdentity(),
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.AuthResponse{
		AccessToken: session.Token,
		TokenType:   "bearer",
		ExpiresAt:   session.ExpiresAt,
	})
}

// Verify handles POST /users/verify.
func (h *UsersHandler) Verify(c *fiber.Ctx) error {
	token, err := tokenFromBody(c)
	if err != nil {
		return err
	}

	account, err := h.authenticator.Authenticate(c.UserContext(), token)
	h.metrics.RecordOutcome("verify", err)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAccountResponse(account))
}

// Revoke handles POST /users/revoke.
func (h *UsersHandler) Revoke(c *fiber.Ctx) error {
	token, err := tokenFromBody(c)
	if err != nil {
		return err
	}

	if _, err := h.sessions.Revoke(c.UserContext(), token); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Access token revoked successfully"})
}

// Get handles GET /users/:identity.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	account, err := h.accounts.Get(c.UserContext(), c.Params("identity"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAccountResponse(account))
}

// Create handles POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, err := h.accounts.Create(c.UserContext(), service.CreateAccountInput{
		Identity:    req.Identity,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		Disabled:    req.Disabled,
		Password:    req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewAccountResponse(account))
}

// Update handles PATCH /users/:identity.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, err := h.accounts.Update(c.UserContext(), c.Params("identity"), service.UpdateAccountInput{
		DisplayName: req.DisplayName,
		Role:        req.Role,
		Disabled:    req.Disabled,
		Password:    req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAccountResponse(account))
}

// Delete handles DELETE /users/:identity.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	if err := h.accounts.Delete(c.UserContext(), c.Params("identity")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func tokenFromBody(c *fiber.Ctx) (string, error) {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return "", apperrors.NewValidationError("invalid payload", nil)
	}
	token := strings.Clone(strings.TrimSpace(req.Token))
	if token == "" {
		return "", apperrors.NewValidationError("token required", nil)
	}
	return token, nil
}
