package dto

import (
	"strings"
	"time"

	"github.com/spec-kit/chart-eval/internal/domain"
)

// LoginRequest accepts form or JSON bodies. Deployments key accounts by username or
// by e-mail; whichever field is present is used as the identity.
type LoginRequest struct {
	Identity string `json:"identity" form:"identity"`
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// ResolvedIdentity returns the first non-empty identity field.
func (r LoginRequest) ResolvedIdentity() string {
	for _, v := range []string{r.Identity, r.Username, r.Email} {
		if v = strings.TrimSpace(v); v != "" {
			return strings.Clone(v)
		}
	}
	return ""
}

// TokenRequest carries a raw access token.
type TokenRequest struct {
	Token string `json:"token"`
}

// AuthResponse standard response for login.
type AuthResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	Identity    string      `json:"identity"`
	DisplayName string      `json:"display_name"`
	Role        domain.Role `json:"role"`
	Disabled    bool        `json:"disabled"`
}

// NewAccountResponse maps a domain account, dropping the credential.
func NewAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		Identity:    a.Identity,
		DisplayName: a.DisplayName,
		Role:        a.Role,
		Disabled:    a.Disabled,
	}
}

// CreateAccountRequest payload for admin account creation.
type CreateAccountRequest struct {
	Identity    string      `json:"identity"`
	DisplayName string      `json:"display_name"`
	Role        domain.Role `json:"role"`
	Disabled    bool        `json:"disabled"`
	Password    string      `json:"password"`
}

// UpdateAccountRequest payload for admin account changes. Omitted fields are unchanged.
type UpdateAccountRequest struct {
	DisplayName *string      `json:"display_name"`
	Role        *domain.Role `json:"role"`
	Disabled    *bool        `json:"disabled"`
	Password    *string      `json:"password"`
}
