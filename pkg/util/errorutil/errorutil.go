package errorutil

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap returns a copy of e carrying cause.
func (e *DomainError) Wrap(cause error) error {
	cp := *e
	cp.Err = cause
	return &cp
}

// Authentication and revocation failures. All of them are terminal for the request.
var (
	ErrInvalidToken       = NewDomainError("INVALID_TOKEN", "invalid access token", http.StatusUnauthorized, nil)
	ErrTokenExpired       = NewDomainError("TOKEN_EXPIRED", "access token has expired", http.StatusUnauthorized, nil)
	ErrAccountNotFound    = NewDomainError("ACCOUNT_NOT_FOUND", "account not found", http.StatusNotFound, nil)
	ErrAccountDisabled    = NewDomainError("ACCOUNT_DISABLED", "account is disabled", http.StatusUnauthorized, nil)
	ErrTokenRevoked       = NewDomainError("TOKEN_REVOKED", "access token has been revoked", http.StatusUnauthorized, nil)
	ErrInsufficientRole   = NewDomainError("INSUFFICIENT_ROLE", "insufficient role", http.StatusForbidden, nil)
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "incorrect password", http.StatusUnauthorized, nil)
	ErrAlreadyRevoked     = NewDomainError("ALREADY_REVOKED", "token is already revoked", http.StatusConflict, nil)
	ErrMissingExpiry      = NewDomainError("MISSING_EXPIRY", "invalid token expiration", http.StatusBadRequest, nil)
)

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		return NewNotFound("resource", nil).(*DomainError)
	}
	return NewInternalError(err).(*DomainError)
}

func MapError(err error) error {
	return ToDomainError(err)
}
