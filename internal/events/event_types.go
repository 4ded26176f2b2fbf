package events

import (
	"time"

	"github.com/spec-kit/chart-eval/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionIssued      EventType = "session_issued"
	EventAccountProvisioned EventType = "account_provisioned"
	EventTokenRevoked       EventType = "token_revoked"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Identity  string      `json:"identity"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SessionIssuedPayload payload.
type SessionIssuedPayload struct {
	Policy    string      `json:"policy"`
	Role      domain.Role `json:"role"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// AccountProvisionedPayload payload.
type AccountProvisionedPayload struct {
	DisplayName string      `json:"display_name"`
	Role        domain.Role `json:"role"`
}

// TokenRevokedPayload payload. The token itself is never published.
type TokenRevokedPayload struct {
	RevocationID int64     `json:"revocation_id"`
	ExpiresAt    time.Time `json:"expires_at"`
}
