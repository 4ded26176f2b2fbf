package domain

import "time"

// Role is the authorization level of an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Account is the subject a token is issued to. Identity is an opaque unique key;
// deployments use either usernames or e-mail addresses.
type Account struct {
	Identity     string
	DisplayName  string
	Role         Role
	Disabled     bool
	PasswordHash *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
