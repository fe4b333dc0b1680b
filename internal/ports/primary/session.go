package primary

import (
	"context"
	"time"
)

// SessionService defines the primary port for the operator session.
type SessionService interface {
	// Login stores a bearer token and role.
	Login(ctx context.Context, req LoginRequest) (*SessionInfo, error)

	// Logout clears the stored session.
	Logout(ctx context.Context) error

	// WhoAmI reports the current session.
	WhoAmI(ctx context.Context) (*SessionInfo, error)

	// Expire clears the session after a collaborator reported it expired.
	Expire(ctx context.Context) error
}

// LoginRequest contains the credential to store.
type LoginRequest struct {
	Token string
	Role  string
}

// SessionInfo describes the current session without exposing the token.
type SessionInfo struct {
	LoggedIn  bool
	Valid     bool
	Role      string
	Subject   string
	ExpiresAt *time.Time
}
