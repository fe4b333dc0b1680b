package secondary

import (
	"context"
	"time"
)

// SessionProvider defines the secondary port for the stored credential.
// The lifecycle services never mutate it except through Clear after an expiry.
type SessionProvider interface {
	// Current returns the stored session, or nil when there is none.
	Current(ctx context.Context) (*SessionRecord, error)

	// IsValid reports whether a session is stored and not expired.
	IsValid(ctx context.Context) bool

	// Save stores a session, replacing any previous one.
	Save(ctx context.Context, session *SessionRecord) error

	// Clear removes the stored session.
	Clear(ctx context.Context) error
}

// SessionRecord is a bearer credential with its role.
type SessionRecord struct {
	Token     string
	Role      string
	Subject   string
	ExpiresAt time.Time // zero when the token carries no expiry
}
