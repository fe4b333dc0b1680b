package session

import (
	"context"
	"os/user"
	"sync"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/secondary"
)

// OfflineProvider is the session used with the local SQLite backend: there
// is no server to authenticate against, so a session always exists.
type OfflineProvider struct {
	mu      sync.Mutex
	current secondary.SessionRecord
}

// NewOfflineProvider creates an always-valid session with role.
func NewOfflineProvider(role string) *OfflineProvider {
	subject := "local"
	if u, err := user.Current(); err == nil && u.Username != "" {
		subject = u.Username
	}
	return &OfflineProvider{current: secondary.SessionRecord{Token: "offline", Role: role, Subject: subject}}
}

// Current returns the local session.
func (p *OfflineProvider) Current(ctx context.Context) (*secondary.SessionRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	rec := p.current
	return &rec, nil
}

// IsValid always reports true.
func (p *OfflineProvider) IsValid(ctx context.Context) bool {
	return true
}

// Save replaces the role and subject for the rest of the process.
func (p *OfflineProvider) Save(ctx context.Context, session *secondary.SessionRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current.Role = session.Role
	if session.Subject != "" {
		p.current.Subject = session.Subject
	}
	return nil
}

// Clear is a no-op.
func (p *OfflineProvider) Clear(ctx context.Context) error {
	return nil
}

var _ secondary.SessionProvider = (*OfflineProvider)(nil)
