// Package session stores the operator's bearer credential between runs.
package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gopkg.in/yaml.v3"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/secondary"
)

// FileProvider implements secondary.SessionProvider with a YAML file.
// Token expiry is read from the JWT exp claim when the token is a JWT;
// the signature is never checked here, the backend does that.
type FileProvider struct {
	path string
	now  func() time.Time

	mu sync.Mutex
}

type sessionFile struct {
	Token     string    `yaml:"token"`
	Role      string    `yaml:"role"`
	Subject   string    `yaml:"subject,omitempty"`
	ExpiresAt time.Time `yaml:"expires_at,omitempty"`
}

// NewFileProvider creates a provider backed by path.
// If path is empty, defaults to ~/.escrituras/session.yaml.
func NewFileProvider(path string) (*FileProvider, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, ".escrituras", "session.yaml")
	}
	return &FileProvider{path: path, now: time.Now}, nil
}

// Path returns the session file location.
func (p *FileProvider) Path() string {
	return p.path
}

// Current returns the stored session, or nil when there is none.
func (p *FileProvider) Current(ctx context.Context) (*secondary.SessionRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var f sessionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	if f.Token == "" {
		return nil, nil
	}
	return &secondary.SessionRecord{
		Token:     f.Token,
		Role:      f.Role,
		Subject:   f.Subject,
		ExpiresAt: f.ExpiresAt,
	}, nil
}

// IsValid reports whether a session is stored and not expired.
func (p *FileProvider) IsValid(ctx context.Context) bool {
	rec, err := p.Current(ctx)
	if err != nil || rec == nil {
		return false
	}
	return rec.ExpiresAt.IsZero() || p.now().Before(rec.ExpiresAt)
}

// Save stores session, filling Subject and ExpiresAt from the token claims.
// An already expired token is rejected.
func (p *FileProvider) Save(ctx context.Context, session *secondary.SessionRecord) error {
	rec := *session
	if claims, ok := parseClaims(rec.Token); ok {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			rec.ExpiresAt = exp.Time.UTC()
		}
		if sub, err := claims.GetSubject(); err == nil && sub != "" && rec.Subject == "" {
			rec.Subject = sub
		}
	}
	if !rec.ExpiresAt.IsZero() && !p.now().Before(rec.ExpiresAt) {
		return errs.Validation([]errs.FieldError{{Field: "token", Message: "token has already expired"}})
	}

	data, err := yaml.Marshal(sessionFile{
		Token:     rec.Token,
		Role:      rec.Role,
		Subject:   rec.Subject,
		ExpiresAt: rec.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(p.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear removes the stored session. Clearing twice is not an error.
func (p *FileProvider) Clear(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := os.Remove(p.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// parseClaims decodes the claims of a JWT without verifying it.
func parseClaims(token string) (jwt.MapClaims, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

var _ secondary.SessionProvider = (*FileProvider)(nil)
