package app

import (
	"context"
	"strings"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/primary"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/secondary"
)

// SessionServiceImpl implements the SessionService interface.
type SessionServiceImpl struct {
	serviceBase
	session secondary.SessionProvider
}

// NewSessionService creates a new SessionService with injected dependencies.
func NewSessionService(session secondary.SessionProvider, opts ...Option) *SessionServiceImpl {
	return &SessionServiceImpl{
		serviceBase: newServiceBase(opts),
		session:     session,
	}
}

// Login stores a bearer token and role.
func (s *SessionServiceImpl) Login(ctx context.Context, req primary.LoginRequest) (*primary.SessionInfo, error) {
	var fes []errs.FieldError
	token := strings.TrimSpace(req.Token)
	if token == "" {
		fes = append(fes, errs.FieldError{Field: "token", Message: "is required"})
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		fes = append(fes, errs.FieldError{Field: "role", Message: "is required"})
	}
	if len(fes) > 0 {
		return nil, errs.Validation(fes)
	}

	if err := s.session.Save(ctx, &secondary.SessionRecord{Token: token, Role: role}); err != nil {
		return nil, classify(err, "save session")
	}
	s.logger.InfoContext(ctx, "session stored", "role", role)
	return s.WhoAmI(ctx)
}

// Logout clears the stored session.
func (s *SessionServiceImpl) Logout(ctx context.Context) error {
	if err := s.session.Clear(ctx); err != nil {
		return classify(err, "clear session")
	}
	s.logger.InfoContext(ctx, "session cleared")
	return nil
}

// WhoAmI reports the current session.
func (s *SessionServiceImpl) WhoAmI(ctx context.Context) (*primary.SessionInfo, error) {
	current, err := s.session.Current(ctx)
	if err != nil {
		return nil, classify(err, "read session")
	}
	if current == nil {
		return &primary.SessionInfo{}, nil
	}
	info := &primary.SessionInfo{
		LoggedIn: true,
		Valid:    s.session.IsValid(ctx),
		Role:     current.Role,
		Subject:  current.Subject,
	}
	if !current.ExpiresAt.IsZero() {
		exp := current.ExpiresAt
		info.ExpiresAt = &exp
	}
	return info, nil
}

// Expire clears the session after a collaborator reported it expired.
func (s *SessionServiceImpl) Expire(ctx context.Context) error {
	s.logger.WarnContext(ctx, "session expired; clearing credentials")
	return s.Logout(ctx)
}
