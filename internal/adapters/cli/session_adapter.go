package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/primary"
)

// SessionAdapter translates login commands to SessionService calls.
type SessionAdapter struct {
	service primary.SessionService
	out     io.Writer
}

// NewSessionAdapter creates a new SessionAdapter with the given service.
func NewSessionAdapter(service primary.SessionService, out io.Writer) *SessionAdapter {
	return &SessionAdapter{
		service: service,
		out:     out,
	}
}

// Login stores the credential.
func (a *SessionAdapter) Login(ctx context.Context, token, role string) error {
	info, err := a.service.Login(ctx, primary.LoginRequest{Token: token, Role: role})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Logged in as %s\n", describe(info))
	return nil
}

// Logout clears the credential.
func (a *SessionAdapter) Logout(ctx context.Context) error {
	if err := a.service.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "✓ Logged out")
	return nil
}

// WhoAmI prints the current session.
func (a *SessionAdapter) WhoAmI(ctx context.Context) error {
	info, err := a.service.WhoAmI(ctx)
	if err != nil {
		return err
	}
	if !info.LoggedIn {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	status := color.New(color.FgGreen).Sprint("valid")
	if !info.Valid {
		status = color.New(color.FgRed).Sprint("expired")
	}
	fmt.Fprintf(a.out, "%s (%s)\n", describe(info), status)
	if info.ExpiresAt != nil {
		fmt.Fprintf(a.out, "Expires: %s\n", info.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

// Expired clears the session after a collaborator rejected it.
func (a *SessionAdapter) Expired(ctx context.Context) {
	if err := a.service.Expire(ctx); err != nil {
		return
	}
	fmt.Fprintln(a.out, color.New(color.FgYellow).Sprint("Session expired; run `escrituras login` again"))
}

func describe(info *primary.SessionInfo) string {
	if info.Subject != "" {
		return fmt.Sprintf("%s [%s]", info.Subject, info.Role)
	}
	return info.Role
}
