// Package app contains the application services that orchestrate business logic.
package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ctxutil"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/errs"
	"github.com/Charlie22RM/sistema-escrituras-bch-sub000/internal/ports/secondary"
)

// Option configures a service.
type Option func(*serviceBase)

// WithLogger sets the structured logger of a service.
func WithLogger(logger *slog.Logger) Option {
	return func(b *serviceBase) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// serviceBase holds what every service shares.
type serviceBase struct {
	logger *slog.Logger
}

func newServiceBase(opts []Option) serviceBase {
	b := serviceBase{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// authorize checks the session before any collaborator call and threads the
// credential through the returned context.
func authorize(ctx context.Context, session secondary.SessionProvider) (context.Context, error) {
	if !session.IsValid(ctx) {
		return ctx, errs.New(errs.KindSessionExpired, "session expired or missing; log in again")
	}
	current, err := session.Current(ctx)
	if err != nil {
		return ctx, errs.Wrap(err, errs.KindSessionExpired, "failed to read session")
	}
	if current == nil {
		return ctx, errs.New(errs.KindSessionExpired, "no session; log in first")
	}
	return ctxutil.WithCredential(ctx, ctxutil.Credential{Token: current.Token, Role: current.Role}), nil
}

// classify converts a collaborator failure into exactly one error kind.
// Errors that already carry a kind pass through unchanged.
func classify(err error, action string) error {
	if err == nil {
		return nil
	}
	if errs.KindOf(err) != "" {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(err, errs.KindTransport, "failed to "+action+": request did not complete")
	}
	return errs.Wrap(err, errs.KindTransport, "failed to "+action)
}

// confirm asks the question and returns the operator's answer.
func confirm(ctx context.Context, c secondary.Confirmer, question string) (bool, error) {
	ok, err := c.Confirm(ctx, question)
	if err != nil {
		return false, errs.Wrap(err, errs.KindValidation, "confirmation failed")
	}
	return ok, nil
}
