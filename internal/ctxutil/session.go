// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// CredentialKey is the context key for the bearer credential.
// Exported so it can be used consistently across packages.
type CredentialKey struct{}

// Credential is the session credential threaded through collaborator calls.
type Credential struct {
	Token string
	Role  string
}

// WithCredential returns a context carrying the credential.
func WithCredential(ctx context.Context, cred Credential) context.Context {
	return context.WithValue(ctx, CredentialKey{}, cred)
}

// CredentialFromContext returns the credential from context, and whether one was set.
func CredentialFromContext(ctx context.Context) (Credential, bool) {
	cred, ok := ctx.Value(CredentialKey{}).(Credential)
	return cred, ok
}

type assumeYesKey struct{}

// WithAssumeYes marks the context so confirmation prompts answer yes.
func WithAssumeYes(ctx context.Context) context.Context {
	return context.WithValue(ctx, assumeYesKey{}, true)
}

// AssumeYes reports whether confirmation prompts should answer yes.
func AssumeYes(ctx context.Context) bool {
	v, _ := ctx.Value(assumeYesKey{}).(bool)
	return v
}

type requestIDKey struct{}

// WithRequestID returns a context carrying a request ID for log correlation.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request ID, or empty string if not set.
func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}
