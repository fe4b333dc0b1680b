package ctxutil

import (
	"context"
	"testing"
)

func TestCredentialRoundTrip(t *testing.T) {
	ctx := context.Background()
	if _, ok := CredentialFromContext(ctx); ok {
		t.Fatal("empty context must not carry a credential")
	}
	ctx = WithCredential(ctx, Credential{Token: "tok", Role: "admin"})
	cred, ok := CredentialFromContext(ctx)
	if !ok || cred.Token != "tok" || cred.Role != "admin" {
		t.Errorf("CredentialFromContext() = %+v, %v", cred, ok)
	}
}

func TestAssumeYes(t *testing.T) {
	ctx := context.Background()
	if AssumeYes(ctx) {
		t.Error("AssumeYes must default to false")
	}
	if !AssumeYes(WithAssumeYes(ctx)) {
		t.Error("AssumeYes not set")
	}
}

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("RequestIDFromContext() = %q", got)
	}
}
