package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/crituk/authcore/internal/auth/store"
	"github.com/crituk/authcore/pkg/authsdk"
	"github.com/crituk/authcore/pkg/cryptox"
	"github.com/crituk/authcore/pkg/jwtx"
	"github.com/crituk/authcore/pkg/slogx"
)

// CredentialVerifier checks an email and password against the identity store.
type CredentialVerifier struct {
	users  store.Users
	hasher *cryptox.Hasher
}

func NewCredentialVerifier(users store.Users, hasher *cryptox.Hasher) *CredentialVerifier {
	return &CredentialVerifier{users: users, hasher: hasher}
}

// Authenticate returns the identity for a matching email and password.
//
// An unknown email and a wrong password both yield ErrInvalidCredentials, and
// both run one password verification. An unreachable store yields
// ErrUpstreamUnavailable. The store is asked exactly once.
func (v *CredentialVerifier) Authenticate(ctx context.Context, email, password string) (jwtx.Identity, error) {
	l := slogx.FromContext(ctx)

	rec, err := v.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		v.hasher.VerifyDummy(password)
		l.Info("login rejected", slog.String("reason", "unknown_email"))
		return jwtx.Identity{}, authsdk.ErrInvalidCredentials
	case errors.Is(err, store.ErrUnavailable):
		l.Error("identity store unavailable", slog.Any("err", err))
		return jwtx.Identity{}, authsdk.ErrUpstreamUnavailable.Wrap(err)
	case err != nil:
		return jwtx.Identity{}, fmt.Errorf("find user by email: %w", err)
	}

	if !v.hasher.Verify(password, rec.PasswordHash) {
		l.Info("login rejected", slog.String("reason", "password_mismatch"), slog.String("user_id", rec.ID))
		return jwtx.Identity{}, authsdk.ErrInvalidCredentials
	}

	if v.hasher.NeedsRehash(rec.PasswordHash) {
		l.Debug("password digest uses outdated parameters", slog.String("user_id", rec.ID))
	}

	return rec.Identity(), nil
}
