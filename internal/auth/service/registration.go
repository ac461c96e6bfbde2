package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/crituk/authcore/internal/auth/domain"
	"github.com/crituk/authcore/internal/auth/store"
	"github.com/crituk/authcore/pkg/authsdk"
	"github.com/crituk/authcore/pkg/cryptox"
	"github.com/crituk/authcore/pkg/idx"
	"github.com/crituk/authcore/pkg/jwtx"
	"github.com/crituk/authcore/pkg/slogx"
)

// Registration creates user records with hashed passwords.
type Registration struct {
	users  store.Users
	hasher *cryptox.Hasher
}

func NewRegistration(users store.Users, hasher *cryptox.Hasher) *Registration {
	return &Registration{users: users, hasher: hasher}
}

// Register stores a new user and returns its public identity. A taken email
// or username yields ErrConflict.
func (s *Registration) Register(ctx context.Context, req authsdk.RegisterRequest) (jwtx.Identity, error) {
	l := slogx.FromContext(ctx)

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return jwtx.Identity{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.CreateUser(ctx, domain.CredentialRecord{
		ID:           idx.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Username:     strings.TrimSpace(req.Username),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: digest,
	})
	switch {
	case errors.Is(err, store.ErrAlreadyExists):
		return jwtx.Identity{}, authsdk.ErrConflict.Wrap(err)
	case errors.Is(err, store.ErrUnavailable):
		l.Error("identity store unavailable", slog.Any("err", err))
		return jwtx.Identity{}, authsdk.ErrUpstreamUnavailable.Wrap(err)
	case err != nil:
		return jwtx.Identity{}, fmt.Errorf("create user: %w", err)
	}

	l.Info("user registered", slog.String("user_id", created.ID))
	return created.Identity(), nil
}
