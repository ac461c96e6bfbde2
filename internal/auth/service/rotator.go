package service

import (
	"context"
	"log/slog"

	"github.com/crituk/authcore/internal/auth/domain"
	"github.com/crituk/authcore/pkg/authsdk"
	"github.com/crituk/authcore/pkg/slogx"
)

// RefreshRotator exchanges a refresh token for a new session pair.
//
// Rotation does not spend the presented token: it stays valid until its own
// expiry because no server-side record of issued tokens exists.
type RefreshRotator struct {
	validator *TokenValidator
	issuer    *TokenIssuer
}

func NewRefreshRotator(validator *TokenValidator, issuer *TokenIssuer) *RefreshRotator {
	return &RefreshRotator{validator: validator, issuer: issuer}
}

// Rotate moves a refresh request from presented through validated to
// reissued, or stops at rejected.
func (r *RefreshRotator) Rotate(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)
	state := domain.RefreshPresented

	if refreshToken == "" {
		l.Debug("refresh rotation", slog.String("from", state.String()), slog.String("to", domain.RefreshRejected.String()))
		return domain.TokenPair{}, authsdk.ErrMissingToken
	}

	id, err := r.validator.ValidateRefresh(ctx, refreshToken)
	if err != nil {
		l.Debug("refresh rotation", slog.String("from", state.String()), slog.String("to", domain.RefreshRejected.String()))
		return domain.TokenPair{}, err
	}
	state = domain.RefreshValidated

	pair, err := r.issuer.IssueUserSession(id)
	if err != nil {
		l.Debug("refresh rotation", slog.String("from", state.String()), slog.String("to", domain.RefreshRejected.String()))
		return domain.TokenPair{}, err
	}

	l.Debug("refresh rotation",
		slog.String("from", state.String()),
		slog.String("to", domain.RefreshReissued.String()),
		slog.String("user_id", id.ID),
	)
	return pair, nil
}
