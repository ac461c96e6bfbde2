package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/crituk/authcore/pkg/authsdk"
	"github.com/crituk/authcore/pkg/cryptox"
	"github.com/crituk/authcore/pkg/httpx"
	"github.com/crituk/authcore/pkg/jwtx"
	"github.com/crituk/authcore/pkg/slogx"
)

// TokenValidator decodes tokens of each class under that class's secret.
// Every codec failure reaches the caller as ErrInvalidOrExpiredToken; the
// precise reason is only logged.
type TokenValidator struct {
	codec   *jwtx.Codec
	secrets Secrets
}

func NewTokenValidator(codec *jwtx.Codec, secrets Secrets) *TokenValidator {
	return &TokenValidator{codec: codec, secrets: secrets}
}

func (v *TokenValidator) ValidateAccess(ctx context.Context, token string) (jwtx.Identity, error) {
	return v.validateUser(ctx, token, jwtx.ClassAccess)
}

func (v *TokenValidator) ValidateRefresh(ctx context.Context, token string) (jwtx.Identity, error) {
	return v.validateUser(ctx, token, jwtx.ClassRefresh)
}

// Validate is ValidateAccess under the authsdk.IdentityValidator contract.
func (v *TokenValidator) Validate(ctx context.Context, token string) (jwtx.Identity, error) {
	return v.ValidateAccess(ctx, token)
}

// ValidateService returns the client id carried by a service token.
func (v *TokenValidator) ValidateService(ctx context.Context, token string) (string, error) {
	clientID, err := v.codec.DecodeService(token, v.secrets.key(jwtx.ClassService))
	if err != nil {
		return "", v.reject(ctx, token, jwtx.ClassService, err)
	}
	return clientID, nil
}

// RequireBearer extracts the token from an Authorization header value.
func (v *TokenValidator) RequireBearer(header string) (string, error) {
	token, ok := httpx.ParseBearer(header)
	if !ok {
		return "", authsdk.ErrMissingToken
	}
	return token, nil
}

func (v *TokenValidator) validateUser(ctx context.Context, token string, class jwtx.Class) (jwtx.Identity, error) {
	id, err := v.codec.DecodeUser(token, class, v.secrets.key(class))
	if err != nil {
		return jwtx.Identity{}, v.reject(ctx, token, class, err)
	}
	return id, nil
}

func (v *TokenValidator) reject(ctx context.Context, token string, class jwtx.Class, err error) error {
	slogx.FromContext(ctx).Debug("token rejected",
		slog.String("class", class.String()),
		slog.String("reason", rejectReason(err)),
		slog.String("token_fp", cryptox.FingerprintToken(token)),
	)
	return authsdk.ErrInvalidOrExpiredToken.Wrap(err)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, jwtx.ErrExpired):
		return "expired"
	case errors.Is(err, jwtx.ErrInvalidSignature):
		return "signature"
	case errors.Is(err, jwtx.ErrMalformed):
		return "malformed"
	case errors.Is(err, jwtx.ErrInvalidClaims):
		return "claims"
	default:
		return "other"
	}
}

var _ authsdk.IdentityValidator = (*TokenValidator)(nil)
