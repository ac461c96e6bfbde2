package service

import (
	"context"
	"testing"
	"time"

	"github.com/crituk/authcore/pkg/authsdk"
	"github.com/crituk/authcore/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestRotate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("missing token", func(t *testing.T) {
		kit := newTokenKit(t, testSecrets(t))

		_, err := kit.rotator.Rotate(ctx, "")
		require.ErrorIs(t, err, authsdk.ErrMissingToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		kit := newTokenKit(t, testSecrets(t))

		_, err := kit.rotator.Rotate(ctx, "not-a-token")
		require.ErrorIs(t, err, authsdk.ErrInvalidOrExpiredToken)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		kit := newTokenKit(t, testSecrets(t))
		access, err := kit.issuer.IssueAccessToken(testIdentity)
		require.NoError(t, err)

		_, err = kit.rotator.Rotate(ctx, access)
		require.ErrorIs(t, err, authsdk.ErrInvalidOrExpiredToken)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		now := time.Now()
		kit := newTokenKit(t, testSecrets(t), jwtx.WithClock(func() time.Time { return now }))

		refresh, err := kit.issuer.IssueRefreshToken(testIdentity)
		require.NoError(t, err)

		now = now.Add(testSecretsConfig().RefreshTTL + time.Minute)
		_, err = kit.rotator.Rotate(ctx, refresh)
		require.ErrorIs(t, err, authsdk.ErrInvalidOrExpiredToken)
	})

	t.Run("valid token is reissued with the same identity", func(t *testing.T) {
		kit := newTokenKit(t, testSecrets(t))
		first, err := kit.issuer.IssueUserSession(testIdentity)
		require.NoError(t, err)

		next, err := kit.rotator.Rotate(ctx, first.RefreshToken)
		require.NoError(t, err)
		require.NotEqual(t, first.RefreshToken, next.RefreshToken)

		access, err := kit.validator.ValidateAccess(ctx, next.AccessToken)
		require.NoError(t, err)
		require.Equal(t, testIdentity, access)

		refresh, err := kit.validator.ValidateRefresh(ctx, next.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, testIdentity, refresh)
	})

	t.Run("presented token stays valid after rotation", func(t *testing.T) {
		kit := newTokenKit(t, testSecrets(t))
		first, err := kit.issuer.IssueUserSession(testIdentity)
		require.NoError(t, err)

		_, err = kit.rotator.Rotate(ctx, first.RefreshToken)
		require.NoError(t, err)
		_, err = kit.rotator.Rotate(ctx, first.RefreshToken)
		require.NoError(t, err)
	})
}
