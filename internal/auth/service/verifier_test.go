package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/crituk/authcore/internal/auth/domain"
	"github.com/crituk/authcore/internal/auth/store"
	"github.com/crituk/authcore/pkg/authsdk"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newVerifierFixture(t *testing.T) (*CredentialVerifier, *fakeUsers) {
	t.Helper()
	h := testHasher()

	digest, err := h.Hash("secret123")
	require.NoError(t, err)

	users := newFakeUsers(domain.CredentialRecord{
		ID:           testIdentity.ID,
		Email:        testIdentity.Email,
		Username:     testIdentity.Username,
		FirstName:    testIdentity.FirstName,
		LastName:     testIdentity.LastName,
		PasswordHash: digest,
	})
	return NewCredentialVerifier(users, h), users
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("matching password returns identity", func(t *testing.T) {
		v, users := newVerifierFixture(t)

		id, err := v.Authenticate(ctx, "a@b.com", "secret123")
		require.NoError(t, err)
		require.Equal(t, testIdentity, id)
		require.Equal(t, 1, users.lookupCount())
	})

	t.Run("wrong password", func(t *testing.T) {
		v, _ := newVerifierFixture(t)

		_, err := v.Authenticate(ctx, "a@b.com", "wrong")
		require.ErrorIs(t, err, authsdk.ErrInvalidCredentials)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		v, _ := newVerifierFixture(t)

		_, errUnknown := v.Authenticate(ctx, "unknown@x.com", "anything")
		_, errWrong := v.Authenticate(ctx, "a@b.com", "wrong")

		u, w := authsdk.AsError(errUnknown), authsdk.AsError(errWrong)
		require.Equal(t, w.Kind, u.Kind)
		require.Equal(t, w.Status(), u.Status())
		require.Equal(t, w.Message, u.Message)
		require.Equal(t, w.Error(), u.Error())
	})

	t.Run("store unavailable", func(t *testing.T) {
		v, users := newVerifierFixture(t)
		users.err = fmt.Errorf("%w: connection refused", store.ErrUnavailable)

		_, err := v.Authenticate(ctx, "a@b.com", "secret123")
		require.ErrorIs(t, err, authsdk.ErrUpstreamUnavailable)
		require.Equal(t, 503, authsdk.AsError(err).Status())
		require.Equal(t, 1, users.lookupCount())
	})

	t.Run("unexpected store failure is internal", func(t *testing.T) {
		v, users := newVerifierFixture(t)
		users.err = errors.New("disk I/O error")

		_, err := v.Authenticate(ctx, "a@b.com", "secret123")
		require.Error(t, err)
		require.Equal(t, authsdk.KindInternal, authsdk.AsError(err).Kind)
	})

	t.Run("legacy bcrypt record", func(t *testing.T) {
		legacy, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
		require.NoError(t, err)

		users := newFakeUsers(domain.CredentialRecord{ID: "u2", Email: "old@b.com", PasswordHash: string(legacy)})
		v := NewCredentialVerifier(users, testHasher())

		id, err := v.Authenticate(ctx, "old@b.com", "secret123")
		require.NoError(t, err)
		require.Equal(t, "u2", id.ID)

		_, err = v.Authenticate(ctx, "old@b.com", "secret124")
		require.ErrorIs(t, err, authsdk.ErrInvalidCredentials)
	})
}
