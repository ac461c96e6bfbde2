package http

import (
	"net/http"
	"testing"

	"github.com/crituk/authcore/pkg/authsdk"
	"github.com/crituk/authcore/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func registerRequest() authsdk.RegisterRequest {
	return authsdk.RegisterRequest{
		Email:     "Grace@Example.com",
		Password:  "correct-horse",
		FirstName: "Grace",
		LastName:  "Hopper",
		Username:  "grace",
	}
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	t.Run("creates the user", func(t *testing.T) {
		rec := env.do(t, jsonRequest(http.MethodPost, "/auth/register", registerRequest()))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		require.NotContains(t, rec.Body.String(), "correct-horse")
		require.NotContains(t, rec.Body.String(), "argon2id")

		body := decodeBody(t, rec)
		require.Equal(t, "user registered", body["message"])
		user, ok := body["user"].(map[string]any)
		require.True(t, ok)
		require.NotEmpty(t, user["id"])
		require.Equal(t, "grace@example.com", user["email"])
		require.Equal(t, "grace", user["user_name"])

		require.Equal(t, http.StatusOK, login(t, env, "grace@example.com", "correct-horse").Code)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		req := registerRequest()
		req.Username = "grace2"
		requireFailure(t, env.do(t, jsonRequest(http.MethodPost, "/auth/register", req)), http.StatusConflict, authsdk.KindConflict)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		req := registerRequest()
		req.Email = "other@example.com"
		requireFailure(t, env.do(t, jsonRequest(http.MethodPost, "/auth/register", req)), http.StatusConflict, authsdk.KindConflict)
	})

	t.Run("short password", func(t *testing.T) {
		req := registerRequest()
		req.Email = "short@example.com"
		req.Username = "shorty"
		req.Password = "short"

		rec := env.do(t, jsonRequest(http.MethodPost, "/auth/register", req))
		requireFailure(t, rec, http.StatusBadRequest, authsdk.KindValidationFailed)

		var f httpx.Failure
		require.NoError(t, jsonDecode(rec, &f))
		require.Equal(t, "must be at least 8 characters", f.Details["password"])
	})
}

func TestRegisterStoreUnavailable(t *testing.T) {
	env := newTestEnv(t, withStore(downStore{}))

	rec := env.do(t, jsonRequest(http.MethodPost, "/auth/register", registerRequest()))
	requireFailure(t, rec, http.StatusServiceUnavailable, authsdk.KindUpstreamUnavailable)
}
