package http

import (
	"net/http"

	"github.com/crituk/authcore/internal/auth/service"
	"github.com/crituk/authcore/pkg/authsdk"
	"github.com/crituk/authcore/pkg/httpx"
)

// LoginHandler serves POST /auth/login.
type LoginHandler struct {
	Verifier *service.CredentialVerifier
	Issuer   *service.TokenIssuer
	cookies  refreshCookies
}

// ServeHTTP godoc
//
//	@Summary		Log in with email and password
//	@Description	Verifies the credentials and starts a session. The access token is returned in the body;
//	@Description	the refresh token is set as the crtk_refresh_token HTTP-only, SameSite=Strict cookie.
//	@Description	An unknown email and a wrong password produce the same response.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.LoginRequest		true	"Credentials"
//	@Success		200		{object}	authsdk.AccessTokenResponse	"accessToken"
//	@Failure		400		{object}	httpx.Failure				"VALIDATION_FAILED"
//	@Failure		401		{object}	httpx.Failure				"INVALID_CREDENTIALS"
//	@Failure		429		{object}	httpx.Failure				"RATE_LIMITED"
//	@Failure		503		{object}	httpx.Failure				"UPSTREAM_UNAVAILABLE"
//	@Header			200		{string}	Set-Cookie					"crtk_refresh_token"
//	@Router			/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authsdk.LoginRequest
	if err := httpx.Bind(r, &req); err != nil {
		bindError(err).WriteError(w)
		return
	}

	id, err := h.Verifier.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	pair, err := h.Issuer.IssueUserSession(id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.cookies.set(w, pair.RefreshToken)
	httpx.WriteSuccess(w, http.StatusOK, authsdk.AccessTokenResponse{AccessToken: pair.AccessToken}, "login successful")
}
