package http

import (
	"errors"
	"net/http"

	"github.com/crituk/authcore/internal/auth/service"
	"github.com/crituk/authcore/pkg/authsdk"
	"github.com/crituk/authcore/pkg/httpx"
)

// RefreshHandler serves POST /auth/refresh.
type RefreshHandler struct {
	Rotator *service.RefreshRotator
	cookies refreshCookies
}

// ServeHTTP godoc
//
//	@Summary		Rotate the session
//	@Description	Exchanges the refresh cookie for a new access token and a new refresh cookie.
//	@Description	The presented refresh token is not revoked and stays valid until it expires.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	authsdk.AccessTokenResponse	"accessToken"
//	@Failure		401	{object}	httpx.Failure				"INVALID_OR_EXPIRED_TOKEN"
//	@Failure		403	{object}	httpx.Failure				"MISSING_TOKEN"
//	@Failure		429	{object}	httpx.Failure				"RATE_LIMITED"
//	@Header			200	{string}	Set-Cookie					"crtk_refresh_token"
//	@Router			/auth/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	pair, err := h.Rotator.Rotate(r.Context(), refreshToken(r))
	if err != nil {
		if errors.Is(err, authsdk.ErrMissingToken) {
			authsdk.AsError(err).WithStatus(http.StatusForbidden).WriteError(w)
			return
		}
		writeError(w, r, err)
		return
	}

	h.cookies.set(w, pair.RefreshToken)
	httpx.WriteSuccess(w, http.StatusOK, authsdk.AccessTokenResponse{AccessToken: pair.AccessToken}, "session refreshed")
}
