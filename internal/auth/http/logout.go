package http

import (
	"net/http"

	"github.com/crituk/authcore/internal/auth/service"
	"github.com/crituk/authcore/pkg/authsdk"
	"github.com/crituk/authcore/pkg/httpx"
)

// LogoutHandler serves POST /auth/logout. It only clears the cookie; the
// refresh token itself remains valid until it expires.
type LogoutHandler struct {
	Validator *service.TokenValidator
	cookies   refreshCookies
}

// ServeHTTP godoc
//
//	@Summary		Log out
//	@Description	Clears the refresh cookie after checking it is a valid refresh token.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	map[string]any	"success envelope"
//	@Failure		400	{object}	httpx.Failure	"MISSING_TOKEN"
//	@Failure		401	{object}	httpx.Failure	"INVALID_OR_EXPIRED_TOKEN"
//	@Router			/auth/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := refreshToken(r)
	if token == "" {
		authsdk.ErrMissingToken.WriteError(w)
		return
	}

	if _, err := h.Validator.ValidateRefresh(r.Context(), token); err != nil {
		writeError(w, r, err)
		return
	}

	h.cookies.clear(w)
	httpx.WriteSuccess(w, http.StatusOK, nil, "logged out")
}
