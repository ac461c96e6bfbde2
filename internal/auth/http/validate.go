package http

import (
	"net/http"

	"github.com/crituk/authcore/internal/auth/service"
	"github.com/crituk/authcore/pkg/authsdk"
	"github.com/crituk/authcore/pkg/httpx"
)

// ValidateHandler serves GET /auth/validate.
type ValidateHandler struct {
	Validator *service.TokenValidator
}

// ServeHTTP godoc
//
//	@Summary		Validate an access token
//	@Description	Returns the identity carried by a valid access token. Malformed, tampered and expired
//	@Description	tokens all produce INVALID_OR_EXPIRED_TOKEN.
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	jwtx.Identity	"id, email, first_name, last_name, user_name"
//	@Failure		400	{object}	httpx.Failure	"MISSING_TOKEN"
//	@Failure		401	{object}	httpx.Failure	"INVALID_OR_EXPIRED_TOKEN"
//	@Router			/auth/validate [get].
func (h *ValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token, err := h.Validator.RequireBearer(r.Header.Get("Authorization"))
	if err != nil {
		w.Header().Set("WWW-Authenticate", `Bearer realm="crituk"`)
		writeError(w, r, err)
		return
	}

	id, err := h.Validator.ValidateAccess(r.Context(), token)
	if err != nil {
		w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, id)
}

// ValidateServiceHandler serves GET /auth/validate/service.
type ValidateServiceHandler struct {
	Validator *service.TokenValidator
}

// ServeHTTP godoc
//
//	@Summary		Validate a service token
//	@Description	Returns the client id carried by a valid service token.
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.ServiceValidation	"clientId"
//	@Failure		400	{object}	httpx.Failure				"MISSING_TOKEN"
//	@Failure		401	{object}	httpx.Failure				"INVALID_OR_EXPIRED_TOKEN"
//	@Router			/auth/validate/service [get].
func (h *ValidateServiceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token, err := h.Validator.RequireBearer(r.Header.Get("Authorization"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	clientID, err := h.Validator.ValidateService(r.Context(), token)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, authsdk.ServiceValidation{ClientID: clientID}, "")
}
