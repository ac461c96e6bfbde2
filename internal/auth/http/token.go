package http

import (
	"net/http"
	"strings"

	"github.com/crituk/authcore/internal/auth/service"
	"github.com/crituk/authcore/pkg/authsdk"
	"github.com/crituk/authcore/pkg/httpx"
)

// ServiceTokenHandler serves POST /auth/token, the client-credentials grant.
// It accepts a JSON body with clientId/clientSecret or a urlencoded form with
// client_id/client_secret.
type ServiceTokenHandler struct {
	Issuer *service.TokenIssuer
}

// ServeHTTP godoc
//
//	@Summary		Issue a service token
//	@Description	Client-credentials grant for trusted backend services. A wrong client id and a wrong secret
//	@Description	produce the same response.
//	@Tags			Auth
//	@Accept			json
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			body	body		authsdk.ServiceTokenRequest		true	"Client credentials"
//	@Success		200		{object}	authsdk.ServiceTokenResponse	"accessToken, tokenType, expiresIn"
//	@Failure		400		{object}	httpx.Failure					"VALIDATION_FAILED"
//	@Failure		401		{object}	httpx.Failure					"INVALID_CLIENT_CREDENTIALS"
//	@Failure		429		{object}	httpx.Failure					"RATE_LIMITED"
//	@Header			200		{string}	Cache-Control					"no-store"
//	@Router			/auth/token [post].
func (h *ServiceTokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := h.bind(w, r)
	if err != nil {
		bindError(err).WriteError(w)
		return
	}

	tok, err := h.Issuer.IssueServiceToken(req.ClientID, req.ClientSecret)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, authsdk.ServiceTokenResponse{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		ExpiresIn:   int(tok.ExpiresIn.Seconds()),
	}, "")
}

func (h *ServiceTokenHandler) bind(w http.ResponseWriter, r *http.Request) (authsdk.ServiceTokenRequest, error) {
	var req authsdk.ServiceTokenRequest
	if !httpx.IsForm(r) {
		err := httpx.Bind(r, &req)
		return req, err
	}

	r.Body = http.MaxBytesReader(w, r.Body, httpx.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.ClientID = strings.TrimSpace(r.PostForm.Get("client_id"))
	req.ClientSecret = r.PostForm.Get("client_secret")
	return req, httpx.Validate(&req)
}
