package http

import (
	"net/http"

	"github.com/crituk/authcore/internal/auth/service"
	"github.com/crituk/authcore/pkg/authsdk"
	"github.com/crituk/authcore/pkg/httpx"
)

// RegisterHandler serves POST /auth/register.
type RegisterHandler struct {
	Registration *service.Registration
}

// ServeHTTP godoc
//
//	@Summary		Register a user
//	@Description	Hashes the password and creates the user in the identity store. The response never
//	@Description	contains the password digest.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.RegisterRequest	true	"New user"
//	@Success		201		{object}	authsdk.UserResponse	"user"
//	@Failure		400		{object}	httpx.Failure			"VALIDATION_FAILED"
//	@Failure		409		{object}	httpx.Failure			"CONFLICT"
//	@Failure		429		{object}	httpx.Failure			"RATE_LIMITED"
//	@Failure		503		{object}	httpx.Failure			"UPSTREAM_UNAVAILABLE"
//	@Router			/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if err := httpx.Bind(r, &req); err != nil {
		bindError(err).WriteError(w)
		return
	}

	id, err := h.Registration.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusCreated, authsdk.UserResponse{User: id}, "user registered")
}
