package http

import (
	"errors"
	"net/http"

	"github.com/crituk/authcore/pkg/authsdk"
	"github.com/crituk/authcore/pkg/httpx"
	"github.com/crituk/authcore/pkg/slogx"
)

// writeError writes err as the failure envelope. Errors outside the
// taxonomy are logged and answered with a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	e := authsdk.AsError(err)
	if e.Kind == authsdk.KindInternal {
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
	}
	e.WriteError(w)
}

// bindError maps httpx.Bind failures onto VALIDATION_FAILED.
func bindError(err error) *authsdk.Error {
	var verr *httpx.ValidationError
	switch {
	case errors.As(err, &verr):
		return authsdk.ErrValidationFailed.WithDetails(verr.Fields)
	case errors.Is(err, httpx.ErrUnsupportedMediaType):
		return authsdk.New(authsdk.KindValidationFailed, "content type must be application/json").
			WithStatus(http.StatusUnsupportedMediaType)
	default:
		return authsdk.New(authsdk.KindValidationFailed, "malformed request body")
	}
}
