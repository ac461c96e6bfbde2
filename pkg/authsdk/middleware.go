package authsdk

import (
	"context"
	"net/http"

	"github.com/crituk/authcore/pkg/httpx"
	"github.com/crituk/authcore/pkg/jwtx"
	"github.com/crituk/authcore/pkg/slogx"
)

// IdentityValidator resolves a bearer token to an identity. *Client
// satisfies it by calling the auth service; the service itself plugs in its
// local validator.
type IdentityValidator interface {
	Validate(ctx context.Context, token string) (jwtx.Identity, error)
}

type ctxKey struct{}

// IdentityFromContext returns the identity attached by Authenticate.
func IdentityFromContext(ctx context.Context) (jwtx.Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(jwtx.Identity)
	return id, ok
}

// WithIdentity attaches id to ctx.
func WithIdentity(ctx context.Context, id jwtx.Identity) context.Context {
	ctx = context.WithValue(ctx, ctxKey{}, id)
	return httpx.WithSubject(ctx, id.ID)
}

// Authenticate rejects requests without a valid bearer access token and
// exposes the caller's identity through IdentityFromContext.
func Authenticate(v IdentityValidator) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			token, ok := httpx.ParseBearer(r.Header.Get("Authorization"))
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="crituk"`)
				ErrMissingToken.WriteError(w)
				return
			}

			id, err := v.Validate(ctx, token)
			if err != nil {
				e := AsError(err)
				if e.Kind == KindInvalidOrExpiredToken {
					w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				} else {
					log.Error("token validation failed", "kind", e.Kind, "err", err)
				}
				e.WriteError(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, id)))
		})
	}
}
