package http

import (
	"net/http"
	"time"

	"github.com/crituk/authcore/pkg/authsdk"
)

// refreshCookies writes the refresh token cookie. It is never readable from
// script and never sent cross-site.
type refreshCookies struct {
	secure bool
	maxAge time.Duration
}

func (c refreshCookies) set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authsdk.RefreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (c refreshCookies) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authsdk.RefreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// refreshToken returns the presented refresh cookie value, or "".
func refreshToken(r *http.Request) string {
	ck, err := r.Cookie(authsdk.RefreshCookieName)
	if err != nil {
		return ""
	}
	return ck.Value
}
