package authsdk

import "github.com/crituk/authcore/pkg/jwtx"

// RefreshCookieName carries the refresh token between browser and service.
const RefreshCookieName = "crtk_refresh_token"

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=1024"`
}

// AccessTokenResponse is returned by login and refresh. The refresh token
// travels in the RefreshCookieName cookie, never in the body.
type AccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// ServiceTokenRequest is the body of POST /auth/token.
type ServiceTokenRequest struct {
	ClientID     string `json:"clientId" validate:"required,max=128"`
	ClientSecret string `json:"clientSecret" validate:"required,max=512"`
}

// ServiceTokenResponse is the client-credentials grant result.
type ServiceTokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int    `json:"expiresIn"`
}

// ServiceValidation is returned by GET /auth/validate/service.
type ServiceValidation struct {
	ClientID string `json:"clientId"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=1024"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Username  string `json:"user_name" validate:"required,alphanum,min=3,max=32"`
}

// UserResponse wraps the created user; it is the public Identity, never the
// stored hash.
type UserResponse struct {
	User jwtx.Identity `json:"user"`
}

// HealthResponse is served by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	IdentityStore string `json:"identity_store"`
}

// Session is what a browser-style login or refresh yields to SDK callers.
type Session struct {
	AccessToken  string
	RefreshToken string
}
