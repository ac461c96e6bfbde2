package jwtx

import (
	"github.com/golang-jwt/jwt/v5"
)

// Class separates tokens into independent families. Each class is signed
// with its own secret and carries its own audience, so a token minted for
// one class never verifies as another.
type Class string

const (
	ClassAccess  Class = "access"
	ClassRefresh Class = "refresh"
	ClassService Class = "service"
)

// AudiencePrefix namespaces the per-class audience claim.
const AudiencePrefix = "crituk:"

// Audience is the "aud" value stamped on tokens of this class.
func (c Class) Audience() string { return AudiencePrefix + string(c) }

func (c Class) String() string { return string(c) }

// Identity is the fixed set of user attributes embedded in access and
// refresh tokens. Fields not listed here are dropped on decode.
type Identity struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"user_name"`
}

// UserClaims wraps an Identity with the registered JWT claims.
type UserClaims struct {
	Identity
	jwt.RegisteredClaims
}

// ServiceClaims are carried by client-credentials tokens.
type ServiceClaims struct {
	ClientID string `json:"clientId"`
	jwt.RegisteredClaims
}
