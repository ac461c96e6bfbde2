package domain

import (
	"time"

	"github.com/crituk/authcore/pkg/jwtx"
)

// TokenClass aliases the codec's class so callers outside pkg/jwtx can name it.
type TokenClass = jwtx.Class

// TokenPair is a user session: a short-lived access token and the refresh
// token that can be exchanged for the next pair. Both carry the same identity.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// ServiceToken is the result of a client-credentials grant.
type ServiceToken struct {
	AccessToken string
	TokenType   string // always "Bearer"
	ExpiresIn   time.Duration
}

// RefreshState tracks a refresh request through rotation.
type RefreshState int

const (
	RefreshPresented RefreshState = iota
	RefreshValidated
	RefreshReissued
	RefreshRejected
)

func (s RefreshState) String() string {
	switch s {
	case RefreshPresented:
		return "presented"
	case RefreshValidated:
		return "validated"
	case RefreshReissued:
		return "reissued"
	case RefreshRejected:
		return "rejected"
	default:
		return "unknown"
	}
}
