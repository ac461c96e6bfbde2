package domain

import (
	"time"

	"github.com/crituk/authcore/pkg/jwtx"
)

// CredentialRecord is what the identity store returns for a login lookup.
// PasswordHash never leaves the service layer.
type CredentialRecord struct {
	ID           string
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string // argon2id PHC string, or bcrypt for legacy records
	CreatedAt    time.Time
}

// Identity returns the public attributes embedded in tokens.
func (r CredentialRecord) Identity() jwtx.Identity {
	return jwtx.Identity{
		ID:        r.ID,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Username:  r.Username,
	}
}
