package store

import (
	"context"
	"errors"

	"github.com/crituk/authcore/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrUnavailable means the backing store could not be reached or
	// answered with a server-side failure. Drivers wrap the cause.
	ErrUnavailable = errors.New("store: unavailable")
)

// Store is the identity-store collaborator. Concrete drivers (sqlite,
// userservice) implement it. Users are exposed as a sub-repository so other
// record types can be added without widening this interface.
type Store interface {
	Users() Users

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

type Users interface {
	// FindByEmail is the login lookup. Emails are matched case-insensitively.
	FindByEmail(ctx context.Context, email string) (domain.CredentialRecord, error)

	// CreateUser inserts a new user and returns the stored record. The id
	// proposed by the caller (ULID) may be replaced by drivers whose backend
	// assigns its own. PasswordHash must already be a digest. Returns
	// ErrAlreadyExists when the email or username is taken.
	CreateUser(ctx context.Context, u domain.CredentialRecord) (domain.CredentialRecord, error)
}
