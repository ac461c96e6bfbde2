package userservice

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/crituk/authcore/internal/auth/domain"
)

type usersRepo struct {
	s *Store
}

func (r *usersRepo) FindByEmail(ctx context.Context, email string) (domain.CredentialRecord, error) {
	q := url.Values{"email": {strings.TrimSpace(email)}}

	resp, err := r.s.do(ctx, http.MethodGet, "/users?"+q.Encode(), nil)
	if err != nil {
		return domain.CredentialRecord{}, err
	}
	return readUser(resp, http.StatusOK)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.CredentialRecord) (domain.CredentialRecord, error) {
	resp, err := r.s.do(ctx, http.MethodPost, "/users", createUserRequest{
		Email:     strings.TrimSpace(u.Email),
		Username:  u.Username,
		Password:  u.PasswordHash,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	})
	if err != nil {
		return domain.CredentialRecord{}, err
	}

	created, err := readUser(resp, http.StatusCreated)
	if err != nil {
		return domain.CredentialRecord{}, err
	}
	if created.ID == "" {
		created.ID = u.ID
	}
	if created.PasswordHash == "" {
		created.PasswordHash = u.PasswordHash
	}
	return created, nil
}
