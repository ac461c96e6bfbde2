// Package userservice implements the identity store on top of the users
// service HTTP API:
//
//	GET  {base}/users?email=<email>  -> 200 {"status":200,"user":{...}} | 404
//	POST {base}/users                -> 201 {"status":201,"user":{...}} | 409
//
// Transport errors and 5xx answers surface as store.ErrUnavailable. The
// driver performs exactly one request per call and never retries.
package userservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/crituk/authcore/internal/auth/domain"
	"github.com/crituk/authcore/internal/auth/store"
)

// DefaultTimeout bounds every request made by the driver.
const DefaultTimeout = 5 * time.Second

const maxResponseBytes = 1 << 20

type Store struct {
	baseURL string
	client  *http.Client
}

// NewStore returns a driver for the users service at baseURL (including any
// path prefix such as /api/v1).
func NewStore(baseURL string, timeout time.Duration) (*Store, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("userservice: invalid base url %q", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Store{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (s *Store) Users() store.Users { return &usersRepo{s: s} }

// Ping succeeds when the users service answers at all below 500. It has no
// dedicated health route.
func (s *Store) Ping(ctx context.Context) error {
	resp, err := s.do(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: users service returned %d", store.ErrUnavailable, resp.StatusCode)
	}
	return nil
}

func (s *Store) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *Store) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("userservice: encode request: %w", err)
		}
		rdr = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("userservice: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return resp, nil
}

// userEnvelope is the users service response shape.
type userEnvelope struct {
	Status int       `json:"status"`
	User   *wireUser `json:"user"`
}

// wireUser accepts both "username" (users service) and "user_name" (token
// claims) spellings.
type wireUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	UserName  string `json:"user_name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
	CreatedAt string `json:"created_at"`
}

func (u wireUser) record() domain.CredentialRecord {
	username := u.Username
	if username == "" {
		username = u.UserName
	}
	created, _ := time.Parse(time.RFC3339Nano, u.CreatedAt)
	return domain.CredentialRecord{
		ID:           u.ID,
		Email:        u.Email,
		Username:     username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.Password,
		CreatedAt:    created,
	}
}

// createUserRequest is the POST /users body. The password is already a
// digest.
type createUserRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// readUser decodes a user envelope from resp, classifying failure statuses.
func readUser(resp *http.Response, expected int) (domain.CredentialRecord, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return domain.CredentialRecord{}, fmt.Errorf("%w: read response: %v", store.ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == expected:
	case resp.StatusCode == http.StatusNotFound:
		return domain.CredentialRecord{}, store.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return domain.CredentialRecord{}, store.ErrAlreadyExists
	case resp.StatusCode >= http.StatusInternalServerError:
		return domain.CredentialRecord{}, fmt.Errorf("%w: users service returned %d", store.ErrUnavailable, resp.StatusCode)
	default:
		return domain.CredentialRecord{}, fmt.Errorf("userservice: unexpected status %d", resp.StatusCode)
	}

	var env userEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return domain.CredentialRecord{}, fmt.Errorf("userservice: decode response: %w", err)
	}
	if env.User == nil {
		return domain.CredentialRecord{}, store.ErrNotFound
	}
	return env.User.record(), nil
}
