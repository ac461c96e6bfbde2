package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/crituk/authcore/pkg/jwtx"
)

// Client talks to the auth service over HTTP for web backends and
// downstream services. Transport failures surface as ErrUpstreamUnavailable.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client with a bounded request timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Login exchanges email and password for a session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	resp, err := c.do(ctx, http.MethodPost, "/auth/login", LoginRequest{Email: email, Password: password}, nil)
	if err != nil {
		return nil, err
	}
	return readSession(resp)
}

// Refresh rotates a refresh token into a new session.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	resp, err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: refreshToken})
	})
	if err != nil {
		return nil, err
	}
	return readSession(resp)
}

// Logout asks the service to clear the refresh cookie.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	resp, err := c.do(ctx, http.MethodPost, "/auth/logout", nil, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: refreshToken})
	})
	if err != nil {
		return err
	}
	return decodeJSON(resp, http.StatusOK, nil)
}

// IssueServiceToken performs the client-credentials grant.
func (c *Client) IssueServiceToken(ctx context.Context, clientID, clientSecret string) (*ServiceTokenResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, "/auth/token", ServiceTokenRequest{ClientID: clientID, ClientSecret: clientSecret}, nil)
	if err != nil {
		return nil, err
	}

	var out ServiceTokenResponse
	if err := decodeJSON(resp, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a user record.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (jwtx.Identity, error) {
	resp, err := c.do(ctx, http.MethodPost, "/auth/register", req, nil)
	if err != nil {
		return jwtx.Identity{}, err
	}

	var out UserResponse
	if err := decodeJSON(resp, http.StatusCreated, &out); err != nil {
		return jwtx.Identity{}, err
	}
	return out.User, nil
}

// Validate resolves an access token to the identity it carries.
func (c *Client) Validate(ctx context.Context, accessToken string) (jwtx.Identity, error) {
	resp, err := c.do(ctx, http.MethodGet, "/auth/validate", nil, bearer(accessToken))
	if err != nil {
		return jwtx.Identity{}, err
	}

	var id jwtx.Identity
	if err := decodeJSON(resp, http.StatusOK, &id); err != nil {
		return jwtx.Identity{}, err
	}
	return id, nil
}

// ValidateService resolves a service token to its client id.
func (c *Client) ValidateService(ctx context.Context, serviceToken string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/auth/validate/service", nil, bearer(serviceToken))
	if err != nil {
		return "", err
	}

	var out ServiceValidation
	if err := decodeJSON(resp, http.StatusOK, &out); err != nil {
		return "", err
	}
	return out.ClientID, nil
}

func bearer(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	body any,
	decorate func(*http.Request),
) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("authsdk: encode request: %w", err)
		}
		rdr = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("authsdk: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if decorate != nil {
		decorate(req)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, ErrUpstreamUnavailable.Wrap(err)
	}
	return resp, nil
}

// decodeJSON reads the body once; a status other than expected becomes a
// typed *Error, otherwise the body is decoded into target when non-nil.
func decodeJSON(resp *http.Response, expected int, target any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ErrUpstreamUnavailable.Wrap(err)
	}

	if resp.StatusCode != expected {
		return parseErrorResponse(resp, body)
	}
	if target == nil {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return ErrInternal.Wrap(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func readSession(resp *http.Response) (*Session, error) {
	var out AccessTokenResponse
	if err := decodeJSON(resp, http.StatusOK, &out); err != nil {
		return nil, err
	}

	s := &Session{AccessToken: out.AccessToken}
	for _, ck := range resp.Cookies() {
		if ck.Name == RefreshCookieName {
			s.RefreshToken = ck.Value
		}
	}
	return s, nil
}
