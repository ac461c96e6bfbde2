package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/crituk/authcore/internal/auth/domain"
	"github.com/crituk/authcore/internal/auth/service"
	"github.com/crituk/authcore/internal/auth/store"
	"github.com/crituk/authcore/internal/auth/store/drivers/sqlite"
	"github.com/crituk/authcore/pkg/authsdk"
	"github.com/crituk/authcore/pkg/cryptox"
	"github.com/crituk/authcore/pkg/httpx"
	"github.com/crituk/authcore/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const refreshTTL = 7 * 24 * time.Hour

var fastParams = cryptox.Params{Memory: 1024, Iterations: 1, Parallelism: 1, KeyLength: 32, SaltLength: 16}

func generousLimits() httpx.RateLimits {
	l := httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000}
	return httpx.RateLimits{Strict: l, Moderate: l, Lenient: l, Public: l}
}

type testEnv struct {
	router  *Router
	secrets service.Secrets
	clients *service.ClientRegistry
	issuer  *service.TokenIssuer
}

type envOption func(*envConfig)

type envConfig struct {
	store      store.Store
	limits     httpx.RateLimits
	corsOrigin string
}

func withStore(st store.Store) envOption { return func(c *envConfig) { c.store = st } }
func withLimits(l httpx.RateLimits) envOption { return func(c *envConfig) { c.limits = l } }
func withCORSOrigin(origin string) envOption { return func(c *envConfig) { c.corsOrigin = origin } }

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	cfg := envConfig{limits: generousLimits()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.store == nil {
		db, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "auth.db")))
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		require.NoError(t, db.ApplyMigrations())
		cfg.store = db
	}

	secrets, err := service.NewSecrets(service.SecretsConfig{
		AccessSecret:  strings.Repeat("a", 32),
		RefreshSecret: strings.Repeat("r", 32),
		ServiceSecret: strings.Repeat("s", 32),
		AccessTTL:     time.Hour,
		RefreshTTL:    refreshTTL,
		ServiceTTL:    time.Hour,
	})
	require.NoError(t, err)

	hasher := cryptox.NewHasher(cryptox.WithParams(fastParams))
	codec := jwtx.NewCodec("")
	clients := service.NewClientRegistry(map[string]string{"svc-a": "svc-a-secret"})
	issuer := service.NewTokenIssuer(codec, secrets, clients)
	validator := service.NewTokenValidator(codec, secrets)

	r := NewRouter(RouterConfig{
		Version:      "test",
		CookieSecure: true,
		RefreshTTL:   refreshTTL,
		CORSOrigin:   cfg.corsOrigin,
		RateLimits:   cfg.limits,
	}, cfg.store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r.Verifier = service.NewCredentialVerifier(cfg.store.Users(), hasher)
	r.Issuer = issuer
	r.Validator = validator
	r.Rotator = service.NewRefreshRotator(validator, issuer)
	r.Registration = service.NewRegistration(cfg.store.Users(), hasher)
	r.ApplyRoutes()

	return &testEnv{router: r, secrets: secrets, clients: clients, issuer: issuer}
}

// seedUser registers a@b.com / secret123 through the HTTP surface.
func (e *testEnv) seedUser(t *testing.T) jwtx.Identity {
	t.Helper()

	rec := e.do(t, jsonRequest(http.MethodPost, "/auth/register", authsdk.RegisterRequest{
		Email:     "a@b.com",
		Password:  "secret123",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "ada",
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out authsdk.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out.User
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target string, body any) *http.Request {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withRefreshCookie(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: authsdk.RefreshCookieName, Value: token})
	return req
}

func refreshCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == authsdk.RefreshCookieName {
			return ck
		}
	}
	t.Fatalf("response has no %s cookie", authsdk.RefreshCookieName)
	return nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

func requireFailure(t *testing.T, rec *httptest.ResponseRecorder, status int, kind authsdk.Kind) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())

	var f httpx.Failure
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &f))
	require.False(t, f.Success)
	require.Equal(t, status, f.Status)
	require.Equal(t, string(kind), f.Error)
	require.NotEmpty(t, f.Message)
}

// downStore answers every call with store.ErrUnavailable.
type downStore struct{}

var errDown = fmt.Errorf("%w: connection refused", store.ErrUnavailable)

func (downStore) Users() store.Users { return downStore{} }
func (downStore) Ping(context.Context) error { return errDown }
func (downStore) Close() error { return nil }
func (downStore) FindByEmail(context.Context, string) (domain.CredentialRecord, error) {
	return domain.CredentialRecord{}, errDown
}
func (downStore) CreateUser(context.Context, domain.CredentialRecord) (domain.CredentialRecord, error) {
	return domain.CredentialRecord{}, errDown
}

func jsonDecode(rec *httptest.ResponseRecorder, dst any) error {
	return json.Unmarshal(rec.Body.Bytes(), dst)
}
