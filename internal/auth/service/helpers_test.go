package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/crituk/authcore/internal/auth/domain"
	"github.com/crituk/authcore/internal/auth/store"
	"github.com/crituk/authcore/pkg/cryptox"
	"github.com/crituk/authcore/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var fastParams = cryptox.Params{Memory: 1024, Iterations: 1, Parallelism: 1, KeyLength: 32, SaltLength: 16}

func testHasher() *cryptox.Hasher {
	return cryptox.NewHasher(cryptox.WithParams(fastParams))
}

func testSecretsConfig() SecretsConfig {
	return SecretsConfig{
		AccessSecret:  strings.Repeat("a", 32),
		RefreshSecret: strings.Repeat("r", 32),
		ServiceSecret: strings.Repeat("s", 32),
		AccessTTL:     time.Hour,
		RefreshTTL:    7 * 24 * time.Hour,
		ServiceTTL:    time.Hour,
	}
}

func testSecrets(t *testing.T) Secrets {
	t.Helper()
	s, err := NewSecrets(testSecretsConfig())
	require.NoError(t, err)
	return s
}

var testIdentity = jwtx.Identity{
	ID:        "01HZX3K6V1Q6W5V6B7C8D9E0FG",
	Email:     "a@b.com",
	FirstName: "Ada",
	LastName:  "Lovelace",
	Username:  "ada",
}

type tokenKit struct {
	issuer    *TokenIssuer
	validator *TokenValidator
	rotator   *RefreshRotator
}

func newTokenKit(t *testing.T, secrets Secrets, opts ...jwtx.CodecOption) tokenKit {
	t.Helper()
	codec := jwtx.NewCodec("", opts...)
	clients := NewClientRegistry(map[string]string{"svc-a": "svc-a-secret", "svc-b": "svc-b-secret"})

	issuer := NewTokenIssuer(codec, secrets, clients)
	validator := NewTokenValidator(codec, secrets)
	return tokenKit{
		issuer:    issuer,
		validator: validator,
		rotator:   NewRefreshRotator(validator, issuer),
	}
}

// fakeUsers is an in-memory store.Users keyed by lower-cased email.
type fakeUsers struct {
	mu      sync.Mutex
	records map[string]domain.CredentialRecord
	err     error
	lookups int
}

func newFakeUsers(records ...domain.CredentialRecord) *fakeUsers {
	f := &fakeUsers{records: map[string]domain.CredentialRecord{}}
	for _, r := range records {
		f.records[strings.ToLower(r.Email)] = r
	}
	return f
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (domain.CredentialRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++

	if f.err != nil {
		return domain.CredentialRecord{}, f.err
	}
	rec, ok := f.records[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return domain.CredentialRecord{}, store.ErrNotFound
	}
	return rec, nil
}

func (f *fakeUsers) CreateUser(_ context.Context, u domain.CredentialRecord) (domain.CredentialRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return domain.CredentialRecord{}, f.err
	}
	key := strings.ToLower(u.Email)
	if _, ok := f.records[key]; ok {
		return domain.CredentialRecord{}, store.ErrAlreadyExists
	}
	u.CreatedAt = time.Now()
	f.records[key] = u
	return u, nil
}

func (f *fakeUsers) lookupCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookups
}
