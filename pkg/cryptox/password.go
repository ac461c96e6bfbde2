package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Params are the Argon2id cost settings. They are fixed per Hasher; callers
// never pick a cost per call.
type Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	KeyLength   uint32
	SaltLength  uint32
}

// DefaultParams follow the OWASP minimum for Argon2id (19 MiB, t=2, p=1).
var DefaultParams = Params{
	Memory:      19 * 1024,
	Iterations:  2,
	Parallelism: 1,
	KeyLength:   32,
	SaltLength:  16,
}

var errInvalidHash = errors.New("cryptox: invalid hash format")

// Hasher hashes passwords as PHC-format Argon2id strings. It also verifies
// bcrypt digests ($2a$, $2b$, $2y$) so records created before the switch to
// Argon2id still authenticate.
type Hasher struct {
	params     Params
	pepper     string
	legacyCost int

	dummyOnce sync.Once
	dummy     string

	legacyOnce  sync.Once
	legacyDummy []byte

	padded func(scheme string) // test hook, called after each padding verify
}

type HasherOption func(*Hasher)

func WithParams(p Params) HasherOption {
	return func(h *Hasher) { h.params = p }
}

// WithPepper appends a server-side secret to every password before hashing.
// It only applies to Argon2id digests.
func WithPepper(pepper string) HasherOption {
	return func(h *Hasher) { h.pepper = pepper }
}

// WithLegacyBcrypt declares that stored records may hold bcrypt digests of
// the given cost. Every verification then also runs the scheme it did not
// need, so response time does not reveal how a record is stored or whether
// it exists. A cost of zero disables this.
func WithLegacyBcrypt(cost int) HasherOption {
	return func(h *Hasher) { h.legacyCost = min(max(cost, 0), bcrypt.MaxCost) }
}

func NewHasher(opts ...HasherOption) *Hasher {
	h := &Hasher{params: DefaultParams}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash returns a freshly salted digest of password.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("cryptox: read salt: %w", err)
	}

	key := argon2.IDKey(
		[]byte(password+h.pepper),
		salt,
		h.params.Iterations,
		h.params.Memory,
		h.params.Parallelism,
		h.params.KeyLength,
	)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Iterations,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches digest. A malformed digest is a
// mismatch, never an error. The final comparison is constant time.
func (h *Hasher) Verify(password, digest string) bool {
	switch {
	case strings.HasPrefix(digest, "$argon2id$"):
		ok := h.verifyArgon2id(password, digest) == nil
		h.padBcrypt(password)
		return ok
	case isBcrypt(digest):
		ok := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
		h.padArgon2id(password)
		return ok
	default:
		return false
	}
}

// VerifyDummy burns the same work as a real Verify against an internal
// digest. Call it when there is no record to check so that a missing account
// costs the same as a wrong password.
func (h *Hasher) VerifyDummy(password string) {
	_ = h.Verify(password, h.argonDummy())
}

func (h *Hasher) argonDummy() string {
	h.dummyOnce.Do(func() {
		seed, _ := RandomString(16)
		h.dummy, _ = h.Hash(seed)
	})
	return h.dummy
}

func (h *Hasher) bcryptDummy() []byte {
	h.legacyOnce.Do(func() {
		seed, _ := RandomString(16)
		h.legacyDummy, _ = bcrypt.GenerateFromPassword([]byte(seed), h.legacyCost)
	})
	return h.legacyDummy
}

func (h *Hasher) padArgon2id(password string) {
	if h.legacyCost == 0 {
		return
	}
	_ = h.verifyArgon2id(password, h.argonDummy())
	if h.padded != nil {
		h.padded("argon2id")
	}
}

func (h *Hasher) padBcrypt(password string) {
	if h.legacyCost == 0 {
		return
	}
	_ = bcrypt.CompareHashAndPassword(h.bcryptDummy(), []byte(password))
	if h.padded != nil {
		h.padded("bcrypt")
	}
}

// NeedsRehash reports whether digest was produced by another algorithm or
// with different cost settings.
func (h *Hasher) NeedsRehash(digest string) bool {
	p, _, _, err := decodeArgon2id(digest)
	if err != nil {
		return true
	}
	return p.Memory != h.params.Memory ||
		p.Iterations != h.params.Iterations ||
		p.Parallelism != h.params.Parallelism
}

func (h *Hasher) verifyArgon2id(password, digest string) error {
	p, salt, want, err := decodeArgon2id(digest)
	if err != nil {
		return err
	}

	got := argon2.IDKey(
		[]byte(password+h.pepper),
		salt,
		p.Iterations,
		p.Memory,
		p.Parallelism,
		uint32(len(want)), // #nosec G115 - bounded by the decoded hash
	)

	if subtle.ConstantTimeCompare(got, want) != 1 {
		return errors.New("cryptox: password does not match")
	}
	return nil
}

// decodeArgon2id parses $argon2id$v=19$m=X,t=Y,p=Z$salt$hash.
func decodeArgon2id(digest string) (Params, []byte, []byte, error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Params{}, nil, nil, errInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return Params{}, nil, nil, errInvalidHash
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: %v", errInvalidHash, err)
	}
	if p.Memory == 0 || p.Iterations == 0 || p.Parallelism == 0 {
		return Params{}, nil, nil, errInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: salt: %v", errInvalidHash, err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return Params{}, nil, nil, errInvalidHash
	}
	p.SaltLength = uint32(len(salt)) // #nosec G115
	p.KeyLength = uint32(len(key))   // #nosec G115

	return p, salt, key, nil
}

func isBcrypt(digest string) bool {
	return strings.HasPrefix(digest, "$2a$") ||
		strings.HasPrefix(digest, "$2b$") ||
		strings.HasPrefix(digest, "$2y$")
}
