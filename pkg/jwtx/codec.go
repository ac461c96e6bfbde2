package jwtx

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/crituk/authcore/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultIssuer is stamped into "iss" when the codec is built without one.
const DefaultIssuer = "crituk-auth"

// expLeeway absorbs the float64 rounding golang-jwt applies when it decodes a
// fractional "exp". Together with rounding exp up on encode, a token is
// accepted for its whole ttl and rejected at most 2ms after it.
const expLeeway = time.Millisecond

func init() {
	// Keep sub-second ttls intact in iat and exp.
	jwt.TimePrecision = time.Millisecond
}

var (
	ErrMalformed        = errors.New("jwtx: malformed token")
	ErrInvalidSignature = errors.New("jwtx: invalid signature")
	ErrExpired          = errors.New("jwtx: token expired")
	ErrInvalidClaims    = errors.New("jwtx: invalid claims")
	ErrInvalidTTL       = errors.New("jwtx: ttl must be positive")
	ErrMissingSecret    = errors.New("jwtx: missing secret")
)

// Codec signs and verifies HS256 compact JWTs. It holds no key material;
// secrets are supplied per call so one codec serves every token class.
type Codec struct {
	issuer string
	now    func() time.Time
}

type CodecOption func(*Codec)

// WithClock overrides the time source used for iat/exp stamping and for
// expiry checks.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) { c.now = now }
}

func NewCodec(issuer string, opts ...CodecOption) *Codec {
	if issuer == "" {
		issuer = DefaultIssuer
	}
	c := &Codec{issuer: issuer, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Codec) Issuer() string { return c.issuer }

// EncodeUser signs an Identity as a token of the given class.
func (c *Codec) EncodeUser(id Identity, class Class, secret []byte, ttl time.Duration) (string, error) {
	claims := &UserClaims{Identity: id}
	if err := c.stamp(&claims.RegisteredClaims, id.ID, class, ttl); err != nil {
		return "", err
	}
	return c.Sign(claims, secret)
}

// DecodeUser verifies token as the given class and returns its Identity.
func (c *Codec) DecodeUser(token string, class Class, secret []byte) (Identity, error) {
	var claims UserClaims
	if err := c.Verify(token, class, secret, &claims); err != nil {
		return Identity{}, err
	}
	return claims.Identity, nil
}

// EncodeService signs a client-credentials token for clientID.
func (c *Codec) EncodeService(clientID string, secret []byte, ttl time.Duration) (string, error) {
	claims := &ServiceClaims{ClientID: clientID}
	if err := c.stamp(&claims.RegisteredClaims, clientID, ClassService, ttl); err != nil {
		return "", err
	}
	return c.Sign(claims, secret)
}

// DecodeService verifies a service token and returns the client id it was
// issued to.
func (c *Codec) DecodeService(token string, secret []byte) (string, error) {
	var claims ServiceClaims
	if err := c.Verify(token, ClassService, secret, &claims); err != nil {
		return "", err
	}
	if claims.ClientID == "" {
		return "", fmt.Errorf("%w: missing clientId", ErrInvalidClaims)
	}
	return claims.ClientID, nil
}

func (c *Codec) stamp(rc *jwt.RegisteredClaims, subject string, class Class, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	now := c.now()
	rc.Issuer = c.issuer
	rc.Subject = subject
	rc.Audience = jwt.ClaimStrings{class.Audience()}
	rc.IssuedAt = jwt.NewNumericDate(now)
	rc.ExpiresAt = expiresAt(now.Add(ttl))
	rc.ID = idx.New().String()
	return nil
}

// expiresAt rounds t up to the encoded precision so truncation never moves
// expiry earlier than requested.
func expiresAt(t time.Time) *jwt.NumericDate {
	exp := t.Truncate(jwt.TimePrecision)
	if exp.Before(t) {
		exp = exp.Add(jwt.TimePrecision)
	}
	return jwt.NewNumericDate(exp)
}

// Sign serializes claims and appends an HS256 tag computed with secret.
func (c *Codec) Sign(claims jwt.Claims, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", ErrMissingSecret
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// Verify checks the HS256 tag over the raw header and payload segments
// before anything is unmarshalled, then decodes into claims and enforces
// exp, iss and the class audience.
func (c *Codec) Verify(token string, class Class, secret []byte, claims jwt.Claims) error {
	if len(secret) == 0 {
		return ErrMissingSecret
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return ErrMalformed
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(expLeeway),
		jwt.WithAudience(class.Audience()),
		jwt.WithIssuer(c.issuer),
		jwt.WithTimeFunc(c.now),
	)

	// 1. Authenticate the raw bytes.
	sig, err := parser.DecodeSegment(parts[2])
	if err != nil {
		return ErrMalformed
	}
	if err := jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], sig, secret); err != nil {
		return ErrInvalidSignature
	}

	// 2. Only now parse header and claims, and validate them.
	_, err = parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	})
	return mapParseError(err)
}

func mapParseError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSignature
	default:
		return fmt.Errorf("%w: %v", ErrInvalidClaims, err)
	}
}
