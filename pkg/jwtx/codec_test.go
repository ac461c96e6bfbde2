package jwtx_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/crituk/authcore/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var (
	accessSecret  = []byte("access-secret-access-secret-0123")
	refreshSecret = []byte("refresh-secret-refresh-secret-01")
	serviceSecret = []byte("service-secret-service-secret-01")
)

func testIdentity() jwtx.Identity {
	return jwtx.Identity{
		ID:        "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV",
		Email:     "a@b.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "ada",
	}
}

func TestCodecRoundTrip(t *testing.T) {
	t.Parallel()
	codec := jwtx.NewCodec("")

	tests := []struct {
		name   string
		class  jwtx.Class
		secret []byte
		ttl    time.Duration
	}{
		{"access", jwtx.ClassAccess, accessSecret, time.Hour},
		{"refresh", jwtx.ClassRefresh, refreshSecret, 7 * 24 * time.Hour},
		{"short ttl", jwtx.ClassAccess, accessSecret, 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := codec.EncodeUser(testIdentity(), tt.class, tt.secret, tt.ttl)
			require.NoError(t, err)
			require.Len(t, strings.Split(token, "."), 3)

			got, err := codec.DecodeUser(token, tt.class, tt.secret)
			require.NoError(t, err)
			require.Equal(t, testIdentity(), got)
		})
	}
}

func TestCodecStampsRegisteredClaims(t *testing.T) {
	t.Parallel()
	now := time.Unix(1_700_000_000, 0)
	codec := jwtx.NewCodec("issuer-x", jwtx.WithClock(func() time.Time { return now }))

	token, err := codec.EncodeUser(testIdentity(), jwtx.ClassAccess, accessSecret, time.Hour)
	require.NoError(t, err)

	var claims jwtx.UserClaims
	require.NoError(t, codec.Verify(token, jwtx.ClassAccess, accessSecret, &claims))
	require.Equal(t, "issuer-x", claims.Issuer)
	require.Equal(t, testIdentity().ID, claims.Subject)
	require.Equal(t, jwt.ClaimStrings{"crituk:access"}, claims.Audience)
	require.Equal(t, now.Unix(), claims.IssuedAt.Unix())
	require.Equal(t, now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	require.NotEmpty(t, claims.RegisteredClaims.ID)
}

func TestCodecCrossClassRejection(t *testing.T) {
	t.Parallel()
	codec := jwtx.NewCodec("")

	refresh, err := codec.EncodeUser(testIdentity(), jwtx.ClassRefresh, refreshSecret, time.Hour)
	require.NoError(t, err)
	access, err := codec.EncodeUser(testIdentity(), jwtx.ClassAccess, accessSecret, time.Hour)
	require.NoError(t, err)

	t.Run("refresh as access", func(t *testing.T) {
		_, err := codec.DecodeUser(refresh, jwtx.ClassAccess, accessSecret)
		require.ErrorIs(t, err, jwtx.ErrInvalidSignature)
	})

	t.Run("access as refresh", func(t *testing.T) {
		_, err := codec.DecodeUser(access, jwtx.ClassRefresh, refreshSecret)
		require.ErrorIs(t, err, jwtx.ErrInvalidSignature)
	})

	t.Run("same secret different audience", func(t *testing.T) {
		token, err := codec.EncodeUser(testIdentity(), jwtx.ClassRefresh, accessSecret, time.Hour)
		require.NoError(t, err)

		_, err = codec.DecodeUser(token, jwtx.ClassAccess, accessSecret)
		require.ErrorIs(t, err, jwtx.ErrInvalidClaims)
	})

	t.Run("user token as service", func(t *testing.T) {
		_, err := codec.DecodeService(access, serviceSecret)
		require.Error(t, err)
	})
}

func TestCodecTamperSensitivity(t *testing.T) {
	t.Parallel()
	codec := jwtx.NewCodec("")

	token, err := codec.EncodeUser(testIdentity(), jwtx.ClassAccess, accessSecret, time.Hour)
	require.NoError(t, err)

	for i := range len(token) {
		b := []byte(token)
		switch b[i] {
		case '.':
			b[i] = 'x'
		case 'A':
			b[i] = 'B'
		default:
			b[i] = 'A'
		}

		_, err := codec.DecodeUser(string(b), jwtx.ClassAccess, accessSecret)
		require.Error(t, err, "flip at %d should fail", i)
		require.True(t,
			errorIsAny(err, jwtx.ErrInvalidSignature, jwtx.ErrMalformed),
			"flip at %d: unexpected error %v", i, err)
	}
}

func TestCodecExpiry(t *testing.T) {
	t.Parallel()

	t.Run("wall clock", func(t *testing.T) {
		codec := jwtx.NewCodec("")
		token, err := codec.EncodeUser(testIdentity(), jwtx.ClassAccess, accessSecret, time.Millisecond)
		require.NoError(t, err)

		time.Sleep(50 * time.Millisecond)

		_, err = codec.DecodeUser(token, jwtx.ClassAccess, accessSecret)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("valid signature past exp", func(t *testing.T) {
		now := time.Unix(1_700_000_000, 0)
		clock := func() time.Time { return now }
		codec := jwtx.NewCodec("", jwtx.WithClock(clock))

		token, err := codec.EncodeUser(testIdentity(), jwtx.ClassAccess, accessSecret, time.Hour)
		require.NoError(t, err)

		later := jwtx.NewCodec("", jwtx.WithClock(func() time.Time { return now.Add(2 * time.Hour) }))
		_, err = later.DecodeUser(token, jwtx.ClassAccess, accessSecret)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})
}

func TestCodecSubSecondTTL(t *testing.T) {
	t.Parallel()

	at := func(now time.Time) *jwtx.Codec {
		return jwtx.NewCodec("", jwtx.WithClock(func() time.Time { return now }))
	}

	tests := []struct {
		name   string
		issued time.Time
		ttl    time.Duration
	}{
		{"whole second", time.Unix(1_700_000_000, 0), 500 * time.Millisecond},
		{"just past a second", time.Unix(1_700_000_000, 100_000), 900 * time.Millisecond},
		{"mid second", time.Unix(1_700_000_000, 500_000_001), 500 * time.Millisecond},
		{"just before a second", time.Unix(1_700_000_000, 999_999_999), 500 * time.Millisecond},
		{"sub millisecond offset", time.Unix(1_700_000_000, 123_456_789), 250 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := at(tt.issued).EncodeUser(testIdentity(), jwtx.ClassAccess, accessSecret, tt.ttl)
			require.NoError(t, err)

			for _, elapsed := range []time.Duration{0, 10 * time.Millisecond, tt.ttl / 2, tt.ttl - time.Nanosecond} {
				_, err := at(tt.issued.Add(elapsed)).DecodeUser(token, jwtx.ClassAccess, accessSecret)
				require.NoError(t, err, "rejected %s after issue", elapsed)
			}

			_, err = at(tt.issued.Add(tt.ttl+2*time.Millisecond)).DecodeUser(token, jwtx.ClassAccess, accessSecret)
			require.ErrorIs(t, err, jwtx.ErrExpired)
		})
	}

	t.Run("exp keeps milliseconds", func(t *testing.T) {
		issued := time.Unix(1_700_000_000, 100_000)
		token, err := at(issued).EncodeUser(testIdentity(), jwtx.ClassAccess, accessSecret, 900*time.Millisecond)
		require.NoError(t, err)

		var claims jwtx.UserClaims
		require.NoError(t, at(issued).Verify(token, jwtx.ClassAccess, accessSecret, &claims))
		require.WithinDuration(t, issued.Add(900*time.Millisecond), claims.ExpiresAt.Time, time.Millisecond)
	})
}

func TestCodecRejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()
	codec := jwtx.NewCodec("")

	claims := jwt.MapClaims{
		"id":  "u1",
		"iss": jwtx.DefaultIssuer,
		"aud": jwtx.ClassAccess.Audience(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}

	t.Run("HS512", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(accessSecret)
		require.NoError(t, err)

		_, err = codec.DecodeUser(token, jwtx.ClassAccess, accessSecret)
		require.ErrorIs(t, err, jwtx.ErrInvalidSignature)
	})

	t.Run("none", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = codec.DecodeUser(token, jwtx.ClassAccess, accessSecret)
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})
}

func TestCodecIgnoresUnknownFields(t *testing.T) {
	t.Parallel()
	codec := jwtx.NewCodec("")

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":        "u1",
		"email":     "a@b.com",
		"user_name": "ada",
		"role":      "admin",
		"password":  "should-not-surface",
		"iss":       jwtx.DefaultIssuer,
		"aud":       jwtx.ClassAccess.Audience(),
		"exp":       time.Now().Add(time.Hour).Unix(),
	}).SignedString(accessSecret)
	require.NoError(t, err)

	got, err := codec.DecodeUser(token, jwtx.ClassAccess, accessSecret)
	require.NoError(t, err)
	require.Equal(t, jwtx.Identity{ID: "u1", Email: "a@b.com", Username: "ada"}, got)
}

func TestCodecRequiresExpiry(t *testing.T) {
	t.Parallel()
	codec := jwtx.NewCodec("")

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "u1",
		"iss": jwtx.DefaultIssuer,
		"aud": jwtx.ClassAccess.Audience(),
	}).SignedString(accessSecret)
	require.NoError(t, err)

	_, err = codec.DecodeUser(token, jwtx.ClassAccess, accessSecret)
	require.ErrorIs(t, err, jwtx.ErrInvalidClaims)
}

func TestCodecService(t *testing.T) {
	t.Parallel()
	codec := jwtx.NewCodec("")

	token, err := codec.EncodeService("svc-a", serviceSecret, time.Hour)
	require.NoError(t, err)

	clientID, err := codec.DecodeService(token, serviceSecret)
	require.NoError(t, err)
	require.Equal(t, "svc-a", clientID)

	_, err = codec.DecodeService(token, accessSecret)
	require.ErrorIs(t, err, jwtx.ErrInvalidSignature)
}

func TestCodecInputValidation(t *testing.T) {
	t.Parallel()
	codec := jwtx.NewCodec("")

	_, err := codec.EncodeUser(testIdentity(), jwtx.ClassAccess, accessSecret, 0)
	require.ErrorIs(t, err, jwtx.ErrInvalidTTL)

	_, err = codec.EncodeUser(testIdentity(), jwtx.ClassAccess, nil, time.Hour)
	require.ErrorIs(t, err, jwtx.ErrMissingSecret)

	for _, bad := range []string{"", "abc", "a.b", "a..c", "a.b.c.d"} {
		_, err := codec.DecodeUser(bad, jwtx.ClassAccess, accessSecret)
		require.ErrorIs(t, err, jwtx.ErrMalformed, bad)
	}
}

func errorIsAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
