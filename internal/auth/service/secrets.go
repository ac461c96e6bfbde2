package service

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/crituk/authcore/pkg/jwtx"
)

// MinSecretLength is the shortest accepted HMAC secret in bytes.
const MinSecretLength = 32

var (
	ErrWeakSecret         = errors.New("service: secret too short")
	ErrSecretsNotDistinct = errors.New("service: access, refresh and service secrets must differ")
	ErrInvalidTTL         = errors.New("service: ttl must be positive")
)

// SecretsConfig is the raw material NewSecrets validates.
type SecretsConfig struct {
	AccessSecret  string
	RefreshSecret string
	ServiceSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	ServiceTTL    time.Duration
}

// Secrets holds the per-class signing keys and lifetimes. It is built once at
// startup and passed by value; nothing can mutate it afterwards.
type Secrets struct {
	access, refresh, service          []byte
	accessTTL, refreshTTL, serviceTTL time.Duration
}

func NewSecrets(cfg SecretsConfig) (Secrets, error) {
	named := []struct {
		name, value string
	}{
		{"access", cfg.AccessSecret},
		{"refresh", cfg.RefreshSecret},
		{"service", cfg.ServiceSecret},
	}
	for _, n := range named {
		if len(n.value) < MinSecretLength {
			return Secrets{}, fmt.Errorf("%w: %s secret needs at least %d bytes", ErrWeakSecret, n.name, MinSecretLength)
		}
	}

	s := Secrets{
		access:     []byte(cfg.AccessSecret),
		refresh:    []byte(cfg.RefreshSecret),
		service:    []byte(cfg.ServiceSecret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		serviceTTL: cfg.ServiceTTL,
	}
	if bytes.Equal(s.access, s.refresh) || bytes.Equal(s.access, s.service) || bytes.Equal(s.refresh, s.service) {
		return Secrets{}, ErrSecretsNotDistinct
	}
	if s.accessTTL <= 0 || s.refreshTTL <= 0 || s.serviceTTL <= 0 {
		return Secrets{}, ErrInvalidTTL
	}
	return s, nil
}

func (s Secrets) AccessTTL() time.Duration  { return s.accessTTL }
func (s Secrets) RefreshTTL() time.Duration { return s.refreshTTL }
func (s Secrets) ServiceTTL() time.Duration { return s.serviceTTL }

func (s Secrets) key(class jwtx.Class) []byte {
	switch class {
	case jwtx.ClassAccess:
		return s.access
	case jwtx.ClassRefresh:
		return s.refresh
	case jwtx.ClassService:
		return s.service
	default:
		return nil
	}
}

func (s Secrets) ttl(class jwtx.Class) time.Duration {
	switch class {
	case jwtx.ClassAccess:
		return s.accessTTL
	case jwtx.ClassRefresh:
		return s.refreshTTL
	case jwtx.ClassService:
		return s.serviceTTL
	default:
		return 0
	}
}
