package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/crituk/authcore/internal/auth/service"
	"github.com/crituk/authcore/pkg/httpx"
)

// Identity store backends.
const (
	StoreSQLite      = "sqlite"
	StoreUserService = "userservice"
)

var (
	ErrInvalidClientRegistry = errors.New("config: invalid CLIENT_REGISTRY")
	ErrUnknownIdentityStore  = errors.New("config: unknown IDENTITY_STORE")
	ErrMissingUserService    = errors.New("config: USER_SERVICE_URL is required for the userservice store")
)

type Config struct {
	Secrets service.Secrets   // Required: ACCESS_SECRET, REFRESH_SECRET, SERVICE_SECRET and their TTLs
	Clients map[string]string // Optional: CLIENT_REGISTRY, id=secret pairs for the client-credentials grant

	IdentityStore      string        // Optional: sqlite or userservice (default: sqlite)
	DatabaseFile       string        // Optional: path to SQLite database file (default: ./auth.db)
	UserServiceURL     string        // Required for the userservice store
	UserServiceTimeout time.Duration // Optional: user service request timeout (default: 5s)
	PepperFile         string        // Optional: path to file containing pepper for password hashing
	LegacyBcryptCost   int           // Optional: cost of stored bcrypt digests, 0 when none exist (default: 10 for userservice)

	CookieSecure bool   // Optional: Secure flag on the refresh cookie (default: true in production)
	CORSOrigin   string // Optional: browser origin allowed to send credentialed requests
	RateLimits   httpx.RateLimits // RATELIMIT_* profiles; TRUSTED_PROXIES lists proxies allowed to set X-Forwarded-For

	Env                 string        // Environment (development, staging, production) (default: development)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 3001)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads the process environment, after loading ENV_FILE or
// env/.env.<ENV> when present. Variables already set in the process win over
// the file.
func LoadConfig() (Config, error) {
	if err := loadEnvFile(); err != nil {
		return Config{}, err
	}

	env := getEnvOrDefault("ENV", "development")
	cfg := Config{
		IdentityStore:       strings.ToLower(getEnvOrDefault("IDENTITY_STORE", StoreSQLite)),
		DatabaseFile:        getEnvOrDefault("DATABASE_FILE", "auth.db"),
		UserServiceURL:      os.Getenv("USER_SERVICE_URL"),
		UserServiceTimeout:  getEnvDurationOrDefault("USER_SERVICE_TIMEOUT", 5*time.Second),
		PepperFile:          os.Getenv("PEPPER_FILE"),
		CookieSecure:        getEnvBoolOrDefault("COOKIE_SECURE", env == "production"),
		CORSOrigin:          os.Getenv("CORS_ORIGIN"),
		RateLimits:          httpx.RateLimitsFromEnv(os.Getenv),
		Env:                 env,
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 3001),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	secrets, err := service.NewSecrets(service.SecretsConfig{
		AccessSecret:  os.Getenv("ACCESS_SECRET"),
		RefreshSecret: os.Getenv("REFRESH_SECRET"),
		ServiceSecret: os.Getenv("SERVICE_SECRET"),
		AccessTTL:     getEnvDurationOrDefault("ACCESS_TTL", time.Hour),
		RefreshTTL:    getEnvDurationOrDefault("REFRESH_TTL", 7*24*time.Hour),
		ServiceTTL:    getEnvDurationOrDefault("SERVICE_TTL", time.Hour),
	})
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.Secrets = secrets

	clients, err := parseClientRegistry(os.Getenv("CLIENT_REGISTRY"))
	if err != nil {
		return Config{}, err
	}
	cfg.Clients = clients

	proxies, err := httpx.ParseTrustedProxies(os.Getenv("TRUSTED_PROXIES"))
	if err != nil {
		return Config{}, fmt.Errorf("config: TRUSTED_PROXIES: %w", err)
	}
	cfg.RateLimits.TrustedProxies = proxies

	switch cfg.IdentityStore {
	case StoreSQLite:
		cfg.LegacyBcryptCost = getEnvIntOrDefault("LEGACY_BCRYPT_COST", 0)
	case StoreUserService:
		if cfg.UserServiceURL == "" {
			return Config{}, ErrMissingUserService
		}
		cfg.LegacyBcryptCost = getEnvIntOrDefault("LEGACY_BCRYPT_COST", bcrypt.DefaultCost)
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownIdentityStore, cfg.IdentityStore)
	}

	return cfg, nil
}

// loadEnvFile loads an explicit ENV_FILE, which must exist, or the optional
// env/.env.<ENV> file.
func loadEnvFile() error {
	if path := os.Getenv("ENV_FILE"); path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("config: load %s: %w", path, err)
		}
		return nil
	}

	path := "env/.env." + getEnvOrDefault("ENV", "development")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// parseClientRegistry parses "id=secret,id=secret". Blank entries are
// skipped; an entry without both halves or a repeated id is an error.
func parseClientRegistry(raw string) (map[string]string, error) {
	clients := map[string]string{}
	for entry := range strings.SplitSeq(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		id, secret, ok := strings.Cut(entry, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" || secret == "" {
			return nil, fmt.Errorf("%w: entry %q is not id=secret", ErrInvalidClientRegistry, redactEntry(entry))
		}
		if _, dup := clients[id]; dup {
			return nil, fmt.Errorf("%w: duplicate client %q", ErrInvalidClientRegistry, id)
		}
		clients[id] = secret
	}
	return clients, nil
}

// redactEntry keeps the client id of a malformed entry and drops anything
// that might be a secret.
func redactEntry(entry string) string {
	id, _, _ := strings.Cut(entry, "=")
	return strings.TrimSpace(id) + "=..."
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
