package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/crituk/authcore/internal/auth/http"
	"github.com/crituk/authcore/internal/auth/service"
	"github.com/crituk/authcore/internal/auth/store"
	"github.com/crituk/authcore/internal/auth/store/drivers/sqlite"
	"github.com/crituk/authcore/internal/auth/store/drivers/userservice"
	"github.com/crituk/authcore/pkg/cryptox"
	"github.com/crituk/authcore/pkg/jwtx"
	"github.com/crituk/authcore/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	store  store.Store
	hasher *cryptox.Hasher
	codec  *jwtx.Codec

	// Services
	clients      *service.ClientRegistry
	verifier     *service.CredentialVerifier
	issuer       *service.TokenIssuer
	validator    *service.TokenValidator
	rotator      *service.RefreshRotator
	registration *service.Registration

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	pepper, err := cryptox.LoadPepper(cfg.PepperFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}
	hasherOpts := []cryptox.HasherOption{cryptox.WithPepper(pepper)}
	if cfg.LegacyBcryptCost > 0 {
		hasherOpts = append(hasherOpts, cryptox.WithLegacyBcrypt(cfg.LegacyBcryptCost))
	}
	app.hasher = cryptox.NewHasher(hasherOpts...)
	app.codec = jwtx.NewCodec(jwtx.DefaultIssuer)

	if err := app.initStore(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("auth service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"identity_store", app.cfg.IdentityStore,
		"clients", app.clients.IDs(),
		"trusted_proxies", len(app.cfg.RateLimits.TrustedProxies),
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.store.Close(); err != nil {
		app.logger.Error("error closing identity store", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// Handler exposes the configured router.
func (app *Application) Handler() http.Handler {
	return app.router
}

// initStore opens the configured identity store. The SQLite store is
// migrated on open.
func (app *Application) initStore() error {
	switch app.cfg.IdentityStore {
	case StoreUserService:
		st, err := userservice.NewStore(app.cfg.UserServiceURL, app.cfg.UserServiceTimeout)
		if err != nil {
			return fmt.Errorf("failed to initialize user service store: %w", err)
		}
		app.store = st
		app.logger.Info("using user service identity store", "url", app.cfg.UserServiceURL)
		return nil

	default:
		db, err := sqlite.NewStore(sqlite.DSN(app.cfg.DatabaseFile))
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		app.store = db

		if err := db.ApplyMigrations(); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to apply database migrations: %w", err)
		}

		app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
		return nil
	}
}

// initServices initializes the credential and token services
func (app *Application) initServices() {
	app.clients = service.NewClientRegistry(app.cfg.Clients)

	app.verifier = service.NewCredentialVerifier(app.store.Users(), app.hasher)
	app.issuer = service.NewTokenIssuer(app.codec, app.cfg.Secrets, app.clients)
	app.validator = service.NewTokenValidator(app.codec, app.cfg.Secrets)
	app.rotator = service.NewRefreshRotator(app.validator, app.issuer)
	app.registration = service.NewRegistration(app.store.Users(), app.hasher)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(httpapi.RouterConfig{
		Version:      BuildVersion,
		CookieSecure: app.cfg.CookieSecure,
		RefreshTTL:   app.cfg.Secrets.RefreshTTL(),
		CORSOrigin:   app.cfg.CORSOrigin,
		RateLimits:   app.cfg.RateLimits,
	}, app.store, app.logger)

	// Wire services to router
	router.Verifier = app.verifier
	router.Issuer = app.issuer
	router.Validator = app.validator
	router.Rotator = app.rotator
	router.Registration = app.registration
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
