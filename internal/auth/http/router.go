package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/crituk/authcore/internal/auth/service"
	"github.com/crituk/authcore/internal/auth/store"
	"github.com/crituk/authcore/pkg/httpx"
	"github.com/crituk/authcore/pkg/slogx"

	_ "github.com/crituk/authcore/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterConfig carries the transport settings the handlers need.
type RouterConfig struct {
	Version      string
	CookieSecure bool
	RefreshTTL   time.Duration // refresh cookie max-age
	CORSOrigin   string
	RateLimits   httpx.RateLimits
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	cfg       RouterConfig
	startTime time.Time
	logger    *slog.Logger
	store     store.Store

	Verifier     *service.CredentialVerifier
	Issuer       *service.TokenIssuer
	Validator    *service.TokenValidator
	Rotator      *service.RefreshRotator
	Registration *service.Registration
}

func NewRouter(cfg RouterConfig, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:       http.NewServeMux(),
		cfg:       cfg,
		startTime: time.Now(),
		store:     st,
		logger:    logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORS(cfg.CORSOrigin),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Crituk Authentication Service API
//	@version		0.1.0
//	@description	Credential verification and token lifecycle for Crituk services.
//	@description
//	@description	Access, refresh and service tokens are HS256 JWTs, each class signed with its own secret.
//	@description	The refresh token travels only in the crtk_refresh_token HTTP-only cookie.
//
//	@host						localhost:3001
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Access or service token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	limits := r.cfg.RateLimits
	cookies := refreshCookies{secure: r.cfg.CookieSecure, maxAge: r.cfg.RefreshTTL}

	// Credential checks - strict rate limit by IP to slow down guessing
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(&LoginHandler{Verifier: r.Verifier, Issuer: r.Issuer, cookies: cookies},
			httpx.RateLimitByIP(limits.Strict, limits.TrustedProxies...),
		),
	)
	r.Mux.Handle("POST /auth/token",
		httpx.Chain(&ServiceTokenHandler{Issuer: r.Issuer},
			httpx.RateLimitByIP(limits.Strict, limits.TrustedProxies...),
		),
	)
	r.Mux.Handle("POST /auth/register",
		httpx.Chain(&RegisterHandler{Registration: r.Registration},
			httpx.RateLimitByIP(limits.Strict, limits.TrustedProxies...),
		),
	)

	// Session maintenance - moderate
	r.Mux.Handle("POST /auth/refresh",
		httpx.Chain(&RefreshHandler{Rotator: r.Rotator, cookies: cookies},
			httpx.RateLimitByIP(limits.Moderate, limits.TrustedProxies...),
		),
	)
	r.Mux.Handle("POST /auth/logout",
		httpx.Chain(&LogoutHandler{Validator: r.Validator, cookies: cookies},
			httpx.RateLimitByIP(limits.Moderate, limits.TrustedProxies...),
		),
	)

	// Validation is called by downstream services on every request
	r.Mux.Handle("GET /auth/validate",
		httpx.Chain(&ValidateHandler{Validator: r.Validator},
			httpx.RateLimitByIP(limits.Public, limits.TrustedProxies...),
		),
	)
	r.Mux.Handle("GET /auth/validate/service",
		httpx.Chain(&ValidateServiceHandler{Validator: r.Validator},
			httpx.RateLimitByIP(limits.Public, limits.TrustedProxies...),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.cfg.Version),
			httpx.RateLimitByIP(r.cfg.RateLimits.Lenient, r.cfg.RateLimits.TrustedProxies...),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.cfg.Version, r.store),
			httpx.RateLimitByIP(r.cfg.RateLimits.Lenient, r.cfg.RateLimits.TrustedProxies...),
		),
	)
}
