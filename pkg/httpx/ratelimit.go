package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/crituk/authcore/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitCode is the error code written when a request is throttled.
const RateLimitCode = "RATE_LIMITED"

// RateLimitConfig defines the rate limiting parameters.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed in the time window
	RequestsPerWindow int
	// Window is the time window for rate limiting
	Window time.Duration
	// Burst allows for temporary bursts above the rate limit
	Burst int
}

// RateLimits groups the profiles applied across the router.
type RateLimits struct {
	// Strict guards credential checks (login, token, register).
	Strict RateLimitConfig
	// Moderate guards refresh and logout.
	Moderate RateLimitConfig
	// Lenient guards health probes.
	Lenient RateLimitConfig
	// Public guards token validation, which downstream services call per request.
	Public RateLimitConfig
	// TrustedProxies may set X-Forwarded-For and X-Real-IP.
	TrustedProxies []netip.Prefix
}

func DefaultRateLimits() RateLimits {
	return RateLimits{
		Strict:   RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5},
		Moderate: RateLimitConfig{RequestsPerWindow: 20, Window: time.Minute, Burst: 20},
		Lenient:  RateLimitConfig{RequestsPerWindow: 100, Window: time.Minute, Burst: 100},
		Public:   RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000},
	}
}

// RateLimitsFromEnv applies RATELIMIT_{STRICT,MODERATE,LENIENT,PUBLIC}_*
// overrides on top of the defaults.
func RateLimitsFromEnv(getenv func(string) string) RateLimits {
	d := DefaultRateLimits()
	return RateLimits{
		Strict:   ParseRateLimitFromEnv(getenv, "STRICT", d.Strict),
		Moderate: ParseRateLimitFromEnv(getenv, "MODERATE", d.Moderate),
		Lenient:  ParseRateLimitFromEnv(getenv, "LENIENT", d.Lenient),
		Public:   ParseRateLimitFromEnv(getenv, "PUBLIC", d.Public),
	}
}

// ParseRateLimitFromEnv reads RATELIMIT_{prefix}_REQUESTS, _WINDOW_SEC and
// _BURST. Missing, malformed and non-positive values keep the default.
func ParseRateLimitFromEnv(getenv func(string) string, prefix string, def RateLimitConfig) RateLimitConfig {
	cfg := def
	if n, ok := positiveInt(getenv("RATELIMIT_" + prefix + "_REQUESTS")); ok {
		cfg.RequestsPerWindow = n
	}
	if n, ok := positiveInt(getenv("RATELIMIT_" + prefix + "_WINDOW_SEC")); ok {
		cfg.Window = time.Duration(n) * time.Second
	}
	if n, ok := positiveInt(getenv("RATELIMIT_" + prefix + "_BURST")); ok {
		cfg.Burst = n
	}
	return cfg
}

func positiveInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// KeyExtractor groups requests into rate limit buckets.
type KeyExtractor func(*http.Request) string

// ErrInvalidTrustedProxy is returned by ParseTrustedProxies.
var ErrInvalidTrustedProxy = errors.New("httpx: invalid trusted proxy")

// ParseTrustedProxies parses a comma separated list of IP addresses and
// CIDR ranges. Blank entries are skipped.
func ParseTrustedProxies(raw string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for entry := range strings.SplitSeq(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if strings.Contains(entry, "/") {
			p, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidTrustedProxy, entry)
			}
			out = append(out, p.Masked())
			continue
		}

		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTrustedProxy, entry)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

// IPKeyExtractor keys on the connection's peer address. Forwarding headers
// are ignored.
func IPKeyExtractor(r *http.Request) string {
	return ClientIPKeyExtractor(nil)(r)
}

// ClientIPKeyExtractor keys on the client address. X-Forwarded-For and
// X-Real-IP are honoured only when the peer is one of trusted; the
// forwarded chain is then read right to left and the first hop outside
// trusted is the client.
func ClientIPKeyExtractor(trusted []netip.Prefix) KeyExtractor {
	isTrusted := func(addr netip.Addr) bool {
		for _, p := range trusted {
			if p.Contains(addr) {
				return true
			}
		}
		return false
	}

	return func(r *http.Request) string {
		peer, ok := peerAddr(r.RemoteAddr)
		if !ok {
			return r.RemoteAddr
		}
		if !isTrusted(peer) {
			return peer.String()
		}

		if client, ok := forwardedClient(r.Header.Values("X-Forwarded-For"), isTrusted); ok {
			return client.String()
		}
		if xri, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
			return xri.Unmap().String()
		}
		return peer.String()
	}
}

// forwardedClient walks X-Forwarded-For from the nearest hop outwards. A
// malformed hop ends the walk since nothing beyond it can be attributed.
func forwardedClient(headers []string, isTrusted func(netip.Addr) bool) (netip.Addr, bool) {
	var hops []string
	for _, h := range headers {
		hops = append(hops, strings.Split(h, ",")...)
	}

	for i := len(hops) - 1; i >= 0; i-- {
		addr, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			return netip.Addr{}, false
		}
		addr = addr.Unmap()
		if !isTrusted(addr) {
			return addr, true
		}
	}
	return netip.Addr{}, false
}

func peerAddr(remote string) (netip.Addr, bool) {
	if ap, err := netip.ParseAddrPort(remote); err == nil {
		return ap.Addr().Unmap(), true
	}
	if addr, err := netip.ParseAddr(remote); err == nil {
		return addr.Unmap(), true
	}
	return netip.Addr{}, false
}

// limiterSet holds one token bucket per key.
type limiterSet struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int

	mu          sync.Mutex
	lastCleanup time.Time
}

func (s *limiterSet) get(key string) *rate.Limiter {
	if l, ok := s.limiters.Load(key); ok {
		return l.(*rate.Limiter)
	}

	actual, _ := s.limiters.LoadOrStore(key, rate.NewLimiter(s.rate, s.burst))
	s.maybeCleanup()
	return actual.(*rate.Limiter)
}

// maybeCleanup drops buckets that have refilled completely, at most once
// every five minutes.
func (s *limiterSet) maybeCleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if time.Since(s.lastCleanup) < 5*time.Minute {
		return
	}
	s.lastCleanup = time.Now()

	s.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(s.burst) {
			s.limiters.Delete(key)
		}
		return true
	})
}

// RateLimitMiddleware throttles requests per key. Requests whose key is
// empty pass through.
func RateLimitMiddleware(config RateLimitConfig, keyExtractor KeyExtractor) Middleware {
	set := &limiterSet{
		rate:        rate.Limit(float64(config.RequestsPerWindow) / config.Window.Seconds()),
		burst:       config.Burst,
		lastCleanup: time.Now(),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			key := keyExtractor(r)
			if key == "" {
				log.Warn("rate limit: unable to extract key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			limiter := set.get(key)
			if limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			// Peek at when the next token lands without consuming it.
			reservation := limiter.Reserve()
			delay := reservation.Delay()
			reservation.Cancel()
			retryAfter := max(int(delay.Seconds()), 1)

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Window", config.Window.String())

			log.Warn("rate limit exceeded",
				"key", key,
				"endpoint", r.URL.Path,
				"retry_after", retryAfter,
			)
			WriteFailure(w, http.StatusTooManyRequests, RateLimitCode, "too many requests, try again later", nil)
		})
	}
}

// RateLimitByIP limits by client IP address. Forwarding headers count only
// from the trusted proxies.
func RateLimitByIP(config RateLimitConfig, trusted ...netip.Prefix) Middleware {
	return RateLimitMiddleware(config, ClientIPKeyExtractor(trusted))
}
