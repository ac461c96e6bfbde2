package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/crituk/authcore/pkg/httpx"
)

// Kind is the machine readable error code carried in the "error" field of
// every failure response. The set is closed; each kind has exactly one
// default HTTP status.
type Kind string

const (
	KindInvalidCredentials       Kind = "INVALID_CREDENTIALS"
	KindInvalidClientCredentials Kind = "INVALID_CLIENT_CREDENTIALS"
	KindMissingToken             Kind = "MISSING_TOKEN"
	KindInvalidOrExpiredToken    Kind = "INVALID_OR_EXPIRED_TOKEN"
	KindUpstreamUnavailable      Kind = "UPSTREAM_UNAVAILABLE"
	KindValidationFailed         Kind = "VALIDATION_FAILED"
	KindConflict                 Kind = "CONFLICT"
	KindRateLimited              Kind = httpx.RateLimitCode
	KindInternal                 Kind = "INTERNAL"
)

var kindStatus = map[Kind]int{
	KindInvalidCredentials:       http.StatusUnauthorized,
	KindInvalidClientCredentials: http.StatusUnauthorized,
	KindMissingToken:             http.StatusBadRequest,
	KindInvalidOrExpiredToken:    http.StatusUnauthorized,
	KindUpstreamUnavailable:      http.StatusServiceUnavailable,
	KindValidationFailed:         http.StatusBadRequest,
	KindConflict:                 http.StatusConflict,
	KindRateLimited:              http.StatusTooManyRequests,
	KindInternal:                 http.StatusInternalServerError,
}

// Status is the fixed HTTP status for k. Unknown kinds map to 500.
func (k Kind) Status() int {
	if s, ok := kindStatus[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	_, ok := kindStatus[k]
	return ok
}

// Error is the single error type crossing the service boundary. Messages
// are safe to show to callers and never contain secrets, tokens or
// passwords.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]string

	// status overrides Kind.Status for endpoints with a documented
	// exception (refresh answers MISSING_TOKEN with 403).
	status int
	cause  error
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches on Kind so errors.Is(err, ErrInvalidCredentials) holds for any
// error of that kind regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func (e *Error) Status() int {
	if e.status != 0 {
		return e.status
	}
	return e.Kind.Status()
}

// WithStatus returns a copy answered with code instead of the kind default.
func (e *Error) WithStatus(code int) *Error {
	c := *e
	c.status = code
	return &c
}

// Wrap returns a copy carrying cause for logging. The cause is never
// written to the response.
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.cause = cause
	return &c
}

// WithDetails returns a copy with per-field messages attached.
func (e *Error) WithDetails(details map[string]string) *Error {
	c := *e
	c.Details = details
	return &c
}

// WriteError writes e as the failure envelope.
func (e *Error) WriteError(w http.ResponseWriter) {
	httpx.WriteFailure(w, e.Status(), string(e.Kind), e.Message, e.Details)
}

var (
	ErrInvalidCredentials       = New(KindInvalidCredentials, "invalid email or password")
	ErrInvalidClientCredentials = New(KindInvalidClientCredentials, "invalid client credentials")
	ErrMissingToken             = New(KindMissingToken, "no token provided")
	ErrInvalidOrExpiredToken    = New(KindInvalidOrExpiredToken, "invalid or expired token")
	ErrUpstreamUnavailable      = New(KindUpstreamUnavailable, "identity service unavailable")
	ErrValidationFailed         = New(KindValidationFailed, "request validation failed")
	ErrConflict                 = New(KindConflict, "resource already exists")
	ErrInternal                 = New(KindInternal, "internal server error")
)

// AsError returns the boundary error for err. Anything outside the taxonomy
// becomes ErrInternal wrapping the original so it can be logged but not
// leaked.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal.Wrap(err)
}

// parseErrorResponse turns a non-2xx response into an *Error. A body that is
// not a recognised envelope is classified by status alone.
func parseErrorResponse(resp *http.Response, body []byte) *Error {
	var f httpx.Failure
	if err := json.Unmarshal(body, &f); err == nil && Kind(f.Error).Valid() {
		e := New(Kind(f.Error), f.Message)
		e.Details = f.Details
		if resp.StatusCode != e.Kind.Status() {
			e = e.WithStatus(resp.StatusCode)
		}
		return e
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrInvalidOrExpiredToken
	case resp.StatusCode == http.StatusTooManyRequests:
		return New(KindRateLimited, "rate limited")
	case resp.StatusCode >= 500:
		return ErrUpstreamUnavailable.Wrap(fmt.Errorf("auth service returned %d", resp.StatusCode))
	default:
		return ErrInternal.WithStatus(resp.StatusCode).Wrap(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
}
