// Package middleware provides http.RoundTripper decorators for the kiosk's
// outbound backend traffic.
package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"campus-kiosk/internal/domain"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// Middleware decorates a RoundTripper.
type Middleware func(http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper.
func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// Chain wraps base with the given middlewares. The first middleware is the
// outermost and sees the request first.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}

// RequestID stamps every outgoing request with a ULID unless the caller
// already set one.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get(RequestIDHeader) != "" {
				return next.RoundTrip(r)
			}
			r = r.Clone(r.Context())
			r.Header.Set(RequestIDHeader, domain.NewID(time.Now()))
			return next.RoundTrip(r)
		})
	}
}

// RateLimitConfig holds the outbound token bucket settings.
type RateLimitConfig struct {
	RequestsPerSec float64
	BurstSize      int
}

// RateLimit applies a token bucket per backend host. Requests wait for a
// token instead of failing; a cancelled context aborts the wait.
// A zero RequestsPerSec disables limiting.
func RateLimit(cfg RateLimitConfig) Middleware {
	if cfg.RequestsPerSec <= 0 {
		return func(next http.RoundTripper) http.RoundTripper { return next }
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = 1
	}

	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)
	limiterFor := func(host string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[host]
		if !ok {
			l = rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), burst)
			limiters[host] = l
		}
		return l
	}

	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if err := limiterFor(r.URL.Host).Wait(r.Context()); err != nil {
				return nil, domain.NewDomainError("RateLimit", domain.ErrRateLimit, err.Error())
			}
			return next.RoundTrip(r)
		})
	}
}

// Logging records method, path, status and duration of every round trip.
func Logging(logger *slog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", r.Header.Get(RequestIDHeader),
				"duration", time.Since(start),
			}
			if err != nil {
				logger.Warn("backend request failed", append(attrs, "error", err)...)
				return nil, err
			}
			logger.Debug("backend request", append(attrs, "status", resp.StatusCode)...)
			return resp, nil
		})
	}
}
