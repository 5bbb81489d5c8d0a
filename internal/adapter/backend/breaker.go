package backend

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"campus-kiosk/internal/domain"
	"campus-kiosk/internal/infra/config"
)

// Default circuit breaker settings.
const (
	defaultCBMaxFailures uint32        = 5
	defaultCBTimeout     time.Duration = 30 * time.Second
	defaultCBInterval    time.Duration = 60 * time.Second
)

// breaker guards backend calls. When the backend fails repeatedly the
// circuit opens and calls fail fast with domain.ErrCircuitOpen until a
// half-open trial request succeeds. A nil breaker passes every call through.
type breaker struct {
	cb *gobreaker.CircuitBreaker[[]byte]
}

func newBreaker(cfg config.CircuitBreakerConfig, logger *slog.Logger) *breaker {
	if !cfg.Enabled {
		return nil
	}
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultCBMaxFailures
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultCBTimeout
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = defaultCBInterval
	}

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "campus-backend",
		MaxRequests: 1, // allow 1 trial request in half-open state
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: countsAsHealthy,
	})
	return &breaker{cb: cb}
}

// countsAsHealthy treats client-side and 4xx problems as healthy backend
// behavior; only transport failures and server-side statuses trip the
// breaker.
func countsAsHealthy(err error) bool {
	if err == nil {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return !se.serverSide()
	}
	return !errors.Is(err, domain.ErrTransport)
}

func (b *breaker) execute(fn func() ([]byte, error)) ([]byte, error) {
	if b == nil {
		return fn()
	}
	body, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", domain.ErrCircuitOpen, err)
	}
	return body, err
}

func (b *breaker) state() gobreaker.State {
	if b == nil {
		return gobreaker.StateClosed
	}
	return b.cb.State()
}
