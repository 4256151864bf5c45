package fetch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"resty.dev/v3"

	"github.com/at-ishikawa/birdlog/internal/metrics"
)

const (
	DefaultBreakerFailures uint32 = 5
	DefaultBreakerTimeout         = 30 * time.Second
)

// BreakerSettings configures the per-source circuit breaker.
// The breaker opens after ConsecutiveFailures failed calls and stays open for Timeout.
type BreakerSettings struct {
	Disabled            bool
	ConsecutiveFailures uint32
	Timeout             time.Duration
}

type breaker struct {
	name string
	cb   *gobreaker.CircuitBreaker[*resty.Response]
}

func newBreaker(name string, settings BreakerSettings) *breaker {
	if settings.Disabled {
		return &breaker{name: name}
	}
	if settings.ConsecutiveFailures == 0 {
		settings.ConsecutiveFailures = DefaultBreakerFailures
	}
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultBreakerTimeout
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	cb := gobreaker.NewCircuitBreaker[*resty.Response](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.ConsecutiveFailures
		},
		// A caller giving up is not a sign that the source is unhealthy.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Default().Warn("source circuit breaker changed state",
				"source", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
	return &breaker{name: name, cb: cb}
}

func (b *breaker) execute(fn func() (*resty.Response, error)) (*resty.Response, error) {
	if b.cb == nil {
		return fn()
	}
	response, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.SourceRequests.WithLabelValues(b.name, metrics.OutcomeRejected).Inc()
	}
	return response, err
}

func (b *breaker) state() gobreaker.State {
	if b.cb == nil {
		return gobreaker.StateClosed
	}
	return b.cb.State()
}

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
