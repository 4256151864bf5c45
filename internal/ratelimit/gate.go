// Package ratelimit paces outbound requests to one external API family.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is the minimum time between two requests to the same API family.
const DefaultInterval = 500 * time.Millisecond

// Gate blocks the caller until another request may be issued.
type Gate interface {
	Throttle(ctx context.Context) error
}

// Limiter grants at most one permit per interval.
// The next grant time is reserved under the limiter's lock and the caller sleeps outside it,
// so concurrent callers are spaced relative to the last grant rather than to their own call time.
type Limiter struct {
	limiter  *rate.Limiter
	interval time.Duration
}

func NewLimiter(interval time.Duration) *Limiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Limiter{
		limiter:  rate.NewLimiter(limit, 1),
		interval: interval,
	}
}

func (l *Limiter) Throttle(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("limiter.Wait > %w", err)
	}
	return nil
}

func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// Nop never waits.
type Nop struct{}

func (Nop) Throttle(ctx context.Context) error {
	return ctx.Err()
}
