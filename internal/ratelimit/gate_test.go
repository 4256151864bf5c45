package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestLimiter_Throttle_Sequential(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
		calls    int
	}{
		{name: "single call does not wait", interval: 50 * time.Millisecond, calls: 1},
		{name: "four calls", interval: 30 * time.Millisecond, calls: 4},
		{name: "ten calls", interval: 10 * time.Millisecond, calls: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewLimiter(tt.interval)
			ctx := context.Background()

			start := time.Now()
			for i := 0; i < tt.calls; i++ {
				require.NoError(t, gate.Throttle(ctx))
			}
			elapsed := time.Since(start)

			// rate.Limiter rounds reservations to the nanosecond; allow a millisecond of slack.
			minimum := time.Duration(tt.calls-1)*tt.interval - time.Millisecond
			assert.GreaterOrEqual(t, elapsed, minimum)
		})
	}
}

func TestLimiter_Throttle_Concurrent(t *testing.T) {
	interval := 20 * time.Millisecond
	gate := NewLimiter(interval)
	ctx := context.Background()

	const callers = 5
	var mu sync.Mutex
	var grants []time.Time
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, gate.Throttle(ctx))
			mu.Lock()
			grants = append(grants, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, grants, callers)
	first, last := grants[0], grants[0]
	for _, g := range grants {
		if g.Before(first) {
			first = g
		}
		if g.After(last) {
			last = g
		}
	}
	assert.GreaterOrEqual(t, last.Sub(first), time.Duration(callers-1)*interval-time.Millisecond)
}

func TestLimiter_Throttle_ContextCancelled(t *testing.T) {
	gate := NewLimiter(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, gate.Throttle(ctx))
	cancel()

	err := gate.Throttle(ctx)
	assert.Error(t, err)
}

func TestLimiter_ZeroIntervalNeverWaits(t *testing.T) {
	gate := NewLimiter(0)
	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, gate.Throttle(context.Background()))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Equal(t, time.Duration(0), gate.Interval())
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Throttle(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Nop{}.Throttle(ctx), context.Canceled)
}
