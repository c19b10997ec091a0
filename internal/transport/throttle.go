package transport

import (
	"context"
	"sync"
	"time"
)

// Throttle enforces a minimum interval between requests. It is a simple
// token-less spacing throttle, not a token bucket: each call blocks until
// the interval since the previous request has elapsed.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// NewThrottle creates a throttle with the given minimum interval.
// A zero or negative interval disables throttling.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval}
}

// Wait blocks until the interval since the last request has elapsed,
// then records the new request time. Returns early with the context's
// error if the context is done while waiting.
//
// The lock is held across the sleep so concurrent callers through a
// shared client are spaced out one interval apart.
func (t *Throttle) Wait(ctx context.Context) error {
	if t.interval <= 0 {
		return ctx.Err()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.last.IsZero() {
		wait := t.interval - time.Since(t.last)
		if wait > 0 {
			timer := time.NewTimer(wait)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	t.last = time.Now()
	return nil
}

// Interval returns the configured minimum interval.
func (t *Throttle) Interval() time.Duration {
	return t.interval
}
