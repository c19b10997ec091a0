// Package breaker wraps an authority source with a circuit breaker so
// that a failing service is given time to recover instead of being
// hammered by every entity in a batch.
package breaker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nomina-io/nomina/pkg/entities"
	"github.com/nomina-io/nomina/pkg/errors"
	"github.com/nomina-io/nomina/pkg/sources"
)

const (
	// DefaultFailureThreshold is the number of consecutive failures
	// after which the breaker opens.
	DefaultFailureThreshold = 3

	// DefaultCooldown is how long an open breaker rejects calls before
	// letting a probe through.
	DefaultCooldown = 60 * time.Second
)

// Stats is a snapshot of breaker state, exposed for reporting.
type Stats struct {
	Source              sources.ID `json:"source"`
	Open                bool       `json:"open"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
	TotalFailures       int        `json:"total_failures"`
	TotalSuccesses      int        `json:"total_successes"`
	Rejected            int        `json:"rejected"`
	LastFailure         time.Time  `json:"last_failure,omitzero"`
	LastSuccess         time.Time  `json:"last_success,omitzero"`
}

// Breaker decorates a sources.Source. It implements sources.Source
// itself, so callers dispatch through it transparently.
type Breaker struct {
	inner     sources.Source
	threshold int
	cooldown  time.Duration
	now       func() time.Time

	mu       sync.Mutex
	failures int
	openedAt time.Time
	open     bool
	stats    Stats
}

// Option configures a Breaker.
type Option func(*Breaker)

// WithThreshold sets the consecutive-failure count that opens the
// breaker. Values below one are ignored.
func WithThreshold(n int) Option {
	return func(b *Breaker) {
		if n >= 1 {
			b.threshold = n
		}
	}
}

// WithCooldown sets how long the breaker stays open before probing.
func WithCooldown(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.cooldown = d
		}
	}
}

// withClock overrides the time source. Test hook.
func withClock(now func() time.Time) Option {
	return func(b *Breaker) { b.now = now }
}

// Wrap decorates a source with a breaker using the default threshold
// and cooldown unless overridden.
func Wrap(src sources.Source, opts ...Option) *Breaker {
	b := &Breaker{
		inner:     src,
		threshold: DefaultFailureThreshold,
		cooldown:  DefaultCooldown,
		now:       time.Now,
	}
	b.stats.Source = src.ID()
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ID implements sources.Source.
func (b *Breaker) ID() sources.ID {
	return b.inner.ID()
}

// Search implements sources.Source. While the breaker is open, calls
// return ErrCircuitOpen without touching the underlying source. Once
// the cooldown elapses the next call is let through as a probe; its
// outcome decides whether the breaker closes again.
func (b *Breaker) Search(ctx context.Context, q sources.Query) ([]entities.MatchCandidate, error) {
	if !b.allow() {
		return nil, errors.NewCircuitOpenError(string(b.inner.ID()))
	}

	got, err := b.search(ctx, q)
	b.record(err)
	return got, err
}

// search invokes the underlying source, converting a panic from a
// misbehaving client into an ordinary source error. The failure is
// recorded like any other, so a client that keeps panicking trips the
// breaker the same way a client that keeps erroring does.
func (b *Breaker) search(ctx context.Context, q sources.Query) (got []entities.MatchCandidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			got = nil
			err = errors.NewSourceError(string(b.inner.ID()), 0, fmt.Sprintf("panic: %v", r))
		}
	}()
	return b.inner.Search(ctx, q)
}

// allow reports whether a call may proceed, transitioning an expired
// open breaker into its probe state.
func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		return true
	}
	if b.now().Sub(b.openedAt) >= b.cooldown {
		// Let one probe through; record() decides what happens next.
		return true
	}
	b.stats.Rejected++
	return false
}

// record updates breaker state from a call outcome. Context
// cancellation says nothing about source health, so it neither trips
// nor resets the breaker.
func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.failures = 0
		b.open = false
		b.stats.TotalSuccesses++
		b.stats.LastSuccess = b.now()
		b.stats.ConsecutiveFailures = 0
		b.stats.Open = false
		return
	}

	if errors.IsCanceled(err) {
		return
	}

	b.failures++
	b.stats.TotalFailures++
	b.stats.ConsecutiveFailures = b.failures
	b.stats.LastFailure = b.now()
	if b.failures >= b.threshold {
		b.open = true
		b.openedAt = b.now()
		b.stats.Open = true
	}
}

// Stats returns a snapshot of breaker counters.
func (b *Breaker) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}
