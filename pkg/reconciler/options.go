package reconciler

import (
	"github.com/rs/zerolog"

	"github.com/nomina-io/nomina/pkg/breaker"
	"github.com/nomina-io/nomina/pkg/entities"
	"github.com/nomina-io/nomina/pkg/errors"
	"github.com/nomina-io/nomina/pkg/scoring"
	"github.com/nomina-io/nomina/pkg/sources"
)

// Option is a function that configures a Reconciler instance
type Option func(*config) error

// SourceMapFunc resolves the source IDs to consult for an entity type.
type SourceMapFunc func(entities.Type) []sources.ID

// ProgressFunc is invoked after each entity in a batch completes, with
// the number of entities done so far and the batch total.
type ProgressFunc func(done, total int, result entities.ReconciliationResult)

type config struct {
	sources     *sources.Sources
	sourceMap   SourceMapFunc
	scorer      scoring.Scorer
	workers     int
	cacheSize   int
	limit       int
	progress    ProgressFunc
	logger      *zerolog.Logger
	breakerOpts []breaker.Option
	fallback    bool
}

// WithSources replaces the default source set. Each registered source
// is still wrapped in its own circuit breaker by the Reconciler.
func WithSources(set *sources.Sources) Option {
	return func(c *config) error {
		if set == nil {
			return errors.NewConfigError("reconciler", "sources must not be nil", nil)
		}
		c.sources = set
		return nil
	}
}

// WithSourceMap overrides the mapping from entity type to the sources
// consulted for it.
func WithSourceMap(fn SourceMapFunc) Option {
	return func(c *config) error {
		if fn == nil {
			return errors.NewConfigError("reconciler", "source map must not be nil", nil)
		}
		c.sourceMap = fn
		return nil
	}
}

// WithScorer replaces the default lexical scoring scheme.
func WithScorer(s scoring.Scorer) Option {
	return func(c *config) error {
		if s == nil {
			return errors.NewConfigError("reconciler", "scorer must not be nil", nil)
		}
		c.scorer = s
		return nil
	}
}

// WithWorkers sets the batch worker pool size.
func WithWorkers(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return errors.NewConfigError("reconciler", "workers must be at least 1", nil)
		}
		c.workers = n
		return nil
	}
}

// WithCacheSize bounds the result cache.
func WithCacheSize(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return errors.NewConfigError("reconciler", "cache size must be at least 1", nil)
		}
		c.cacheSize = n
		return nil
	}
}

// WithCandidateLimit bounds the candidates requested per source.
func WithCandidateLimit(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return errors.NewConfigError("reconciler", "candidate limit must be at least 1", nil)
		}
		c.limit = n
		return nil
	}
}

// WithProgress registers a callback invoked as each batch entity
// completes. The callback must be safe for concurrent invocation.
func WithProgress(fn ProgressFunc) Option {
	return func(c *config) error {
		c.progress = fn
		return nil
	}
}

// WithLogger sets the logger used by the Reconciler.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = &logger
		return nil
	}
}

// WithBreakerOptions passes options to every per-source circuit breaker.
func WithBreakerOptions(opts ...breaker.Option) Option {
	return func(c *config) error {
		c.breakerOpts = append(c.breakerOpts, opts...)
		return nil
	}
}

// WithoutFallback disables the static pattern table consulted when all
// live sources for an entity fail.
func WithoutFallback() Option {
	return func(c *config) error {
		c.fallback = false
		return nil
	}
}
