package nomina

import (
	"github.com/rs/zerolog"

	"github.com/nomina-io/nomina/pkg/breaker"
	"github.com/nomina-io/nomina/pkg/reconciler"
	"github.com/nomina-io/nomina/pkg/scoring"
	"github.com/nomina-io/nomina/pkg/sources"
)

// Option is a function that configures a Nomina instance
type Option = reconciler.Option

// WithSources replaces the default source set
func WithSources(set *sources.Sources) Option {
	return reconciler.WithSources(set)
}

// WithSourceMap overrides the mapping from entity type to sources
func WithSourceMap(fn reconciler.SourceMapFunc) Option {
	return reconciler.WithSourceMap(fn)
}

// WithScorer replaces the default lexical scoring scheme
func WithScorer(s scoring.Scorer) Option {
	return reconciler.WithScorer(s)
}

// WithWorkers sets the batch worker pool size
func WithWorkers(n int) Option {
	return reconciler.WithWorkers(n)
}

// WithCacheSize bounds the result cache
func WithCacheSize(n int) Option {
	return reconciler.WithCacheSize(n)
}

// WithCandidateLimit bounds the candidates requested per source
func WithCandidateLimit(n int) Option {
	return reconciler.WithCandidateLimit(n)
}

// WithProgress registers a per-entity batch progress callback
func WithProgress(fn reconciler.ProgressFunc) Option {
	return reconciler.WithProgress(fn)
}

// WithLogger sets the logger used by the engine
func WithLogger(logger zerolog.Logger) Option {
	return reconciler.WithLogger(logger)
}

// WithBreakerOptions passes options to every per-source circuit breaker
func WithBreakerOptions(opts ...breaker.Option) Option {
	return reconciler.WithBreakerOptions(opts...)
}

// WithoutFallback disables the static pattern table fallback
func WithoutFallback() Option {
	return reconciler.WithoutFallback()
}
