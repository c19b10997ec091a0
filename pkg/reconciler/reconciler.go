// Package reconciler orchestrates the full reconciliation pipeline:
// classification, cache lookup, source dispatch, scoring, ranking, and
// result assembly. One Reconciler serves many batches concurrently.
package reconciler

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nomina-io/nomina/internal/sources/registry"
	"github.com/nomina-io/nomina/pkg/breaker"
	"github.com/nomina-io/nomina/pkg/cache"
	"github.com/nomina-io/nomina/pkg/classify"
	"github.com/nomina-io/nomina/pkg/entities"
	"github.com/nomina-io/nomina/pkg/errors"
	"github.com/nomina-io/nomina/pkg/logging"
	"github.com/nomina-io/nomina/pkg/scoring"
	"github.com/nomina-io/nomina/pkg/sources"
)

// Defaults for the orchestrator.
const (
	DefaultWorkers        = 5
	DefaultCandidateLimit = 5
)

// Stats is a snapshot of orchestrator counters.
type Stats struct {
	Processed        int                `json:"processed"`
	CacheHits        int                `json:"cache_hits"`
	HighConfidence   int                `json:"high_confidence"`
	SourceErrors     int                `json:"source_errors"`
	CircuitOpenSkips int                `json:"circuit_open_skips"`
	FallbackUses     int                `json:"fallback_uses"`
	SourceCalls      map[sources.ID]int `json:"source_calls"`
	Cache            cache.Stats        `json:"cache"`
	Breakers         []breaker.Stats    `json:"breakers"`
}

// Reconciler matches entities against authority sources. Safe for
// concurrent use.
type Reconciler struct {
	set       *sources.Sources
	breakers  map[sources.ID]*breaker.Breaker
	sourceMap SourceMapFunc
	scorer    scoring.Scorer
	cache     *cache.Cache
	workers   int
	limit     int
	progress  ProgressFunc
	fallback  bool
	logger    zerolog.Logger

	mu               sync.Mutex
	processed        int
	cacheHits        int
	highConfidence   int
	sourceErrors     int
	circuitOpenSkips int
	fallbackUses     int
	sourceCalls      map[sources.ID]int
}

// New creates a Reconciler. With no options it assembles the full
// default source set and the default lexical scorer.
func New(opts ...Option) (*Reconciler, error) {
	cfg := config{
		sourceMap: registry.ForType,
		scorer:    scoring.New(),
		workers:   DefaultWorkers,
		cacheSize: cache.DefaultCapacity,
		limit:     DefaultCandidateLimit,
		fallback:  true,
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if cfg.sources == nil {
		set, err := registry.New()
		if err != nil {
			return nil, err
		}
		cfg.sources = set
	}

	logger := logging.Default()
	if cfg.logger != nil {
		logger = cfg.logger
	}

	r := &Reconciler{
		breakers:    make(map[sources.ID]*breaker.Breaker),
		sourceMap:   cfg.sourceMap,
		scorer:      cfg.scorer,
		cache:       cache.New(cfg.cacheSize),
		workers:     cfg.workers,
		limit:       cfg.limit,
		progress:    cfg.progress,
		fallback:    cfg.fallback,
		logger:      *logger,
		sourceCalls: make(map[sources.ID]int),
	}

	// Wrap every source in its own breaker so one flaky authority
	// cannot slow a batch down for the others.
	wrapped := sources.NewSources()
	for _, id := range cfg.sources.RegisteredIDs() {
		src, _ := cfg.sources.Get(id)
		b := breaker.Wrap(src, cfg.breakerOpts...)
		r.breakers[id] = b
		wrapped.Set(id, b)
	}
	r.set = wrapped

	return r, nil
}

// Sources returns the breaker-wrapped source set.
func (r *Reconciler) Sources() *sources.Sources {
	return r.set
}

// Reconcile resolves a single entity against its type's sources and
// returns a ranked result. It never returns an error: per-entity hard
// failures are reported in the result's Error field so a batch always
// yields one result per input.
func (r *Reconciler) Reconcile(ctx context.Context, e entities.Entity) entities.ReconciliationResult {
	start := time.Now()

	if entities.Normalize(e.Name) == "" {
		return entities.ReconciliationResult{
			Entity:            e,
			OverallConfidence: entities.ConfidenceLow,
			Error:             "entity name is empty",
		}
	}

	// Resolve an unknown type from the name before fingerprinting, so
	// cache keys reflect the type actually dispatched on.
	if e.Type == "" || e.Type == entities.TypeUnknown {
		if inferred := classify.FromName(e.Name); inferred != entities.TypeUnknown {
			e = e.WithType(inferred)
		} else if e.Type == "" {
			e = e.WithType(entities.TypeUnknown)
		}
	}

	fingerprint := e.Fingerprint()
	if cached, found := r.cache.Get(fingerprint); found {
		r.mu.Lock()
		r.cacheHits++
		r.processed++
		if cached.OverallConfidence == entities.ConfidenceHigh {
			r.highConfidence++
		}
		r.mu.Unlock()
		result := cached.Rebind(e, true)
		result.ElapsedSeconds = time.Since(start).Seconds()
		return result
	}

	query := sources.Query{Term: e.Name, Limit: r.limit}
	query.DateHint, query.LocationHint = extractHints(e.Context)
	hints := scoring.Hints{Date: query.DateHint, Location: query.LocationHint}

	result := entities.ReconciliationResult{Entity: e}

	var scored []entities.MatchCandidate
	attempted, failed := 0, 0
	for _, id := range r.sourceMap(e.Type) {
		src, found := r.set.Get(id)
		if !found {
			continue
		}

		got, err := src.Search(ctx, query)
		if errors.IsCircuitOpen(err) {
			r.mu.Lock()
			r.circuitOpenSkips++
			r.mu.Unlock()
			r.logger.Debug().Str("source", id.String()).Str("entity", e.Name).
				Msg("skipping source, circuit open")
			continue
		}

		attempted++
		result.SourcesQueried = append(result.SourcesQueried, id.String())
		r.mu.Lock()
		r.sourceCalls[id]++
		r.mu.Unlock()

		if err != nil {
			if errors.IsCanceled(err) {
				result.Error = "reconciliation canceled"
				break
			}
			failed++
			r.mu.Lock()
			r.sourceErrors++
			r.mu.Unlock()
			r.logger.Warn().Err(err).Str("source", id.String()).Str("entity", e.Name).
				Msg("source search failed")
			continue
		}

		for _, c := range got {
			scored = append(scored, r.scoreCandidate(e.Name, hints, c))
		}

		// Unknown types probe a person-then-org source sequence and stop
		// at the first source that produces anything.
		if e.Type == entities.TypeUnknown && len(got) > 0 {
			break
		}
	}

	if r.fallback && len(scored) == 0 && result.Error == "" && (attempted == 0 || failed == attempted) {
		scored = append(scored, r.consultFallback(ctx, e.Name, hints, query, &result)...)
	}

	result.Candidates = rank(dedupe(scored))
	if best, ok := result.BestMatch(); ok {
		result.OverallConfidence = entities.ConfidenceForScore(best.Score)
	} else {
		result.OverallConfidence = entities.ConfidenceLow
	}
	result.ElapsedSeconds = time.Since(start).Seconds()

	// Failed results stay out of the cache so a recovered source gets
	// another chance at the same entity.
	if result.Error == "" {
		r.cache.Put(fingerprint, result)
	}

	r.mu.Lock()
	r.processed++
	if result.OverallConfidence == entities.ConfidenceHigh {
		r.highConfidence++
	}
	r.mu.Unlock()

	return result
}

// consultFallback queries the static pattern table when every live
// source for the entity was unreachable.
func (r *Reconciler) consultFallback(ctx context.Context, term string, hints scoring.Hints, query sources.Query, result *entities.ReconciliationResult) []entities.MatchCandidate {
	src, found := r.set.Get(sources.PatternMatchID)
	if !found {
		return nil
	}

	got, err := src.Search(ctx, query)
	if err != nil {
		return nil
	}

	result.SourcesQueried = append(result.SourcesQueried, sources.PatternMatchID.String())
	r.mu.Lock()
	r.fallbackUses++
	r.sourceCalls[sources.PatternMatchID]++
	r.mu.Unlock()
	r.logger.Info().Str("entity", term).Int("candidates", len(got)).
		Msg("live sources unavailable, using pattern fallback")

	scored := make([]entities.MatchCandidate, 0, len(got))
	for _, c := range got {
		scored = append(scored, r.scoreCandidate(term, hints, c))
	}
	return scored
}

// ReconcileAll resolves a batch of entities concurrently. The returned
// slice is index-aligned with the input. On cancellation, entities not
// yet processed carry a canceled error note and the context error is
// returned alongside the partial results.
func (r *Reconciler) ReconcileAll(ctx context.Context, batch []entities.Entity) ([]entities.ReconciliationResult, error) {
	batchID := uuid.New().String()
	logger := r.logger.With().Str("batch_id", batchID).Logger()
	logger.Info().Int("entities", len(batch)).Int("workers", r.workers).Msg("starting batch")

	results := make([]entities.ReconciliationResult, len(batch))
	processed := make([]bool, len(batch))

	jobs := make(chan int)
	var wg sync.WaitGroup
	var progressMu sync.Mutex
	done := 0

	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					results[i] = canceledResult(batch[i])
				} else {
					results[i] = r.Reconcile(ctx, batch[i])
				}
				processed[i] = true

				if r.progress != nil {
					progressMu.Lock()
					done++
					r.progress(done, len(batch), results[i])
					progressMu.Unlock()
				}
			}
		}()
	}

feed:
	for i := range batch {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for i := range results {
		if !processed[i] {
			results[i] = canceledResult(batch[i])
		}
	}

	if err := ctx.Err(); err != nil {
		logger.Warn().Err(err).Msg("batch canceled")
		return results, err
	}

	logger.Info().Int("entities", len(batch)).Msg("batch complete")
	return results, nil
}

// Stats returns a snapshot of orchestrator, cache, and breaker counters.
func (r *Reconciler) Stats() Stats {
	r.mu.Lock()
	st := Stats{
		Processed:        r.processed,
		CacheHits:        r.cacheHits,
		HighConfidence:   r.highConfidence,
		SourceErrors:     r.sourceErrors,
		CircuitOpenSkips: r.circuitOpenSkips,
		FallbackUses:     r.fallbackUses,
		SourceCalls:      make(map[sources.ID]int, len(r.sourceCalls)),
	}
	for id, n := range r.sourceCalls {
		st.SourceCalls[id] = n
	}
	r.mu.Unlock()

	st.Cache = r.cache.Stats()
	for _, id := range r.set.RegisteredIDs() {
		if b, found := r.breakers[id]; found {
			st.Breakers = append(st.Breakers, b.Stats())
		}
	}
	return st
}

// scoreCandidate applies the scoring scheme and the source trust weight.
func (r *Reconciler) scoreCandidate(term string, hints scoring.Hints, c entities.MatchCandidate) entities.MatchCandidate {
	in := scoring.Input{
		SearchTerm:  term,
		Label:       c.Label,
		Description: c.Description,
		Aliases:     candidateAliases(c),
		Hints:       hints,
	}
	_, score := r.scorer.Score(in)
	return c.Scored(score * sources.ID(c.Source).TrustWeight())
}

// candidateAliases pulls alias strings out of a candidate's extras.
func candidateAliases(c entities.MatchCandidate) []string {
	raw, found := c.Extra["aliases"]
	if !found {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		aliases := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				aliases = append(aliases, s)
			}
		}
		return aliases
	}
	return nil
}

// dateHintKeys and locationHintKeys are checked in priority order; the
// first non-empty value wins.
var (
	dateHintKeys     = []string{"date_created", "date", "year", "birth_date", "death_date"}
	locationHintKeys = []string{"location", "place", "city", "state", "country"}
)

// extractHints pulls usable date and location hints from an entity's
// context map.
func extractHints(context map[string]string) (date, location string) {
	for _, k := range dateHintKeys {
		if v := strings.TrimSpace(context[k]); v != "" {
			date = v
			break
		}
	}
	for _, k := range locationHintKeys {
		if v := strings.TrimSpace(context[k]); v != "" {
			location = v
			break
		}
	}
	return date, location
}

// dedupe drops duplicate candidates on (normalized label, source),
// keeping the first seen.
func dedupe(candidates []entities.MatchCandidate) []entities.MatchCandidate {
	if len(candidates) < 2 {
		return candidates
	}
	seen := make(map[string]bool, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		key := entities.Normalize(c.Label) + "\x00" + c.Source
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// rank orders candidates by score descending, breaking ties by source
// trust weight and then by insertion order.
func rank(candidates []entities.MatchCandidate) []entities.MatchCandidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return sources.ID(candidates[i].Source).TrustWeight() > sources.ID(candidates[j].Source).TrustWeight()
	})
	return candidates
}

func canceledResult(e entities.Entity) entities.ReconciliationResult {
	return entities.ReconciliationResult{
		Entity:            e,
		OverallConfidence: entities.ConfidenceLow,
		Error:             "reconciliation canceled",
	}
}
