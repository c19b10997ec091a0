package entities

// Confidence is the orchestrator-level confidence in a reconciliation
// result. It uses coarser thresholds than per-candidate tiers: this is
// about the result, not a single score banding.
type Confidence string

// Result confidence levels.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// String returns the string representation of a confidence level.
func (c Confidence) String() string {
	return string(c)
}

// ConfidenceForScore maps a best-match score to result-level confidence.
func ConfidenceForScore(score float64) Confidence {
	switch {
	case score >= 0.8:
		return ConfidenceHigh
	case score >= 0.6:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// ReconciliationResult is the outcome of reconciling one entity.
type ReconciliationResult struct {
	// Entity is the entity that was reconciled.
	Entity Entity

	// Candidates is ordered descending by score and deduplicated on
	// (normalized label, source).
	Candidates []MatchCandidate

	// SourcesQueried names the sources actually invoked, excluding any
	// skipped by an open circuit breaker. A failed entity carries an
	// error note here (see Error).
	SourcesQueried []string

	// OverallConfidence is derived from the best match, or low if none.
	OverallConfidence Confidence

	// Error holds a description of a per-entity hard failure, if any.
	Error string

	// ElapsedSeconds is the wall time spent reconciling this entity.
	ElapsedSeconds float64

	// FromCache reports whether the result was served from the cache.
	FromCache bool
}

// BestMatch returns the top-ranked candidate, or false if there is none.
func (r ReconciliationResult) BestMatch() (MatchCandidate, bool) {
	if len(r.Candidates) == 0 {
		return MatchCandidate{}, false
	}
	return r.Candidates[0], true
}

// Rebind returns a copy of the result bound to the given entity. Used when
// a cached result is served for a structurally identical entity from a
// later call.
func (r ReconciliationResult) Rebind(e Entity, fromCache bool) ReconciliationResult {
	copied := r
	copied.Entity = e
	copied.FromCache = fromCache
	copied.Candidates = make([]MatchCandidate, len(r.Candidates))
	copy(copied.Candidates, r.Candidates)
	copied.SourcesQueried = make([]string, len(r.SourcesQueried))
	copy(copied.SourcesQueried, r.SourcesQueried)
	return copied
}

// ToMap flattens the result to a plain nested-map structure with no
// language-specific object graphs, so any consumer can store or
// transmit it.
func (r ReconciliationResult) ToMap() map[string]any {
	candidates := make([]map[string]any, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		candidates = append(candidates, c.ToMap())
	}

	m := map[string]any{
		"entity": map[string]any{
			"id":              r.Entity.ID,
			"name":            r.Entity.Name,
			"normalized_name": r.Entity.NormalizedName,
			"type":            r.Entity.Type.String(),
			"fingerprint":     r.Entity.Fingerprint(),
		},
		"candidates":         candidates,
		"sources_queried":    append([]string{}, r.SourcesQueried...),
		"overall_confidence": r.OverallConfidence.String(),
		"elapsed_seconds":    r.ElapsedSeconds,
		"from_cache":         r.FromCache,
	}

	if len(r.Entity.Context) > 0 {
		ctx := make(map[string]any, len(r.Entity.Context))
		for k, v := range r.Entity.Context {
			ctx[k] = v
		}
		m["entity"].(map[string]any)["context"] = ctx
	}
	if best, ok := r.BestMatch(); ok {
		m["best_match"] = best.ToMap()
	}
	if r.Error != "" {
		m["error"] = r.Error
	}
	return m
}
