package entities

// ConfidenceTier is the coarse bucket derived from a numeric score.
type ConfidenceTier string

// Confidence tiers, from strongest to weakest.
const (
	TierVeryHigh ConfidenceTier = "very_high"
	TierHigh     ConfidenceTier = "high"
	TierMedium   ConfidenceTier = "medium"
	TierLow      ConfidenceTier = "low"
	TierVeryLow  ConfidenceTier = "very_low"
)

// String returns the string representation of a confidence tier.
func (t ConfidenceTier) String() string {
	return string(t)
}

// TierForScore maps a score in [0,1] to its five-level confidence tier.
// These thresholds are canonical across sources; the orchestrator relies
// on them for cross-source consistency.
func TierForScore(score float64) ConfidenceTier {
	switch {
	case score >= 0.9:
		return TierVeryHigh
	case score >= 0.7:
		return TierHigh
	case score >= 0.5:
		return TierMedium
	case score >= 0.3:
		return TierLow
	default:
		return TierVeryLow
	}
}

// Collapse reduces the five-level tier to the simplified three-level view.
func (t ConfidenceTier) Collapse() ConfidenceTier {
	switch t {
	case TierVeryHigh, TierHigh:
		return TierHigh
	case TierVeryLow, TierLow:
		return TierLow
	default:
		return TierMedium
	}
}

// MatchCandidate is one authority-side hit proposed for an entity.
type MatchCandidate struct {
	// ExternalID identifies the record within its authority (Q-id, VIAF id, Getty subject id).
	ExternalID string

	// Label is the authority's display name for the record.
	Label string

	// Description is the authority's short description, if any.
	Description string

	// Source identifies which authority/query produced this candidate.
	Source string

	// Score is the match confidence in [0,1].
	Score float64

	// Tier is the confidence bucket derived from Score.
	Tier ConfidenceTier

	// Extra carries auxiliary fields: dates, coordinates, cross-IDs, aliases.
	Extra map[string]any
}

// Scored returns a copy of the candidate with the score set and its tier
// re-derived, preserving the invariant that tier always reflects score.
func (c MatchCandidate) Scored(score float64) MatchCandidate {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	c.Score = score
	c.Tier = TierForScore(score)
	return c
}

// ToMap flattens the candidate to a plain nested-map structure for
// persistence and export consumers.
func (c MatchCandidate) ToMap() map[string]any {
	m := map[string]any{
		"external_id": c.ExternalID,
		"label":       c.Label,
		"description": c.Description,
		"source":      c.Source,
		"score":       c.Score,
		"tier":        c.Tier.String(),
	}
	if len(c.Extra) > 0 {
		extra := make(map[string]any, len(c.Extra))
		for k, v := range c.Extra {
			extra[k] = v
		}
		m["extra"] = extra
	}
	return m
}
