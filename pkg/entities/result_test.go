package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomina-io/nomina/pkg/entities"
)

func TestTierForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  entities.ConfidenceTier
	}{
		{0.95, entities.TierVeryHigh},
		{0.9, entities.TierVeryHigh},
		{0.89, entities.TierHigh},
		{0.7, entities.TierHigh},
		{0.69, entities.TierMedium},
		{0.5, entities.TierMedium},
		{0.49, entities.TierLow},
		{0.3, entities.TierLow},
		{0.29, entities.TierVeryLow},
		{0.0, entities.TierVeryLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, entities.TierForScore(tt.score), "score %v", tt.score)
	}
}

func TestTierCollapse(t *testing.T) {
	assert.Equal(t, entities.TierHigh, entities.TierVeryHigh.Collapse())
	assert.Equal(t, entities.TierHigh, entities.TierHigh.Collapse())
	assert.Equal(t, entities.TierMedium, entities.TierMedium.Collapse())
	assert.Equal(t, entities.TierLow, entities.TierLow.Collapse())
	assert.Equal(t, entities.TierLow, entities.TierVeryLow.Collapse())
}

func TestConfidenceForScore(t *testing.T) {
	assert.Equal(t, entities.ConfidenceHigh, entities.ConfidenceForScore(0.8))
	assert.Equal(t, entities.ConfidenceMedium, entities.ConfidenceForScore(0.6))
	assert.Equal(t, entities.ConfidenceLow, entities.ConfidenceForScore(0.59))
}

func TestCandidateScoredClampsAndDerivesTier(t *testing.T) {
	c := entities.MatchCandidate{Label: "Test", Source: "wikidata"}

	scored := c.Scored(1.4)
	assert.Equal(t, 1.0, scored.Score)
	assert.Equal(t, entities.TierVeryHigh, scored.Tier)

	scored = c.Scored(-0.2)
	assert.Equal(t, 0.0, scored.Score)
	assert.Equal(t, entities.TierVeryLow, scored.Tier)

	scored = c.Scored(0.75)
	assert.Equal(t, entities.TierHigh, scored.Tier)
}

func TestBestMatch(t *testing.T) {
	var r entities.ReconciliationResult
	_, ok := r.BestMatch()
	assert.False(t, ok)

	r.Candidates = []entities.MatchCandidate{
		{Label: "First", Score: 0.9},
		{Label: "Second", Score: 0.5},
	}
	best, ok := r.BestMatch()
	require.True(t, ok)
	assert.Equal(t, "First", best.Label)
}

func TestRebind(t *testing.T) {
	original := entities.MustNew("row-1", "Berlin", entities.TypePlace, nil)
	replacement := entities.MustNew("row-7", "Berlin", entities.TypePlace, nil)

	r := entities.ReconciliationResult{
		Entity:            original,
		Candidates:        []entities.MatchCandidate{{Label: "Berlin", Score: 0.9}},
		SourcesQueried:    []string{"wikidata_place"},
		OverallConfidence: entities.ConfidenceHigh,
	}

	rebound := r.Rebind(replacement, true)
	assert.Equal(t, "row-7", rebound.Entity.ID)
	assert.True(t, rebound.FromCache)
	assert.Equal(t, r.Candidates, rebound.Candidates)

	// Mutating the rebound slices must not touch the original.
	rebound.Candidates[0].Label = "Changed"
	assert.Equal(t, "Berlin", r.Candidates[0].Label)
}

func TestResultToMap(t *testing.T) {
	e := entities.MustNew("row-1", "Jane Austen", entities.TypeAuthor, map[string]string{"birth_year": "1775"})
	r := entities.ReconciliationResult{
		Entity: e,
		Candidates: []entities.MatchCandidate{
			{ExternalID: "Q36322", Label: "Jane Austen", Source: "wikidata", Score: 0.95, Tier: entities.TierVeryHigh},
		},
		SourcesQueried:    []string{"wikidata", "viaf"},
		OverallConfidence: entities.ConfidenceHigh,
		ElapsedSeconds:    0.42,
	}

	m := r.ToMap()

	entity, ok := m["entity"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "row-1", entity["id"])
	assert.Equal(t, "author", entity["type"])
	assert.Equal(t, map[string]any{"birth_year": "1775"}, entity["context"])

	best, ok := m["best_match"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Q36322", best["external_id"])

	assert.Equal(t, "high", m["overall_confidence"])
	assert.Equal(t, false, m["from_cache"])
	assert.NotContains(t, m, "error")
}
