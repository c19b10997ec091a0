package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nomina-io/nomina/pkg/entities"
	"github.com/nomina-io/nomina/pkg/scoring"
)

func TestExactMatch(t *testing.T) {
	s := scoring.New()
	tier, score := s.Score(scoring.Input{
		SearchTerm: "William Shakespeare",
		Label:      "william shakespeare",
	})
	assert.Equal(t, 0.95, score)
	assert.Equal(t, entities.TierVeryHigh, tier)
}

func TestExactMatchWithHintsReachesCeiling(t *testing.T) {
	s := scoring.New()
	_, score := s.Score(scoring.Input{
		SearchTerm: "Jane Austen",
		Label:      "Jane Austen",
		Hints:      scoring.Hints{Date: "1775", Location: "Hampshire"},
	})
	// 0.95 + 0.05 + 0.05 clamps to 1.0.
	assert.Equal(t, 1.0, score)
}

func TestContainmentCredit(t *testing.T) {
	s := scoring.New()
	_, full := s.Score(scoring.Input{SearchTerm: "Shakespeare", Label: "William Shakespeare"})
	_, none := s.Score(scoring.Input{SearchTerm: "Shakespeare", Label: "Christopher Marlowe"})

	assert.Greater(t, full, 0.5, "containment starts from the containment base")
	assert.Less(t, full, 0.95, "containment scores below exact")
	assert.Equal(t, 0.0, none)
}

func TestWordOverlapWithoutContainment(t *testing.T) {
	s := scoring.New()
	_, score := s.Score(scoring.Input{
		SearchTerm: "Museum of Modern Art",
		Label:      "Museum of Ancient Art",
	})
	// 3 of 5 distinct words shared, no substring containment.
	assert.InDelta(t, 0.55*3.0/5.0, score, 1e-9)
}

func TestAliasCredit(t *testing.T) {
	s := scoring.New()

	_, withAlias := s.Score(scoring.Input{
		SearchTerm: "Mark Twain",
		Label:      "Samuel Clemens",
		Aliases:    []string{"Mark Twain", "S. L. Clemens"},
	})
	_, withoutAlias := s.Score(scoring.Input{
		SearchTerm: "Mark Twain",
		Label:      "Samuel Clemens",
	})

	assert.InDelta(t, 0.25, withAlias-withoutAlias, 1e-9, "exact alias adds the alias increment")
}

func TestAliasSmallerThanLabelMatch(t *testing.T) {
	s := scoring.New()
	_, direct := s.Score(scoring.Input{SearchTerm: "Mark Twain", Label: "Mark Twain"})
	_, viaAlias := s.Score(scoring.Input{
		SearchTerm: "Mark Twain",
		Label:      "Samuel Clemens",
		Aliases:    []string{"Mark Twain"},
	})
	assert.Greater(t, direct, viaAlias)
}

func TestDescriptionBonus(t *testing.T) {
	s := scoring.New()
	_, with := s.Score(scoring.Input{
		SearchTerm:  "Globe Theatre London",
		Label:       "Globe",
		Description: "theatre in London associated with Shakespeare",
	})
	_, without := s.Score(scoring.Input{
		SearchTerm: "Globe Theatre London",
		Label:      "Globe",
	})
	assert.Greater(t, with, without)
	assert.LessOrEqual(t, with-without, 0.1, "description bonus is small")
}

func TestHintBonusIsFlat(t *testing.T) {
	s := scoring.New()
	in := scoring.Input{SearchTerm: "Berlin", Label: "Munich"}

	_, base := s.Score(in)

	in.Hints = scoring.Hints{Date: "1900"}
	_, withDate := s.Score(in)
	assert.InDelta(t, 0.05, withDate-base, 1e-9)

	in.Hints = scoring.Hints{Date: "1900", Location: "Germany"}
	_, withBoth := s.Score(in)
	assert.InDelta(t, 0.10, withBoth-base, 1e-9)
}

func TestEmptyInputs(t *testing.T) {
	s := scoring.New()

	tier, score := s.Score(scoring.Input{SearchTerm: "", Label: "Something"})
	assert.Equal(t, 0.0, score)
	assert.Equal(t, entities.TierVeryLow, tier)

	_, score = s.Score(scoring.Input{SearchTerm: "Something", Label: "   "})
	assert.Equal(t, 0.0, score)
}

func TestDeterminism(t *testing.T) {
	s := scoring.New()
	in := scoring.Input{
		SearchTerm:  "Leonardo da Vinci",
		Label:       "Leonardo di ser Piero da Vinci",
		Aliases:     []string{"Leonardo", "da Vinci"},
		Description: "Italian Renaissance polymath",
		Hints:       scoring.Hints{Date: "1452"},
	}
	_, first := s.Score(in)
	for range 10 {
		_, again := s.Score(in)
		assert.Equal(t, first, again)
	}
}

func TestTierConsistentWithScore(t *testing.T) {
	s := scoring.New()
	inputs := []scoring.Input{
		{SearchTerm: "Paris", Label: "Paris"},
		{SearchTerm: "Paris", Label: "Paris, France"},
		{SearchTerm: "Paris", Label: "London"},
		{SearchTerm: "Jane Austen", Label: "Austen", Hints: scoring.Hints{Date: "1775"}},
	}
	for _, in := range inputs {
		tier, score := s.Score(in)
		assert.Equal(t, entities.TierForScore(score), tier)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestCustomWeights(t *testing.T) {
	w := scoring.DefaultWeights()
	w.Exact = 0.4
	s := scoring.NewWithWeights(w)

	_, score := s.Score(scoring.Input{SearchTerm: "X Y", Label: "x y"})
	assert.Equal(t, 0.4, score)
}
