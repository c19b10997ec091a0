// Package scoring computes match confidence between a search term and an
// authority candidate. Scoring is deterministic and purely lexical: no
// randomness, no I/O. Alternative schemes plug in through the Scorer
// interface so engine variants are configuration, not separate code paths.
package scoring

import (
	"strings"

	"github.com/nomina-io/nomina/pkg/entities"
)

// Hints carries usable context extracted from an entity's context map.
// Presence of a hint earns a small flat bonus; values are not verified
// against the candidate.
type Hints struct {
	Date     string
	Location string
}

// Input bundles everything a scorer may consider for one candidate.
type Input struct {
	SearchTerm  string
	Label       string
	Aliases     []string
	Description string
	Hints       Hints
}

// Scorer computes a confidence tier and numeric score for a candidate.
type Scorer interface {
	// Name identifies the scoring scheme.
	Name() string

	// Score returns the tier and a score clamped to [0,1].
	Score(in Input) (entities.ConfidenceTier, float64)
}

// Weights parameterizes the lexical scorer. All contributions are added
// before clamping.
type Weights struct {
	// Exact is the base score for an exact normalized label match.
	Exact float64

	// ContainBase and ContainOverlap shape the partial-containment credit:
	// ContainBase + ContainOverlap * wordOverlap.
	ContainBase    float64
	ContainOverlap float64

	// Overlap scales pure word-overlap credit when neither string
	// contains the other.
	Overlap float64

	// AliasExact and AliasPartial credit alias matches; both are smaller
	// than the corresponding direct label credits.
	AliasExact   float64
	AliasPartial float64

	// Description scales the content-word overlap bonus.
	Description float64

	// Hint is the flat bonus per usable context hint category.
	Hint float64
}

// DefaultWeights is the single consistent scheme used across all source
// families: exact match carries a 0.95 base, with per-source curation
// differences expressed only through source trust weights at ranking time.
func DefaultWeights() Weights {
	return Weights{
		Exact:          0.95,
		ContainBase:    0.5,
		ContainOverlap: 0.35,
		Overlap:        0.55,
		AliasExact:     0.25,
		AliasPartial:   0.15,
		Description:    0.1,
		Hint:           0.05,
	}
}

// lexical is the default Scorer implementation.
type lexical struct {
	weights Weights
}

// New returns the default lexical scorer.
func New() Scorer {
	return &lexical{weights: DefaultWeights()}
}

// NewWithWeights returns a lexical scorer with custom weights.
func NewWithWeights(w Weights) Scorer {
	return &lexical{weights: w}
}

// Name identifies the scoring scheme.
func (s *lexical) Name() string {
	return "lexical"
}

// Score computes the confidence for one candidate.
func (s *lexical) Score(in Input) (entities.ConfidenceTier, float64) {
	search := entities.Normalize(in.SearchTerm)
	label := entities.Normalize(in.Label)
	if search == "" || label == "" {
		return entities.TierVeryLow, 0
	}

	score := s.labelScore(search, label)
	score += s.aliasScore(search, in.Aliases)
	score += s.descriptionScore(search, in.Description)

	if in.Hints.Date != "" {
		score += s.weights.Hint
	}
	if in.Hints.Location != "" {
		score += s.weights.Hint
	}

	score = clamp(score)
	return entities.TierForScore(score), score
}

// labelScore credits the direct label comparison.
func (s *lexical) labelScore(search, label string) float64 {
	if search == label {
		return s.weights.Exact
	}
	overlap := wordOverlap(search, label)
	if strings.Contains(label, search) || strings.Contains(search, label) {
		return s.weights.ContainBase + s.weights.ContainOverlap*overlap
	}
	return s.weights.Overlap * overlap
}

// aliasScore credits the best-matching alias, a smaller increment than a
// direct label match.
func (s *lexical) aliasScore(search string, aliases []string) float64 {
	best := 0.0
	for _, raw := range aliases {
		alias := entities.Normalize(raw)
		if alias == "" {
			continue
		}
		var credit float64
		switch {
		case alias == search:
			credit = s.weights.AliasExact
		case strings.Contains(alias, search) || strings.Contains(search, alias):
			credit = s.weights.AliasPartial * wordOverlap(search, alias)
		}
		if credit > best {
			best = credit
		}
	}
	return best
}

// descriptionScore rewards common content words between search term and
// description, proportional to their overlap.
func (s *lexical) descriptionScore(search, description string) float64 {
	desc := entities.Normalize(description)
	if desc == "" {
		return 0
	}
	overlap := contentWordOverlap(search, desc)
	return s.weights.Description * overlap
}

// wordOverlap returns the Jaccard ratio of the two strings' word sets:
// |a ∩ b| / |a ∪ b|.
func wordOverlap(a, b string) float64 {
	aWords := wordSet(strings.Fields(a))
	bWords := wordSet(strings.Fields(b))
	return jaccard(aWords, bWords)
}

// stopwords are excluded when comparing description content words.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "in": true,
	"on": true, "at": true, "and": true, "or": true, "for": true,
	"to": true, "by": true, "with": true, "is": true, "was": true,
	"de": true, "la": true, "le": true, "von": true, "van": true,
}

// contentWordOverlap is wordOverlap restricted to non-stopword tokens.
func contentWordOverlap(a, b string) float64 {
	aWords := contentWordSet(a)
	bWords := contentWordSet(b)
	return jaccard(aWords, bWords)
}

func contentWordSet(s string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		w = strings.Trim(w, ".,;:()[]\"'")
		if w != "" && !stopwords[w] {
			words[w] = true
		}
	}
	return words
}

func wordSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		w = strings.Trim(w, ".,;:()[]\"'")
		if w != "" {
			set[w] = true
		}
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	common := 0
	for w := range a {
		if b[w] {
			common++
		}
	}
	union := len(a) + len(b) - common
	if union == 0 {
		return 0
	}
	return float64(common) / float64(union)
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
