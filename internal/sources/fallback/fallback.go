// Package fallback provides a static pattern table consulted when the
// live authority services cannot be reached. Matches are heuristic and
// carry the pattern_match source id so downstream consumers can tell
// them apart from verified authority matches.
package fallback

import (
	"context"
	_ "embed"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/nomina-io/nomina/pkg/entities"
	"github.com/nomina-io/nomina/pkg/errors"
	"github.com/nomina-io/nomina/pkg/sources"
)

//go:embed table.yaml
var tableYAML []byte

// entry is one row of the embedded pattern table.
type entry struct {
	Name        string   `yaml:"name"`
	ExternalID  string   `yaml:"external_id"`
	Type        string   `yaml:"type"`
	Description string   `yaml:"description"`
	Aliases     []string `yaml:"aliases"`
}

type table struct {
	Entries []entry `yaml:"entries"`
}

// Client matches names against the embedded table. It never performs
// network I/O, so Search cannot fail transiently.
type Client struct {
	entries []entry
	// normalized holds the folded form of every name and alias,
	// indexed in step with entries.
	normalized [][]string
}

var (
	defaultOnce   sync.Once
	defaultClient *Client
	defaultErr    error
)

// New parses the embedded table. The table ships inside the binary, so
// a parse failure indicates a build problem rather than a runtime one.
func New() (*Client, error) {
	defaultOnce.Do(func() {
		defaultClient, defaultErr = parse(tableYAML)
	})
	return defaultClient, defaultErr
}

func parse(raw []byte) (*Client, error) {
	var t table
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, errors.WrapParse(sources.PatternMatchID.String(), "yaml", err)
	}

	c := &Client{
		entries:    t.Entries,
		normalized: make([][]string, len(t.Entries)),
	}
	for i, e := range t.Entries {
		forms := make([]string, 0, len(e.Aliases)+1)
		forms = append(forms, entities.Normalize(e.Name))
		for _, a := range e.Aliases {
			forms = append(forms, entities.Normalize(a))
		}
		c.normalized[i] = forms
	}
	return c, nil
}

// ID implements sources.Source.
func (c *Client) ID() sources.ID {
	return sources.PatternMatchID
}

// Search matches the query term against the table by exact normalized
// comparison first, then by containment in either direction. Exact
// matches sort ahead of containment matches in the returned slice.
func (c *Client) Search(ctx context.Context, q sources.Query) ([]entities.MatchCandidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	term := entities.Normalize(q.Term)
	if term == "" {
		return nil, nil
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 5
	}

	var exact, partial []entities.MatchCandidate
	for i, e := range c.entries {
		switch matchKind(term, c.normalized[i]) {
		case matchExact:
			exact = append(exact, c.candidate(e))
		case matchPartial:
			partial = append(partial, c.candidate(e))
		}
	}

	out := append(exact, partial...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type kind int

const (
	matchNone kind = iota
	matchPartial
	matchExact
)

func matchKind(term string, forms []string) kind {
	best := matchNone
	for _, f := range forms {
		if f == term {
			return matchExact
		}
		if strings.Contains(f, term) || strings.Contains(term, f) {
			best = matchPartial
		}
	}
	return best
}

func (c *Client) candidate(e entry) entities.MatchCandidate {
	extra := map[string]any{
		"entity_type": e.Type,
	}
	if len(e.Aliases) > 0 {
		aliases := make([]string, len(e.Aliases))
		copy(aliases, e.Aliases)
		extra["aliases"] = aliases
	}
	return entities.MatchCandidate{
		ExternalID:  e.ExternalID,
		Label:       e.Name,
		Description: e.Description,
		Source:      sources.PatternMatchID.String(),
		Extra:       extra,
	}
}
