// Package wikidata implements the Wikidata authority source clients.
// One client per entity subtype; each owns a distinct SPARQL query
// shape (class constraint plus subtype-specific optional fields)
// against the Wikidata Query Service.
package wikidata

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/nomina-io/nomina/internal/sources/sparql"
	"github.com/nomina-io/nomina/internal/transport"
	"github.com/nomina-io/nomina/pkg/entities"
	"github.com/nomina-io/nomina/pkg/sources"
)

// DefaultEndpoint is the public Wikidata Query Service.
const DefaultEndpoint = "https://query.wikidata.org/sparql"

// DefaultLimit bounds candidates per query when the caller sets none.
const DefaultLimit = 10

// entityPrefix is stripped from item URIs to recover the Q-id.
const entityPrefix = "http://www.wikidata.org/entity/"

// shape describes one subtype's query: the class constraint narrowing
// the entity search and the OPTIONAL clauses pulling auxiliary fields.
type shape struct {
	id         sources.ID
	constraint string
	optionals  string
	extraVars  string
}

var shapes = map[sources.ID]shape{
	sources.WikidataPersonID: {
		id:         sources.WikidataPersonID,
		constraint: "?item wdt:P31 wd:Q5 .",
		optionals: `OPTIONAL { ?item wdt:P569 ?birth . }
  OPTIONAL { ?item wdt:P570 ?death . }
  OPTIONAL { ?item wdt:P214 ?viafID . }`,
		extraVars: "?birth ?death ?viafID",
	},
	sources.WikidataPlaceID: {
		id:         sources.WikidataPlaceID,
		constraint: "?item wdt:P31/wdt:P279* wd:Q2221906 .",
		optionals: `OPTIONAL { ?item wdt:P625 ?coordinates . }
  OPTIONAL { ?item wdt:P17 ?countryItem . ?countryItem rdfs:label ?country . FILTER(LANG(?country) = "en") }`,
		extraVars: "?coordinates ?country",
	},
	sources.WikidataOrgID: {
		id:         sources.WikidataOrgID,
		constraint: "?item wdt:P31/wdt:P279* wd:Q43229 .",
		optionals: `OPTIONAL { ?item wdt:P571 ?inception . }
  OPTIONAL { ?item wdt:P214 ?viafID . }`,
		extraVars: "?inception ?viafID",
	},
	sources.WikidataSubjectID: {
		id:         sources.WikidataSubjectID,
		constraint: "",
		optionals:  "",
		extraVars:  "",
	},
	sources.WikidataArtworkID: {
		id:         sources.WikidataArtworkID,
		constraint: "?item wdt:P31/wdt:P279* wd:Q838948 .",
		optionals: `OPTIONAL { ?item wdt:P170 ?creatorItem . ?creatorItem rdfs:label ?creator . FILTER(LANG(?creator) = "en") }
  OPTIONAL { ?item wdt:P571 ?inception . }`,
		extraVars: "?creator ?inception",
	},
}

// Client queries Wikidata for one entity subtype.
type Client struct {
	shape     shape
	endpoint  string
	transport *transport.Client
	limit     int
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the SPARQL endpoint. Test hook.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithTransport replaces the transport client.
func WithTransport(t *transport.Client) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithLimit sets the default candidate limit.
func WithLimit(limit int) Option {
	return func(c *Client) {
		c.limit = limit
	}
}

// newClient builds a client for one query shape.
func newClient(id sources.ID, opts ...Option) *Client {
	c := &Client{
		shape:    shapes[id],
		endpoint: DefaultEndpoint,
		transport: transport.New(
			transport.WithMinInterval(time.Second),
		),
		limit: DefaultLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewPerson creates the person-query client.
func NewPerson(opts ...Option) *Client { return newClient(sources.WikidataPersonID, opts...) }

// NewPlace creates the place-query client.
func NewPlace(opts ...Option) *Client { return newClient(sources.WikidataPlaceID, opts...) }

// NewOrganization creates the organization-query client.
func NewOrganization(opts ...Option) *Client { return newClient(sources.WikidataOrgID, opts...) }

// NewSubject creates the unconstrained concept-query client.
func NewSubject(opts ...Option) *Client { return newClient(sources.WikidataSubjectID, opts...) }

// NewArtwork creates the artwork-query client.
func NewArtwork(opts ...Option) *Client { return newClient(sources.WikidataArtworkID, opts...) }

// ID returns the identifier of this source.
func (c *Client) ID() sources.ID {
	return c.shape.id
}

// Search runs the subtype's SPARQL query and parses the bindings into
// candidates. Transport failures and malformed payloads return an empty
// list with the error; the circuit breaker observes it.
func (c *Client) Search(ctx context.Context, query sources.Query) ([]entities.MatchCandidate, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = c.limit
	}

	params := url.Values{}
	params.Set("query", c.buildQuery(query.Term, limit))
	params.Set("format", "json")

	var resp sparql.Response
	if err := c.transport.GetJSON(ctx, c.shape.id.String(), c.endpoint, params, &resp); err != nil {
		return nil, err
	}

	return c.parse(resp), nil
}

// buildQuery renders the SPARQL template for this shape. The search term
// goes through the EntitySearch mwapi service; the class constraint then
// narrows hits to the subtype.
func (c *Client) buildQuery(term string, limit int) string {
	var b strings.Builder
	b.WriteString("SELECT DISTINCT ?item ?itemLabel ?itemDescription ?itemAltLabel ")
	if c.shape.extraVars != "" {
		b.WriteString(c.shape.extraVars)
		b.WriteString(" ")
	}
	b.WriteString("WHERE {\n")
	fmt.Fprintf(&b, `  SERVICE wikibase:mwapi {
    bd:serviceParam wikibase:endpoint "www.wikidata.org" ;
                    wikibase:api "EntitySearch" ;
                    mwapi:search %s ;
                    mwapi:language "en" .
    ?item wikibase:apiOutputItem mwapi:item .
  }
`, quote(term))
	if c.shape.constraint != "" {
		b.WriteString("  ")
		b.WriteString(c.shape.constraint)
		b.WriteString("\n")
	}
	if c.shape.optionals != "" {
		b.WriteString("  ")
		b.WriteString(c.shape.optionals)
		b.WriteString("\n")
	}
	b.WriteString("  SERVICE wikibase:label { bd:serviceParam wikibase:language \"en\" . }\n")
	fmt.Fprintf(&b, "} LIMIT %d", limit)
	return b.String()
}

// parse converts SPARQL bindings into match candidates. Scores are left
// to the orchestrator's scorer; aliases ride along in Extra.
func (c *Client) parse(resp sparql.Response) []entities.MatchCandidate {
	seen := make(map[string]bool)
	candidates := make([]entities.MatchCandidate, 0, len(resp.Results.Bindings))

	for _, binding := range resp.Results.Bindings {
		id := strings.TrimPrefix(binding.String("item"), entityPrefix)
		label := binding.String("itemLabel")
		if id == "" || label == "" || seen[id] {
			continue
		}
		seen[id] = true

		extra := map[string]any{}
		if aliases := splitAliases(binding.String("itemAltLabel")); len(aliases) > 0 {
			extra["aliases"] = aliases
		}
		for _, field := range []struct{ variable, key string }{
			{"birth", "birth_date"},
			{"death", "death_date"},
			{"viafID", "viaf_id"},
			{"coordinates", "coordinates"},
			{"country", "country"},
			{"inception", "inception"},
			{"creator", "creator"},
		} {
			if v := binding.String(field.variable); v != "" {
				extra[field.key] = v
			}
		}

		candidates = append(candidates, entities.MatchCandidate{
			ExternalID:  id,
			Label:       label,
			Description: binding.String("itemDescription"),
			Source:      c.shape.id.String(),
			Extra:       extra,
		})
	}

	return candidates
}

// splitAliases parses the label service's comma-joined alt label list.
func splitAliases(joined string) []string {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ", ")
	aliases := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			aliases = append(aliases, p)
		}
	}
	return aliases
}

// quote renders a term as a SPARQL string literal.
func quote(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", " ", "\r", " ").Replace(term)
	return `"` + escaped + `"`
}
