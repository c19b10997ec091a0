// Package getty implements clients for the Getty vocabularies via the
// Getty SPARQL endpoint. Three vocabulary-specific query shapes exist:
// AAT for terms/concepts, TGN for places, and ULAN for agents.
package getty

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

// DefaultEndpoint is the public Getty SPARQL endpoint.
const DefaultEndpoint = "http://vocab.getty.edu/sparql.json"

// DefaultLimit bounds candidates per query when the caller sets none.
const DefaultLimit = 10

// vocabulary describes one Getty vocabulary's query shape.
type vocabulary struct {
	id     sources.ID
	scheme string
	// extras holds vocabulary-specific OPTIONAL clauses.
	extras    string
	extraVars string
}

var vocabularies = map[sources.ID]vocabulary{
	sources.GettyAATID: {
		id:     sources.GettyAATID,
		scheme: "http://vocab.getty.edu/aat/",
	},
	sources.GettyTGNID: {
		id:        sources.GettyTGNID,
		scheme:    "http://vocab.getty.edu/tgn/",
		extras:    `OPTIONAL { ?subject foaf:focus ?place . ?place geo:lat ?lat ; geo:long ?long . }`,
		extraVars: "?lat ?long",
	},
	sources.GettyULANID: {
		id:        sources.GettyULANID,
		scheme:    "http://vocab.getty.edu/ulan/",
		extras:    `OPTIONAL { ?subject foaf:focus/gvp:biographyPreferred/schema:description ?bio . }`,
		extraVars: "?bio",
	},
}

// Client queries one Getty vocabulary.
type Client struct {
	vocab     vocabulary
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

func newClient(id sources.ID, opts ...Option) *Client {
	c := &Client{
		vocab:    vocabularies[id],
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

// NewAAT creates the Art & Architecture Thesaurus client (terms).
func NewAAT(opts ...Option) *Client { return newClient(sources.GettyAATID, opts...) }

// NewTGN creates the Thesaurus of Geographic Names client (places).
func NewTGN(opts ...Option) *Client { return newClient(sources.GettyTGNID, opts...) }

// NewULAN creates the Union List of Artist Names client (agents).
func NewULAN(opts ...Option) *Client { return newClient(sources.GettyULANID, opts...) }

// ID returns the identifier of this source.
func (c *Client) ID() sources.ID {
	return c.vocab.id
}

// Search runs the vocabulary's full-text query and parses the bindings.
func (c *Client) Search(ctx context.Context, query sources.Query) ([]entities.MatchCandidate, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = c.limit
	}

	params := url.Values{}
	params.Set("query", c.buildQuery(query.Term, limit))

	var resp sparql.Response
	if err := c.transport.GetJSON(ctx, c.vocab.id.String(), c.endpoint, params, &resp); err != nil {
		return nil, err
	}

	return c.parse(resp), nil
}

// buildQuery renders the luc:term full-text query for this vocabulary.
func (c *Client) buildQuery(term string, limit int) string {
	var b strings.Builder
	b.WriteString("SELECT ?subject ?term ?parents ?note ")
	if c.vocab.extraVars != "" {
		b.WriteString(c.vocab.extraVars)
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, `WHERE {
  ?subject a skos:Concept ;
           luc:term %s ;
           skos:inScheme <%s> ;
           gvp:prefLabelGVP/xl:literalForm ?term .
  OPTIONAL { ?subject gvp:parentStringAbbrev ?parents . }
  OPTIONAL { ?subject skos:scopeNote/rdf:value ?note . }
`, quote(term), c.vocab.scheme)
	if c.vocab.extras != "" {
		b.WriteString("  ")
		b.WriteString(c.vocab.extras)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "} LIMIT %d", limit)
	return b.String()
}

// parse converts SPARQL bindings into candidates. The parent hierarchy
// string doubles as a description when no scope note is present.
func (c *Client) parse(resp sparql.Response) []entities.MatchCandidate {
	seen := make(map[string]bool)
	candidates := make([]entities.MatchCandidate, 0, len(resp.Results.Bindings))

	for _, binding := range resp.Results.Bindings {
		subject := binding.String("subject")
		id := subject[strings.LastIndex(subject, "/")+1:]
		label := binding.String("term")
		if id == "" || label == "" || seen[id] {
			continue
		}
		seen[id] = true

		description := binding.String("note")
		if description == "" {
			description = binding.String("parents")
		}

		extra := map[string]any{
			"uri": subject,
		}
		if parents := binding.String("parents"); parents != "" {
			extra["parents"] = parents
		}
		if lat := binding.String("lat"); lat != "" {
			extra["coordinates"] = lat + "," + binding.String("long")
		}
		if bio := binding.String("bio"); bio != "" {
			extra["biography"] = bio
		}

		candidates = append(candidates, entities.MatchCandidate{
			ExternalID:  id,
			Label:       label,
			Description: description,
			Source:      c.vocab.id.String(),
			Extra:       extra,
		})
	}

	return candidates
}

// quote renders a term as a SPARQL string literal.
func quote(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", " ", "\r", " ").Replace(term)
	return `"` + escaped + `"`
}
