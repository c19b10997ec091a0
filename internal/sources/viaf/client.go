// Package viaf implements the VIAF (Virtual International Authority
// File) source client using the AutoSuggest author-search endpoint.
package viaf

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/nomina-io/nomina/internal/transport"
	"github.com/nomina-io/nomina/pkg/entities"
	"github.com/nomina-io/nomina/pkg/sources"
)

// DefaultEndpoint is the public VIAF AutoSuggest API.
const DefaultEndpoint = "https://viaf.org/viaf/AutoSuggest"

// DefaultLimit bounds candidates per query when the caller sets none.
const DefaultLimit = 10

// response is the AutoSuggest payload shape.
type response struct {
	Query  string `json:"query"`
	Result []struct {
		Term        string `json:"term"`
		DisplayForm string `json:"displayForm"`
		NameType    string `json:"nametype"`
		ViafID      string `json:"viafid"`
		LC          string `json:"lc"`
		DNB         string `json:"dnb"`
		BNF         string `json:"bnf"`
	} `json:"result"`
}

// Client queries VIAF for author/name records.
type Client struct {
	endpoint  string
	transport *transport.Client
	limit     int
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the AutoSuggest endpoint. Test hook.
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

// New creates a VIAF client.
func New(opts ...Option) *Client {
	c := &Client{
		endpoint: DefaultEndpoint,
		transport: transport.New(
			transport.WithMinInterval(500 * time.Millisecond),
		),
		limit: DefaultLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the identifier of this source.
func (c *Client) ID() sources.ID {
	return sources.VIAFID
}

// Search queries AutoSuggest and normalizes the hits. VIAF has a single
// author-search query shape; the name type of each hit rides along in
// Extra for consumers that care.
func (c *Client) Search(ctx context.Context, query sources.Query) ([]entities.MatchCandidate, error) {
	params := url.Values{}
	params.Set("query", query.Term)

	var resp response
	if err := c.transport.GetJSON(ctx, sources.VIAFID.String(), c.endpoint, params, &resp); err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit <= 0 {
		limit = c.limit
	}

	candidates := make([]entities.MatchCandidate, 0, min(len(resp.Result), limit))
	for _, hit := range resp.Result {
		if hit.ViafID == "" || hit.Term == "" {
			continue
		}
		if len(candidates) >= limit {
			break
		}

		extra := map[string]any{}
		if hit.NameType != "" {
			extra["name_type"] = hit.NameType
		}
		// Cross-references into national authority files.
		if hit.LC != "" {
			extra["lc_id"] = hit.LC
		}
		if hit.DNB != "" {
			extra["dnb_id"] = hit.DNB
		}
		if hit.BNF != "" {
			extra["bnf_id"] = hit.BNF
		}
		if hit.DisplayForm != "" && hit.DisplayForm != hit.Term {
			extra["aliases"] = []string{hit.DisplayForm}
		}

		candidates = append(candidates, entities.MatchCandidate{
			ExternalID:  hit.ViafID,
			Label:       cleanTerm(hit.Term),
			Description: describe(hit.NameType),
			Source:      sources.VIAFID.String(),
			Extra:       extra,
		})
	}

	return candidates, nil
}

// cleanTerm strips the trailing date segment VIAF appends to headings,
// e.g. "Austen, Jane, 1775-1817" keeps its dates but loses stray
// trailing punctuation.
func cleanTerm(term string) string {
	return strings.TrimRight(strings.TrimSpace(term), ".,")
}

// describe maps a VIAF name type to a human-readable description.
func describe(nameType string) string {
	switch strings.ToLower(nameType) {
	case "personal":
		return "personal name authority record"
	case "corporate":
		return "corporate name authority record"
	case "geographic":
		return "geographic name authority record"
	case "uniformtitlework", "uniformtitleexpression":
		return "uniform title authority record"
	default:
		return ""
	}
}
