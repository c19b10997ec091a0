// Package sources defines the interface and registry for external
// authority sources (Wikidata, VIAF, the Getty vocabularies) that
// propose candidate identities for an entity.
//
// Each source owns one query shape against one authority. Sources are
// rate-limited internally and report transport failures as errors so
// the circuit breaker wrapping them can observe health; they never
// panic past their boundary for expected failure modes.
package sources

import (
	"context"
	"slices"
	"sync"

	"github.com/nomina-io/nomina/pkg/entities"
)

// ID represents the identifier of an authority source.
type ID string

// String returns the string representation of a source ID.
func (id ID) String() string {
	return string(id)
}

// Registered source IDs. One ID per authority query shape.
const (
	WikidataPersonID  ID = "wikidata_person"
	WikidataPlaceID   ID = "wikidata_place"
	WikidataOrgID     ID = "wikidata_org"
	WikidataSubjectID ID = "wikidata_subject"
	WikidataArtworkID ID = "wikidata_artwork"
	VIAFID            ID = "viaf"
	GettyAATID        ID = "getty_aat"
	GettyTGNID        ID = "getty_tgn"
	GettyULANID       ID = "getty_ulan"
	PatternMatchID    ID = "pattern_match"
)

// IDs returns all defined source IDs.
func IDs() []ID {
	return []ID{
		WikidataPersonID,
		WikidataPlaceID,
		WikidataOrgID,
		WikidataSubjectID,
		WikidataArtworkID,
		VIAFID,
		GettyAATID,
		GettyTGNID,
		GettyULANID,
		PatternMatchID,
	}
}

// IsValid returns true if the ID is one of the defined constants.
func (id ID) IsValid() bool {
	return slices.Contains(IDs(), id)
}

// TrustWeight returns the fixed reliability weight for a source,
// applied multiplicatively to candidate scores before ranking. Primary
// knowledge bases are weighted above secondary authority lists;
// heuristic fallback matches are weighted well below both so consumers
// can always rank verified evidence first.
func (id ID) TrustWeight() float64 {
	switch id {
	case WikidataPersonID, WikidataPlaceID, WikidataOrgID, WikidataSubjectID, WikidataArtworkID:
		return 0.9
	case VIAFID:
		return 0.85
	case GettyAATID, GettyTGNID, GettyULANID:
		return 0.8
	case PatternMatchID:
		return 0.5
	default:
		return 0.7
	}
}

// Query is one search request against a source.
type Query struct {
	// Term is the raw name being reconciled.
	Term string

	// DateHint and LocationHint are optional context values extracted
	// by the orchestrator.
	DateHint     string
	LocationHint string

	// Limit bounds the number of candidates returned; zero means the
	// source default.
	Limit int
}

// Source proposes candidate identities for a query against one
// authority.
type Source interface {
	// ID returns the identifier of this source.
	ID() ID

	// Search queries the authority and returns normalized candidates.
	// Transport failures and malformed payloads return an empty list
	// together with an error describing the failure.
	Search(ctx context.Context, query Query) ([]entities.MatchCandidate, error)
}

// Sources is a thread-safe container for managing multiple sources.
type Sources struct {
	mu      sync.RWMutex
	sources map[ID]Source
}

// NewSources creates a new Sources instance.
func NewSources() *Sources {
	return &Sources{
		sources: make(map[ID]Source),
	}
}

// Get returns a source by ID.
func (s *Sources) Get(id ID) (Source, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, found := s.sources[id]
	return src, found
}

// Set sets a source by ID.
func (s *Sources) Set(id ID, src Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[id] = src
}

// Delete deletes a source by ID.
func (s *Sources) Delete(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sources, id)
}

// Len returns the number of registered sources.
func (s *Sources) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sources)
}

// List returns a slice of all registered sources.
func (s *Sources) List() []Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sources := make([]Source, 0, len(s.sources))
	for _, src := range s.sources {
		sources = append(sources, src)
	}
	return sources
}

// RegisteredIDs returns a slice of all registered source IDs.
func (s *Sources) RegisteredIDs() []ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]ID, 0, len(s.sources))
	for id := range s.sources {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
