// Package registry assembles the default source set and owns the
// mapping from entity type to the sources that should be consulted for
// it.
package registry

import (
	"github.com/nomina-io/nomina/internal/sources/fallback"
	"github.com/nomina-io/nomina/internal/sources/getty"
	"github.com/nomina-io/nomina/internal/sources/viaf"
	"github.com/nomina-io/nomina/internal/sources/wikidata"
	"github.com/nomina-io/nomina/pkg/entities"
	"github.com/nomina-io/nomina/pkg/sources"
)

// typeSources maps each entity type to the source IDs consulted for it,
// in dispatch order. Unknown entities are tried against the person
// sources first, then the organization sources.
var typeSources = map[entities.Type][]sources.ID{
	entities.TypePerson:       {sources.WikidataPersonID, sources.VIAFID},
	entities.TypeAuthor:       {sources.VIAFID, sources.WikidataPersonID},
	entities.TypePlace:        {sources.WikidataPlaceID, sources.GettyTGNID},
	entities.TypeOrganization: {sources.WikidataOrgID, sources.GettyULANID},
	entities.TypeSubject:      {sources.WikidataSubjectID, sources.GettyAATID},
	entities.TypeArtwork:      {sources.WikidataArtworkID},
	entities.TypeUnknown: {
		sources.WikidataPersonID, sources.VIAFID,
		sources.WikidataOrgID, sources.GettyULANID,
	},
}

// ForType returns the source IDs to consult for an entity type, in
// order. The returned slice is a copy.
func ForType(t entities.Type) []sources.ID {
	ids, ok := typeSources[t]
	if !ok {
		ids = typeSources[entities.TypeUnknown]
	}
	out := make([]sources.ID, len(ids))
	copy(out, ids)
	return out
}

type config struct {
	wikidataOpts []wikidata.Option
	viafOpts     []viaf.Option
	gettyOpts    []getty.Option
}

// Option configures the assembled source set.
type Option func(*config)

// WithWikidataOptions passes options through to every Wikidata client.
func WithWikidataOptions(opts ...wikidata.Option) Option {
	return func(c *config) { c.wikidataOpts = append(c.wikidataOpts, opts...) }
}

// WithVIAFOptions passes options through to the VIAF client.
func WithVIAFOptions(opts ...viaf.Option) Option {
	return func(c *config) { c.viafOpts = append(c.viafOpts, opts...) }
}

// WithGettyOptions passes options through to every Getty client.
func WithGettyOptions(opts ...getty.Option) Option {
	return func(c *config) { c.gettyOpts = append(c.gettyOpts, opts...) }
}

// New builds the full default source set: the five Wikidata query
// shapes, VIAF, the three Getty vocabularies, and the static fallback
// table.
func New(opts ...Option) (*sources.Sources, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	set := sources.NewSources()
	register := func(src sources.Source) { set.Set(src.ID(), src) }

	register(wikidata.NewPerson(cfg.wikidataOpts...))
	register(wikidata.NewPlace(cfg.wikidataOpts...))
	register(wikidata.NewOrganization(cfg.wikidataOpts...))
	register(wikidata.NewSubject(cfg.wikidataOpts...))
	register(wikidata.NewArtwork(cfg.wikidataOpts...))
	register(viaf.New(cfg.viafOpts...))
	register(getty.NewAAT(cfg.gettyOpts...))
	register(getty.NewTGN(cfg.gettyOpts...))
	register(getty.NewULAN(cfg.gettyOpts...))

	fb, err := fallback.New()
	if err != nil {
		return nil, err
	}
	register(fb)

	return set, nil
}
