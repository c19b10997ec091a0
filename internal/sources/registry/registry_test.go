package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomina-io/nomina/pkg/entities"
	"github.com/nomina-io/nomina/pkg/sources"
)

func TestNewRegistersAllSources(t *testing.T) {
	set, err := New()
	require.NoError(t, err)
	assert.Equal(t, len(sources.IDs()), set.Len())

	for _, id := range sources.IDs() {
		src, found := set.Get(id)
		require.True(t, found, "source %s not registered", id)
		assert.Equal(t, id, src.ID())
	}
}

func TestForType(t *testing.T) {
	tests := []struct {
		name string
		typ  entities.Type
		want []sources.ID
	}{
		{
			name: "person",
			typ:  entities.TypePerson,
			want: []sources.ID{sources.WikidataPersonID, sources.VIAFID},
		},
		{
			name: "author prefers viaf",
			typ:  entities.TypeAuthor,
			want: []sources.ID{sources.VIAFID, sources.WikidataPersonID},
		},
		{
			name: "place",
			typ:  entities.TypePlace,
			want: []sources.ID{sources.WikidataPlaceID, sources.GettyTGNID},
		},
		{
			name: "organization",
			typ:  entities.TypeOrganization,
			want: []sources.ID{sources.WikidataOrgID, sources.GettyULANID},
		},
		{
			name: "subject",
			typ:  entities.TypeSubject,
			want: []sources.ID{sources.WikidataSubjectID, sources.GettyAATID},
		},
		{
			name: "artwork",
			typ:  entities.TypeArtwork,
			want: []sources.ID{sources.WikidataArtworkID},
		},
		{
			name: "unknown tries person then organization sources",
			typ:  entities.TypeUnknown,
			want: []sources.ID{
				sources.WikidataPersonID, sources.VIAFID,
				sources.WikidataOrgID, sources.GettyULANID,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ForType(tt.typ))
		})
	}
}

func TestForTypeReturnsCopy(t *testing.T) {
	first := ForType(entities.TypePerson)
	first[0] = sources.PatternMatchID
	assert.Equal(t, sources.WikidataPersonID, ForType(entities.TypePerson)[0])
}
