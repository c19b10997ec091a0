package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomina-io/nomina/pkg/entities"
)

func TestReadEntitiesCSV(t *testing.T) {
	input := strings.NewReader(`id,name,type,birth_date,location
a1,Jane Austen,person,1775,Hampshire
,Minneapolis Institute of Art,organization,,
a3,Impressionism,concept,,
`)

	batch, err := readEntitiesCSV(input)
	require.NoError(t, err)
	require.Len(t, batch, 3)

	first := batch[0]
	assert.Equal(t, "a1", first.ID)
	assert.Equal(t, "Jane Austen", first.Name)
	assert.Equal(t, entities.TypePerson, first.Type)
	assert.Equal(t, map[string]string{"birth_date": "1775", "location": "Hampshire"}, first.Context)

	second := batch[1]
	assert.Equal(t, "row2", second.ID, "missing id falls back to row number")
	assert.Equal(t, entities.TypeOrganization, second.Type)
	assert.Empty(t, second.Context)

	// "concept" resolves through the type synonym table.
	assert.Equal(t, entities.TypeSubject, batch[2].Type)
}

func TestReadEntitiesCSVMissingNameColumn(t *testing.T) {
	input := strings.NewReader("id,title\n1,Something\n")

	_, err := readEntitiesCSV(input)
	assert.Error(t, err)
}

func TestReadEntitiesCSVEmptyName(t *testing.T) {
	input := strings.NewReader("id,name\n1,   \n")

	_, err := readEntitiesCSV(input)
	assert.Error(t, err)
}

func TestResolveType(t *testing.T) {
	assert.Equal(t, entities.TypeUnknown, resolveType(""))
	assert.Equal(t, entities.TypeUnknown, resolveType("   "))
	assert.Equal(t, entities.TypePerson, resolveType("Person"))
	assert.Equal(t, entities.TypeUnknown, resolveType("widget"))
}
