package getty_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomina-io/nomina/internal/sources/getty"
	"github.com/nomina-io/nomina/pkg/sources"
)

const aatResponse = `{
  "head": {"vars": ["subject", "term", "parents", "note"]},
  "results": {"bindings": [
    {
      "subject": {"type": "uri", "value": "http://vocab.getty.edu/aat/300021515"},
      "term": {"type": "literal", "value": "Impressionist"},
      "parents": {"type": "literal", "value": "modern European styles and movements, <styles and periods>"},
      "note": {"type": "literal", "value": "Refers to the style of painting that originated in France in the 1860s"}
    },
    {
      "subject": {"type": "uri", "value": "http://vocab.getty.edu/aat/300021515"},
      "term": {"type": "literal", "value": "Impressionist"}
    }
  ]}
}`

const tgnResponse = `{
  "head": {"vars": ["subject", "term", "parents", "note", "lat", "long"]},
  "results": {"bindings": [
    {
      "subject": {"type": "uri", "value": "http://vocab.getty.edu/tgn/7013547"},
      "term": {"type": "literal", "value": "Minneapolis"},
      "parents": {"type": "literal", "value": "Hennepin, Minnesota, United States"},
      "lat": {"type": "literal", "value": "44.9778"},
      "long": {"type": "literal", "value": "-93.265"}
    }
  ]}
}`

func TestAATSearch(t *testing.T) {
	var capturedQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedQuery = r.URL.Query().Get("query")
		_, _ = w.Write([]byte(aatResponse))
	}))
	defer server.Close()

	client := getty.NewAAT(getty.WithEndpoint(server.URL))
	candidates, err := client.Search(context.Background(), sources.Query{Term: "impressionist"})
	require.NoError(t, err)

	assert.Contains(t, capturedQuery, "vocab.getty.edu/aat/")
	assert.Contains(t, capturedQuery, `luc:term "impressionist"`)

	// Duplicate subject URIs collapse.
	require.Len(t, candidates, 1)
	c := candidates[0]
	assert.Equal(t, "300021515", c.ExternalID)
	assert.Equal(t, "Impressionist", c.Label)
	assert.Equal(t, "getty_aat", c.Source)
	assert.Contains(t, c.Description, "style of painting")
	assert.Equal(t, "http://vocab.getty.edu/aat/300021515", c.Extra["uri"])
}

func TestTGNSearchCoordinates(t *testing.T) {
	var capturedQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedQuery = r.URL.Query().Get("query")
		_, _ = w.Write([]byte(tgnResponse))
	}))
	defer server.Close()

	client := getty.NewTGN(getty.WithEndpoint(server.URL))
	candidates, err := client.Search(context.Background(), sources.Query{Term: "Minneapolis"})
	require.NoError(t, err)

	assert.Contains(t, capturedQuery, "vocab.getty.edu/tgn/")
	assert.Contains(t, capturedQuery, "geo:lat")

	require.Len(t, candidates, 1)
	c := candidates[0]
	assert.Equal(t, "7013547", c.ExternalID)
	assert.Equal(t, "44.9778,-93.265", c.Extra["coordinates"])
	// With no scope note, the parent hierarchy serves as description.
	assert.Equal(t, "Hennepin, Minnesota, United States", c.Description)
}

func TestULANShape(t *testing.T) {
	var capturedQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedQuery = r.URL.Query().Get("query")
		_, _ = w.Write([]byte(`{"head":{"vars":[]},"results":{"bindings":[]}}`))
	}))
	defer server.Close()

	client := getty.NewULAN(getty.WithEndpoint(server.URL))
	candidates, err := client.Search(context.Background(), sources.Query{Term: "Rembrandt"})
	require.NoError(t, err)
	assert.Empty(t, candidates)
	assert.Contains(t, capturedQuery, "vocab.getty.edu/ulan/")
	assert.Contains(t, capturedQuery, "biographyPreferred")
}

func TestSearchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := getty.NewAAT(getty.WithEndpoint(server.URL))
	candidates, err := client.Search(context.Background(), sources.Query{Term: "anything"})
	assert.Error(t, err)
	assert.Empty(t, candidates)
}
