package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomina-io/nomina/pkg/entities"
)

func TestNewEntity(t *testing.T) {
	e, err := entities.New("row-1", "  William Shakespeare  ", entities.TypePerson, nil)
	require.NoError(t, err)
	assert.Equal(t, "William Shakespeare", e.Name)
	assert.Equal(t, "william shakespeare", e.NormalizedName)
	assert.Equal(t, entities.TypePerson, e.Type)
	assert.NotEmpty(t, e.Fingerprint())
}

func TestNewEntityRejectsEmptyName(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"tabs and newlines", "\t\n "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := entities.New("id", tt.input, entities.TypePerson, nil)
			assert.Error(t, err)
		})
	}
}

func TestNewEntityDefaultsUnknownType(t *testing.T) {
	e, err := entities.New("row-1", "Something", "", nil)
	require.NoError(t, err)
	assert.Equal(t, entities.TypeUnknown, e.Type)
}

func TestNewEntityRejectsInvalidType(t *testing.T) {
	_, err := entities.New("row-1", "Something", entities.Type("building"), nil)
	assert.Error(t, err)
}

func TestFingerprintDeterminism(t *testing.T) {
	// Structurally identical entities constructed independently must
	// fingerprint identically, regardless of context key order.
	a := entities.MustNew("a", "Jane Austen", entities.TypeAuthor, map[string]string{
		"birth_year": "1775",
		"location":   "Hampshire",
	})
	b := entities.MustNew("b", "jane austen", entities.TypeAuthor, map[string]string{
		"location":   "Hampshire",
		"birth_year": "1775",
	})
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestFingerprintSensitivity(t *testing.T) {
	base := entities.MustNew("a", "Jane Austen", entities.TypeAuthor, nil)

	diffType := entities.MustNew("a", "Jane Austen", entities.TypePerson, nil)
	assert.NotEqual(t, base.Fingerprint(), diffType.Fingerprint())

	diffName := entities.MustNew("a", "Jane Austin", entities.TypeAuthor, nil)
	assert.NotEqual(t, base.Fingerprint(), diffName.Fingerprint())

	diffContext := entities.MustNew("a", "Jane Austen", entities.TypeAuthor, map[string]string{"birth_year": "1775"})
	assert.NotEqual(t, base.Fingerprint(), diffContext.Fingerprint())
}

func TestFingerprintIgnoresID(t *testing.T) {
	a := entities.MustNew("row-1", "Berlin", entities.TypePlace, nil)
	b := entities.MustNew("row-999", "Berlin", entities.TypePlace, nil)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestWithType(t *testing.T) {
	e := entities.MustNew("a", "Berlin", entities.TypeUnknown, nil)
	typed := e.WithType(entities.TypePlace)

	assert.Equal(t, entities.TypeUnknown, e.Type, "original must not change")
	assert.Equal(t, entities.TypePlace, typed.Type)
	assert.NotEqual(t, e.Fingerprint(), typed.Fingerprint())
}

func TestContextIsCopied(t *testing.T) {
	ctx := map[string]string{"location": "Paris"}
	e := entities.MustNew("a", "Notre-Dame", entities.TypePlace, ctx)
	fp := e.Fingerprint()

	ctx["location"] = "London"
	assert.Equal(t, "Paris", e.Context["location"])
	assert.Equal(t, fp, e.Fingerprint())
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"William Shakespeare", "william shakespeare"},
		{"  Padded  ", "padded"},
		{"ÉCOLE", "école"},
		{"Straße", "strasse"}, // case folding, not simple lowercasing
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, entities.Normalize(tt.input))
		})
	}
}

func TestTypeIsValid(t *testing.T) {
	for _, typ := range entities.Types() {
		assert.True(t, typ.IsValid())
	}
	assert.False(t, entities.Type("building").IsValid())
}
