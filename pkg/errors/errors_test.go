package errors_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	pkgerrors "github.com/nomina-io/nomina/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "name",
			Message: "cannot be empty",
		}
		assert.Equal(t, "validation failed for field name: cannot be empty", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Message: "invalid configuration",
		}
		assert.Equal(t, "validation failed: invalid configuration", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewValidationError("workers", 0, "must be positive")
		assert.Contains(t, err.Error(), "workers")
		assert.Contains(t, err.Error(), "must be positive")
	})
}

func TestSourceError(t *testing.T) {
	t.Run("with status code", func(t *testing.T) {
		err := &pkgerrors.SourceError{
			Source:     "wikidata",
			StatusCode: 429,
			Message:    "too many requests",
		}
		assert.Equal(t, "source error from wikidata (status 429): too many requests", err.Error())
		assert.True(t, pkgerrors.IsRateLimited(err))
	})

	t.Run("server error maps to unavailable", func(t *testing.T) {
		err := pkgerrors.NewSourceError("viaf", 503, "maintenance")
		assert.True(t, pkgerrors.IsSourceUnavailable(err))
		assert.False(t, pkgerrors.IsRateLimited(err))
	})

	t.Run("without status code", func(t *testing.T) {
		err := pkgerrors.NewSourceError("getty_aat", 0, "connection refused")
		assert.Equal(t, "source error from getty_aat: connection refused", err.Error())
	})

	t.Run("unwrap", func(t *testing.T) {
		base := errors.New("dial tcp: timeout")
		err := pkgerrors.WrapSource("wikidata", 0, base)
		assert.True(t, errors.Is(err, base))
	})
}

func TestParseError(t *testing.T) {
	t.Run("with source", func(t *testing.T) {
		err := pkgerrors.NewParseError("viaf", "json", "unexpected end of input", nil)
		assert.Equal(t, "json parse error from viaf: unexpected end of input", err.Error())
	})

	t.Run("wrap", func(t *testing.T) {
		base := errors.New("invalid character '<'")
		err := pkgerrors.WrapParse("getty_tgn", "sparql-json", base)
		assert.True(t, errors.Is(err, base))
		assert.Contains(t, err.Error(), "getty_tgn")
	})
}

func TestConfigError(t *testing.T) {
	err := pkgerrors.NewConfigError("reconciler", "no sources registered", nil)
	assert.Equal(t, "configuration error in reconciler: no sources registered", err.Error())
}

func TestReconcileError(t *testing.T) {
	base := errors.New("no source mapping")
	err := pkgerrors.NewReconcileError("row-42", "Ada Lovelace", base)
	assert.Contains(t, err.Error(), "row-42")
	assert.Contains(t, err.Error(), "Ada Lovelace")
	assert.True(t, errors.Is(err, base))
}

func TestTimeoutError(t *testing.T) {
	err := pkgerrors.NewTimeoutError("search", "10s", "wikidata did not respond")
	assert.True(t, pkgerrors.IsTimeout(err))
	assert.Contains(t, err.Error(), "10s")
}

func TestSentinelHelpers(t *testing.T) {
	assert.True(t, pkgerrors.IsCircuitOpen(pkgerrors.ErrCircuitOpen))
	assert.True(t, pkgerrors.IsCanceled(pkgerrors.ErrCanceled))
	assert.True(t, pkgerrors.IsNotFound(pkgerrors.ErrNotFound))
	assert.False(t, pkgerrors.IsCircuitOpen(errors.New("other")))
}

func TestIsCanceledSeesContextErrors(t *testing.T) {
	assert.True(t, pkgerrors.IsCanceled(context.Canceled))

	wrapped := pkgerrors.WrapSource("wikidata_person", 0, context.Canceled)
	assert.True(t, pkgerrors.IsCanceled(wrapped))

	assert.True(t, pkgerrors.IsTimeout(context.DeadlineExceeded))
	assert.False(t, pkgerrors.IsCanceled(errors.New("other")))
}
