package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomina-io/nomina/pkg/cache"
	"github.com/nomina-io/nomina/pkg/reconciler"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, reconciler.DefaultWorkers, cfg.Workers)
	assert.Equal(t, cache.DefaultCapacity, cfg.CacheSize)
	assert.Equal(t, reconciler.DefaultCandidateLimit, cfg.CandidateLimit)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("NOMINA_WORKERS", "12")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("NOMINA_TEST_KEY", "set")

	assert.Equal(t, "set", getEnvOrDefault("NOMINA_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", getEnvOrDefault("NOMINA_TEST_MISSING", "fallback"))
}
