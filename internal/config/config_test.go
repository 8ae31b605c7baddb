package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, 512, cfg.Embedder.Dimension)
	assert.Equal(t, 0.25, cfg.Search.Threshold)
	assert.Equal(t, 10, cfg.Search.Limit)
	assert.Equal(t, 5, cfg.Auth.OTPExpiryMins)
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  limit: 25\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Search.Limit)
	assert.Equal(t, 0.25, cfg.Search.Threshold, "untouched knobs keep defaults")
	assert.Equal(t, "text-embedding-3-small", cfg.Embedder.Model)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := defaultConfig()
	cfg.Search.Threshold = 0.5

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, loaded.Search.Threshold)
	assert.Equal(t, cfg.Server.Addr, loaded.Server.Addr)
}
