package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "openapi", cfg.SpecDir)
	assert.Equal(t, ":5001", cfg.ListenAddr)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 25, cfg.ArrayTruncate)
	assert.False(t, cfg.Validate)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().SpecDir, cfg.SpecDir)
	assert.Equal(t, Default().ListenAddr, cfg.ListenAddr)
}

func TestLoadFile(t *testing.T) {
	t.Setenv("PORT", "")

	file := filepath.Join(t.TempDir(), "playground.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`spec_dir: specs
target_url: http://localhost:3000
array_truncate: 10
validate: true
`), 0o644))

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, "specs", cfg.SpecDir)
	assert.Equal(t, "http://localhost:3000", cfg.TargetURL)
	assert.Equal(t, 10, cfg.ArrayTruncate)
	assert.True(t, cfg.Validate)
	assert.Equal(t, ":5001", cfg.ListenAddr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadPortFallback(t *testing.T) {
	t.Setenv("PORT", "8080")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
}
