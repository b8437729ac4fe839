package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.Embedded)
	assert.Equal(t, filepath.Join("container", DefaultArchiveName), cfg.ContainerPath)
	assert.Zero(t, cfg.HistoryLimit)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.False(t, cfg.Debug)
	assert.Equal(t, filepath.Join("container", DefaultArchiveName), cfg.ContainerPath)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("WORM_DEBUG", "true")
	t.Setenv("WORM_TIMEOUT", "5s")
	t.Setenv("WORM_PYTHON_BIN", "python3.12")
	t.Setenv("WORM_HISTORY_LIMIT", "100")
	t.Setenv("WORM_CONTAINER_PATH", "/tmp/custom.pack")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "python3.12", cfg.PythonBin)
	assert.Equal(t, 100, cfg.HistoryLimit)
	assert.Equal(t, "/tmp/custom.pack", cfg.ContainerPath)
}

func TestLoadEmbedded(t *testing.T) {
	t.Setenv("WORM_EMBEDDED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Embedded)
	// Embedded mode resolves the archive next to the executable.
	assert.Equal(t, DefaultArchiveName, filepath.Base(cfg.ContainerPath))
}

func TestLogger(t *testing.T) {
	assert.NotNil(t, Default().Logger())

	debug := Default()
	debug.Debug = true
	assert.NotNil(t, debug.Logger())
}
