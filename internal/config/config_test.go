package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesSpec(t *testing.T) {
	cfg := Default()
	require.Equal(t, "auto", cfg.Workers)
	require.Equal(t, 100, cfg.CacheMaxMB)
	require.True(t, cfg.Incremental)
	require.Equal(t, 100, cfg.MaxErrorsPerModule)
	require.False(t, cfg.Strict)
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gtc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache_max_mb: 50\nstrict: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 50, cfg.CacheMaxMB)
	require.True(t, cfg.Strict)
	require.True(t, cfg.Incremental) // untouched default survives
}

func TestResolveWorkersAuto(t *testing.T) {
	cfg := Default()
	require.Greater(t, cfg.ResolveWorkers(), 0)
}

func TestResolveWorkersExplicit(t *testing.T) {
	cfg := Default()
	cfg.Workers = "4"
	require.Equal(t, 4, cfg.ResolveWorkers())
}
