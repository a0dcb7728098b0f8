package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYAMLLoaderMergesOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("host_version: \"20.01\"\nrest_api:\n  port: 9999\n"), 0o644))

	loader := NewYAMLLoader(nil)
	cfg, err := loader.Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "20.01", cfg.HostVersion)
	assert.Equal(t, 9999, cfg.RestAPI.Port)
	assert.Equal(t, "127.0.0.1", cfg.RestAPI.Host, "unset fields keep their default")
	assert.Equal(t, 10, cfg.Dispatch.MaxParallelInstalls)
}

func TestYAMLLoaderMissingFileReturnsDefaults(t *testing.T) {
	loader := NewYAMLLoader(nil)
	cfg, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}
