package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relkit/relkit/internal/adapters/outbound/config"
	"github.com/relkit/relkit/internal/domain"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".relkit.yaml"), []byte(content), 0o644))
}

func TestYAMLLoader_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.New().Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultProjectConfig(), cfg)
}

func TestYAMLLoader_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
exclude_paths:
  - "docs/generated/**"
protected_paths:
  - "vendor/**"
long_file_threshold: 1200
license: MIT
copyright_holder: Widget Co
`)

	cfg, err := config.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/generated/**"}, cfg.ExcludePaths)
	assert.Equal(t, []string{"vendor/**"}, cfg.ProtectedPaths)
	assert.Equal(t, 1200, cfg.LongFileThreshold)
	assert.Equal(t, "MIT", cfg.License)
	assert.Equal(t, "Widget Co", cfg.CopyrightHolder)
}

func TestYAMLLoader_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "license: Apache-2.0\n")

	cfg, err := config.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "Apache-2.0", cfg.License)
	assert.Equal(t, domain.DefaultProjectConfig().LongFileThreshold, cfg.LongFileThreshold)
}

func TestYAMLLoader_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "exclude_paths: [unclosed\n")

	_, err := config.New().Load(dir)
	assert.Error(t, err)
}

func TestYAMLLoader_ZeroThresholdFallsBack(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "long_file_threshold: 0\n")

	cfg, err := config.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.LongFileThreshold)
}
