package toolchain_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relkit/relkit/internal/adapters/outbound/execrunner"
	"github.com/relkit/relkit/internal/adapters/outbound/toolchain"
	"github.com/relkit/relkit/internal/domain"
)

func goProject(t *testing.T) (string, *toolchain.GoToolchain) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"),
		[]byte("module github.com/widgets/widgetkit\n\ngo 1.24\n"), 0o644))
	return root, toolchain.NewGo(execrunner.New(root, true))
}

func goConfig(t *testing.T, root, version string) *domain.ReleaseConfig {
	t.Helper()
	v, err := domain.ParseVersion(version)
	require.NoError(t, err)
	return &domain.ReleaseConfig{
		ProjectRoot: root,
		ProjectName: "widgetkit",
		Version:     v,
		Language:    domain.LanguageGo,
		Project:     domain.DefaultProjectConfig(),
	}
}

func TestGoToolchain_ProjectName(t *testing.T) {
	root, tc := goProject(t)

	name, err := tc.ProjectName(root)
	require.NoError(t, err)
	assert.Equal(t, "widgetkit", name)
}

func TestGoToolchain_GenerateAndReadVersionFile(t *testing.T) {
	root, tc := goProject(t)

	rel, err := tc.GenerateVersionFile(goConfig(t, root, "1.2.3"))
	require.NoError(t, err)
	assert.Equal(t, "internal/version/version.go", rel)

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Contains(t, string(data), `Version = "1.2.3"`)
	assert.Contains(t, string(data), "Major = 1")

	current, err := tc.CurrentVersion(root)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", current)
}

func TestGoToolchain_UpdateVersion(t *testing.T) {
	root, tc := goProject(t)
	_, err := tc.GenerateVersionFile(goConfig(t, root, "1.2.3"))
	require.NoError(t, err)

	changed, err := tc.UpdateVersion(goConfig(t, root, "1.3.0"))
	require.NoError(t, err)
	assert.True(t, changed)

	current, err := tc.CurrentVersion(root)
	require.NoError(t, err)
	assert.Equal(t, "1.3.0", current)

	// already current: no-op
	changed, err = tc.UpdateVersion(goConfig(t, root, "1.3.0"))
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestGoToolchain_UpdateVersionMissingFile(t *testing.T) {
	root, tc := goProject(t)

	changed, err := tc.UpdateVersion(goConfig(t, root, "1.0.0"))
	require.NoError(t, err)
	assert.False(t, changed)
}
