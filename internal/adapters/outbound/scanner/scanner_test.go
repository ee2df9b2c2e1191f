package scanner_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relkit/relkit/internal/adapters/outbound/scanner"
	"github.com/relkit/relkit/internal/domain"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestFileScanner_Scan(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"README.md":            "# x",
		"CHANGELOG.md":         "# changelog",
		"docs/guide.md":        "guide",
		"docs/common/bits.md":  "shared",
		"config/settings.md":   "settings",
		"src/core/orders.adb":  "body",
		"src/core/orders.ads":  "spec",
		"internal/a/a.go":      "package a",
		"vendor/dep/dep.go":    "package dep",
		".git/config":          "ignored",
		"obj/output.o":         "binary",
		"assets/logo.png":      "png",
	})

	inv, err := scanner.New().Scan(root, domain.DefaultProjectConfig())
	require.NoError(t, err)

	assert.Contains(t, inv.SourceFiles, "internal/a/a.go")
	assert.Contains(t, inv.SourceFiles, "src/core/orders.adb")
	assert.NotContains(t, inv.SourceFiles, "vendor/dep/dep.go")

	assert.Contains(t, inv.DocFiles, "README.md")
	assert.Contains(t, inv.DocFiles, "docs/guide.md")
	assert.Contains(t, inv.DocFiles, "config/settings.md")
	assert.NotContains(t, inv.DocFiles, "docs/common/bits.md")

	assert.Equal(t, []string{"src/core/orders.adb"}, inv.AdaBodies)
	assert.Contains(t, inv.AllFiles, "assets/logo.png")
	assert.NotContains(t, inv.AllFiles, ".git/config")
}

func TestFileScanner_ExcludePaths(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/keep.go":          "package keep",
		"generated/gen.go":     "package gen",
		"docs/generated/x.md":  "x",
		"docs/manual.md":       "m",
	})

	cfg := domain.DefaultProjectConfig()
	cfg.ExcludePaths = []string{"generated", "docs/generated/**"}

	inv, err := scanner.New().Scan(root, cfg)
	require.NoError(t, err)

	assert.Contains(t, inv.SourceFiles, "src/keep.go")
	assert.NotContains(t, inv.SourceFiles, "generated/gen.go")
	assert.Contains(t, inv.DocFiles, "docs/manual.md")
	assert.NotContains(t, inv.DocFiles, "docs/generated/x.md")
}

func TestInventory_SourceFilesFor(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.go":  "package a",
		"b.ads": "spec",
		"c.adb": "body",
		"d.rs":  "fn",
	})

	inv, err := scanner.New().Scan(root, domain.DefaultProjectConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"a.go"}, inv.SourceFilesFor(domain.LanguageGo))
	assert.ElementsMatch(t, []string{"b.ads", "c.adb"}, inv.SourceFilesFor(domain.LanguageAda))
	assert.Equal(t, []string{"d.rs"}, inv.SourceFilesFor(domain.LanguageRust))
	assert.Len(t, inv.SourceFilesFor(domain.LanguageUnknown), 4)
}
