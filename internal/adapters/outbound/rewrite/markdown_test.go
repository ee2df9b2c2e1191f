package rewrite_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relkit/relkit/internal/adapters/outbound/rewrite"
	"github.com/relkit/relkit/internal/domain"
)

func releaseConfig(t *testing.T, root, version string) *domain.ReleaseConfig {
	t.Helper()
	v, err := domain.ParseVersion(version)
	require.NoError(t, err)
	return &domain.ReleaseConfig{
		ProjectRoot: root,
		ProjectName: "widgetkit",
		Version:     v,
		Project:     domain.DefaultProjectConfig(),
	}
}

var headerDate = time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

func TestUpdateMarkdownHeaders_ReplacesExistingBlock(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"README.md": `# widgetkit

**Version:** 1.0.0<br>
**Date:** 2026-01-01<br>
**SPDX-License-Identifier:** BSD-3-Clause<br>
**License File:** See the LICENSE file in the project root<br>
**Copyright:** © 2026 widgetkit<br>
**Status:** Released

Body text.
`,
	})

	cfg := releaseConfig(t, root, "1.1.0")
	updated, err := rewrite.New(false).UpdateMarkdownHeaders(cfg, []string{"README.md"}, headerDate)
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md"}, updated)

	content := readFile(t, root, "README.md")
	assert.Contains(t, content, "**Version:** 1.1.0<br>")
	assert.Contains(t, content, "**Date:** 2026-08-25<br>")
	assert.NotContains(t, content, "1.0.0")
	assert.Contains(t, content, "Body text.")
}

func TestUpdateMarkdownHeaders_InsertsAfterTitle(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"docs/guide.md": "# Guide\n\nThis guide covers Version 1.0 features.\n",
	})

	cfg := releaseConfig(t, root, "2.0.0")
	updated, err := rewrite.New(false).UpdateMarkdownHeaders(cfg, []string{"docs/guide.md"}, headerDate)
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/guide.md"}, updated)

	content := readFile(t, root, "docs/guide.md")
	assert.Contains(t, content, "# Guide\n\n**Version:** 2.0.0<br>")
	assert.Contains(t, content, "**Status:** Released")
}

func TestUpdateMarkdownHeaders_SkipsFilesWithoutVersionInfo(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"docs/faq.md": "# FAQ\n\nPlain questions and answers.\n",
	})

	updated, err := rewrite.New(false).UpdateMarkdownHeaders(releaseConfig(t, root, "1.0.0"), []string{"docs/faq.md"}, headerDate)
	require.NoError(t, err)
	assert.Empty(t, updated)
}

func TestUpdateMarkdownHeaders_PrereleaseStatus(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"README.md": "# widgetkit\n\nCopyright © 2026 Widget Co.\n",
	})

	_, err := rewrite.New(false).UpdateMarkdownHeaders(releaseConfig(t, root, "1.0.0-rc.1"), []string{"README.md"}, headerDate)
	require.NoError(t, err)
	assert.Contains(t, readFile(t, root, "README.md"), "**Status:** Unreleased")
}

func TestUpdateMarkdownHeaders_DryRun(t *testing.T) {
	root := t.TempDir()
	original := "# Guide\n\nVersion 1.0 features.\n"
	writeTree(t, root, map[string]string{"docs/guide.md": original})

	updated, err := rewrite.New(true).UpdateMarkdownHeaders(releaseConfig(t, root, "2.0.0"), []string{"docs/guide.md"}, headerDate)
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/guide.md"}, updated)
	assert.Equal(t, original, readFile(t, root, "docs/guide.md"))
}

func TestUpdateTestCounts(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"README.md":    "# x\n\n**Test Results:** 100 unit + 10 integration + 5 examples = **115 tests passing**\n",
		"CHANGELOG.md": "# changelog\n\n**Test Coverage:** 100 unit + 10 integration + 5 examples = 115 total\n",
	})

	cfg := releaseConfig(t, root, "1.1.0")
	cfg.TestCounts = domain.TestCounts{Unit: 120, Integration: 12, Examples: 6}

	require.NoError(t, rewrite.New(false).UpdateTestCounts(cfg))

	assert.Contains(t, readFile(t, root, "README.md"),
		"**Test Results:** 120 unit + 12 integration + 6 examples = **138 tests passing**")
	assert.Contains(t, readFile(t, root, "CHANGELOG.md"),
		"**Test Coverage:** 120 unit + 12 integration + 6 examples = 138 total")
}

func TestUpdateTestCounts_NoCountsIsNoop(t *testing.T) {
	root := t.TempDir()
	original := "# x\n\n**Test Results:** 1 unit + 0 integration + 0 examples = **1 tests passing**\n"
	writeTree(t, root, map[string]string{"README.md": original})

	cfg := releaseConfig(t, root, "1.1.0")
	require.NoError(t, rewrite.New(false).UpdateTestCounts(cfg))
	assert.Equal(t, original, readFile(t, root, "README.md"))

	// missing files are fine too
	require.NoError(t, os.Remove(filepath.Join(root, "README.md")))
	cfg.TestCounts = domain.TestCounts{Unit: 5}
	require.NoError(t, rewrite.New(false).UpdateTestCounts(cfg))
}
