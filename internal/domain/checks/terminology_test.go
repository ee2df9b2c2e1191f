package checks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relkit/relkit/internal/domain"
	"github.com/relkit/relkit/internal/domain/checks"
)

func TestTerminology_LibraryForbidsApplicationTerms(t *testing.T) {
	content := "The bootstrap layer wires everything together.\n"
	findings := checks.Terminology("docs/architecture.md", content, domain.KindLibrary)
	require.NotEmpty(t, findings)
	assert.Contains(t, findings[0].Message, "bootstrap")

	assert.Empty(t, checks.Terminology("docs/architecture.md", content, domain.KindApplication))
}

func TestTerminology_ApplicationForbidsLibraryTerms(t *testing.T) {
	content := "Callers go through the api facade.\n"
	findings := checks.Terminology("README.md", content, domain.KindApplication)
	require.NotEmpty(t, findings)
	assert.Contains(t, findings[0].Message, "api facade")

	assert.Empty(t, checks.Terminology("README.md", content, domain.KindLibrary))
}

func TestTerminology_LayerCount(t *testing.T) {
	findings := checks.Terminology("docs/a.md", "We use a 5-layer architecture.\n", domain.KindLibrary)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "should be '4-layer'")

	findings = checks.Terminology("docs/a.md", "We use a 4 layer architecture.\n", domain.KindApplication)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "should be '5-layer'")
}

func TestTerminology_TableLinesSkipped(t *testing.T) {
	content := "| library | application |\n| api facade | bootstrap |\n"
	assert.Empty(t, checks.Terminology("docs/compare.md", content, domain.KindLibrary))
	assert.Empty(t, checks.Terminology("docs/compare.md", content, domain.KindApplication))
}
