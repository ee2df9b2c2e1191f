package checks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relkit/relkit/internal/domain"
	"github.com/relkit/relkit/internal/domain/checks"
)

func TestSparkSection_AdaRequiresSection(t *testing.T) {
	readme := "# thing\n\nNo verification info at all.\n"
	findings := checks.SparkSection(readme, domain.LanguageAda)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "missing 'SPARK Formal Verification'")
}

func TestSparkSection_AdaWithChangelogReference(t *testing.T) {
	readme := `# thing

## SPARK Formal Verification

Current proof statistics live in CHANGELOG.md.
`
	assert.Empty(t, checks.SparkSection(readme, domain.LanguageAda))
}

func TestSparkSection_AdaHardcodedMetrics(t *testing.T) {
	readme := `# thing

## SPARK Formal Verification

1247 checks proved, 3 unproved.
`
	findings := checks.SparkSection(readme, domain.LanguageAda)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "hardcoded metrics")
}

func TestSparkSection_GoMustNotHaveSection(t *testing.T) {
	readme := "# thing\n\n## SPARK Formal Verification\n\nProofs.\n"
	findings := checks.SparkSection(readme, domain.LanguageGo)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "Ada-specific")

	assert.Empty(t, checks.SparkSection("# thing\n", domain.LanguageGo))
}

func TestSparkSection_OtherLanguagesSkipped(t *testing.T) {
	assert.Empty(t, checks.SparkSection("# thing\n", domain.LanguageRust))
}
