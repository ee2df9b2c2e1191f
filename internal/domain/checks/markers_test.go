package checks_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relkit/relkit/internal/domain/checks"
)

func TestCodeMarkers(t *testing.T) {
	content := `package thing

// regular comment
func Do() {
	// fix the retry logic here eventually
}
`
	assert.Empty(t, checks.CodeMarkers("thing.go", content))

	flagged := "package thing\n\n// TODO: handle the error\nfunc Do() {}\n"
	findings := checks.CodeMarkers("thing.go", flagged)
	require.Len(t, findings, 1)
	assert.Equal(t, "thing.go", findings[0].File)
	assert.Equal(t, 3, findings[0].Line)
	assert.Contains(t, findings[0].Message, "[TODO]")
}

func TestCodeMarkers_OnePerLine(t *testing.T) {
	// TODO wins; FIXME on the same line is not double-reported
	findings := checks.CodeMarkers("x.adb", "-- TODO and also FIXME\n")
	assert.Len(t, findings, 1)
}

func TestCodeMarkers_AllPatterns(t *testing.T) {
	lines := []string{
		"-- FIXME broken",
		"-- this is a STUB",
		"-- XXX revisit",
		"-- HACK around the parser",
		"-- see ROADMAP for plans",
		"-- not implemented yet",
		"-- unimplemented branch",
	}
	findings := checks.CodeMarkers("x.adb", strings.Join(lines, "\n"))
	assert.Len(t, findings, len(lines))
}

func TestCodeMarkers_RoadmapFileReferenceAllowed(t *testing.T) {
	// references to the roadmap.md file are fine
	assert.Empty(t, checks.CodeMarkers("x.adb", "-- details in ROADMAP.md\n"))
}

func TestCodeMarkers_TruncatesContext(t *testing.T) {
	long := "// TODO " + strings.Repeat("x", 100)
	findings := checks.CodeMarkers("x.go", long)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "...")
}

func TestLongFile(t *testing.T) {
	short := strings.Repeat("line\n", 10)
	assert.Empty(t, checks.LongFile("short.go", short, 800))

	long := strings.Repeat("line\n", 900)
	findings := checks.LongFile("long.go", long, 800)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "exceeds 800")
}
