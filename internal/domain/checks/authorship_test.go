package checks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relkit/relkit/internal/domain/checks"
)

const goodReadme = `# widgetkit

A small library.

## Contributing

Open a pull request.

## AI Assistance & Authorship

This project was written by human developers with help from AI coding
assistants. The assistants are tools, not authors; the human developers
remain responsible for every line.

## License

BSD-3-Clause.
`

func TestAuthorship_ValidSection(t *testing.T) {
	errs, warns := checks.Authorship(goodReadme)
	assert.Empty(t, errs)
	assert.Empty(t, warns)
}

func TestAuthorship_MissingSection(t *testing.T) {
	readme := "# widgetkit\n\n## License\n\nBSD.\n"
	errs, warns := checks.Authorship(readme)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "missing 'AI Assistance & Authorship'")
	assert.Empty(t, warns)
}

func TestAuthorship_BeforeContributing(t *testing.T) {
	readme := `# widgetkit

## AI Assistance & Authorship

Human developers use AI assistants as tools and stay responsible.

## Contributing

PRs welcome.

## License

BSD.
`
	errs, _ := checks.Authorship(readme)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "before Contributing")
}

func TestAuthorship_AfterLicense(t *testing.T) {
	readme := `# widgetkit

## Contributing

PRs welcome.

## License

BSD.

## AI Assistance & Authorship

Human developers use AI assistants as tools and stay responsible.
`
	errs, _ := checks.Authorship(readme)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "after License")
}

func TestAuthorship_MissingPhrases(t *testing.T) {
	readme := `# widgetkit

## Contributing

PRs welcome.

## AI Assistance & Authorship

Nothing to see here.

## License

BSD.
`
	errs, warns := checks.Authorship(readme)
	// a well-placed section with weak wording warns, it never errors
	assert.Empty(t, errs)

	// human developer, AI assistant, tool, responsibility all absent
	assert.Len(t, warns, 4)
	for _, f := range warns {
		assert.Contains(t, f.Message, "missing reference to")
	}
}

func TestAuthorship_MissingPhraseKeepsPlacementValid(t *testing.T) {
	readme := `# widgetkit

## Contributing

PRs welcome.

## AI Assistance & Authorship

Human developers use AI coding assistants as tools.

## License

BSD.
`
	errs, warns := checks.Authorship(readme)
	assert.Empty(t, errs)
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0].Message, "responsibility/accountability")
}
