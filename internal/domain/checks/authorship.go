// Package checks holds the pure validation rules run before a release.
// Every check takes file content and returns findings; file access and
// rendering live in the adapters.
package checks

import (
	"fmt"
	"regexp"

	"github.com/relkit/relkit/internal/domain"
)

var (
	aiSectionHeading   = regexp.MustCompile(`(?im)^#{1,3}\s+AI\s+Assist\w*\s*&\s*Author\w*`)
	contributingHead   = regexp.MustCompile(`(?im)^#{1,3}\s+Contribut`)
	licenseHead        = regexp.MustCompile(`(?im)^#{1,3}\s+License\b`)
	nextHeading        = regexp.MustCompile(`\n#{1,3}\s+\S`)
	authorshipPhrases  = []phrase{
		{regexp.MustCompile(`(?i)human\s+developer`), "human developer(s)"},
		{regexp.MustCompile(`(?i)AI\s+(?:coding\s+)?assistant`), "AI coding assistants"},
		{regexp.MustCompile(`(?i)tool`), "tools (not authors)"},
		{regexp.MustCompile(`(?i)responsible|accountable|maintain`), "responsibility/accountability"},
	}
)

type phrase struct {
	re   *regexp.Regexp
	desc string
}

// Authorship validates the AI Assistance & Authorship section of a README.
// The section must exist and sit between Contributing and License; those
// failures come back as errors. Missing phrasing (tools under human
// responsibility) only warns.
func Authorship(readme string) (errors, warnings []domain.Finding) {
	const file = "README.md"

	loc := aiSectionHeading.FindStringIndex(readme)
	if loc == nil {
		return []domain.Finding{
			{File: file, Message: "missing 'AI Assistance & Authorship' section (required heading: '## AI Assistance & Authorship')"},
		}, nil
	}

	sectionLine := lineAt(readme, loc[0])

	if m := contributingHead.FindStringIndex(readme); m != nil {
		if contribLine := lineAt(readme, m[0]); sectionLine < contribLine {
			errors = append(errors, domain.Finding{
				File: file, Line: sectionLine,
				Message: fmt.Sprintf("AI Assistance section appears before Contributing (line %d); it belongs after it", contribLine),
			})
		}
	}
	if m := licenseHead.FindStringIndex(readme); m != nil {
		if licLine := lineAt(readme, m[0]); sectionLine > licLine {
			errors = append(errors, domain.Finding{
				File: file, Line: sectionLine,
				Message: fmt.Sprintf("AI Assistance section appears after License (line %d); it must appear before it", licLine),
			})
		}
	}

	section := sectionBody(readme, loc[1])
	for _, p := range authorshipPhrases {
		if !p.re.MatchString(section) {
			warnings = append(warnings, domain.Finding{
				File: file, Line: sectionLine,
				Message: "AI Assistance section missing reference to: " + p.desc,
			})
		}
	}

	return errors, warnings
}

// sectionBody returns the text from start to the next markdown heading.
func sectionBody(content string, start int) string {
	rest := content[start:]
	if m := nextHeading.FindStringIndex(rest); m != nil {
		return rest[:m[0]]
	}
	return rest
}

// lineAt returns the 1-based line number of a byte offset.
func lineAt(content string, offset int) int {
	line := 1
	for i := 0; i < offset && i < len(content); i++ {
		if content[i] == '\n' {
			line++
		}
	}
	return line
}
