package checks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/relkit/relkit/internal/domain"
)

// Terminology rules keep docs and comments consistent with the project's
// architecture. Libraries use an api facade over 4 layers; applications use
// bootstrap/presentation over 5.
type termRule struct {
	re          *regexp.Regexp
	term        string
	replacement string
}

var libraryForbidden = []termRule{
	{regexp.MustCompile(`(?i)\bbootstrap\b`), "bootstrap", "api/adapter/desktop (composition root)"},
	{regexp.MustCompile(`(?i)\bpresentation\b`), "presentation", "api (facade)"},
	{regexp.MustCompile(`(?i)\b5[-\s]?layer\b`), "5-layer", "4-layer"},
	{regexp.MustCompile(`(?i)\bCLI\s+command\b`), "CLI command", "API facade"},
	{regexp.MustCompile(`(?i)\bBootstrap\s+layer\b`), "Bootstrap layer", "API layer"},
	{regexp.MustCompile(`(?i)\bPresentation\s+layer\b`), "Presentation layer", "API layer"},
}

var applicationForbidden = []termRule{
	{regexp.MustCompile(`(?i)\bapi\s+facade\b`), "api facade", "bootstrap/presentation"},
	{regexp.MustCompile(`(?i)\bapi/adapter/desktop\b`), "api/adapter/desktop", "bootstrap/cli"},
	{regexp.MustCompile(`(?i)\b4[-\s]?layer\b`), "4-layer", "5-layer"},
}

// Terminology scans one file for architecture terms that belong to the
// other project kind. Lines containing '|' are skipped: comparison tables
// legitimately mention both vocabularies.
func Terminology(relPath, content string, kind domain.ProjectKind) []domain.Finding {
	rules := applicationForbidden
	if kind == domain.KindLibrary {
		rules = libraryForbidden
	}

	var findings []domain.Finding
	for i, line := range strings.Split(content, "\n") {
		if strings.Contains(line, "|") {
			continue
		}
		for _, r := range rules {
			if r.re.MatchString(line) {
				context := strings.TrimSpace(line)
				if len(context) > 60 {
					context = context[:60]
				}
				findings = append(findings, domain.Finding{
					File: relPath, Line: i + 1,
					Message: fmt.Sprintf("found '%s' (should be '%s'): %s", r.term, r.replacement, context),
				})
			}
		}
	}
	return findings
}
