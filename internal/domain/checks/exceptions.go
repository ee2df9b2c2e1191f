package checks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/relkit/relkit/internal/domain"
)

// Ada exception boundary rules. Boundary layers wrap failures with
// Functional.Try; core layers return Result types and may not use the
// exception keyword at all. Bootstrap and main entry points are exempt.
type layerRule struct {
	prefix          string
	name            string
	allowsException bool
}

var layerRules = []layerRule{
	{"src/infrastructure/", "Infrastructure", false},
	{"src/presentation/", "Presentation", false},
	{"src/domain/", "Domain", false},
	{"src/application/", "Application", false},
	{"src/api/", "API", false},
	{"src/bootstrap/", "Bootstrap", true},
}

var (
	exceptionKeyword = regexp.MustCompile(`(?i)\bexception\b`)
	// A DESIGN DECISION or DELIBERATE comment within the handler marks an
	// intentional exception (e.g. Preelaborate packages that cannot use
	// Functional.Try).
	deliberateComment = regexp.MustCompile(`(?i)--\s*(DESIGN DECISION|DELIBERATE)`)
	exemptDirs        = []string{"test/", "tests/", "examples/"}
	mainFiles         = map[string]bool{"main.adb": true}
)

// ExceptionBoundaries validates one Ada body file against the layer rules.
// relPath is project-root relative with forward slashes.
func ExceptionBoundaries(relPath, content string) []domain.Finding {
	for _, dir := range exemptDirs {
		if strings.HasPrefix(relPath, dir) {
			return nil
		}
	}
	base := relPath
	if idx := strings.LastIndexByte(relPath, '/'); idx >= 0 {
		base = relPath[idx+1:]
	}
	if mainFiles[base] {
		return nil
	}

	var rule *layerRule
	for i := range layerRules {
		if strings.HasPrefix(relPath, layerRules[i].prefix) {
			rule = &layerRules[i]
			break
		}
	}
	if rule == nil || rule.allowsException {
		return nil
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		if !exceptionKeyword.MatchString(line) {
			continue
		}
		// A deliberate-use comment within the next 5 lines suppresses
		// the violation (covers "when others =>" plus its comment).
		deliberate := false
		for j := i; j < i+6 && j < len(lines); j++ {
			if deliberateComment.MatchString(lines[j]) {
				deliberate = true
				break
			}
		}
		if deliberate {
			continue
		}

		msg := fmt.Sprintf("exception keyword in %s layer; core layers must use Result types only", rule.name)
		if rule.name == "Infrastructure" || rule.name == "Presentation" {
			msg = fmt.Sprintf("manual exception handler in %s layer; use Functional.Try.Map_To_Result instead", rule.name)
		}
		return []domain.Finding{{File: relPath, Line: i + 1, Message: msg}}
	}
	return nil
}
