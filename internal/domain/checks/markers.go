package checks

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/relkit/relkit/internal/domain"
)

// markerPatterns flag incomplete or temporary code. ROADMAP excludes
// references to the roadmap.md file itself.
var markerPatterns = []struct {
	re   *regexp.Regexp
	name string
}{
	{regexp.MustCompile(`(?i)\bTODO\b`), "TODO"},
	{regexp.MustCompile(`(?i)\bFIXME\b`), "FIXME"},
	{regexp.MustCompile(`(?i)\bSTUB\b`), "STUB"},
	{regexp.MustCompile(`(?i)\bXXX\b`), "XXX"},
	{regexp.MustCompile(`(?i)\bHACK\b`), "HACK"},
	{regexp.MustCompile(`(?i)\bROADMAP\b(?:$|[^.])`), "ROADMAP"},
	{regexp.MustCompile(`(?i)\bnot\s+implemented\b`), "NOT IMPLEMENTED"},
	{regexp.MustCompile(`(?i)\bunimplemented\b`), "UNIMPLEMENTED"},
}

// CodeMarkers reports TODO/FIXME/STUB style markers in one source file.
// Only the first marker on a line is reported.
func CodeMarkers(path, content string) []domain.Finding {
	var findings []domain.Finding
	for i, line := range strings.Split(content, "\n") {
		for _, mp := range markerPatterns {
			if mp.re.MatchString(line) {
				context := strings.TrimSpace(line)
				if len(context) > 70 {
					context = context[:70] + "..."
				}
				findings = append(findings, domain.Finding{
					File: path, Line: i + 1,
					Message: "[" + mp.name + "] " + context,
				})
				break
			}
		}
	}
	return findings
}

// LongFile reports a finding when a source file exceeds maxLines.
func LongFile(path, content string, maxLines int) []domain.Finding {
	count := strings.Count(content, "\n") + 1
	if count <= maxLines {
		return nil
	}
	return []domain.Finding{{
		File:    path,
		Message: fmt.Sprintf("%d lines (exceeds %d)", count, maxLines),
	}}
}
