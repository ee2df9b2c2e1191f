package checks

import (
	"fmt"
	"regexp"

	"github.com/relkit/relkit/internal/domain"
)

// Attribution policy: commits, authors, and branch names must not carry AI
// assistant markers.
var (
	commitAIMarkers = regexp.MustCompile(`(?i)` +
		`Co-Authored-By:\s*Claude|` +
		`Co-Authored-By:\s*GPT|` +
		`Co-Authored-By:\s*Copilot|` +
		`Co-Authored-By:.*@anthropic\.com|` +
		`Co-Authored-By:.*@openai\.com|` +
		`Generated with \[Claude Code\]|` +
		`Generated with Claude|` +
		`🤖\s*Generated|` +
		`AI-assisted commit|` +
		`Generated by Claude|` +
		`Generated by GPT|` +
		`Generated by AI|` +
		`noreply@anthropic\.com|` +
		`noreply@openai\.com`)

	authorAIReference = regexp.MustCompile(`(?i)claude|anthropic|openai|gpt|copilot`)
	branchAIReference = regexp.MustCompile(`(?i)claude|gpt|copilot|ai-gen`)
)

// CommitMarkers checks one commit for AI attribution. author holds
// "Name <email>".
func CommitMarkers(hash, message, author string) []domain.Finding {
	short := hash
	if len(short) > 8 {
		short = short[:8]
	}
	if authorAIReference.MatchString(author) {
		return []domain.Finding{{
			Message: fmt.Sprintf("commit %s: author contains AI reference (%s)", short, author),
		}}
	}
	if m := commitAIMarkers.FindString(message); m != "" {
		return []domain.Finding{{
			Message: fmt.Sprintf("commit %s: message contains AI marker (%q)", short, m),
		}}
	}
	return nil
}

// BranchMarker checks a branch name for AI references.
func BranchMarker(branch string) []domain.Finding {
	if branchAIReference.MatchString(branch) {
		return []domain.Finding{{
			Message: fmt.Sprintf("branch %q: name contains AI reference", branch),
		}}
	}
	return nil
}
