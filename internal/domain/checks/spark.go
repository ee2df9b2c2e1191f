package checks

import (
	"regexp"

	"github.com/relkit/relkit/internal/domain"
)

var (
	sparkHeading    = regexp.MustCompile(`(?im)^#{1,3}\s+SPARK\s+(?:Formal\s+)?Verification`)
	changelogRef    = regexp.MustCompile(`(?i)CHANGELOG`)
	hardcodedProofs = regexp.MustCompile(`(?i)\d+\s+(?:checks|proved|unproved|subprograms)`)
)

// SparkSection validates the SPARK Formal Verification section of a README.
// Ada projects must have one; Go projects must not (SPARK is Ada-specific).
// Proof statistics must reference the CHANGELOG rather than hardcode
// numbers that drift.
func SparkSection(readme string, lang domain.Language) []domain.Finding {
	const file = "README.md"
	loc := sparkHeading.FindStringIndex(readme)

	switch lang {
	case domain.LanguageAda:
		if loc == nil {
			return []domain.Finding{
				{File: file, Message: "missing 'SPARK Formal Verification' section (required for Ada projects)"},
			}
		}
		section := sectionBody(readme, loc[1])
		if !changelogRef.MatchString(section) && hardcodedProofs.MatchString(section) {
			return []domain.Finding{
				{File: file, Line: lineAt(readme, loc[0]),
					Message: "SPARK results contain hardcoded metrics; reference CHANGELOG.md for current proof statistics"},
			}
		}
		return nil

	case domain.LanguageGo:
		if loc != nil {
			return []domain.Finding{
				{File: file, Line: lineAt(readme, loc[0]),
					Message: "SPARK section present but SPARK is Ada-specific; Go projects must omit it"},
			}
		}
		return nil

	default:
		return nil
	}
}
