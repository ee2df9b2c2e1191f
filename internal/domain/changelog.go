package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Changelog manipulation for the Keep a Changelog format. All operations
// are pure string transforms; the rewrite adapter owns file I/O.

// ErrNoUnreleasedContent is returned when [Unreleased] holds nothing worth
// promoting into a version section.
var ErrNoUnreleasedContent = errors.New("no meaningful content under [Unreleased]")

var (
	unreleasedSection = regexp.MustCompile(`(?s)## \[Unreleased\]\s*\n(.*?)(\n## |\z)`)
	bulletLine        = regexp.MustCompile(`(?m)^-\s+\S`)
	placeholderText   = regexp.MustCompile(`(?im)^\s*_[^_]+_\s*$|TBD|placeholder|TODO`)
)

const changelogSkeleton = `### Added

### Changed

### Deprecated

### Removed

### Fixed

### Security
`

// UnreleasedSection returns the body between "## [Unreleased]" and the next
// version heading.
func UnreleasedSection(content string) (string, bool) {
	m := unreleasedSection.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// VersionSection returns the body of the "## [version]" section.
func VersionSection(content string, v Version) (string, bool) {
	pattern := regexp.MustCompile(`(?s)## \[` + regexp.QuoteMeta(v.String()) + `\][^\n]*\n(.*?)(\n## |\z)`)
	m := pattern.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// HasMeaningfulContent reports whether a changelog section contains actual
// release notes. Bullet points count; placeholder text ("_Initial
// release._", "TBD") does not. Sections without bullets still count when
// they hold substantial prose.
func HasMeaningfulContent(section string) bool {
	if bulletLine.MatchString(section) {
		return true
	}
	if placeholderText.MatchString(section) {
		return false
	}
	// measure prose only; an empty skeleton of "### Added" style subheads
	// is not meaningful content
	var prose []string
	for _, line := range strings.Split(section, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		prose = append(prose, line)
	}
	return len(strings.TrimSpace(strings.Join(prose, "\n"))) > 50
}

// PromoteUnreleased moves the [Unreleased] body into a dated "## [version]"
// section and resets [Unreleased] to the empty skeleton. The caller should
// check VersionSection first: if the target section already has meaningful
// content the changelog was prepared earlier and this must not run again.
func PromoteUnreleased(content string, v Version, date time.Time) (string, error) {
	m := unreleasedSection.FindStringSubmatchIndex(content)
	if m == nil {
		return "", errors.New("changelog has no [Unreleased] section")
	}
	body := content[m[2]:m[3]]
	if !HasMeaningfulContent(body) {
		return "", ErrNoUnreleasedContent
	}

	// splice by index; the body must not pass through a replacement
	// template where $-sequences in the notes would expand
	var b strings.Builder
	b.WriteString(content[:m[0]])
	fmt.Fprintf(&b, "## [Unreleased]\n\n%s\n## [%s] - %s\n\n%s\n",
		changelogSkeleton, v.String(), date.Format("2006-01-02"), strings.TrimSpace(body))
	b.WriteString(content[m[4]:])
	return b.String(), nil
}

// ReleaseNotes extracts the body of the version's section for use as the
// GitHub release description.
func ReleaseNotes(content string, v Version) (string, error) {
	body, ok := VersionSection(content, v)
	if !ok {
		return "", fmt.Errorf("changelog has no section for %s", v)
	}
	return strings.TrimSpace(body), nil
}

// FirstReleaseChangelog returns a changelog carrying the project's first
// release section. Used when prepare runs against a project that has no
// CHANGELOG.md yet.
func FirstReleaseChangelog(projectName string, v Version, date time.Time) string {
	return fmt.Sprintf(`# Changelog

All notable changes to %s will be documented in this file.

The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.1.0/),
and this project adheres to [Semantic Versioning](https://semver.org/spec/v2.0.0.html).

## [Unreleased]

%s
## [%s] - %s

### Added

- Initial release of %s.
`, projectName, changelogSkeleton, v, date.Format("2006-01-02"), projectName)
}

// InitialChangelog returns a fresh changelog for a newly branded project.
func InitialChangelog(projectName string) string {
	return fmt.Sprintf(`# Changelog

All notable changes to %s will be documented in this file.

The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.1.0/),
and this project adheres to [Semantic Versioning](https://semver.org/spec/v2.0.0.html).

## [Unreleased]

%s`, projectName, changelogSkeleton)
}
