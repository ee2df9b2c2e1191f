package rewrite

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/relkit/relkit/internal/domain"
)

var (
	versionHeaderLine = regexp.MustCompile(`^\*\*Version:`)
	statusHeaderLine  = regexp.MustCompile(`^\*\*Status:`)
	anyVersionMarker  = regexp.MustCompile(`(?i)version\s*[:)]|version\s+\d|\*\*Version|Copyright\s*©\s*\d{4}`)
	existingMetadata  = regexp.MustCompile(`\*\*(?:Version|Project|Date|Copyright|SPDX)`)
	titleLine         = regexp.MustCompile(`^#\s+\S`)
	testResultsLine   = regexp.MustCompile(`\*\*Test Results:\*\*\s*\d+\s*unit\s*\+\s*\d+\s*integration\s*\+\s*\d+\s*examples\s*=\s*\*\*\d+\s*tests passing\*\*`)
	testCoverageLine  = regexp.MustCompile(`\*\*Test Coverage:\*\*\s*\d+\s*unit.*?=\s*\d+\s*total`)
)

// canonicalHeader renders the metadata block placed under every doc title.
func canonicalHeader(cfg *domain.ReleaseConfig, now time.Time) []string {
	status := "Released"
	if cfg.Version.IsPrerelease() {
		status = "Unreleased"
	}
	holder := cfg.Project.CopyrightHolder
	if holder == "" {
		holder = cfg.ProjectName
	}
	return []string{
		fmt.Sprintf("**Version:** %s<br>", cfg.Version),
		fmt.Sprintf("**Date:** %s<br>", now.Format("2006-01-02")),
		fmt.Sprintf("**SPDX-License-Identifier:** %s<br>", cfg.Project.License),
		"**License File:** See the LICENSE file in the project root<br>",
		fmt.Sprintf("**Copyright:** © %d %s<br>", now.Year(), holder),
		fmt.Sprintf("**Status:** %s", status),
	}
}

// UpdateMarkdownHeaders replaces or inserts the canonical metadata header
// in every doc file that carries version information. It returns the files
// it updated.
func (r *Rewriter) UpdateMarkdownHeaders(cfg *domain.ReleaseConfig, docFiles []string, now time.Time) ([]string, error) {
	header := canonicalHeader(cfg, now)
	var updated []string

	for _, rel := range docFiles {
		path := filepath.Join(cfg.ProjectRoot, filepath.FromSlash(rel))
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		content := string(data)

		var newContent string
		var ok bool
		if versionHeaderLine.MatchString(firstMatchingLine(content)) || hasHeaderBlock(content) {
			newContent, ok = replaceHeaderBlock(content, header)
		} else if anyVersionMarker.MatchString(content) {
			newContent, ok = insertHeaderBlock(content, header)
		}
		if !ok || newContent == content {
			continue
		}

		updated = append(updated, rel)
		if r.DryRun {
			continue
		}
		if err := os.WriteFile(path, []byte(newContent), 0o644); err != nil {
			return updated, fmt.Errorf("updating %s: %w", rel, err)
		}
	}
	return updated, nil
}

func hasHeaderBlock(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		if versionHeaderLine.MatchString(line) {
			return true
		}
	}
	return false
}

func firstMatchingLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if versionHeaderLine.MatchString(line) {
			return line
		}
	}
	return ""
}

// replaceHeaderBlock swaps the existing **Version:** .. **Status:** block
// for the canonical header.
func replaceHeaderBlock(content string, header []string) (string, bool) {
	lines := strings.Split(content, "\n")
	start, end := -1, -1
	for i, line := range lines {
		if start == -1 && versionHeaderLine.MatchString(line) {
			start = i
		} else if start != -1 && statusHeaderLine.MatchString(line) {
			end = i + 1
			break
		}
	}
	if start == -1 || end == -1 {
		return "", false
	}

	out := make([]string, 0, len(lines)-(end-start)+len(header))
	out = append(out, lines[:start]...)
	out = append(out, header...)
	out = append(out, lines[end:]...)
	return strings.Join(out, "\n"), true
}

// insertHeaderBlock adds the canonical header after the first title,
// unless metadata already follows it.
func insertHeaderBlock(content string, header []string) (string, bool) {
	lines := strings.Split(content, "\n")
	titleIdx := -1
	for i, line := range lines {
		if titleLine.MatchString(line) {
			titleIdx = i
			break
		}
	}
	if titleIdx == -1 {
		return "", false
	}

	lookahead := lines[titleIdx+1:]
	if len(lookahead) > 9 {
		lookahead = lookahead[:9]
	}
	if existingMetadata.MatchString(strings.Join(lookahead, "\n")) {
		return "", false
	}

	block := append([]string{""}, header...)
	block = append(block, "")
	out := make([]string, 0, len(lines)+len(block))
	out = append(out, lines[:titleIdx+1]...)
	out = append(out, block...)
	out = append(out, lines[titleIdx+1:]...)
	return strings.Join(out, "\n"), true
}

// UpdateTestCounts refreshes the test summary lines in README.md and the
// current version section of CHANGELOG.md from the pipeline's parsed
// counts. Files or lines that are absent are left alone.
func (r *Rewriter) UpdateTestCounts(cfg *domain.ReleaseConfig) error {
	if !cfg.TestCounts.Valid() {
		return nil
	}
	c := cfg.TestCounts

	readme := filepath.Join(cfg.ProjectRoot, "README.md")
	if _, err := os.Stat(readme); err == nil {
		results := fmt.Sprintf("**Test Results:** %d unit + %d integration + %d examples = **%d tests passing**",
			c.Unit, c.Integration, c.Examples, c.Total())
		if _, err := r.UpdateFile(readme, func(content string) (string, error) {
			return testResultsLine.ReplaceAllString(content, results), nil
		}); err != nil {
			return err
		}
	}

	changelog := filepath.Join(cfg.ProjectRoot, "CHANGELOG.md")
	if _, err := os.Stat(changelog); err == nil {
		coverage := fmt.Sprintf("**Test Coverage:** %d unit + %d integration + %d examples = %d total",
			c.Unit, c.Integration, c.Examples, c.Total())
		if _, err := r.UpdateFile(changelog, func(content string) (string, error) {
			return testCoverageLine.ReplaceAllString(content, coverage), nil
		}); err != nil {
			return err
		}
	}
	return nil
}
