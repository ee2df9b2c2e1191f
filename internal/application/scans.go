package application

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/relkit/relkit/internal/adapters/outbound/scanner"
	"github.com/relkit/relkit/internal/domain"
	"github.com/relkit/relkit/internal/domain/checks"
)

// The read-only validation scans shared by prepare and validate.

// headerVersionLine matches the canonical metadata header's version value.
var headerVersionLine = regexp.MustCompile(`(?m)^\*\*Version:\*\*\s*(\S+?)(?:<br>)?\s*$`)

// docConsistencyFindings flags documentation files whose metadata headers
// disagree with each other. A mismatch usually means a doc was copied from
// another project and never updated.
func docConsistencyFindings(cfg *domain.ReleaseConfig, inv *scanner.Inventory) []domain.Finding {
	versions := map[string][]string{}
	for _, rel := range inv.DocFiles {
		content, err := readProjectFile(cfg.ProjectRoot, rel)
		if err != nil {
			continue
		}
		if m := headerVersionLine.FindStringSubmatch(content); m != nil {
			versions[m[1]] = append(versions[m[1]], rel)
		}
	}
	if len(versions) <= 1 {
		return nil
	}

	var findings []domain.Finding
	for v, files := range versions {
		for _, f := range files {
			findings = append(findings, domain.Finding{
				File:    f,
				Message: fmt.Sprintf("header version %s disagrees with other documentation", v),
			})
		}
	}
	return findings
}

func authorshipFindings(cfg *domain.ReleaseConfig) (errs, warns []domain.Finding, err error) {
	readme, err := readProjectFile(cfg.ProjectRoot, "README.md")
	if err != nil {
		return nil, nil, fmt.Errorf("README.md: %w", err)
	}
	errs, warns = checks.Authorship(readme)
	return errs, warns, nil
}

func historyFindings(repo domain.GitRepository) []domain.Finding {
	var findings []domain.Finding

	// the whole history: an attribution marker is a problem no matter
	// how long ago it was committed
	commits, err := repo.Commits(0)
	if err != nil {
		findings = append(findings, domain.Finding{Message: "could not read git history: " + err.Error()})
	}
	for _, c := range commits {
		findings = append(findings, checks.CommitMarkers(c.Hash, c.Message, c.Author)...)
	}

	branches, err := repo.Branches()
	if err == nil {
		for _, b := range branches {
			findings = append(findings, checks.BranchMarker(b)...)
		}
	}
	return findings
}

func codeMarkerFindings(cfg *domain.ReleaseConfig, inv *scanner.Inventory) []domain.Finding {
	var findings []domain.Finding
	for _, rel := range inv.SourceFilesFor(cfg.Language) {
		content, err := readProjectFile(cfg.ProjectRoot, rel)
		if err != nil {
			continue
		}
		findings = append(findings, checks.CodeMarkers(rel, content)...)
	}
	return findings
}

func longFileFindings(cfg *domain.ReleaseConfig, inv *scanner.Inventory) []domain.Finding {
	var findings []domain.Finding
	for _, rel := range inv.SourceFilesFor(cfg.Language) {
		content, err := readProjectFile(cfg.ProjectRoot, rel)
		if err != nil {
			continue
		}
		findings = append(findings, checks.LongFile(rel, content, cfg.Project.LongFileThreshold)...)
	}
	return findings
}

func terminologyFindings(cfg *domain.ReleaseConfig, inv *scanner.Inventory) []domain.Finding {
	var findings []domain.Finding
	for _, rel := range inv.DocFiles {
		content, err := readProjectFile(cfg.ProjectRoot, rel)
		if err != nil {
			continue
		}
		findings = append(findings, checks.Terminology(rel, content, cfg.Kind)...)
	}
	return findings
}

func exceptionFindings(cfg *domain.ReleaseConfig, inv *scanner.Inventory) []domain.Finding {
	if cfg.Language != domain.LanguageAda {
		return nil
	}
	var findings []domain.Finding
	for _, rel := range inv.AdaBodies {
		content, err := readProjectFile(cfg.ProjectRoot, rel)
		if err != nil {
			continue
		}
		findings = append(findings, checks.ExceptionBoundaries(rel, content)...)
	}
	return findings
}

func sparkSectionFindings(cfg *domain.ReleaseConfig) []domain.Finding {
	readme, err := readProjectFile(cfg.ProjectRoot, "README.md")
	if err != nil {
		return nil
	}
	return checks.SparkSection(readme, cfg.Language)
}

func staleSubmoduleFindings(repo domain.GitRepository) []domain.Finding {
	subs, err := repo.Submodules()
	if err != nil {
		return nil
	}
	var findings []domain.Finding
	for _, sub := range subs {
		if sub.Stale {
			findings = append(findings, domain.Finding{
				File:    sub.Path,
				Message: fmt.Sprintf("submodule %s is behind its remote; update it before releasing", sub.Name),
			})
		}
	}
	return findings
}

func readProjectFile(root, rel string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
