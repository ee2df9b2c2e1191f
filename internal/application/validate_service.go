package application

import (
	"context"
	"fmt"

	"github.com/relkit/relkit/internal/adapters/outbound/scanner"
	"github.com/relkit/relkit/internal/domain"
)

// ValidateService runs the read-only validation scans without touching the
// project: the same checks prepare runs before it starts writing.
type ValidateService struct {
	out     domain.Output
	repo    domain.GitRepository
	tc      domain.Toolchain
	links   domain.LinkChecker
	scanner *scanner.FileScanner
}

func NewValidateService(
	out domain.Output,
	repo domain.GitRepository,
	tc domain.Toolchain,
	links domain.LinkChecker,
	fileScanner *scanner.FileScanner,
) *ValidateService {
	return &ValidateService{out: out, repo: repo, tc: tc, links: links, scanner: fileScanner}
}

// Run reports every finding and returns an error when any scan found
// problems. No confirmation prompts: validate never writes, so there is
// nothing to decide.
func (s *ValidateService) Run(ctx context.Context, cfg *domain.ReleaseConfig) error {
	s.out.Banner(cfg.ProjectName + " — validate")

	inv, err := s.scanner.Scan(cfg.ProjectRoot, cfg.Project)
	if err != nil {
		return fmt.Errorf("scanning project: %w", err)
	}

	total := 0
	scans := []struct {
		name string
		run  func() []domain.Finding
	}{
		{"documentation links", func() []domain.Finding {
			return s.links.CheckDocs(ctx, cfg.ProjectRoot, inv.DocFiles)
		}},
		{"documentation consistency", func() []domain.Finding {
			return docConsistencyFindings(cfg, inv)
		}},
		{"authorship section", func() []domain.Finding {
			errs, warns, err := authorshipFindings(cfg)
			if err != nil {
				return []domain.Finding{{File: "README.md", Message: err.Error()}}
			}
			return append(errs, warns...)
		}},
		{"git history markers", func() []domain.Finding {
			return historyFindings(s.repo)
		}},
		{"code markers", func() []domain.Finding {
			return codeMarkerFindings(cfg, inv)
		}},
		{"long files", func() []domain.Finding {
			return longFileFindings(cfg, inv)
		}},
		{"terminology", func() []domain.Finding {
			return terminologyFindings(cfg, inv)
		}},
		{"exception boundaries", func() []domain.Finding {
			return exceptionFindings(cfg, inv)
		}},
		{"formal verification section", func() []domain.Finding {
			return sparkSectionFindings(cfg)
		}},
		{"submodule freshness", func() []domain.Finding {
			return staleSubmoduleFindings(s.repo)
		}},
	}

	for _, scan := range scans {
		s.out.StageStart(scan.name)
		findings := scan.run()
		if len(findings) == 0 {
			s.out.StagePass(scan.name)
			continue
		}
		total += len(findings)
		s.out.StageWarn(scan.name, domain.NewFindingError(findings))
		s.out.Findings(findings)
	}

	if total > 0 {
		return fmt.Errorf("%d issues found", total)
	}
	s.out.Success("all validation checks passed")
	return nil
}
