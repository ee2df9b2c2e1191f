package application

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/relkit/relkit/internal/adapters/outbound/rewrite"
	"github.com/relkit/relkit/internal/adapters/outbound/scanner"
	"github.com/relkit/relkit/internal/domain"
)

const windowsWorkflow = "windows-release.yml"

// PrepareService runs the full pre-release pipeline: validation scans,
// version updates, changelog promotion, build and test gates, and the
// post-build checks.
type PrepareService struct {
	out      domain.Output
	confirm  domain.Confirmer
	repo     domain.GitRepository
	releaser domain.Releaser
	tc       domain.Toolchain
	links    domain.LinkChecker
	scanner  *scanner.FileScanner
	rewriter *rewrite.Rewriter
}

func NewPrepareService(
	out domain.Output,
	confirm domain.Confirmer,
	repo domain.GitRepository,
	releaser domain.Releaser,
	tc domain.Toolchain,
	links domain.LinkChecker,
	fileScanner *scanner.FileScanner,
	rewriter *rewrite.Rewriter,
) *PrepareService {
	return &PrepareService{
		out: out, confirm: confirm, repo: repo, releaser: releaser,
		tc: tc, links: links, scanner: fileScanner, rewriter: rewriter,
	}
}

// Run executes the prepare pipeline for cfg. Stages run strictly in order;
// a fatal stage failure or an operator abort stops the run.
func (s *PrepareService) Run(ctx context.Context, cfg *domain.ReleaseConfig) error {
	s.out.Banner(fmt.Sprintf("%s — prepare %s", cfg.ProjectName, cfg.Version.Tag()))
	if cfg.DryRun {
		s.out.Info("dry-run: nothing will be written")
	}

	inv, err := s.scanner.Scan(cfg.ProjectRoot, cfg.Project)
	if err != nil {
		return fmt.Errorf("scanning project: %w", err)
	}

	// version on disk before any update, for README body rewrites
	prevVersion, _ := s.tc.CurrentVersion(cfg.ProjectRoot)

	stages := []domain.Stage{
		{Name: "makefile targets", Severity: domain.Fatal, Run: func() error {
			return domain.NewFindingError(s.tc.ValidateBuildTargets(cfg))
		}},
		{Name: "documentation links", Severity: domain.Fatal, Run: func() error {
			return domain.NewFindingError(s.links.CheckDocs(ctx, cfg.ProjectRoot, inv.DocFiles))
		}},
		{Name: "documentation consistency", Severity: domain.Advisory, Run: func() error {
			return domain.NewFindingError(docConsistencyFindings(cfg, inv))
		}},
		{Name: "authorship section", Severity: domain.Fatal, Run: func() error {
			errs, _, err := authorshipFindings(cfg)
			if err != nil {
				return err
			}
			return domain.NewFindingError(errs)
		}},
		{Name: "authorship phrasing", Severity: domain.Advisory, Run: func() error {
			_, warns, err := authorshipFindings(cfg)
			if err != nil {
				return nil // already reported by the fatal stage
			}
			return domain.NewFindingError(warns)
		}},
		{Name: "git history markers", Severity: domain.Advisory, Run: func() error {
			return domain.NewFindingError(historyFindings(s.repo))
		}},
		{Name: "code markers", Severity: domain.Advisory, Run: func() error {
			return domain.NewFindingError(codeMarkerFindings(cfg, inv))
		}},
		{Name: "long files", Severity: domain.Advisory, Run: func() error {
			return domain.NewFindingError(longFileFindings(cfg, inv))
		}},
		{Name: "terminology", Severity: domain.Advisory, Run: func() error {
			return domain.NewFindingError(terminologyFindings(cfg, inv))
		}},
		{Name: "exception boundaries", Severity: domain.Fatal, SkipKey: domain.SkipExceptions, Run: func() error {
			return domain.NewFindingError(exceptionFindings(cfg, inv))
		}},
		{Name: "clean build artifacts", Severity: domain.BestEffort, Run: func() error {
			return s.tc.Clean(ctx, cfg)
		}},
		{Name: "update version", Severity: domain.Fatal, Run: func() error {
			return s.updateVersion(cfg)
		}},
		{Name: "sync nested versions", Severity: domain.BestEffort, Run: func() error {
			return s.tc.SyncVersions(cfg)
		}},
		{Name: "generate version file", Severity: domain.BestEffort, Run: func() error {
			path, err := s.tc.GenerateVersionFile(cfg)
			if err == nil {
				s.out.Info("version file: " + path)
			}
			return err
		}},
		{Name: "markdown headers", Severity: domain.Fatal, Run: func() error {
			return s.markdownHeaders(cfg, inv)
		}},
		{Name: "formal verification section", Severity: domain.Advisory, Run: func() error {
			return domain.NewFindingError(sparkSectionFindings(cfg))
		}},
		{Name: "update changelog", Severity: domain.Fatal, Run: func() error {
			return s.updateChangelog(cfg)
		}},
		{Name: "release build", Severity: domain.Fatal, Run: func() error {
			return s.tc.Build(ctx, cfg)
		}},
		{Name: "test suite", Severity: domain.Fatal, Run: func() error {
			return s.runTests(ctx, cfg)
		}},
		{Name: "test counts in docs", Severity: domain.BestEffort, Run: func() error {
			return s.rewriter.UpdateTestCounts(cfg)
		}},
		{Name: "readme version references", Severity: domain.BestEffort, Run: func() error {
			return s.readmeVersions(cfg, prevVersion)
		}},
		{Name: "commit checkpoint", Severity: domain.Fatal, Run: func() error {
			return s.commitCheckpoint(cfg)
		}},
		{Name: "formal verification check", Severity: domain.Fatal, SkipKey: domain.SkipSpark, Run: func() error {
			return s.tc.SparkCheck(ctx, cfg)
		}},
		{Name: "windows ci", Severity: domain.Fatal, SkipKey: domain.SkipWindows, Run: func() error {
			return s.windowsCI(ctx, cfg)
		}},
		{Name: "submodule freshness", Severity: domain.Advisory, Run: func() error {
			return domain.NewFindingError(staleSubmoduleFindings(s.repo))
		}},
		{Name: "reset dev config", Severity: domain.BestEffort, Run: func() error {
			return s.tc.ResetDevConfig(ctx, cfg)
		}},
	}

	pipeline := domain.NewPipeline(s.out, s.confirm, cfg.Skip)
	if err := pipeline.Run(stages); err != nil {
		return err
	}

	s.out.Success(fmt.Sprintf("prepared %s; run 'relkit release %s' to publish", cfg.Version.Tag(), cfg.Version))
	return nil
}

func (s *PrepareService) updateVersion(cfg *domain.ReleaseConfig) error {
	changed, err := s.tc.UpdateVersion(cfg)
	if err != nil {
		return err
	}
	if !changed {
		s.out.Info("version already " + cfg.Version.String())
	}
	return nil
}

func (s *PrepareService) markdownHeaders(cfg *domain.ReleaseConfig, inv *scanner.Inventory) error {
	updated, err := s.rewriter.UpdateMarkdownHeaders(cfg, inv.DocFiles, time.Now())
	if err != nil {
		return err
	}
	if len(updated) > 0 {
		s.out.Info(fmt.Sprintf("updated headers in %d files", len(updated)))
	}
	return nil
}

func (s *PrepareService) updateChangelog(cfg *domain.ReleaseConfig) error {
	path := filepath.Join(cfg.ProjectRoot, "CHANGELOG.md")
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("CHANGELOG.md: %w", err)
		}
		// first release: no changelog exists yet
		s.out.Info("creating CHANGELOG.md for first release " + cfg.Version.String())
		return s.rewriter.WriteFile(path, domain.FirstReleaseChangelog(cfg.ProjectName, cfg.Version, time.Now()))
	}
	content := string(data)

	if section, ok := domain.VersionSection(content, cfg.Version); ok && domain.HasMeaningfulContent(section) {
		s.out.Info(fmt.Sprintf("version %s already documented", cfg.Version))
		return nil
	}

	section, ok := domain.UnreleasedSection(content)
	if !ok || !domain.HasMeaningfulContent(section) {
		return domain.ErrNoUnreleasedContent
	}

	msg := fmt.Sprintf("CHANGELOG [Unreleased] will become version %s. Review it now if needed.", cfg.Version)
	if s.confirm.Confirm(msg, false) == domain.DecisionAbort {
		return domain.ErrAborted
	}

	_, err = s.rewriter.UpdateFile(path, func(content string) (string, error) {
		return domain.PromoteUnreleased(content, cfg.Version, time.Now())
	})
	return err
}

func (s *PrepareService) runTests(ctx context.Context, cfg *domain.ReleaseConfig) error {
	counts, err := s.tc.Test(ctx, cfg)
	if err != nil {
		return err
	}
	cfg.TestCounts = counts
	if counts.Valid() {
		s.out.Info(fmt.Sprintf("%d tests passing (%d unit, %d integration, %d examples)",
			counts.Total(), counts.Unit, counts.Integration, counts.Examples))
	}
	return nil
}

func (s *PrepareService) readmeVersions(cfg *domain.ReleaseConfig, prevVersion string) error {
	target := cfg.Version.String()
	if prevVersion == "" || prevVersion == target {
		return nil
	}
	path := filepath.Join(cfg.ProjectRoot, "README.md")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	_, err := s.rewriter.UpdateFile(path, func(content string) (string, error) {
		return strings.ReplaceAll(content, prevVersion, target), nil
	})
	return err
}

func (s *PrepareService) commitCheckpoint(cfg *domain.ReleaseConfig) error {
	if cfg.DryRun {
		return nil
	}
	msg := "Review and commit the release changes (git add / commit / push), then continue."
	if s.confirm.Confirm(msg, false) == domain.DecisionAbort {
		return domain.ErrAborted
	}
	return nil
}

func (s *PrepareService) windowsCI(ctx context.Context, cfg *domain.ReleaseConfig) error {
	workflowPath := filepath.Join(cfg.ProjectRoot, ".github", "workflows", windowsWorkflow)
	if _, err := os.Stat(workflowPath); err != nil {
		s.out.Info("no " + windowsWorkflow + " workflow; nothing to run")
		return nil
	}

	branch, err := s.repo.CurrentBranch()
	if err != nil {
		return fmt.Errorf("resolving branch: %w", err)
	}

	inputs := map[string]string{"version": cfg.Version.String(), "ref": branch}
	if err := s.releaser.RunWorkflow(ctx, windowsWorkflow, inputs); err != nil {
		return err
	}
	return s.releaser.WatchLatestRun(ctx, windowsWorkflow)
}
