package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/relkit/relkit/internal/adapters/outbound/execrunner"
	"github.com/relkit/relkit/internal/domain"
)

// ReleaseService publishes a prepared release: tag, push, GitHub release,
// and the formal verification evidence.
type ReleaseService struct {
	out      domain.Output
	confirm  domain.Confirmer
	repo     domain.GitRepository
	releaser domain.Releaser
	tc       domain.Toolchain
	runner   *execrunner.Runner
}

func NewReleaseService(
	out domain.Output,
	confirm domain.Confirmer,
	repo domain.GitRepository,
	releaser domain.Releaser,
	tc domain.Toolchain,
	runner *execrunner.Runner,
) *ReleaseService {
	return &ReleaseService{
		out: out, confirm: confirm, repo: repo, releaser: releaser,
		tc: tc, runner: runner,
	}
}

// Run publishes cfg.Version. Every step is idempotent: an existing tag or
// release is updated instead of recreated, so an interrupted run can be
// retried.
func (s *ReleaseService) Run(ctx context.Context, cfg *domain.ReleaseConfig) error {
	s.out.Banner(fmt.Sprintf("%s — release %s", cfg.ProjectName, cfg.Version.Tag()))
	if cfg.DryRun {
		s.out.Info("dry-run: nothing will be pushed")
	}

	tag := cfg.Version.Tag()

	stages := []domain.Stage{
		{Name: "working tree", Severity: domain.Fatal, Run: func() error {
			return s.requireCleanTree(cfg)
		}},
		{Name: "create tag", Severity: domain.Fatal, Run: func() error {
			return s.createTag(cfg, tag)
		}},
		{Name: "push", Severity: domain.Fatal, Run: func() error {
			return s.push(ctx, tag)
		}},
		{Name: "github release", Severity: domain.Fatal, Run: func() error {
			return s.publishRelease(ctx, cfg, tag)
		}},
		{Name: "formal verification proof", Severity: domain.Fatal, SkipKey: domain.SkipSpark, Run: func() error {
			return s.proveAndAttach(ctx, cfg, tag)
		}},
	}

	pipeline := domain.NewPipeline(s.out, s.confirm, cfg.Skip)
	if err := pipeline.Run(stages); err != nil {
		return err
	}

	s.out.Success(fmt.Sprintf("released %s", tag))
	return nil
}

func (s *ReleaseService) requireCleanTree(cfg *domain.ReleaseConfig) error {
	clean, err := s.repo.IsClean()
	if err != nil {
		return fmt.Errorf("checking working tree: %w", err)
	}
	if !clean && !cfg.DryRun {
		return errors.New("working tree has uncommitted changes; commit or stash them first")
	}
	return nil
}

func (s *ReleaseService) createTag(cfg *domain.ReleaseConfig, tag string) error {
	exists, err := s.repo.TagExists(tag)
	if err != nil {
		return err
	}
	if exists {
		s.out.Info("tag " + tag + " already exists")
		return nil
	}
	if cfg.DryRun {
		s.out.Info("would create tag " + tag)
		return nil
	}
	return s.repo.CreateTag(tag, "Release version "+cfg.Version.String())
}

// push goes through the system git binary so credential helpers and SSH
// agents work as they do for the operator.
func (s *ReleaseService) push(ctx context.Context, tag string) error {
	branch, err := s.repo.CurrentBranch()
	if err != nil {
		return fmt.Errorf("resolving branch: %w", err)
	}
	return s.runner.Run(ctx, "git", "push", "origin", branch, tag)
}

func (s *ReleaseService) publishRelease(ctx context.Context, cfg *domain.ReleaseConfig, tag string) error {
	notes := s.releaseNotes(cfg)

	exists, err := s.releaser.ReleaseExists(ctx, tag)
	if err != nil {
		return err
	}
	if exists {
		s.out.Info("release " + tag + " exists; updating notes")
		return s.releaser.UpdateReleaseNotes(ctx, tag, notes)
	}
	title := "Release " + cfg.Version.String()
	return s.releaser.CreateRelease(ctx, tag, title, notes, cfg.Version.IsPrerelease())
}

func (s *ReleaseService) releaseNotes(cfg *domain.ReleaseConfig) string {
	data, err := os.ReadFile(filepath.Join(cfg.ProjectRoot, "CHANGELOG.md"))
	if err != nil {
		return "Release " + cfg.Version.String()
	}
	notes, err := domain.ReleaseNotes(string(data), cfg.Version)
	if err != nil {
		return "Release " + cfg.Version.String()
	}
	return notes
}

// proveAndAttach runs the full proof, appends its summary to the release
// notes, and uploads the prover log as a release asset.
func (s *ReleaseService) proveAndAttach(ctx context.Context, cfg *domain.ReleaseConfig, tag string) error {
	result, err := s.tc.SparkProve(ctx, cfg)
	if err != nil {
		return err
	}
	if !result.Ran {
		s.out.Info("no formal verification project; nothing to prove")
		return nil
	}
	s.out.Info(result.Summary)

	notes := s.releaseNotes(cfg) + fmt.Sprintf(`

## SPARK Formal Verification

| | |
|---|---|
| Result | %s |
| Log | attached as release asset |
`, result.Summary)

	if err := s.releaser.UpdateReleaseNotes(ctx, tag, notes); err != nil {
		return err
	}
	if result.LogPath == "" {
		return nil
	}
	return s.releaser.UploadAsset(ctx, tag, result.LogPath)
}
