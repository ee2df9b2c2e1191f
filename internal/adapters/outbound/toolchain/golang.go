package toolchain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/relkit/relkit/internal/adapters/outbound/execrunner"
	"github.com/relkit/relkit/internal/domain"
)

// GoToolchain releases Go projects: go.mod carries the project identity and
// internal/version/version.go carries the version constant.
type GoToolchain struct {
	runner *execrunner.Runner
}

func NewGo(runner *execrunner.Runner) *GoToolchain {
	return &GoToolchain{runner: runner}
}

func (t *GoToolchain) Language() domain.Language { return domain.LanguageGo }

const goVersionFile = "internal/version/version.go"

var goVersionConst = regexp.MustCompile(`Version\s*=\s*"([^"]+)"`)

// ProjectName derives the project name from the go.mod module path.
func (t *GoToolchain) ProjectName(root string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("reading go.mod: %w", err)
	}
	mf, err := modfile.ParseLax("go.mod", data, nil)
	if err != nil {
		return "", fmt.Errorf("parsing go.mod: %w", err)
	}
	if mf.Module == nil || mf.Module.Mod.Path == "" {
		return "", fmt.Errorf("go.mod has no module directive")
	}
	parts := strings.Split(mf.Module.Mod.Path, "/")
	return parts[len(parts)-1], nil
}

func (t *GoToolchain) CurrentVersion(root string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, goVersionFile))
	if err != nil {
		return "", err
	}
	m := goVersionConst.FindStringSubmatch(string(data))
	if m == nil {
		return "", fmt.Errorf("no Version constant in %s", goVersionFile)
	}
	return m[1], nil
}

// UpdateVersion rewrites the Version constant. Already-correct versions are
// a no-op so a re-run of prepare changes nothing.
func (t *GoToolchain) UpdateVersion(cfg *domain.ReleaseConfig) (bool, error) {
	path := filepath.Join(cfg.ProjectRoot, goVersionFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// generated later by GenerateVersionFile
			return false, nil
		}
		return false, err
	}

	content := string(data)
	m := goVersionConst.FindStringSubmatch(content)
	if m != nil && m[1] == cfg.Version.String() {
		return false, nil
	}

	updated := goVersionConst.ReplaceAllString(content,
		fmt.Sprintf(`Version = %q`, cfg.Version.String()))
	if cfg.DryRun {
		return true, nil
	}
	return true, os.WriteFile(path, []byte(updated), 0o644)
}

// SyncVersions is a no-op: Go projects keep a single version constant.
func (t *GoToolchain) SyncVersions(cfg *domain.ReleaseConfig) error { return nil }

// GenerateVersionFile writes internal/version/version.go from the release
// version.
func (t *GoToolchain) GenerateVersionFile(cfg *domain.ReleaseConfig) (string, error) {
	v := cfg.Version
	content := fmt.Sprintf(`// Package version holds build version information.
//
// AUTO-GENERATED FILE - DO NOT EDIT MANUALLY. Regenerated by the release
// pipeline from the release version.
package version

const (
	Major = %d
	Minor = %d
	Patch = %d

	// Prerelease identifier, empty for stable releases.
	Prerelease = %q

	// Version is the full semantic version string.
	Version = %q
)

// IsPrerelease reports whether this build is a pre-release.
func IsPrerelease() bool { return Prerelease != "" }
`, v.Major, v.Minor, v.Patch, v.Prerelease, v.String())

	path := filepath.Join(cfg.ProjectRoot, goVersionFile)
	if existing, err := os.ReadFile(path); err == nil && string(existing) == content {
		return goVersionFile, nil
	}
	if cfg.DryRun {
		return goVersionFile, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	return goVersionFile, os.WriteFile(path, []byte(content), 0o644)
}

// ValidateBuildTargets exercises the Makefile's key targets when one
// exists.
func (t *GoToolchain) ValidateBuildTargets(cfg *domain.ReleaseConfig) []domain.Finding {
	return validateMakeTargets(t.runner, cfg.ProjectRoot, []string{"help", "build", "clean"})
}

func (t *GoToolchain) Clean(ctx context.Context, cfg *domain.ReleaseConfig) error {
	if hasMakefile(cfg.ProjectRoot) {
		return t.runner.Run(ctx, "make", "clean")
	}
	return t.runner.Run(ctx, "go", "clean", "./...")
}

func (t *GoToolchain) Build(ctx context.Context, cfg *domain.ReleaseConfig) error {
	if hasMakefile(cfg.ProjectRoot) {
		if err := t.runner.Run(ctx, "make", "build"); err == nil {
			return nil
		}
	}
	return t.runner.Run(ctx, "go", "build", "./...")
}

func (t *GoToolchain) Test(ctx context.Context, cfg *domain.ReleaseConfig) (domain.TestCounts, error) {
	out, err := t.runner.Output(ctx, "go", "test", "-v", "./...")
	if err != nil {
		return domain.TestCounts{}, err
	}
	passes := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "--- PASS") {
			passes++
		}
	}
	return domain.TestCounts{Unit: passes}, nil
}

func (t *GoToolchain) ResetDevConfig(ctx context.Context, cfg *domain.ReleaseConfig) error {
	// Go builds generate no tracked config files.
	return nil
}

// SPARK is Ada-specific.
func (t *GoToolchain) SparkCheck(ctx context.Context, cfg *domain.ReleaseConfig) error {
	return nil
}

func (t *GoToolchain) SparkProve(ctx context.Context, cfg *domain.ReleaseConfig) (domain.SparkResult, error) {
	return domain.SparkResult{}, nil
}

// validateMakeTargets runs each target with output captured; failures
// become findings instead of aborting the probe.
func validateMakeTargets(runner *execrunner.Runner, root string, targets []string) []domain.Finding {
	if !hasMakefile(root) {
		return nil
	}
	var findings []domain.Finding
	for _, target := range targets {
		if _, err := runner.Output(context.Background(), "make", target); err != nil {
			findings = append(findings, domain.Finding{
				File:    "Makefile",
				Message: fmt.Sprintf("'make %s' failed: %v", target, err),
			})
		}
	}
	return findings
}
