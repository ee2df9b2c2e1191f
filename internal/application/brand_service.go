package application

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/relkit/relkit/internal/adapters/outbound/execrunner"
	"github.com/relkit/relkit/internal/adapters/outbound/gitrepo"
	"github.com/relkit/relkit/internal/adapters/outbound/rewrite"
	"github.com/relkit/relkit/internal/domain"
)

// submoduleRefreshTimeout bounds the pre-copy submodule update; a slow
// network must not hang the whole branding run.
const submoduleRefreshTimeout = 60 * time.Second

// Directories never copied into a branded project.
var brandSkipDirs = map[string]bool{
	".git":         true,
	"alire":        true,
	"obj":          true,
	"bin":          true,
	"lib":          true,
	"dist":         true,
	"node_modules": true,
	"__pycache__":  true,
}

// BrandConfig describes one branding run: clone sourceRoot into OutputDir
// under the identity derived from GitRepoURL.
type BrandConfig struct {
	SourceRoot string
	OutputDir  string
	GitRepoURL string
	OldName    string
	NewName    string
	Language   domain.Language
	Kind       domain.ProjectKind
	Protected  []string
	DryRun     bool
	Verbose    bool
}

// BrandService turns an existing project into the starting point for a new
// one: copy, rename, rewrite, reset history.
type BrandService struct {
	out      domain.Output
	rewriter *rewrite.Rewriter
}

func NewBrandService(out domain.Output, rewriter *rewrite.Rewriter) *BrandService {
	return &BrandService{out: out, rewriter: rewriter}
}

// RepoNameFromURL derives the new project name from a git URL.
func RepoNameFromURL(url string) (string, error) {
	trimmed := strings.TrimSuffix(strings.TrimSuffix(url, "/"), ".git")
	idx := strings.LastIndexAny(trimmed, "/:")
	if idx < 0 || idx == len(trimmed)-1 {
		return "", fmt.Errorf("cannot derive project name from %q", url)
	}
	name := trimmed[idx+1:]
	if name == "" {
		return "", fmt.Errorf("cannot derive project name from %q", url)
	}
	return strings.ToLower(name), nil
}

// Run executes the branding pipeline.
func (s *BrandService) Run(ctx context.Context, cfg *BrandConfig) error {
	s.out.Banner(fmt.Sprintf("brand %s → %s", cfg.OldName, cfg.NewName))
	if cfg.DryRun {
		s.out.Info("dry-run: nothing will be written")
	}

	oldSet := domain.NewNameSet(cfg.OldName)
	newSet := domain.NewNameSet(cfg.NewName)
	replacements := domain.NewReplacementSet(oldSet, newSet)

	submodules, err := gitrepo.ParseGitmodules(filepath.Join(cfg.SourceRoot, ".gitmodules"))
	if err != nil {
		return fmt.Errorf("reading .gitmodules: %w", err)
	}

	s.refreshSubmodules(ctx, cfg)

	if err := s.copyTree(cfg, submodules); err != nil {
		return fmt.Errorf("copying project: %w", err)
	}

	if err := s.scaffoldDocs(cfg); err != nil {
		s.out.Warn("could not set up docs structure: " + err.Error())
	}

	if !cfg.DryRun {
		if renamed, err := s.rewriter.RenameFiles(cfg.OutputDir, replacements); err != nil {
			return fmt.Errorf("renaming files: %w", err)
		} else if len(renamed) > 0 {
			s.out.Info(fmt.Sprintf("renamed %d paths", len(renamed)))
		}

		changed, err := s.rewriter.ReplaceInFiles(cfg.OutputDir, replacements, cfg.Protected)
		if err != nil {
			return fmt.Errorf("rewriting contents: %w", err)
		}
		s.out.Info(fmt.Sprintf("rewrote %d files", len(changed)))

		if err := s.updateProjectMetadata(cfg); err != nil {
			return fmt.Errorf("updating project metadata: %w", err)
		}

		if err := s.resetChangelog(cfg); err != nil {
			return fmt.Errorf("resetting changelog: %w", err)
		}

		findings, err := s.rewriter.VerifyNoReferences(cfg.OutputDir, oldSet, cfg.Protected)
		if err != nil {
			return fmt.Errorf("verifying: %w", err)
		}
		if len(findings) > 0 {
			s.out.Warn(fmt.Sprintf("%d leftover references to %s", len(findings), cfg.OldName))
			s.out.Findings(findings)
		}

		if err := s.initRepository(ctx, cfg, submodules); err != nil {
			return fmt.Errorf("initializing repository: %w", err)
		}

		if findings := structureFindings(cfg); len(findings) > 0 {
			s.out.Warn(fmt.Sprintf("%d structure checks failed", len(findings)))
			s.out.Findings(findings)
		}
	}

	s.checklist(cfg)
	return nil
}

// mountPoint maps a source submodule path to its location in the branded
// project. The shared docs submodule mounts at the root docs/ of a
// template; branded projects remount it under docs/common and keep docs/
// for their own documentation.
func mountPoint(path string) string {
	if path == "docs" {
		return "docs/common"
	}
	return path
}

// refreshSubmodules makes sure the source checkout's submodules are current
// before they get copied. Failures are reported and ignored: an offline run
// still brands from whatever is checked out.
func (s *BrandService) refreshSubmodules(ctx context.Context, cfg *BrandConfig) {
	runner := execrunner.New(cfg.SourceRoot, cfg.DryRun)
	err := runner.RunTimeout(ctx, submoduleRefreshTimeout,
		"git", "submodule", "update", "--init", "--remote")
	if err != nil {
		s.out.Warn("submodule refresh failed; branding from the current checkout")
	}
}

// copyTree copies the source project into the output directory. Submodule
// mount points become empty directories with a .gitkeep; their content is
// re-added as real submodules afterwards.
func (s *BrandService) copyTree(cfg *BrandConfig, submodules []domain.Submodule) error {
	mounts := map[string]bool{}
	for _, sub := range submodules {
		mounts[filepath.ToSlash(sub.Path)] = true
	}

	srcRoot, err := filepath.Abs(cfg.SourceRoot)
	if err != nil {
		return err
	}

	copied := 0
	err = filepath.WalkDir(srcRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(srcRoot, path)
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		dst := filepath.Join(cfg.OutputDir, filepath.FromSlash(rel))

		if d.IsDir() {
			if brandSkipDirs[d.Name()] {
				return filepath.SkipDir
			}
			if mounts[rel] {
				if !cfg.DryRun {
					mount := filepath.Join(cfg.OutputDir, filepath.FromSlash(mountPoint(rel)))
					if err := os.MkdirAll(mount, 0o755); err != nil {
						return err
					}
					if err := os.WriteFile(filepath.Join(mount, ".gitkeep"), nil, 0o644); err != nil {
						return err
					}
				}
				return filepath.SkipDir
			}
			if cfg.DryRun {
				return nil
			}
			return os.MkdirAll(dst, 0o755)
		}

		copied++
		if cfg.Verbose {
			s.out.Info("copy " + rel)
		}
		if cfg.DryRun {
			return nil
		}
		return copyFile(path, dst)
	})
	if err != nil {
		return err
	}

	s.out.Info(fmt.Sprintf("copied %d files", copied))
	return nil
}

// scaffoldDocs lays out the branded project's documentation tree: the
// shared submodule mounts at docs/common while docs/diagrams and
// docs/guides hold project-specific material.
func (s *BrandService) scaffoldDocs(cfg *BrandConfig) error {
	if _, err := os.Stat(filepath.Join(cfg.SourceRoot, "docs")); err != nil {
		return nil // template carries no docs tree
	}
	if cfg.DryRun {
		return nil
	}
	for _, rel := range []string{"docs/common", "docs/diagrams", "docs/guides"} {
		dir := filepath.Join(cfg.OutputDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		keep := filepath.Join(dir, ".gitkeep")
		if _, err := os.Stat(keep); os.IsNotExist(err) {
			if err := os.WriteFile(keep, nil, 0o644); err != nil {
				return err
			}
		}
	}
	return nil
}

// structureFindings compares the branded project against the layout a
// project of its language and kind is expected to have.
func structureFindings(cfg *BrandConfig) []domain.Finding {
	files := []string{"README.md", "CHANGELOG.md"}
	var dirs []string

	switch cfg.Language {
	case domain.LanguageGo:
		files = append(files, "go.mod")
		dirs = append(dirs, "internal/domain", "internal/application")
	case domain.LanguageAda:
		files = append(files, "alire.toml")
		dirs = append(dirs, "src/domain", "src/application", "src/infrastructure")
		if cfg.Kind == domain.KindLibrary {
			dirs = append(dirs, "src/api")
		} else {
			dirs = append(dirs, "src/bootstrap", "src/presentation")
		}
	}

	var findings []domain.Finding
	for _, rel := range files {
		if info, err := os.Stat(filepath.Join(cfg.OutputDir, filepath.FromSlash(rel))); err != nil || info.IsDir() {
			findings = append(findings, domain.Finding{File: rel, Message: "missing expected file"})
		}
	}
	for _, rel := range dirs {
		if info, err := os.Stat(filepath.Join(cfg.OutputDir, filepath.FromSlash(rel))); err != nil || !info.IsDir() {
			findings = append(findings, domain.Finding{File: rel, Message: "missing expected directory"})
		}
	}
	return findings
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

var (
	alireWebsiteLine = regexp.MustCompile(`(?m)^(website\s*=\s*")[^"]*(")`)
	goModuleLine     = regexp.MustCompile(`(?m)^module\s+\S+`)
)

// updateProjectMetadata points the new project's manifests at the new
// repository: the alire.toml website and the go.mod module path.
func (s *BrandService) updateProjectMetadata(cfg *BrandConfig) error {
	alire := filepath.Join(cfg.OutputDir, "alire.toml")
	if _, err := os.Stat(alire); err == nil {
		_, err := s.rewriter.UpdateFile(alire, func(content string) (string, error) {
			return alireWebsiteLine.ReplaceAllString(content, "${1}"+cfg.GitRepoURL+"${2}"), nil
		})
		if err != nil {
			return err
		}
	}

	gomod := filepath.Join(cfg.OutputDir, "go.mod")
	if _, err := os.Stat(gomod); err == nil {
		modPath := moduleIdentity(cfg.GitRepoURL)
		_, err := s.rewriter.UpdateFile(gomod, func(content string) (string, error) {
			return goModuleLine.ReplaceAllString(content, "module "+modPath), nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// moduleIdentity turns a git URL into a Go module path.
func moduleIdentity(url string) string {
	s := strings.TrimSuffix(url, ".git")
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "ssh://")
	if at := strings.Index(s, "@"); at >= 0 {
		s = s[at+1:]
	}
	return strings.Replace(s, ":", "/", 1)
}

func (s *BrandService) resetChangelog(cfg *BrandConfig) error {
	path := filepath.Join(cfg.OutputDir, "CHANGELOG.md")
	return s.rewriter.WriteFile(path, domain.InitialChangelog(cfg.NewName))
}

// initRepository starts fresh history in the output directory and re-adds
// the source's submodules from their upstream URLs.
func (s *BrandService) initRepository(ctx context.Context, cfg *BrandConfig, submodules []domain.Submodule) error {
	runner := execrunner.New(cfg.OutputDir, cfg.DryRun)
	if err := runner.Run(ctx, "git", "init"); err != nil {
		return err
	}

	for _, sub := range submodules {
		mount := mountPoint(filepath.ToSlash(sub.Path))

		// the .gitkeep placeholder blocks submodule add
		_ = os.Remove(filepath.Join(cfg.OutputDir, filepath.FromSlash(mount), ".gitkeep"))
		_ = os.Remove(filepath.Join(cfg.OutputDir, filepath.FromSlash(mount)))

		args := []string{"submodule", "add"}
		if sub.Branch != "" {
			args = append(args, "-b", sub.Branch)
		}
		args = append(args, sub.URL, mount)
		if err := runner.Run(ctx, "git", args...); err != nil {
			s.out.Warn(fmt.Sprintf("could not re-add submodule %s: %v", sub.Name, err))
		}
	}
	return nil
}

// checklist prints what branding cannot do for the operator.
func (s *BrandService) checklist(cfg *BrandConfig) {
	s.out.Success(fmt.Sprintf("branded %s at %s", cfg.NewName, cfg.OutputDir))
	s.out.Info("next steps:")
	s.out.Info("  1. review the rewritten README.md and docs/")
	s.out.Info("  2. create the remote repository: " + cfg.GitRepoURL)
	s.out.Info("  3. git add -A && git commit -m 'Initial import'")
	s.out.Info("  4. git remote add origin " + cfg.GitRepoURL + " && git push -u origin main")
}
