package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/relkit/relkit/internal/adapters/outbound/config"
	"github.com/relkit/relkit/internal/adapters/outbound/detector"
	"github.com/relkit/relkit/internal/adapters/outbound/execrunner"
	"github.com/relkit/relkit/internal/adapters/outbound/ghcli"
	"github.com/relkit/relkit/internal/adapters/outbound/gitrepo"
	"github.com/relkit/relkit/internal/adapters/outbound/toolchain"
	"github.com/relkit/relkit/internal/adapters/outbound/tui"
	"github.com/relkit/relkit/internal/domain"
)

// releaseDeps is everything the prepare, release, and validate commands
// construct before handing off to a service.
type releaseDeps struct {
	cfg      *domain.ReleaseConfig
	out      *tui.Renderer
	confirm  domain.Confirmer
	repo     *gitrepo.Repository
	releaser *ghcli.Client
	tc       domain.Toolchain
	runner   *execrunner.Runner
}

// buildReleaseDeps resolves the project, detects its language, and wires
// the adapters. versionArg may be empty; the current on-disk version is
// used then.
func buildReleaseDeps(projectRoot, versionArg, skipList string, dryRun, yes bool) (*releaseDeps, error) {
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("project root %s: %w", projectRoot, err)
	}

	skip, err := parseSkip(skipList)
	if err != nil {
		return nil, err
	}

	det := detector.New()
	lang := det.Language(root)
	if lang == domain.LanguageUnknown {
		return nil, fmt.Errorf("could not detect project language in %s", root)
	}

	runner := execrunner.New(root, dryRun)
	tc, err := toolchain.Select(lang, runner)
	if err != nil {
		return nil, err
	}

	projectName, err := tc.ProjectName(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project name: %w", err)
	}

	versionStr := versionArg
	if versionStr == "" {
		versionStr, err = tc.CurrentVersion(root)
		if err != nil {
			return nil, fmt.Errorf("resolving current version: %w", err)
		}
	}
	ver, err := domain.ParseVersion(versionStr)
	if err != nil {
		return nil, err
	}

	projectCfg, err := config.New().Load(root)
	if err != nil {
		return nil, err
	}

	repo, err := gitrepo.Open(root)
	if err != nil {
		return nil, fmt.Errorf("opening git repository: %w", err)
	}

	var confirm domain.Confirmer
	if yes {
		confirm = tui.AutoConfirmer{Decision: domain.DecisionContinue}
	} else {
		confirm = tui.NewPrompter(os.Stdin, os.Stdout)
	}

	return &releaseDeps{
		cfg: &domain.ReleaseConfig{
			ProjectRoot: root,
			ProjectName: projectName,
			Version:     ver,
			Language:    lang,
			Kind:        det.Kind(root),
			DryRun:      dryRun,
			Skip:        skip,
			Project:     projectCfg,
		},
		out:      tui.NewRenderer(os.Stdout),
		confirm:  confirm,
		repo:     repo,
		releaser: ghcli.New(runner),
		tc:       tc,
		runner:   runner,
	}, nil
}

func parseSkip(skipList string) (map[string]bool, error) {
	skip := map[string]bool{}
	if skipList == "" {
		return skip, nil
	}
	valid := map[string]bool{}
	for _, k := range domain.ValidSkipKeys() {
		valid[k] = true
	}
	for _, key := range strings.Split(skipList, ",") {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if !valid[key] {
			return nil, fmt.Errorf("unknown skip key %q (valid: %s)",
				key, strings.Join(domain.ValidSkipKeys(), ", "))
		}
		skip[key] = true
	}
	return skip, nil
}
