package gitrepo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	gitconfig "github.com/go-git/go-git/v5/config"

	"github.com/relkit/relkit/internal/domain"
)

// ParseGitmodules reads a .gitmodules file without requiring an open
// repository. The branding flow uses it to re-add submodules after a
// fresh git init.
func ParseGitmodules(path string) ([]domain.Submodule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	modules := gitconfig.NewModules()
	if err := modules.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	var out []domain.Submodule
	for _, sub := range modules.Submodules {
		out = append(out, domain.Submodule{
			Name:   sub.Name,
			Path:   sub.Path,
			URL:    sub.URL,
			Branch: sub.Branch,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
