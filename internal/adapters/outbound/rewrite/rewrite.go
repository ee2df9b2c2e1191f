// Package rewrite is the text-substitution engine: it applies an ordered
// ReplacementSet to file contents and file names across a project tree.
package rewrite

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/relkit/relkit/internal/domain"
)

var skipDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	".git":         true,
	"obj":          true,
	"alire":        true,
	"__pycache__":  true,
}

// Files whose content must never be rewritten: they reference external
// repositories, not this project.
var skipContentFiles = map[string]bool{
	".gitmodules": true,
}

// Rewriter applies substitutions on disk. With DryRun set, every operation
// reports what it would change and writes nothing.
type Rewriter struct {
	DryRun bool
}

func New(dryRun bool) *Rewriter {
	return &Rewriter{DryRun: dryRun}
}

// ReplaceInFiles applies set to every text file under root, skipping
// protected paths (doublestar globs). It returns the relative paths of
// files whose content changed.
func (r *Rewriter) ReplaceInFiles(root string, set domain.ReplacementSet, protected []string) ([]string, error) {
	var changed []string

	err := walkFiles(root, func(path, rel string) error {
		if skipContentFiles[filepath.Base(rel)] || matchesAny(rel, protected) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil // unreadable file: skip, not fatal
		}
		if isBinary(data) {
			return nil
		}

		content := string(data)
		if !set.Changed(content) {
			return nil
		}

		changed = append(changed, rel)
		if r.DryRun {
			return nil
		}

		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		return os.WriteFile(path, []byte(set.Apply(content)), info.Mode().Perm())
	})
	if err != nil {
		return nil, err
	}

	return changed, nil
}

// RenameFiles renames files and directories whose names contain an
// old-side pattern. Deepest paths rename first so parent renames do not
// invalidate child paths.
func (r *Rewriter) RenameFiles(root string, set domain.ReplacementSet) ([]string, error) {
	var targets []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && skipDirs[d.Name()] {
			return filepath.SkipDir
		}
		if path == root {
			return nil
		}
		if set.Changed(d.Name()) {
			targets = append(targets, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(targets, func(i, j int) bool {
		return strings.Count(targets[i], string(os.PathSeparator)) > strings.Count(targets[j], string(os.PathSeparator))
	})

	var renamed []string
	for _, path := range targets {
		dir, base := filepath.Split(path)
		newPath := filepath.Join(dir, set.Apply(base))
		rel, _ := filepath.Rel(root, path)
		renamed = append(renamed, filepath.ToSlash(rel))
		if r.DryRun {
			continue
		}
		if err := os.Rename(path, newPath); err != nil {
			return renamed, fmt.Errorf("renaming %s: %w", rel, err)
		}
	}
	return renamed, nil
}

// VerifyNoReferences scans for leftover occurrences of any old-name variant
// after a branding pass.
func (r *Rewriter) VerifyNoReferences(root string, old domain.NameSet, protected []string) ([]domain.Finding, error) {
	variants := []string{old.AdaPascal, old.Pascal, old.Upper, old.Snake}
	var findings []domain.Finding

	err := walkFiles(root, func(path, rel string) error {
		if skipContentFiles[filepath.Base(rel)] || matchesAny(rel, protected) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil || isBinary(data) {
			return nil
		}
		for i, line := range strings.Split(string(data), "\n") {
			for _, v := range variants {
				if v != "" && strings.Contains(line, v) {
					context := strings.TrimSpace(line)
					if len(context) > 60 {
						context = context[:60] + "..."
					}
					findings = append(findings, domain.Finding{
						File: rel, Line: i + 1,
						Message: fmt.Sprintf("leftover reference %q: %s", v, context),
					})
					break
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return findings, nil
}

// WriteFile writes content, honoring dry-run. Parent directories are
// created as needed.
func (r *Rewriter) WriteFile(path, content string) error {
	if r.DryRun {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// UpdateFile rewrites path with transform applied to its content. Returns
// true when the content changed (or would change under dry-run).
func (r *Rewriter) UpdateFile(path string, transform func(string) (string, error)) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	updated, err := transform(string(data))
	if err != nil {
		return false, err
	}
	if updated == string(data) {
		return false, nil
	}
	if r.DryRun {
		return true, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return true, os.WriteFile(path, []byte(updated), info.Mode().Perm())
}

func walkFiles(root string, fn func(path, rel string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		rel, _ := filepath.Rel(root, path)
		return fn(path, filepath.ToSlash(rel))
	})
}

func matchesAny(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(strings.TrimSuffix(p, "/")+"/**", rel); ok {
			return true
		}
	}
	return false
}

// isBinary treats any NUL byte in the first 8000 bytes as binary content.
func isBinary(data []byte) bool {
	probe := data
	if len(probe) > 8000 {
		probe = probe[:8000]
	}
	return bytes.IndexByte(probe, 0) >= 0
}
