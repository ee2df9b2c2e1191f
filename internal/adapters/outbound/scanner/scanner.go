package scanner

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/relkit/relkit/internal/domain"
)

var skipDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"bin":          true,
	"obj":          true,
	"lib":          true,
	"alire":        true,
	"__pycache__":  true,
}

var sourceExtensions = map[string]bool{
	".go":  true,
	".ads": true,
	".adb": true,
	".rs":  true,
	".py":  true,
}

// Inventory is the file listing a pipeline run works from. Paths are
// project-root relative with forward slashes.
type Inventory struct {
	Root        string
	AllFiles    []string
	SourceFiles []string // source code by extension
	DocFiles    []string // root *.md, docs/**/*.md, config/*.md
	AdaBodies   []string // src/**/*.adb
}

// FileScanner walks a project tree once and classifies what it finds.
type FileScanner struct{}

func New() *FileScanner {
	return &FileScanner{}
}

// Scan builds the inventory. cfg.ExcludePaths are doublestar globs matched
// against relative paths; the built-in skip list always applies.
func (s *FileScanner) Scan(projectRoot string, cfg domain.ProjectConfig) (*Inventory, error) {
	absRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, err
	}

	inv := &Inventory{Root: absRoot}

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, _ := filepath.Rel(absRoot, path)
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if skipDirs[d.Name()] || excluded(rel+"/", cfg.ExcludePaths) {
				return filepath.SkipDir
			}
			return nil
		}

		if excluded(rel, cfg.ExcludePaths) {
			return nil
		}

		inv.AllFiles = append(inv.AllFiles, rel)

		ext := filepath.Ext(rel)
		if sourceExtensions[ext] {
			inv.SourceFiles = append(inv.SourceFiles, rel)
		}
		if ext == ".adb" && strings.HasPrefix(rel, "src/") {
			inv.AdaBodies = append(inv.AdaBodies, rel)
		}
		if isDocFile(rel) {
			inv.DocFiles = append(inv.DocFiles, rel)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return inv, nil
}

// SourceFilesFor filters the source inventory to one language. Unknown
// languages fall back to the full polyglot list.
func (inv *Inventory) SourceFilesFor(lang domain.Language) []string {
	var exts map[string]bool
	switch lang {
	case domain.LanguageGo:
		exts = map[string]bool{".go": true}
	case domain.LanguageAda:
		exts = map[string]bool{".ads": true, ".adb": true}
	case domain.LanguageRust:
		exts = map[string]bool{".rs": true}
	default:
		return inv.SourceFiles
	}

	var out []string
	for _, f := range inv.SourceFiles {
		if exts[filepath.Ext(f)] {
			out = append(out, f)
		}
	}
	return out
}

// isDocFile reports whether rel is a markdown file the doc checks cover.
// docs/common/ is a shared submodule and never belongs to this project.
func isDocFile(rel string) bool {
	if !strings.HasSuffix(rel, ".md") {
		return false
	}
	if strings.HasPrefix(rel, "docs/common/") {
		return false
	}
	if !strings.Contains(rel, "/") {
		return true
	}
	if strings.HasPrefix(rel, "docs/") {
		return true
	}
	dir, _ := filepath.Split(rel)
	return dir == "config/"
}

func excluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		p = strings.TrimSuffix(p, "/")
		if ok, _ := doublestar.Match(p, strings.TrimSuffix(rel, "/")); ok {
			return true
		}
		if ok, _ := doublestar.Match(p+"/**", rel); ok {
			return true
		}
	}
	return false
}
