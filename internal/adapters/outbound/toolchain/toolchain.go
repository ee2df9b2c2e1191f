// Package toolchain holds the per-language adapters: everything that knows
// how one language's build system, version files, and test runners work.
package toolchain

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/relkit/relkit/internal/adapters/outbound/execrunner"
	"github.com/relkit/relkit/internal/domain"
)

// Select returns the adapter for a detected language. Rust is detected but
// has no adapter yet.
func Select(lang domain.Language, runner *execrunner.Runner) (domain.Toolchain, error) {
	switch lang {
	case domain.LanguageGo:
		return NewGo(runner), nil
	case domain.LanguageAda:
		return NewAda(runner), nil
	default:
		return nil, fmt.Errorf("unsupported language %q: no toolchain adapter available", lang)
	}
}

func hasMakefile(root string) bool {
	_, err := os.Stat(filepath.Join(root, "Makefile"))
	return err == nil
}
