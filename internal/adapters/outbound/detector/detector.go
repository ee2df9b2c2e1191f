package detector

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/relkit/relkit/internal/domain"
)

// Detector probes a project root for its implementation language and its
// kind (library vs application). Every subsystem shares this single
// classification routine.
type Detector struct{}

func New() *Detector {
	return &Detector{}
}

// Language detects the implementation language from marker files.
func (d *Detector) Language(projectRoot string) domain.Language {
	exists := func(name string) bool {
		_, err := os.Stat(filepath.Join(projectRoot, name))
		return err == nil
	}

	if exists("go.mod") || exists("go.work") {
		return domain.LanguageGo
	}
	if exists("alire.toml") {
		return domain.LanguageAda
	}
	if matches, _ := filepath.Glob(filepath.Join(projectRoot, "*.gpr")); len(matches) > 0 {
		return domain.LanguageAda
	}
	if exists("Cargo.toml") {
		return domain.LanguageRust
	}
	return domain.LanguageUnknown
}

// Kind classifies the project as library or application.
//
// Libraries expose an api/ facade without a composition root; applications
// carry bootstrap/ or cmd/. Ada projects keep these under src/. GPR files
// declaring Library_Name or Library_Kind force library. As a last resort
// the directory name decides (_lib/_app suffixes); the default is
// application.
func (d *Detector) Kind(projectRoot string) domain.ProjectKind {
	dirExists := func(parts ...string) bool {
		info, err := os.Stat(filepath.Join(append([]string{projectRoot}, parts...)...))
		return err == nil && info.IsDir()
	}

	hasAPI := dirExists("api") || dirExists("src", "api")
	hasBootstrap := dirExists("bootstrap") || dirExists("src", "bootstrap")
	hasCmd := dirExists("cmd") || dirExists("src", "cmd")

	if hasAPI && !hasBootstrap && !hasCmd {
		return domain.KindLibrary
	}
	if hasBootstrap || hasCmd {
		return domain.KindApplication
	}

	gprFiles, _ := filepath.Glob(filepath.Join(projectRoot, "*.gpr"))
	for _, gpr := range gprFiles {
		data, err := os.ReadFile(gpr)
		if err != nil {
			continue
		}
		content := string(data)
		if strings.Contains(content, "Library_Name") || strings.Contains(content, "Library_Kind") {
			return domain.KindLibrary
		}
	}

	name := strings.ToLower(filepath.Base(projectRoot))
	if strings.Contains(name, "_lib_") || strings.HasSuffix(name, "_lib") {
		return domain.KindLibrary
	}
	if strings.Contains(name, "_app_") || strings.HasSuffix(name, "_app") {
		return domain.KindApplication
	}

	return domain.KindApplication
}
