package domain

// Language is the implementation language of the project under release.
type Language string

const (
	LanguageGo      Language = "go"
	LanguageAda     Language = "ada"
	LanguageRust    Language = "rust"
	LanguageUnknown Language = "unknown"
)

// ProjectKind distinguishes reusable libraries from end-user applications.
// Several checks (terminology, expected layout) depend on it.
type ProjectKind string

const (
	KindLibrary     ProjectKind = "library"
	KindApplication ProjectKind = "application"
)

// ProjectConfig is the optional .relkit.yaml file at the project root.
type ProjectConfig struct {
	ExcludePaths      []string `yaml:"exclude_paths"`
	ProtectedPaths    []string `yaml:"protected_paths"`
	LongFileThreshold int      `yaml:"long_file_threshold"`
	License           string   `yaml:"license"`
	CopyrightHolder   string   `yaml:"copyright_holder"`
}

// DefaultProjectConfig returns the settings used when no .relkit.yaml
// exists.
func DefaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		LongFileThreshold: 800,
		License:           "BSD-3-Clause",
	}
}

// TestCounts is the per-suite summary parsed from a test run.
type TestCounts struct {
	Unit        int
	Integration int
	Examples    int
}

func (c TestCounts) Total() int {
	return c.Unit + c.Integration + c.Examples
}

func (c TestCounts) Valid() bool {
	return c.Total() > 0
}

// ReleaseConfig carries everything a release pipeline run needs. It is
// built once per invocation and never mutated by stages except for
// TestCounts, which the test stage fills in.
type ReleaseConfig struct {
	ProjectRoot string
	ProjectName string
	Version     Version
	Language    Language
	Kind        ProjectKind
	DryRun      bool
	Skip        map[string]bool
	Project     ProjectConfig

	TestCounts TestCounts
}
