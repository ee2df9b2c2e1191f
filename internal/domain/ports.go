package domain

import "context"

// Output renders pipeline progress and findings. The tui adapter implements
// it with lipgloss; tests use a recording fake.
type Output interface {
	Banner(title string)
	StageStart(name string)
	StagePass(name string)
	StageWarn(name string, err error)
	StageFail(name string, err error)
	Skipped(name string)
	Info(msg string)
	Success(msg string)
	Warn(msg string)
	Findings(findings []Finding)
}

// Confirmer answers advisory prompts. The tui adapter reads stdin; --yes
// and tests inject fixed answers.
type Confirmer interface {
	Confirm(message string, allowSkip bool) Decision
}

// ConfigLoader reads the project's .relkit.yaml.
type ConfigLoader interface {
	Load(projectRoot string) (ProjectConfig, error)
}

// Commit is the subset of git commit data the history scan needs. Author
// holds "Name <email>".
type Commit struct {
	Hash    string
	Message string
	Author  string
}

// Submodule is one entry of .gitmodules plus its checkout state.
type Submodule struct {
	Name   string
	Path   string
	URL    string
	Branch string
	Stale  bool
}

// GitRepository covers the read-side and tag-side git operations. Pushes go
// through the system git binary instead (credential helpers, SSH agents).
type GitRepository interface {
	IsClean() (bool, error)
	CurrentBranch() (string, error)
	Commits(limit int) ([]Commit, error)
	Branches() ([]string, error)
	TagExists(tag string) (bool, error)
	CreateTag(tag, message string) error
	Submodules() ([]Submodule, error)
}

// Releaser manages GitHub releases and workflow runs through the gh CLI.
type Releaser interface {
	ReleaseExists(ctx context.Context, tag string) (bool, error)
	CreateRelease(ctx context.Context, tag, title, notes string, prerelease bool) error
	UpdateReleaseNotes(ctx context.Context, tag, notes string) error
	UploadAsset(ctx context.Context, tag, assetPath string) error
	RunWorkflow(ctx context.Context, workflow string, inputs map[string]string) error
	WatchLatestRun(ctx context.Context, workflow string) error
}

// Toolchain is the per-language adapter: build, test, and version plumbing
// for one implementation language.
type Toolchain interface {
	Language() Language
	ProjectName(root string) (string, error)
	CurrentVersion(root string) (string, error)
	UpdateVersion(cfg *ReleaseConfig) (changed bool, err error)
	SyncVersions(cfg *ReleaseConfig) error
	GenerateVersionFile(cfg *ReleaseConfig) (path string, err error)
	ValidateBuildTargets(cfg *ReleaseConfig) []Finding
	Clean(ctx context.Context, cfg *ReleaseConfig) error
	Build(ctx context.Context, cfg *ReleaseConfig) error
	Test(ctx context.Context, cfg *ReleaseConfig) (TestCounts, error)
	ResetDevConfig(ctx context.Context, cfg *ReleaseConfig) error
	SparkCheck(ctx context.Context, cfg *ReleaseConfig) error
	SparkProve(ctx context.Context, cfg *ReleaseConfig) (SparkResult, error)
}

// SparkResult summarizes a formal verification run. LogPath points at the
// full gnatprove log for attachment to the release.
type SparkResult struct {
	Ran     bool
	Summary string
	LogPath string
}

// LinkChecker validates documentation links.
type LinkChecker interface {
	CheckDocs(ctx context.Context, root string, docFiles []string) []Finding
}
