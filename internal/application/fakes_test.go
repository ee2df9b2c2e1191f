package application_test

import (
	"context"
	"fmt"

	"github.com/relkit/relkit/internal/domain"
)

// fakeOutput records pipeline events as "kind:detail" strings.
type fakeOutput struct {
	events   []string
	findings []domain.Finding
}

func (o *fakeOutput) Banner(title string)             { o.events = append(o.events, "banner:"+title) }
func (o *fakeOutput) StageStart(name string)          { o.events = append(o.events, "start:"+name) }
func (o *fakeOutput) StagePass(name string)           { o.events = append(o.events, "pass:"+name) }
func (o *fakeOutput) StageWarn(name string, _ error)  { o.events = append(o.events, "warn:"+name) }
func (o *fakeOutput) StageFail(name string, _ error)  { o.events = append(o.events, "fail:"+name) }
func (o *fakeOutput) Skipped(name string)             { o.events = append(o.events, "skip:"+name) }
func (o *fakeOutput) Info(msg string)                 { o.events = append(o.events, "info:"+msg) }
func (o *fakeOutput) Success(msg string)              { o.events = append(o.events, "success:"+msg) }
func (o *fakeOutput) Warn(msg string)                 { o.events = append(o.events, "warnmsg:"+msg) }
func (o *fakeOutput) Findings(fs []domain.Finding)    { o.findings = append(o.findings, fs...) }

func (o *fakeOutput) has(event string) bool {
	for _, e := range o.events {
		if e == event {
			return true
		}
	}
	return false
}

// scriptedConfirmer replays a fixed list of decisions and records prompts.
type scriptedConfirmer struct {
	decisions []domain.Decision
	prompts   []string
}

func (c *scriptedConfirmer) Confirm(message string, _ bool) domain.Decision {
	c.prompts = append(c.prompts, message)
	if len(c.decisions) == 0 {
		return domain.DecisionContinue
	}
	d := c.decisions[0]
	c.decisions = c.decisions[1:]
	return d
}

type fakeRepo struct {
	clean      bool
	branch     string
	commits    []domain.Commit
	branches   []string
	tags       map[string]bool
	submodules []domain.Submodule

	createdTags  []string
	commitLimits []int
}

func (r *fakeRepo) IsClean() (bool, error)        { return r.clean, nil }
func (r *fakeRepo) CurrentBranch() (string, error) { return r.branch, nil }
func (r *fakeRepo) Commits(limit int) ([]domain.Commit, error) {
	r.commitLimits = append(r.commitLimits, limit)
	return r.commits, nil
}
func (r *fakeRepo) Branches() ([]string, error)   { return r.branches, nil }
func (r *fakeRepo) TagExists(tag string) (bool, error) { return r.tags[tag], nil }
func (r *fakeRepo) CreateTag(tag, _ string) error {
	r.createdTags = append(r.createdTags, tag)
	return nil
}
func (r *fakeRepo) Submodules() ([]domain.Submodule, error) { return r.submodules, nil }

type fakeReleaser struct {
	exists bool

	created      []string
	createdNotes string
	prerelease   bool
	updatedNotes map[string]string
	uploaded     []string
	workflows    []string
	watched      []string
}

func (r *fakeReleaser) ReleaseExists(context.Context, string) (bool, error) { return r.exists, nil }

func (r *fakeReleaser) CreateRelease(_ context.Context, tag, title, notes string, prerelease bool) error {
	r.created = append(r.created, tag+" "+title)
	r.createdNotes = notes
	r.prerelease = prerelease
	return nil
}

func (r *fakeReleaser) UpdateReleaseNotes(_ context.Context, tag, notes string) error {
	if r.updatedNotes == nil {
		r.updatedNotes = map[string]string{}
	}
	r.updatedNotes[tag] = notes
	return nil
}

func (r *fakeReleaser) UploadAsset(_ context.Context, tag, assetPath string) error {
	r.uploaded = append(r.uploaded, tag+" "+assetPath)
	return nil
}

func (r *fakeReleaser) RunWorkflow(_ context.Context, workflow string, inputs map[string]string) error {
	r.workflows = append(r.workflows, fmt.Sprintf("%s version=%s ref=%s", workflow, inputs["version"], inputs["ref"]))
	return nil
}

func (r *fakeReleaser) WatchLatestRun(_ context.Context, workflow string) error {
	r.watched = append(r.watched, workflow)
	return nil
}

// fakeToolchain records which operations ran and answers from fixed values.
type fakeToolchain struct {
	lang    domain.Language
	name    string
	current string
	counts  domain.TestCounts
	spark   domain.SparkResult

	errs  map[string]error
	calls []string
}

func (t *fakeToolchain) call(op string) error {
	t.calls = append(t.calls, op)
	return t.errs[op]
}

func (t *fakeToolchain) called(op string) bool {
	for _, c := range t.calls {
		if c == op {
			return true
		}
	}
	return false
}

func (t *fakeToolchain) Language() domain.Language { return t.lang }

func (t *fakeToolchain) ProjectName(string) (string, error) { return t.name, nil }

func (t *fakeToolchain) CurrentVersion(string) (string, error) {
	return t.current, t.errs["current"]
}

func (t *fakeToolchain) UpdateVersion(cfg *domain.ReleaseConfig) (bool, error) {
	err := t.call("update")
	changed := t.current != cfg.Version.String()
	t.current = cfg.Version.String()
	return changed, err
}

func (t *fakeToolchain) SyncVersions(*domain.ReleaseConfig) error { return t.call("sync") }

func (t *fakeToolchain) GenerateVersionFile(*domain.ReleaseConfig) (string, error) {
	return "src/version.ads", t.call("generate")
}

func (t *fakeToolchain) ValidateBuildTargets(*domain.ReleaseConfig) []domain.Finding {
	t.calls = append(t.calls, "targets")
	return nil
}

func (t *fakeToolchain) Clean(context.Context, *domain.ReleaseConfig) error { return t.call("clean") }
func (t *fakeToolchain) Build(context.Context, *domain.ReleaseConfig) error { return t.call("build") }

func (t *fakeToolchain) Test(context.Context, *domain.ReleaseConfig) (domain.TestCounts, error) {
	return t.counts, t.call("test")
}

func (t *fakeToolchain) ResetDevConfig(context.Context, *domain.ReleaseConfig) error {
	return t.call("reset")
}

func (t *fakeToolchain) SparkCheck(context.Context, *domain.ReleaseConfig) error {
	return t.call("spark-check")
}

func (t *fakeToolchain) SparkProve(context.Context, *domain.ReleaseConfig) (domain.SparkResult, error) {
	return t.spark, t.call("spark-prove")
}

type fakeLinks struct {
	findings []domain.Finding
}

func (l *fakeLinks) CheckDocs(context.Context, string, []string) []domain.Finding {
	return l.findings
}
