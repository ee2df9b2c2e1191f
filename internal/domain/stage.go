package domain

import "errors"

// Severity controls how the pipeline reacts when a stage fails.
type Severity int

const (
	// Fatal stops the pipeline immediately.
	Fatal Severity = iota
	// Advisory reports the failure and asks the operator whether to go on.
	Advisory
	// BestEffort reports a warning and always continues.
	BestEffort
)

// Decision is the operator's answer to an advisory failure.
type Decision int

const (
	DecisionContinue Decision = iota
	DecisionSkip
	DecisionAbort
)

// ErrAborted is returned when the operator stops the pipeline at a prompt.
var ErrAborted = errors.New("aborted by operator")

// Stage is one sequential step of a pipeline. SkipKey names the stage in
// --skip; stages with an empty SkipKey cannot be skipped from the command
// line.
type Stage struct {
	Name     string
	Severity Severity
	SkipKey  string
	Run      func() error
}

// Skippable stage keys accepted by --skip.
const (
	SkipWindows    = "windows"
	SkipSpark      = "spark"
	SkipExceptions = "exceptions"
	SkipAll        = "all"
)

// ValidSkipKeys returns the accepted --skip values.
func ValidSkipKeys() []string {
	return []string{SkipWindows, SkipSpark, SkipExceptions, SkipAll}
}

// Pipeline executes stages strictly in order. There is no concurrency:
// every stage sees the effects of all previous stages.
type Pipeline struct {
	out     Output
	confirm Confirmer
	skip    map[string]bool
}

func NewPipeline(out Output, confirm Confirmer, skip map[string]bool) *Pipeline {
	if skip == nil {
		skip = map[string]bool{}
	}
	return &Pipeline{out: out, confirm: confirm, skip: skip}
}

// Run executes the stages. A Fatal failure or an operator abort stops the
// run and returns the error; Advisory failures consult the Confirmer;
// BestEffort failures are reported and ignored.
func (p *Pipeline) Run(stages []Stage) error {
	for _, stage := range stages {
		if stage.SkipKey != "" && (p.skip[SkipAll] || p.skip[stage.SkipKey]) {
			p.out.Skipped(stage.Name)
			continue
		}

		p.out.StageStart(stage.Name)
		err := stage.Run()
		if err == nil {
			p.out.StagePass(stage.Name)
			continue
		}

		var fe *FindingError
		if errors.As(err, &fe) {
			p.out.Findings(fe.Findings)
		}

		switch stage.Severity {
		case Fatal:
			p.out.StageFail(stage.Name, err)
			return err
		case BestEffort:
			p.out.StageWarn(stage.Name, err)
		default: // Advisory
			p.out.StageWarn(stage.Name, err)
			switch p.confirm.Confirm("Continue despite "+stage.Name+" issues?", true) {
			case DecisionAbort:
				return ErrAborted
			case DecisionSkip, DecisionContinue:
				// proceed either way; "skip" just acknowledges the findings
			}
		}
	}
	return nil
}
