package domain

import "fmt"

// Finding is a single issue reported by a validation check.
type Finding struct {
	File    string
	Line    int
	Message string
}

func (f Finding) String() string {
	switch {
	case f.File == "":
		return f.Message
	case f.Line == 0:
		return fmt.Sprintf("%s: %s", f.File, f.Message)
	default:
		return fmt.Sprintf("%s:%d: %s", f.File, f.Line, f.Message)
	}
}

// FindingError wraps findings as an error so stage runners can surface the
// count without losing the details.
type FindingError struct {
	Findings []Finding
}

func (e *FindingError) Error() string {
	if len(e.Findings) == 1 {
		return "1 issue found"
	}
	return fmt.Sprintf("%d issues found", len(e.Findings))
}

// NewFindingError returns nil when findings is empty.
func NewFindingError(findings []Finding) error {
	if len(findings) == 0 {
		return nil
	}
	return &FindingError{Findings: findings}
}
