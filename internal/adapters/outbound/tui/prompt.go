package tui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/relkit/relkit/internal/domain"
)

// Prompter asks advisory questions on the terminal. ENTER continues, 's'
// skips when the prompt allows it, 'q' aborts the run. EOF counts as an
// abort so a piped stdin never silently continues.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

func (p *Prompter) Confirm(message string, allowSkip bool) domain.Decision {
	options := "[ENTER to continue, q to quit]"
	if allowSkip {
		options = "[ENTER to continue, s to skip, q to quit]"
	}
	fmt.Fprintf(p.out, "\n  %s %s ", warnStyle.Render(message), dimStyle.Render(options))

	line, err := p.in.ReadString('\n')
	if err != nil {
		fmt.Fprintln(p.out)
		return domain.DecisionAbort
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return domain.DecisionContinue
	case "s":
		if allowSkip {
			return domain.DecisionSkip
		}
		return domain.DecisionContinue
	case "q":
		return domain.DecisionAbort
	default:
		return domain.DecisionContinue
	}
}

// AutoConfirmer answers every prompt with a fixed decision. Used by --yes
// and non-interactive runs.
type AutoConfirmer struct {
	Decision domain.Decision
}

func (a AutoConfirmer) Confirm(message string, allowSkip bool) domain.Decision {
	return a.Decision
}
