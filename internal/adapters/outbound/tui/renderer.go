// Package tui renders pipeline progress and reads interactive answers.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/relkit/relkit/internal/domain"
)

// ── Claude-inspired warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	skipped = lipgloss.Color("#4B5563") // dark gray
)

var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 4).
			Align(lipgloss.Center).
			Width(60)

	stageStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	skipStyle     = lipgloss.NewStyle().Foreground(skipped)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	separatorLine = faintStyle.Render(strings.Repeat("─", 56))
)

// Renderer writes styled pipeline output to a writer. It implements
// domain.Output.
type Renderer struct {
	w io.Writer
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

func (r *Renderer) Banner(title string) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, boxStyle.Render(bannerStyle.Render(title)))
	fmt.Fprintln(r.w)
}

func (r *Renderer) StageStart(name string) {
	fmt.Fprintf(r.w, "  %s %s\n", dimStyle.Render("▶"), stageStyle.Render(name))
}

func (r *Renderer) StagePass(name string) {
	fmt.Fprintf(r.w, "  %s %s\n", passStyle.Render("✓"), dimStyle.Render(name))
}

func (r *Renderer) StageWarn(name string, err error) {
	fmt.Fprintf(r.w, "  %s %s  %s\n",
		warnStyle.Render("!"), stageStyle.Render(name), warnStyle.Render(err.Error()))
}

func (r *Renderer) StageFail(name string, err error) {
	fmt.Fprintf(r.w, "  %s %s  %s\n",
		failStyle.Render("✗"), stageStyle.Render(name), failStyle.Render(err.Error()))
}

func (r *Renderer) Skipped(name string) {
	fmt.Fprintf(r.w, "  %s %s %s\n",
		skipStyle.Render("○"), skipStyle.Render(name), skipStyle.Render("skipped"))
}

func (r *Renderer) Info(msg string) {
	fmt.Fprintf(r.w, "    %s\n", dimStyle.Render(msg))
}

func (r *Renderer) Success(msg string) {
	fmt.Fprintf(r.w, "  %s %s\n", passStyle.Render("✓"), passStyle.Render(msg))
}

func (r *Renderer) Warn(msg string) {
	fmt.Fprintf(r.w, "  %s %s\n", warnStyle.Render("!"), warnStyle.Render(msg))
}

// Findings lists scanner findings grouped under a separator, file and line
// first so terminals can jump to them.
func (r *Renderer) Findings(findings []domain.Finding) {
	if len(findings) == 0 {
		return
	}
	fmt.Fprintln(r.w, "  "+separatorLine)
	for _, f := range findings {
		loc := f.File
		if f.Line > 0 {
			loc = fmt.Sprintf("%s:%d", f.File, f.Line)
		}
		if loc != "" {
			fmt.Fprintf(r.w, "    %s\n", fileStyle.Render(loc))
			fmt.Fprintf(r.w, "      %s\n", dimStyle.Render(f.Message))
		} else {
			fmt.Fprintf(r.w, "    %s\n", dimStyle.Render(f.Message))
		}
	}
	fmt.Fprintln(r.w, "  "+separatorLine)
}
