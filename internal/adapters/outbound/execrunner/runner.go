// Package execrunner wraps the external tools the pipeline shells out to:
// make, go, alr, gprbuild, git push, and gh.
package execrunner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Runner executes subprocesses in a working directory. With DryRun set,
// Run and Output report the command without executing anything.
type Runner struct {
	Dir    string
	DryRun bool
}

func New(dir string, dryRun bool) *Runner {
	return &Runner{Dir: dir, DryRun: dryRun}
}

// Run executes a command, streaming output to the terminal.
func (r *Runner) Run(ctx context.Context, name string, args ...string) error {
	if r.DryRun {
		fmt.Printf("  [dry-run] would run: %s\n", commandLine(name, args))
		return nil
	}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", commandLine(name, args), err)
	}
	return nil
}

// RunTimeout runs with a deadline layered on ctx.
func (r *Runner) RunTimeout(ctx context.Context, timeout time.Duration, name string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return r.Run(ctx, name, args...)
}

// Output executes a command and captures combined stdout/stderr.
func (r *Runner) Output(ctx context.Context, name string, args ...string) (string, error) {
	if r.DryRun {
		fmt.Printf("  [dry-run] would run: %s\n", commandLine(name, args))
		return "", nil
	}
	var buf bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		return buf.String(), fmt.Errorf("%s: %w", commandLine(name, args), err)
	}
	return buf.String(), nil
}

// OutputTee captures output while also writing it to a log file. Used by
// long SPARK prove runs whose logs become release assets.
func (r *Runner) OutputTee(ctx context.Context, logPath, name string, args ...string) (string, error) {
	out, err := r.Output(ctx, name, args...)
	if r.DryRun {
		return out, err
	}
	if werr := os.WriteFile(logPath, []byte(out), 0o644); werr != nil && err == nil {
		err = fmt.Errorf("writing log %s: %w", logPath, werr)
	}
	return out, err
}

func commandLine(name string, args []string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}
