// Package ghcli drives GitHub releases and workflow runs through the gh
// CLI, which handles authentication and API plumbing.
package ghcli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/relkit/relkit/internal/adapters/outbound/execrunner"
)

type Client struct {
	runner *execrunner.Runner
}

func New(runner *execrunner.Runner) *Client {
	return &Client{runner: runner}
}

// Available reports whether the gh CLI is installed.
func (c *Client) Available(ctx context.Context) bool {
	_, err := c.runner.Output(ctx, "gh", "--version")
	return err == nil
}

func (c *Client) ReleaseExists(ctx context.Context, tag string) (bool, error) {
	_, err := c.runner.Output(ctx, "gh", "release", "view", tag)
	return err == nil, nil
}

func (c *Client) CreateRelease(ctx context.Context, tag, title, notes string, prerelease bool) error {
	args := []string{"release", "create", tag, "--title", title, "--notes", notes}
	if prerelease {
		args = append(args, "--prerelease")
	}
	return c.runner.Run(ctx, "gh", args...)
}

func (c *Client) UpdateReleaseNotes(ctx context.Context, tag, notes string) error {
	return c.runner.Run(ctx, "gh", "release", "edit", tag, "--notes", notes)
}

func (c *Client) UploadAsset(ctx context.Context, tag, assetPath string) error {
	return c.runner.Run(ctx, "gh", "release", "upload", tag, assetPath, "--clobber")
}

// RunWorkflow triggers a workflow by file name with -f inputs.
func (c *Client) RunWorkflow(ctx context.Context, workflow string, inputs map[string]string) error {
	args := []string{"workflow", "run", workflow}
	keys := make([]string, 0, len(inputs))
	for k := range inputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "-f", k+"="+inputs[k])
	}
	return c.runner.Run(ctx, "gh", args...)
}

type workflowRun struct {
	DatabaseID int64  `json:"databaseId"`
	Status     string `json:"status"`
	HeadSha    string `json:"headSha"`
}

// WatchLatestRun polls for the newest run of a workflow, then watches it
// to completion. gh needs a moment to register a freshly triggered run, so
// the lookup retries.
func (c *Client) WatchLatestRun(ctx context.Context, workflow string) error {
	var runID int64
	for attempt := 0; attempt < 10; attempt++ {
		time.Sleep(3 * time.Second)

		out, err := c.runner.Output(ctx, "gh", "run", "list",
			"--workflow", workflow, "--limit", "1",
			"--json", "databaseId,status,headSha")
		if err != nil {
			continue
		}
		if strings.TrimSpace(out) == "" {
			// dry-run produces no output
			return nil
		}

		var runs []workflowRun
		if err := json.Unmarshal([]byte(out), &runs); err != nil || len(runs) == 0 {
			continue
		}
		runID = runs[0].DatabaseID
		break
	}
	if runID == 0 {
		return fmt.Errorf("could not find a run for workflow %s; check GitHub Actions manually", workflow)
	}

	return c.runner.Run(ctx, "gh", "run", "watch", fmt.Sprintf("%d", runID), "--exit-status")
}
