package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/relkit/relkit/internal/application"
	"github.com/relkit/relkit/internal/domain"
)

func newReleaseCmd() *cobra.Command {
	var (
		skipList    string
		dryRun      bool
		projectRoot string
		yes         bool
	)

	cmd := &cobra.Command{
		Use:   "release <version>",
		Short: "Tag, push, and publish a prepared release",
		Long: "Create the release tag, push it, publish the GitHub release with notes\n" +
			"from the changelog, and attach formal verification evidence.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := buildReleaseDeps(projectRoot, args[0], skipList, dryRun, yes)
			if err != nil {
				return err
			}

			svc := application.NewReleaseService(
				deps.out, deps.confirm, deps.repo, deps.releaser, deps.tc, deps.runner,
			)
			return svc.Run(cmd.Context(), deps.cfg)
		},
	}

	cmd.Flags().StringVar(&skipList, "skip", "", "Comma-separated stages to skip ("+strings.Join(domain.ValidSkipKeys(), ", ")+")")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would happen without pushing")
	cmd.Flags().StringVar(&projectRoot, "project-root", ".", "Project directory")
	cmd.Flags().BoolVar(&yes, "yes", false, "Answer every prompt with continue")

	return cmd
}
