package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/relkit/relkit/internal/adapters/outbound/linkcheck"
	"github.com/relkit/relkit/internal/adapters/outbound/rewrite"
	"github.com/relkit/relkit/internal/adapters/outbound/scanner"
	"github.com/relkit/relkit/internal/application"
	"github.com/relkit/relkit/internal/domain"
)

func newPrepareCmd() *cobra.Command {
	var (
		skipList    string
		dryRun      bool
		projectRoot string
		yes         bool
	)

	cmd := &cobra.Command{
		Use:   "prepare <version>",
		Short: "Run the full pre-release pipeline",
		Long: "Validate the project, update version metadata, promote the changelog,\n" +
			"build, test, and run the post-build checks for the given version.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := buildReleaseDeps(projectRoot, args[0], skipList, dryRun, yes)
			if err != nil {
				return err
			}

			svc := application.NewPrepareService(
				deps.out, deps.confirm, deps.repo, deps.releaser,
				deps.tc, linkcheck.New(""), scanner.New(), rewrite.New(dryRun),
			)
			return svc.Run(cmd.Context(), deps.cfg)
		},
	}

	cmd.Flags().StringVar(&skipList, "skip", "", "Comma-separated stages to skip ("+strings.Join(domain.ValidSkipKeys(), ", ")+")")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing")
	cmd.Flags().StringVar(&projectRoot, "project-root", ".", "Project directory")
	cmd.Flags().BoolVar(&yes, "yes", false, "Answer every prompt with continue")

	return cmd
}
