package cli

import (
	"github.com/spf13/cobra"

	"github.com/relkit/relkit/internal/adapters/outbound/linkcheck"
	"github.com/relkit/relkit/internal/adapters/outbound/scanner"
	"github.com/relkit/relkit/internal/application"
)

func newValidateCmd() *cobra.Command {
	var projectRoot string

	cmd := &cobra.Command{
		Use:   "validate [<version>]",
		Short: "Run the validation scans without changing anything",
		Long: "Run the read-only release checks: documentation, authorship, code\n" +
			"markers, terminology, and git history. Nothing is written.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			versionArg := ""
			if len(args) == 1 {
				versionArg = args[0]
			}
			deps, err := buildReleaseDeps(projectRoot, versionArg, "", false, true)
			if err != nil {
				return err
			}

			svc := application.NewValidateService(
				deps.out, deps.repo, deps.tc, linkcheck.New(""), scanner.New(),
			)
			return svc.Run(cmd.Context(), deps.cfg)
		},
	}

	cmd.Flags().StringVar(&projectRoot, "project-root", ".", "Project directory")

	return cmd
}
