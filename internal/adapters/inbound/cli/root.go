// Package cli wires the commands: flag parsing, adapter construction, and
// service invocation. No release logic lives here.
package cli

import "github.com/spf13/cobra"

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relkit",
		Short: "Prepare, validate, and publish project releases",
		Long: "Relkit runs the release checklist so you don't have to: validation scans,\n" +
			"version updates, changelog promotion, build and test gates, tagging, and\n" +
			"GitHub release publishing.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newPrepareCmd())
	cmd.AddCommand(newReleaseCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newBrandCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
