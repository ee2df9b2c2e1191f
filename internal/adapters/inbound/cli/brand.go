package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/relkit/relkit/internal/adapters/outbound/config"
	"github.com/relkit/relkit/internal/adapters/outbound/detector"
	"github.com/relkit/relkit/internal/adapters/outbound/execrunner"
	"github.com/relkit/relkit/internal/adapters/outbound/rewrite"
	"github.com/relkit/relkit/internal/adapters/outbound/toolchain"
	"github.com/relkit/relkit/internal/adapters/outbound/tui"
	"github.com/relkit/relkit/internal/application"
	"github.com/relkit/relkit/internal/domain"
)

func newBrandCmd() *cobra.Command {
	var (
		gitRepo string
		source  string
		output  string
		dryRun  bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "brand --git-repo <url>",
		Short: "Create a new project from this one",
		Long: "Copy the source project, rename every occurrence of its name to the one\n" +
			"derived from the git URL, reset the changelog, and start fresh history.",
		RunE: func(cmd *cobra.Command, args []string) error {
			newName, err := application.RepoNameFromURL(gitRepo)
			if err != nil {
				return err
			}

			srcRoot, err := filepath.Abs(source)
			if err != nil {
				return fmt.Errorf("resolving source: %w", err)
			}

			det := detector.New()
			lang := det.Language(srcRoot)
			if lang == domain.LanguageUnknown {
				return fmt.Errorf("could not detect project language in %s", srcRoot)
			}
			tc, err := toolchain.Select(lang, execrunner.New(srcRoot, true))
			if err != nil {
				return err
			}
			oldName, err := tc.ProjectName(srcRoot)
			if err != nil {
				return fmt.Errorf("resolving source project name: %w", err)
			}

			if output == "" {
				output = filepath.Join(filepath.Dir(srcRoot), newName)
			}
			outDir, err := filepath.Abs(output)
			if err != nil {
				return fmt.Errorf("resolving output: %w", err)
			}
			if entries, err := os.ReadDir(outDir); err == nil && len(entries) > 0 {
				return fmt.Errorf("output directory %s is not empty", outDir)
			}

			projectCfg, err := config.New().Load(srcRoot)
			if err != nil {
				return err
			}

			svc := application.NewBrandService(tui.NewRenderer(os.Stdout), rewrite.New(dryRun))
			return svc.Run(cmd.Context(), &application.BrandConfig{
				SourceRoot: srcRoot,
				OutputDir:  outDir,
				GitRepoURL: gitRepo,
				OldName:    oldName,
				NewName:    newName,
				Language:   lang,
				Kind:       det.Kind(srcRoot),
				Protected:  projectCfg.ProtectedPaths,
				DryRun:     dryRun,
				Verbose:    verbose,
			})
		},
	}

	cmd.Flags().StringVar(&gitRepo, "git-repo", "", "Git URL of the new project (required)")
	cmd.Flags().StringVar(&source, "source", ".", "Source project directory")
	cmd.Flags().StringVar(&output, "output", "", "Output directory (default: sibling of source, named after the repo)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "List every copied file")
	_ = cmd.MarkFlagRequired("git-repo")

	return cmd
}
