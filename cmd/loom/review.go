package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jrpboutique/loom/internal/cli"
	"github.com/jrpboutique/loom/internal/common"
	"github.com/spf13/cobra"
)

func reviewCmd() *cobra.Command {
	var (
		all   bool
		force bool
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Manually review categorizations",
		Long: `Walk through images flagged for review and confirm or correct their
category. A manual decision is recorded at 100% confidence. Use --all to
review every image, not just flagged ones. Quitting mid-way keeps all
decisions made so far.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			prompter := cli.NewPrompter(os.Stdin, os.Stdout)
			eng, _, _, err := buildEngine(prompter)
			if err != nil {
				return err
			}

			files, err := listImages()
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Println(cli.InfoStyle.Render("No image files found"))
				return nil
			}

			fmt.Println(cli.TitleStyle.Render("🏷️  Manual Image Categorization"))

			stats, err := eng.ManualReview(ctx, files, !all, force)
			if err != nil {
				if errors.Is(err, common.ErrCorruptMapping) {
					return common.NewUserError(
						"the mapping file is corrupt; fix it or rerun with --force to start over (previous work will be overwritten on save)", err)
				}
				return err
			}

			fmt.Println()
			fmt.Println(cli.FormatSuccess("Reviewed: %d", stats.Reviewed))
			if stats.Skipped > 0 {
				fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("  Skipped: %d", stats.Skipped)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "review every image, not just those flagged needs-review")
	cmd.Flags().BoolVar(&force, "force", false, "proceed even if the existing mapping file is corrupt")

	return cmd
}
