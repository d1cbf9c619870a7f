package main

import (
	"errors"
	"fmt"

	"github.com/jrpboutique/loom/internal/cli"
	"github.com/jrpboutique/loom/internal/common"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func autoCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "auto",
		Short: "Automatically categorize all images",
		Long: `Classify every image in the images directory by filename keywords.
Matches at or above the confidence threshold are accepted; the rest are
flagged for manual review ('loom review').`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			eng, _, _, err := buildEngine(nil)
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

			threshold := viper.GetFloat64("categorize.threshold")
			fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("%s Auto-categorizing %d images (threshold %.0f%%)", cli.RobotIcon, len(files), threshold)))

			bar := progressbar.NewOptions(len(files),
				progressbar.OptionSetDescription("categorizing"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
			eng.OnProgress = func(done, _ int, _ string) {
				_ = bar.Set(done)
			}

			stats, err := eng.AutoCategorize(ctx, files, threshold, force)
			if err != nil {
				if errors.Is(err, common.ErrCorruptMapping) {
					return common.NewUserError(
						"the mapping file is corrupt; fix it or rerun with --force to start over (previous work will be overwritten on save)", err)
				}
				return err
			}
			_ = bar.Finish()

			fmt.Println()
			fmt.Println(cli.TitleStyle.Render("Auto-categorization Summary"))
			fmt.Println(cli.FormatSuccess("Successfully categorized: %d", stats.Processed))
			fmt.Println(cli.FormatWarning("Low confidence (needs review): %d", stats.LowConfidence))
			fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("  Already categorized: %d", stats.Skipped)))
			return nil
		},
	}

	cmd.Flags().Float64("threshold", 70, "confidence threshold for auto-acceptance (0-100)")
	cmd.Flags().BoolVar(&force, "force", false, "proceed even if the existing mapping file is corrupt")
	_ = viper.BindPFlag("categorize.threshold", cmd.Flags().Lookup("threshold"))

	return cmd
}
