package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/jrpboutique/loom/internal/cli"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the categorization report",
		Long: `Aggregate the persisted mapping into a report: provenance counters,
per-category counts with average confidence, and a confidence-band
histogram. The report is written next to the mapping file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, _, _, err := buildEngine(nil)
			if err != nil {
				return err
			}

			report, err := eng.GenerateReport(cmd.Context(), force)
			if err != nil {
				return err
			}

			fmt.Println(cli.TitleStyle.Render(cli.ChartIcon + " Categorization Report"))
			fmt.Printf("Total images:      %d\n", report.Summary.TotalImages)
			fmt.Printf("Auto-generated:    %d\n", report.Summary.AutoGenerated)
			fmt.Printf("Manually reviewed: %d\n", report.Summary.ManuallyReviewed)
			fmt.Printf("Needs review:      %d\n", report.Summary.NeedsReview)
			fmt.Printf("Confidence bands:  low %d / medium %d / high %d\n",
				report.ConfidenceDistribution.Low,
				report.ConfidenceDistribution.Medium,
				report.ConfidenceDistribution.High)

			if len(report.Categories) == 0 {
				return nil
			}

			keys := make([]string, 0, len(report.Categories))
			for key := range report.Categories {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			fmt.Println()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintf(w, "Category\tCount\tAvg Confidence\n")
			fmt.Fprintf(w, "%s\t%s\t%s\n", strings.Repeat("-", 12), strings.Repeat("-", 5), strings.Repeat("-", 14))
			for _, key := range keys {
				cat := report.Categories[key]
				fmt.Fprintf(w, "%s\t%d\t%.1f%%\n", key, cat.Count, cat.AvgConfidence)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "proceed even if the existing mapping file is corrupt")

	return cmd
}
