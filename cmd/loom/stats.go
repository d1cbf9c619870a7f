package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/jrpboutique/loom/internal/cli"
	"github.com/jrpboutique/loom/internal/common"
	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the current categorization statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStore()
			if err != nil {
				return err
			}

			stats, err := store.LoadStatistics(cmd.Context())
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					fmt.Println(cli.InfoStyle.Render("No statistics available yet, run 'loom auto' first"))
					return nil
				}
				return err
			}

			fmt.Println(cli.TitleStyle.Render(cli.ChartIcon + " Current Statistics"))
			fmt.Printf("Total images: %d\n", stats.TotalImages)
			fmt.Printf("Last updated: %s\n", stats.LastUpdated.Format("2006-01-02 15:04:05"))

			if len(stats.CategoryCounts) == 0 {
				return nil
			}

			keys := make([]string, 0, len(stats.CategoryCounts))
			for key := range stats.CategoryCounts {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			fmt.Println()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintf(w, "Category\tCount\tAvg Confidence\n")
			fmt.Fprintf(w, "%s\t%s\t%s\n", strings.Repeat("-", 12), strings.Repeat("-", 5), strings.Repeat("-", 14))
			for _, key := range keys {
				avg := "N/A"
				if cs := stats.ConfidenceStats[key]; cs != nil {
					avg = fmt.Sprintf("%.1f%%", cs.Avg)
				}
				fmt.Fprintf(w, "%s\t%d\t%s\n", key, stats.CategoryCounts[key], avg)
			}

			return nil
		},
	}
}
