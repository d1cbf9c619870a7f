package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/jrpboutique/loom/internal/cli"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Inspect the category definitions",
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(relatedCategoriesCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Long:  `Display all product categories with their descriptions and price ranges, in menu order.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				headerStyle.Render("#"),
				headerStyle.Render("Key"),
				headerStyle.Render("Name"),
				headerStyle.Render("Price Range"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 3),
				strings.Repeat("-", 12),
				strings.Repeat("-", 20),
				strings.Repeat("-", 14))

			for i, cat := range reg.ListCategories() {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d-%d\n",
					i+1, cat.Key, cat.DisplayName, cat.PriceRange.Min, cat.PriceRange.Max)
			}

			return nil
		},
	}
}

func relatedCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "related <key>",
		Short: "Show categories related to a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}

			related := reg.RelatedCategories(args[0])
			if len(related) == 0 {
				fmt.Println(cli.InfoStyle.Render("No related categories"))
				return nil
			}

			fmt.Println(strings.Join(related, ", "))
			return nil
		},
	}
}
