package main

import (
	"errors"
	"fmt"

	"github.com/jrpboutique/loom/internal/cli"
	"github.com/jrpboutique/loom/internal/common"
	"github.com/jrpboutique/loom/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func applyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply categorizations to the product catalog",
		Long: `Push the persisted categorization mapping into the product catalog
database. Products are matched by image filename; records without a
matching product are reported, not created.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStore()
			if err != nil {
				return err
			}

			mapping, err := store.LoadMapping(ctx)
			if err != nil {
				if errors.Is(err, common.ErrCorruptMapping) {
					return common.NewUserError("the mapping file is corrupt, refusing to sync the catalog from it", err)
				}
				return err
			}
			if len(mapping) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categorizations found, run 'loom auto' first"))
				return nil
			}

			catalog, err := storage.NewCatalogStore(viper.GetString("catalog.db"))
			if err != nil {
				return err
			}
			defer catalog.Close()

			stats, err := catalog.ApplyMapping(ctx, mapping)
			if err != nil {
				return fmt.Errorf("catalog sync failed: %w", err)
			}

			fmt.Println(cli.TitleStyle.Render("Catalog Update Summary"))
			fmt.Println(cli.FormatSuccess("Updated: %d", stats.Updated))
			if stats.NotFound > 0 {
				fmt.Println(cli.FormatWarning("No matching product: %d", stats.NotFound))
			}
			return nil
		},
	}

	cmd.Flags().String("db", "", "catalog database path (default: data/catalog.db)")
	_ = viper.BindPFlag("catalog.db", cmd.Flags().Lookup("db"))

	return cmd
}
