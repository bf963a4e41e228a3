package catalog

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"finsim/internal/infrastructure/persistence/seeds"
	"finsim/internal/interfaces/cli/bootstrap"
)

var seedFile string

func NewCommand(flags *bootstrap.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Savings product catalog tools",
	}

	cmd.AddCommand(newSeedCommand(flags), newListCommand(flags))
	return cmd
}

func newSeedCommand(flags *bootstrap.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load products, options and rates from a YAML file",
		Long:  `Create products by name, or replace the options and rates of existing ones.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.Setup(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer app.Close()

			path := seedFile
			if path == "" {
				path = app.Config.Saving.SeedFile
			}

			products, err := seeds.LoadCatalogFile(path)
			if err != nil {
				return err
			}
			n, err := seeds.SeedCatalog(cmd.Context(), app.Container.ProductRepository(), products)
			if err != nil {
				return fmt.Errorf("seeded %d of %d products: %w", n, len(products), err)
			}

			app.Log.Infow("catalog seeded", "file", path, "products", n)
			fmt.Printf("seeded %d products from %s\n", n, path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&seedFile, "file", "f", "", "Catalog YAML (default: saving.seed_file)")
	return cmd
}

func newListCommand(flags *bootstrap.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List product options with their terms and best rates",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.Setup(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer app.Close()

			options, err := app.Container.ProductRepository().ListOptions(cmd.Context())
			if err != nil {
				return err
			}
			for _, o := range options {
				var rates []string
				for _, term := range o.SupportedTerms() {
					rate, _ := o.BestRate(term)
					rates = append(rates, fmt.Sprintf("%d:%s%%", term, rate.StringFixed(2)))
				}
				fmt.Printf("%4d  %-24s %-10s popularity=%d  %s\n",
					o.ID(), o.ProductName(), o.RateType(), o.Popularity(), strings.Join(rates, " "))
			}
			return nil
		},
	}
}
