package cli

import (
	"github.com/spf13/cobra"

	"github.com/iliyamo/wedding-marketplace/internal/database"
)

var seedDemo bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the vendor categories and sample accounts",
	Long: `Upsert the vendor categories and create the sample couple and vendor
accounts (password "` + database.SamplePassword + `").

With --demo the sample vendor also gets a profile with a few services.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		db, err := rt.openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.Seed(cmd.Context(), db, database.SeedOptions{BcryptCost: rt.cfg.BcryptCost, Demo: seedDemo}); err != nil {
			return err
		}
		rt.logger.Info().Int("categories", len(database.Categories)).Bool("demo", seedDemo).Msg("seeded")
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedDemo, "demo", false, "also create a demo vendor profile with services")
	rootCmd.AddCommand(seedCmd)
}
