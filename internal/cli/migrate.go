package cli

import (
	"github.com/spf13/cobra"

	"github.com/iliyamo/wedding-marketplace/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database tables",
	Long:  "Apply the embedded schema.  Every statement is idempotent, so migrate can run on each deploy.",
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
		if err := database.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		rt.logger.Info().Int("statements", len(database.Statements())).Msg("schema applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
