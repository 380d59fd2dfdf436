package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iliyamo/wedding-marketplace/internal/repository"
)

var vendorsCmd = &cobra.Command{
	Use:   "vendors",
	Short: "Manage vendor profiles",
}

var setActiveCmd = &cobra.Command{
	Use:   "set-active <id> <true|false>",
	Short: "List or unlist a vendor profile in the directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil || id == 0 {
			return fmt.Errorf("invalid vendor profile id %q", args[0])
		}
		active, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("invalid flag %q: %w", args[1], err)
		}
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		db, err := rt.openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := repository.NewVendorRepo(db).SetActive(cmd.Context(), id, active); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "vendor profile %d active=%t\n", id, active)
		return nil
	},
}

func init() {
	vendorsCmd.AddCommand(setActiveCmd)
	rootCmd.AddCommand(vendorsCmd)
}
