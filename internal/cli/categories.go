package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/wedding-marketplace/internal/model"
	"github.com/iliyamo/wedding-marketplace/internal/repository"
)

var (
	categorySlug        string
	categoryDescription string
	categoryIcon        string
	categoryInactive    bool
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage vendor categories",
}

var addCategoryCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a vendor category",
	Long:  "Add a vendor category.  Without --slug the slug is derived from the name.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		db, err := rt.openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		c := &model.VendorCategory{Name: args[0], Slug: categorySlug, IsActive: !categoryInactive}
		if categoryDescription != "" {
			c.Description = &categoryDescription
		}
		if categoryIcon != "" {
			c.Icon = &categoryIcon
		}
		if err := repository.NewCategoryRepo(db).Create(cmd.Context(), c); err != nil {
			return fmt.Errorf("add category %q: %w", c.Name, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "category %d %s\n", c.ID, c.Slug)
		return nil
	},
}

func init() {
	addCategoryCmd.Flags().StringVar(&categorySlug, "slug", "", "route slug (default: derived from the name)")
	addCategoryCmd.Flags().StringVar(&categoryDescription, "description", "", "short description")
	addCategoryCmd.Flags().StringVar(&categoryIcon, "icon", "", "icon shown on the landing page")
	addCategoryCmd.Flags().BoolVar(&categoryInactive, "inactive", false, "create the category hidden")
	categoriesCmd.AddCommand(addCategoryCmd)
	rootCmd.AddCommand(categoriesCmd)
}
