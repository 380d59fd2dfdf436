// Package cli holds the cobra commands of the marketplace binary.  Running
// it without a subcommand starts the HTTP server.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iliyamo/wedding-marketplace/internal/config"
	"github.com/iliyamo/wedding-marketplace/internal/database"
	"github.com/iliyamo/wedding-marketplace/internal/logging"
)

var envFiles []string

var rootCmd = &cobra.Command{
	Use:   "wedding-marketplace",
	Short: "Wedding vendor marketplace",
	Long: `Wedding vendor marketplace: vendor directory, booking requests and reviews.

Configuration is read from the environment; .env files given with --env-file
(default .env) fill in variables that are not already set.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "dotenv files to load")
}

// runtime is the configuration every command starts from.
type runtime struct {
	cfg    config.Config
	logger zerolog.Logger
}

func bootstrap() (runtime, error) {
	if err := config.LoadEnv(envFiles...); err != nil {
		return runtime{}, fmt.Errorf("load env: %w", err)
	}
	cfg := config.Load()
	logger := logging.New(config.LoadLogConfig(cfg.Env))
	return runtime{cfg: cfg, logger: logger}, nil
}

func (rt runtime) openDB() (*sql.DB, error) {
	db, err := database.Open(rt.cfg.DBUser, rt.cfg.DBPass, rt.cfg.DBHost, rt.cfg.DBPort, rt.cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}
