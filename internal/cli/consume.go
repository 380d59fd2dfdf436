package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iliyamo/wedding-marketplace/internal/config"
	"github.com/iliyamo/wedding-marketplace/internal/logging"
	"github.com/iliyamo/wedding-marketplace/internal/queue"
)

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Append reservation events to the reservation log",
	Long: `Consume the reservation event queue and append one line per event to
<RESERVATION_LOG_DIR>/` + queue.LogFile + `.  Reconnects with backoff until interrupted.

Only the broker settings are needed; the database is not opened.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.LoadEnv(envFiles...); err != nil {
			return err
		}
		logger := logging.New(config.LoadLogConfig(os.Getenv("APP_ENV")))
		cfg := config.LoadAMQPConfig()
		if !cfg.Enabled {
			return errors.New("events are disabled (EVENTS_ENABLED=false)")
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err := queue.NewConsumer(cfg.URL, cfg.Queue, cfg.LogDir, logger).Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(consumeCmd)
}
