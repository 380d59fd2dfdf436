package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iliyamo/wedding-marketplace/internal/config"
	"github.com/iliyamo/wedding-marketplace/internal/metrics"
	"github.com/iliyamo/wedding-marketplace/internal/model"
	"github.com/iliyamo/wedding-marketplace/internal/queue"
	"github.com/iliyamo/wedding-marketplace/internal/repository"
	"github.com/iliyamo/wedding-marketplace/internal/service"
)

var reservationsCmd = &cobra.Command{
	Use:   "reservations",
	Short: "Operate on reservations outside the vendor workflow",
}

var completeCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Mark a confirmed reservation as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransition(cmd, args[0], (*service.ReservationService).Complete)
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel a pending or confirmed reservation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransition(cmd, args[0], (*service.ReservationService).Cancel)
	},
}

func init() {
	reservationsCmd.AddCommand(completeCmd, cancelCmd)
	rootCmd.AddCommand(reservationsCmd)
}

type transitionFunc func(*service.ReservationService, context.Context, uint64) (*model.Reservation, error)

func runTransition(cmd *cobra.Command, rawID string, apply transitionFunc) error {
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || id == 0 {
		return fmt.Errorf("invalid reservation id %q", rawID)
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

	var events service.EventPublisher = queue.Noop{}
	if amqpCfg := config.LoadAMQPConfig(); amqpCfg.Enabled {
		events = queue.NewPublisher(amqpCfg.URL, amqpCfg.Queue, rt.logger)
	}
	svc := service.NewReservationService(repository.NewReservationRepo(db), repository.NewVendorRepo(db),
		repository.NewServiceRepo(db), events, metrics.New(), rt.logger)

	res, err := apply(svc, cmd.Context(), id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "reservation %d is now %s\n", res.ID, res.Status)
	return nil
}
