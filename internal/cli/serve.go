package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/wedding-marketplace/internal/config"
	"github.com/iliyamo/wedding-marketplace/internal/handler"
	"github.com/iliyamo/wedding-marketplace/internal/metrics"
	"github.com/iliyamo/wedding-marketplace/internal/middleware"
	"github.com/iliyamo/wedding-marketplace/internal/queue"
	"github.com/iliyamo/wedding-marketplace/internal/repository"
	"github.com/iliyamo/wedding-marketplace/internal/router"
	"github.com/iliyamo/wedding-marketplace/internal/service"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	db, err := rt.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		rt.logger.Warn().Msg("redis unavailable, rate limiting and page cache disabled")
	} else {
		defer rdb.Close()
	}

	amqpCfg := config.LoadAMQPConfig()
	var events service.EventPublisher = queue.Noop{}
	if amqpCfg.Enabled {
		events = queue.NewPublisher(amqpCfg.URL, amqpCfg.Queue, rt.logger)
	}

	m := metrics.New()
	reservationRepo := repository.NewReservationRepo(db)
	vendorRepo := repository.NewVendorRepo(db)
	serviceRepo := repository.NewServiceRepo(db)
	reviewRepo := repository.NewReviewRepo(db)
	availabilityRepo := repository.NewAvailabilityRepo(db)

	reservations := service.NewReservationService(reservationRepo, vendorRepo, serviceRepo, events, m, rt.logger)
	directory := service.NewDirectoryService(repository.NewCategoryRepo(db), vendorRepo, serviceRepo, reviewRepo, availabilityRepo)

	e := router.New(router.Handlers{
		Auth:         handler.NewAuthHandler(rt.cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db)),
		Directory:    handler.NewDirectoryHandler(directory),
		Reservations: handler.NewReservationHandler(reservations),
		Reviews:      handler.NewReviewHandler(service.NewReviewService(reservationRepo, reviewRepo, m, rt.logger)),
		Availability: handler.NewAvailabilityHandler(service.NewAvailabilityService(vendorRepo, availabilityRepo)),
	}, router.Options{
		JWTSecret: rt.cfg.JWTSecret,
		Metrics:   m,
		Logger:    rt.logger,
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, rt.logger),
		Cache:     middleware.NewRedisCache(config.LoadCacheConfig(), rdb, rt.logger),
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + rt.cfg.Port
	errCh := make(chan error, 1)
	go func() {
		rt.logger.Info().Str("addr", addr).Str("env", rt.cfg.Env).Bool("events", amqpCfg.Enabled).Msg("listening")
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	rt.logger.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}
