package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"go-leave/internal/config"
	"go-leave/internal/holiday"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/messaging/kafka/producer"
	"go-leave/internal/shared/connection"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const outboxPollInterval = 3 * time.Second

// HolidaySyncer is the slice of holiday.Service the scheduler drives.
type HolidaySyncer interface {
	SyncAll(ctx context.Context, years []int) ([]holiday.SyncResult, error)
}

// RunWorker runs the background jobs until SIGINT/SIGTERM: the outbox
// relay (when KAFKA_BROKER is set) and the periodic holiday refresh.
func RunWorker(cfg *config.Config) error {
	logger := zap.L().Named("app.worker")

	deps, err := connectInfra(cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close(context.Background())

	if err := Migrate(deps.GormDB); err != nil {
		return err
	}

	m, err := buildModules(cfg, deps, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if cfg.KafkaBroker == "" {
		logger.Warn("KAFKA_BROKER not set: outbox relay disabled, events stay pending")
	} else {
		writer, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, connectRetries)
		if err != nil {
			return err
		}
		defer writer.Close()

		relay := producer.NewRelay(kafka.NewOutboxRepository(deps.GormDB), writer, logger)
		g.Go(func() error {
			relay.Run(ctx, outboxPollInterval)
			return nil
		})
	}

	g.Go(func() error {
		return runHolidaySync(ctx, m.holiday, cfg.HolidaySyncInterval, cfg.HolidaySyncYearsAhead, time.Now, logger)
	})

	err = g.Wait()
	logger.Info("worker shutting down")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runHolidaySync refreshes the current year plus yearsAhead once at start
// and then every interval until ctx ends. Sync failures are logged only;
// the next tick retries.
func runHolidaySync(
	ctx context.Context,
	syncer HolidaySyncer,
	interval time.Duration,
	yearsAhead int,
	now func() time.Time,
	logger *zap.Logger,
) error {
	if interval <= 0 {
		logger.Warn("holiday sync disabled", zap.Duration("interval", interval))
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		years := syncYears(now().Year(), yearsAhead)
		results, err := syncer.SyncAll(ctx, years)
		if err != nil && ctx.Err() == nil {
			logger.Error("holiday sync round failed", zap.Ints("years", years), zap.Error(err))
		} else {
			logger.Info("holiday sync round done", zap.Ints("years", years), zap.Int("results", len(results)))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func syncYears(current, ahead int) []int {
	years := make([]int, 0, ahead+1)
	for y := current; y <= current+ahead; y++ {
		years = append(years, y)
	}
	return years
}
