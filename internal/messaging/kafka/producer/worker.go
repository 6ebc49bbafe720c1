package producer

import (
	"context"
	"time"

	"go-leave/internal/messaging/kafka"
	"go-leave/internal/observability/metrics"

	"go.uber.org/zap"
)

const (
	defaultBatchSize    = 50
	defaultPollInterval = 3 * time.Second
)

// Relay drains the outbox table into Kafka. Delivery is at least once:
// an event whose MarkSent fails is published again on the next poll, so
// consumers must tolerate duplicates.
type Relay struct {
	repo      kafka.OutboxRepository
	writer    MessageWriter
	batchSize int
	logger    *zap.Logger
}

func NewRelay(repo kafka.OutboxRepository, writer MessageWriter, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.L()
	}
	return &Relay{
		repo:      repo,
		writer:    writer,
		batchSize: defaultBatchSize,
		logger:    logger.Named("kafka.producer.relay"),
	}
}

// Run polls every interval until ctx ends.
func (r *Relay) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.logger.Info("outbox relay started", zap.Duration("poll_interval", interval))

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopped")
			return
		case <-ticker.C:
			if _, err := r.Flush(ctx); err != nil {
				r.logger.Error("outbox flush failed", zap.Error(err))
			}
		}
	}
}

// Flush publishes one batch and returns how many events reached the broker.
// Only a failure to read the batch is returned; per-event failures are
// recorded on the row.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	batch, err := r.repo.ListPending(ctx, r.batchSize)
	if err != nil {
		return 0, err
	}
	if len(batch) == 0 {
		return 0, nil
	}

	r.logger.Debug("flushing outbox batch", zap.Int("count", len(batch)))

	sent, failed := 0, 0
	for _, event := range batch {
		if err := publishEvent(ctx, r.writer, event); err != nil {
			failed++
			r.recordFailure(ctx, event, err)
			continue
		}
		sent++

		if err := r.repo.MarkSent(ctx, event.ID); err != nil {
			r.logger.Error("mark outbox sent failed, event will be redelivered",
				zap.String("outbox_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		r.logger.Info("outbox event sent",
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("request_id", event.RequestID),
		)
	}

	metrics.ObserveOutboxPublish("sent", sent)
	metrics.ObserveOutboxPublish("failed", failed)
	return sent, nil
}

func (r *Relay) recordFailure(ctx context.Context, event kafka.OutboxEvent, cause error) {
	attempt := event.RetryCount + 1
	fields := []zap.Field{
		zap.String("outbox_id", event.ID),
		zap.String("event_type", event.EventType),
		zap.String("topic", event.Topic),
		zap.Int("attempt", attempt),
		zap.Error(cause),
	}
	if attempt >= kafka.MaxPublishAttempts {
		r.logger.Error("outbox event dead-lettered", fields...)
		metrics.ObserveOutboxPublish("dead", 1)
	} else {
		r.logger.Warn("outbox publish failed, will retry",
			append(fields, zap.Duration("retry_in", kafka.RetryDelay(attempt)))...)
	}

	if err := r.repo.MarkFailed(ctx, event, cause.Error()); err != nil {
		r.logger.Error("mark outbox failed failed", zap.String("outbox_id", event.ID), zap.Error(err))
	}
}
