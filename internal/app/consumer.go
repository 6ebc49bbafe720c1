package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"go-leave/internal/config"
	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka/consumer"
	"go-leave/internal/notify"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const notificationsGroupID = "go-leave-notifications"

// RunConsumer reads the leave lifecycle topic and announces approvals.
// Without SLACK_WEBHOOK_URL the announcements go to the log.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	sink, err := newNotificationSink(cfg, logger)
	if err != nil {
		return err
	}
	notifier := notify.NewLeaveNotifier(sink, time.Now, logger)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          events.LeaveLifecycleTopic,
		GroupID:        notificationsGroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer.ConsumeLeaveLifecycle(ctx, reader, notifier, logger)

	logger.Info("consumer shutting down")
	return nil
}

func newNotificationSink(cfg *config.Config, logger *zap.Logger) (notify.Sink, error) {
	sink, err := notify.NewSlackSink(cfg.SlackWebhookURL, logger)
	if errors.Is(err, notify.ErrWebhookNotConfigured) {
		logger.Warn("SLACK_WEBHOOK_URL not set: notifications are logged only")
		return notify.NewLogSink(logger), nil
	}
	if err != nil {
		return nil, err
	}
	return sink, nil
}
