// Package notify delivers human-readable leave notifications.
package notify

import (
	"context"
	"errors"

	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

var ErrWebhookNotConfigured = errors.New("notify: slack webhook url is empty")

// Sink sends one rendered notification.
type Sink interface {
	Send(ctx context.Context, msg Message) error
}

type Message struct {
	Kind string
	Text string
}

type SlackSink struct {
	webhookURL string
	logger     *zap.Logger
}

func NewSlackSink(webhookURL string, logger ...*zap.Logger) (*SlackSink, error) {
	if webhookURL == "" {
		return nil, ErrWebhookNotConfigured
	}
	l := zap.L().Named("notify.slack")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notify.slack")
	}
	return &SlackSink{webhookURL: webhookURL, logger: l}, nil
}

func (s *SlackSink) Send(ctx context.Context, msg Message) error {
	section := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, msg.Text, false, false),
		nil, nil,
	)
	payload := &slack.WebhookMessage{
		Text:   msg.Text,
		Blocks: &slack.Blocks{BlockSet: []slack.Block{section}},
	}

	if err := slack.PostWebhookContext(ctx, s.webhookURL, payload); err != nil {
		s.logger.Error("slack webhook failed", zap.String("kind", msg.Kind), zap.Error(err))
		return err
	}
	return nil
}

// LogSink writes notifications to the log when no webhook is configured.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.L()
	}
	return &LogSink{logger: logger.Named("notify.log")}
}

func (s *LogSink) Send(ctx context.Context, msg Message) error {
	s.logger.Info("notification", zap.String("kind", msg.Kind), zap.String("text", msg.Text))
	return nil
}
