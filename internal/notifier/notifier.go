// Package notifier delivers alert messages to external channels.
package notifier

import (
	"context"

	"github.com/sirupsen/logrus"

	"PriceSentinel/internal/logger"
)

// Notifier delivers one message to one recipient. The recipient format is
// backend specific: an email address, a chat id, or ignored for webhooks.
type Notifier interface {
	Send(ctx context.Context, subject, body, recipient string) error
	Name() string
}

// LogNotifier writes alerts to the log instead of delivering them.
type LogNotifier struct {
	log *logrus.Entry
}

// NewLogNotifier creates a log-based notifier.
func NewLogNotifier(log *logrus.Entry) *LogNotifier {
	if log == nil {
		log = logger.Nop()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Name() string { return "log" }

func (n *LogNotifier) Send(_ context.Context, subject, body, recipient string) error {
	n.log.WithFields(logrus.Fields{
		"recipient": recipient,
		"subject":   subject,
	}).Info(body)
	return nil
}
