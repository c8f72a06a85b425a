package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"PriceSentinel/internal/logger"
)

// RetryNotifier retries a failed send with exponential backoff.
type RetryNotifier struct {
	next       Notifier
	maxRetries int
	baseDelay  time.Duration
	log        *logrus.Entry
}

// WithRetry wraps n. maxRetries counts attempts after the first one.
func WithRetry(n Notifier, maxRetries int, baseDelay time.Duration, log *logrus.Entry) *RetryNotifier {
	if log == nil {
		log = logger.Nop()
	}
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	return &RetryNotifier{next: n, maxRetries: maxRetries, baseDelay: baseDelay, log: log}
}

func (r *RetryNotifier) Name() string { return r.next.Name() }

func (r *RetryNotifier) Send(ctx context.Context, subject, body, recipient string) error {
	var lastErr error
	for i := 0; i <= r.maxRetries; i++ {
		err := r.next.Send(ctx, subject, body, recipient)
		if err == nil {
			return nil
		}
		lastErr = err
		if i == r.maxRetries {
			break
		}
		backoff := r.baseDelay * time.Duration(1<<uint(i))
		r.log.WithError(err).Warnf("%s send failed (attempt %d/%d), retrying in %v", r.next.Name(), i+1, r.maxRetries+1, backoff)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("all %d attempts failed: %w", r.maxRetries+1, lastErr)
}
