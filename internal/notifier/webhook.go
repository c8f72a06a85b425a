package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// WebhookNotifier posts alerts to a Slack- or Discord-compatible webhook.
// The recipient is included in the message text since webhooks have a fixed target.
type WebhookNotifier struct {
	url      string
	username string
	client   *http.Client
}

// NewWebhookNotifier creates a webhook notifier.
func NewWebhookNotifier(url, username string) *WebhookNotifier {
	if username == "" {
		username = "PriceSentinel"
	}
	return &WebhookNotifier{
		url:      url,
		username: username,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *WebhookNotifier) Name() string { return "webhook" }

func (w *WebhookNotifier) Send(ctx context.Context, subject, body, recipient string) error {
	msg := subject + "\n" + body
	if recipient != "" {
		msg += "\n(for " + recipient + ")"
	}
	payload, err := json.Marshal(w.payload(msg))
	if err != nil {
		return fmt.Errorf("webhook: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (w *WebhookNotifier) payload(msg string) map[string]string {
	if strings.Contains(w.url, "discord") {
		return map[string]string{"content": msg, "username": w.username}
	}
	return map[string]string{"text": msg, "username": w.username}
}
