package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"time"
)

const telegramAPI = "https://api.telegram.org"

// TelegramNotifier sends messages via the Telegram Bot API. The recipient is a chat id.
type TelegramNotifier struct {
	BotToken string
	ChatID   string // default chat for command replies
	BaseURL  string
	Client   *http.Client
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		BotToken: botToken,
		ChatID:   chatID,
		BaseURL:  telegramAPI,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (t *TelegramNotifier) Name() string { return "telegram" }

// Send posts the subject in bold followed by the body.
func (t *TelegramNotifier) Send(ctx context.Context, subject, body, recipient string) error {
	text := fmt.Sprintf("<b>%s</b>\n\n%s", html.EscapeString(subject), html.EscapeString(body))
	return t.SendText(ctx, recipient, text)
}

// SendText sends pre-formatted HTML text to a chat.
func (t *TelegramNotifier) SendText(ctx context.Context, chatID, text string) error {
	apiURL := fmt.Sprintf("%s/bot%s/sendMessage", t.BaseURL, t.BotToken)
	payload := map[string]string{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
