package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"PriceSentinel/internal/logger"
)

// CommandHandler is called when a chat command is received and returns the plain-text reply.
type CommandHandler func(ctx context.Context, command string) string

// telegramUpdate represents a Telegram update from long polling.
type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// StartPolling long-polls for commands and replies to the chat that sent each one.
// Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler, log *logrus.Entry) {
	if log == nil {
		log = logger.Nop()
	}
	offset := 0
	client := &http.Client{Timeout: 35 * time.Second, Transport: t.Client.Transport}

	for {
		if ctx.Err() != nil {
			log.Info("telegram polling stopped")
			return
		}

		updates, err := t.getUpdates(ctx, client, offset)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.WithError(err).Warn("polling request failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			text := strings.TrimSpace(update.Message.Text)
			chatID := strconv.FormatInt(update.Message.Chat.ID, 10)
			log.WithField("chat_id", chatID).Infof("received command: %s", text)

			reply := handler(ctx, text)
			if reply == "" {
				continue
			}
			if err := t.SendText(ctx, chatID, "<pre>"+html.EscapeString(reply)+"</pre>"); err != nil {
				log.WithError(err).Error("send reply")
			}
		}
	}
}

func (t *TelegramNotifier) getUpdates(ctx context.Context, client *http.Client, offset int) ([]telegramUpdate, error) {
	apiURL := fmt.Sprintf("%s/bot%s/getUpdates?offset=%d&timeout=30", t.BaseURL, t.BotToken, offset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create polling request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read polling response: %w", err)
	}
	var result struct {
		OK     bool             `json:"ok"`
		Result []telegramUpdate `json:"result"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode polling response: %w", err)
	}
	if !result.OK {
		return nil, fmt.Errorf("telegram getUpdates: status %d", resp.StatusCode)
	}
	return result.Result, nil
}
