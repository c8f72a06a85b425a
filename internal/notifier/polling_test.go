package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestStartPolling_RepliesToSender(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu      sync.Mutex
		served  bool
		replied map[string]string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if served {
				w.Write([]byte(`{"ok":true,"result":[]}`))
				return
			}
			served = true
			w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"text":" /help ","chat":{"id":99}}}]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			_ = json.NewDecoder(r.Body).Decode(&replied)
			w.Write([]byte(`{"ok":true}`))
			cancel()
		}
	}))
	defer srv.Close()

	tg := NewTelegramNotifier("TOKEN", "1", "")
	tg.BaseURL = srv.URL

	var gotCmd string
	done := make(chan struct{})
	go func() {
		tg.StartPolling(ctx, func(_ context.Context, cmd string) string {
			gotCmd = cmd
			return "usage: /analyze A<B"
		}, nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not stop after context cancel")
	}

	if gotCmd != "/help" {
		t.Errorf("command = %q, want /help", gotCmd)
	}
	mu.Lock()
	defer mu.Unlock()
	if replied["chat_id"] != "99" {
		t.Errorf("reply chat_id = %q, want 99", replied["chat_id"])
	}
	if replied["text"] != "<pre>usage: /analyze A&lt;B</pre>" {
		t.Errorf("reply text = %q", replied["text"])
	}
}
