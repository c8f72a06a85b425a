package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"PriceSentinel/internal/config"
	"PriceSentinel/internal/model"
)

func TestFormatSubject(t *testing.T) {
	tests := []struct {
		name string
		evt  model.AlertEvent
		want string
	}{
		{"signal label", model.AlertEvent{Symbol: "AAPL", Label: "SELL"}, "[AAPL] SELL"},
		{"direction label", model.AlertEvent{Symbol: "MSFT", Label: "UP"}, "[MSFT] UP"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSubject(tt.evt); got != tt.want {
				t.Errorf("FormatSubject() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatBody(t *testing.T) {
	evt := model.AlertEvent{
		Symbol:        "AAPL",
		Strategy:      model.StrategyThreshold,
		Signal:        model.SignalSell,
		Label:         "SELL",
		LatestClose:   95,
		PercentChange: model.Float(-5),
		Timestamp:     time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
	}
	body := FormatBody(evt)
	for _, want := range []string{"95.00", "2024-03-05", "-5.00%", "Signal: SELL"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "RSI") {
		t.Errorf("threshold body should not mention RSI:\n%s", body)
	}
	if FormatBody(evt) != body {
		t.Error("FormatBody is not deterministic")
	}

	evt.Strategy = model.StrategyCrossover
	evt.Signal = model.SignalBuy
	evt.Label = "BUY"
	evt.RSI = model.Float(72.5)
	evt.RSIStatus = model.RSIOverbought
	body = FormatBody(evt)
	if !strings.Contains(body, "72.50 (Overbought)") {
		t.Errorf("crossover body missing RSI status:\n%s", body)
	}
}

func TestFormatSummary_Skipped(t *testing.T) {
	s := model.Summary{Symbol: "BAD", Status: model.StatusSkipped, ErrorKind: model.KindDataUnavailable}
	out := FormatSummary(s)
	if !strings.Contains(out, "skipped (DataUnavailable)") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestFormatSummary_OK(t *testing.T) {
	s := model.Summary{
		Symbol:      "AAPL",
		Status:      model.StatusOK,
		Strategy:    model.StrategyThreshold,
		LatestClose: 95,
		Movement:    model.Movement{Direction: model.DirectionDown, PercentChange: model.Float(-5)},
		Indicators:  model.IndicatorSet{SMA20: model.Float(101.25)},
		Decision:    model.Decision{Signal: model.SignalSell, Label: "SELL"},
		Dispatch:    model.Sent,
	}
	out := FormatSummary(s)
	for _, want := range []string{"DOWN -5.00%", "SMA20: 101.25", "SMA50: n/a", "signal (threshold): SELL", "alert: Sent"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestTelegramNotifier_Send(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tg := NewTelegramNotifier("TOKEN", "1", "")
	tg.BaseURL = srv.URL
	if err := tg.Send(context.Background(), "[AAPL] SELL", "a < b", "42"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got["chat_id"] != "42" {
		t.Errorf("chat_id = %q, want 42", got["chat_id"])
	}
	if !strings.Contains(got["text"], "<b>[AAPL] SELL</b>") || !strings.Contains(got["text"], "a &lt; b") {
		t.Errorf("text not escaped as expected: %q", got["text"])
	}
}

func TestTelegramNotifier_SendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	tg := NewTelegramNotifier("TOKEN", "1", "")
	tg.BaseURL = srv.URL
	if err := tg.Send(context.Background(), "s", "b", "42"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestWebhookNotifier_Payload(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	wh := NewWebhookNotifier(srv.URL, "")
	if err := wh.Send(context.Background(), "[AAPL] BUY", "body", "desk"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got["username"] != "PriceSentinel" {
		t.Errorf("username = %q", got["username"])
	}
	if !strings.HasPrefix(got["text"], "[AAPL] BUY\nbody") || !strings.Contains(got["text"], "(for desk)") {
		t.Errorf("text = %q", got["text"])
	}
}

func TestWebhookNotifier_Discord(t *testing.T) {
	wh := NewWebhookNotifier("https://discord.com/api/webhooks/x", "bot")
	p := wh.payload("hi")
	if p["content"] != "hi" {
		t.Errorf("discord payload = %v", p)
	}
}

type flakyNotifier struct {
	failures int
	calls    int
}

func (f *flakyNotifier) Name() string { return "flaky" }

func (f *flakyNotifier) Send(context.Context, string, string, string) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("temporary failure")
	}
	return nil
}

func TestRetryNotifier(t *testing.T) {
	tests := []struct {
		name       string
		failures   int
		maxRetries int
		wantErr    bool
		wantCalls  int
	}{
		{"first attempt", 0, 2, false, 1},
		{"recovers", 2, 2, false, 3},
		{"exhausted", 5, 2, true, 3},
		{"no retries", 1, 0, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &flakyNotifier{failures: tt.failures}
			r := WithRetry(f, tt.maxRetries, time.Millisecond, nil)
			err := r.Send(context.Background(), "s", "b", "r")
			if (err != nil) != tt.wantErr {
				t.Errorf("Send() error = %v, wantErr %v", err, tt.wantErr)
			}
			if f.calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", f.calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryNotifier_ContextCancelled(t *testing.T) {
	f := &flakyNotifier{failures: 10}
	r := WithRetry(f, 5, time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Send(ctx, "s", "b", "r"); !errors.Is(err, context.Canceled) {
		t.Errorf("Send() error = %v, want context.Canceled", err)
	}
	if f.calls != 1 {
		t.Errorf("calls = %d, want 1", f.calls)
	}
}

func TestEmailNotifier_Message(t *testing.T) {
	e := NewEmailNotifier(emailConfigForTest())
	if !e.dialer.SSL {
		t.Error("port 465 should use implicit TLS")
	}
	m := e.message("[AAPL] SELL", "body", "ops@example.com")
	if got := m.GetHeader("To"); len(got) != 1 || got[0] != "ops@example.com" {
		t.Errorf("To = %v", got)
	}
	if got := m.GetHeader("Subject"); len(got) != 1 || got[0] != "[AAPL] SELL" {
		t.Errorf("Subject = %v", got)
	}
}

func emailConfigForTest() config.EmailConfig {
	return config.EmailConfig{SMTPHost: "smtp.example.com", SMTPPort: 465, Sender: "bot@example.com", Password: "x"}
}
