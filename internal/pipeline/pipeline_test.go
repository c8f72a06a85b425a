package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"PriceSentinel/internal/collector"
	"PriceSentinel/internal/dispatcher"
	"PriceSentinel/internal/model"
)

var (
	testNow   = time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC)
	testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	testEnd   = time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
)

type recordingNotifier struct {
	mu       sync.Mutex
	err      error
	subjects []string
}

func (r *recordingNotifier) Name() string { return "recording" }

func (r *recordingNotifier) Send(_ context.Context, subject, _, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subjects = append(r.subjects, subject)
	return r.err
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subjects)
}

func bars(closes ...any) []model.RawBar {
	out := make([]model.RawBar, len(closes))
	for i, c := range closes {
		out[i] = model.RawBar{Time: testStart.AddDate(0, 0, i), Close: c}
	}
	return out
}

func risingThenFalling() []model.RawBar {
	var closes []any
	for i := 0; i < 50; i++ {
		closes = append(closes, 100.0+float64(i))
	}
	for i := 1; i <= 10; i++ {
		closes = append(closes, 149.0-float64(i))
	}
	return bars(closes...)
}

func newTestAnalyzer(p collector.Provider, n *recordingNotifier, workers int) *Analyzer {
	a := New(Config{
		Provider:   p,
		Dispatcher: dispatcher.New(n, nil),
		Workers:    workers,
	})
	a.now = func() time.Time { return testNow }
	return a
}

func request(kind model.StrategyKind, recipient string, symbols ...string) Request {
	return Request{Symbols: symbols, Start: testStart, End: testEnd, Recipient: recipient, Strategy: kind}
}

func TestRun_ThresholdSell(t *testing.T) {
	n := &recordingNotifier{}
	p := &collector.MockProvider{Bars: map[string][]model.RawBar{"AAPL": bars(100.0, 95.0)}}
	report, err := newTestAnalyzer(p, n, 2).Run(context.Background(), request(model.StrategyThreshold, "ops@example.com", "AAPL"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	s := report.Summaries[0]
	if s.Status != model.StatusOK {
		t.Fatalf("status = %s, warnings = %v", s.Status, s.Warnings)
	}
	if s.Movement.Direction != model.DirectionDown {
		t.Errorf("direction = %s, want DOWN", s.Movement.Direction)
	}
	if s.Movement.PercentChange == nil || math.Abs(*s.Movement.PercentChange+5) > 1e-9 {
		t.Errorf("percent change = %v, want -5", s.Movement.PercentChange)
	}
	if s.Decision.Signal != model.SignalSell {
		t.Errorf("signal = %s, want SELL", s.Decision.Signal)
	}
	if s.Dispatch != model.Sent {
		t.Errorf("dispatch = %s, want Sent", s.Dispatch)
	}
	if s.LatestClose != 95 {
		t.Errorf("latest close = %v", s.LatestClose)
	}
	if len(n.subjects) != 1 || n.subjects[0] != "[AAPL] SELL" {
		t.Errorf("subjects = %v", n.subjects)
	}
}

func TestRun_ThresholdNoRecipient(t *testing.T) {
	n := &recordingNotifier{}
	p := &collector.MockProvider{Bars: map[string][]model.RawBar{"AAPL": bars(100.0, 95.0)}}
	report, err := newTestAnalyzer(p, n, 1).Run(context.Background(), request(model.StrategyThreshold, "", "AAPL"))
	if err != nil {
		t.Fatal(err)
	}
	if got := report.Summaries[0].Dispatch; got != model.Skipped(model.SkipNoRecipient) {
		t.Errorf("dispatch = %s", got)
	}
	if n.count() != 0 {
		t.Error("notifier called without recipient")
	}
}

func TestRun_CrossoverInsufficient(t *testing.T) {
	for _, recipient := range []string{"", "ops@example.com"} {
		n := &recordingNotifier{}
		p := &collector.MockProvider{Bars: map[string][]model.RawBar{"AAPL": bars(100.0, 95.0)}}
		report, err := newTestAnalyzer(p, n, 1).Run(context.Background(), request(model.StrategyCrossover, recipient, "AAPL"))
		if err != nil {
			t.Fatal(err)
		}
		s := report.Summaries[0]
		if s.Decision.Signal != model.SignalInsufficientData {
			t.Errorf("recipient %q: signal = %s, want INSUFFICIENT_DATA", recipient, s.Decision.Signal)
		}
		if s.Dispatch != model.Skipped(model.SkipInsufficientData) {
			t.Errorf("recipient %q: dispatch = %s", recipient, s.Dispatch)
		}
		if n.count() != 0 {
			t.Errorf("recipient %q: notifier called", recipient)
		}
	}
}

func TestRun_CrossoverGoldenCross(t *testing.T) {
	n := &recordingNotifier{}
	p := &collector.MockProvider{Bars: map[string][]model.RawBar{"MSFT": risingThenFalling()}}
	report, err := newTestAnalyzer(p, n, 1).Run(context.Background(), request(model.StrategyCrossover, "ops@example.com", "MSFT"))
	if err != nil {
		t.Fatal(err)
	}
	s := report.Summaries[0]
	if s.Indicators.SMA20 == nil || s.Indicators.SMA50 == nil || *s.Indicators.SMA20 <= *s.Indicators.SMA50 {
		t.Fatalf("expected SMA20 > SMA50, got %v / %v", s.Indicators.SMA20, s.Indicators.SMA50)
	}
	if s.Decision.Signal != model.SignalBuy {
		t.Errorf("signal = %s, want BUY", s.Decision.Signal)
	}
	if s.Dispatch != model.Sent || n.count() != 1 {
		t.Errorf("dispatch = %s, calls = %d", s.Dispatch, n.count())
	}
	if s.Decision.RSIStatus == model.RSIUnknown {
		t.Error("RSI status should be reported once RSI is available")
	}
}

func TestRun_IsolatesFailures(t *testing.T) {
	n := &recordingNotifier{}
	p := &collector.MockProvider{
		Bars: map[string][]model.RawBar{
			"GOOD":  bars(100.0, 103.0),
			"EMPTY": bars(nil, "n/a"),
			"ZERO":  bars(0.0, 5.0),
		},
		Err: map[string]error{"BAD": errors.New("symbol not found")},
	}
	symbols := []string{"BAD", "GOOD", "EMPTY", "ZERO"}
	report, err := newTestAnalyzer(p, n, 4).Run(context.Background(), request(model.StrategyThreshold, "ops@example.com", symbols...))
	if err != nil {
		t.Fatal(err)
	}

	want := []struct {
		status model.SummaryStatus
		kind   string
	}{
		{model.StatusSkipped, model.KindDataUnavailable},
		{model.StatusOK, ""},
		{model.StatusSkipped, model.KindEmptyOrInvalidData},
		{model.StatusSkipped, model.KindDegenerateInput},
	}
	for i, w := range want {
		s := report.Summaries[i]
		if s.Symbol != symbols[i] {
			t.Errorf("summary %d symbol = %s, want %s", i, s.Symbol, symbols[i])
		}
		if s.Status != w.status || s.ErrorKind != w.kind {
			t.Errorf("%s: status = %s kind = %q, want %s %q", s.Symbol, s.Status, s.ErrorKind, w.status, w.kind)
		}
		if s.Status == model.StatusSkipped && len(s.Warnings) == 0 {
			t.Errorf("%s: skipped without warning", s.Symbol)
		}
	}
	if report.Summaries[1].Decision.Signal != model.SignalBuy {
		t.Errorf("GOOD signal = %s, want BUY", report.Summaries[1].Decision.Signal)
	}
	if n.count() != 1 {
		t.Errorf("notifier calls = %d, want 1", n.count())
	}
}

func TestRun_NotifierFailureIsReported(t *testing.T) {
	n := &recordingNotifier{err: errors.New("smtp: connection refused")}
	p := &collector.MockProvider{Bars: map[string][]model.RawBar{
		"A": bars(100.0, 95.0),
		"B": bars(100.0, 110.0),
	}}
	report, err := newTestAnalyzer(p, n, 2).Run(context.Background(), request(model.StrategyThreshold, "ops@example.com", "A", "B"))
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range report.Summaries {
		if s.Dispatch.Status != model.DispatchFailed {
			t.Errorf("%s: dispatch = %s, want Failed", s.Symbol, s.Dispatch)
		}
		if !strings.Contains(s.Dispatch.Reason, "connection refused") {
			t.Errorf("%s: reason = %q", s.Symbol, s.Dispatch.Reason)
		}
		if len(s.Warnings) != 1 {
			t.Errorf("%s: warnings = %v", s.Symbol, s.Warnings)
		}
	}
	if report.Summaries[0].Decision.Signal != model.SignalSell || report.Summaries[1].Decision.Signal != model.SignalBuy {
		t.Error("notifier failure changed the computed signal")
	}
}

func TestRun_Idempotent(t *testing.T) {
	p := &collector.MockProvider{Price: 80}
	a := newTestAnalyzer(p, &recordingNotifier{}, 3)
	a.cfg.IncludeChart = true
	req := request(model.StrategyCrossover, "ops@example.com", "AAA", "BBB", "CCC")

	first, err := a.Run(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Run(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if first.RunID == second.RunID {
		t.Error("run ids should differ")
	}

	b1, _ := json.Marshal(first.Summaries)
	b2, _ := json.Marshal(second.Summaries)
	if string(b1) != string(b2) {
		t.Error("summaries differ between identical runs")
	}
	if len(first.Summaries[0].Chart) == 0 {
		t.Error("chart requested but empty")
	}
}

func TestRun_PreservesOrder(t *testing.T) {
	var symbols []string
	for _, c := range "ABCDEFGHIJKLMNOP" {
		symbols = append(symbols, string(c))
	}
	p := &collector.MockProvider{Price: 10}
	report, err := newTestAnalyzer(p, &recordingNotifier{}, 3).Run(context.Background(), request(model.StrategySimple, "", symbols...))
	if err != nil {
		t.Fatal(err)
	}
	for i, s := range report.Summaries {
		if s.Symbol != symbols[i] {
			t.Fatalf("summary %d = %s, want %s", i, s.Symbol, symbols[i])
		}
	}
}

type panicProvider struct{}

func (panicProvider) Name() string { return "panic" }
func (panicProvider) Fetch(context.Context, string, time.Time, time.Time) (*model.RawSeries, error) {
	panic("boom")
}

func TestRun_RecoversPanic(t *testing.T) {
	report, err := newTestAnalyzer(panicProvider{}, &recordingNotifier{}, 1).Run(context.Background(), request(model.StrategySimple, "", "X"))
	if err != nil {
		t.Fatal(err)
	}
	s := report.Summaries[0]
	if s.Status != model.StatusSkipped || s.ErrorKind != model.KindInternal {
		t.Errorf("summary = %+v", s)
	}
}

func TestRun_InvalidRequest(t *testing.T) {
	a := newTestAnalyzer(&collector.MockProvider{}, &recordingNotifier{}, 1)
	if _, err := a.Run(context.Background(), request(model.StrategySimple, "")); err == nil {
		t.Error("expected error for empty symbol list")
	}
}

func TestAnalyzeSeries_SimpleDirection(t *testing.T) {
	raw := &model.RawSeries{Symbol: "X", HasClose: true, Bars: bars(10.0, 10.0)}
	an, err := AnalyzeSeries("X", raw, mustStrategy(t, model.StrategySimple))
	if err != nil {
		t.Fatal(err)
	}
	if an.Decision.Label != string(model.DirectionFlat) {
		t.Errorf("label = %s, want FLAT", an.Decision.Label)
	}
	evt := an.Event(model.StrategySimple)
	if evt.Symbol != "X" || evt.LatestClose != 10 || !evt.Timestamp.Equal(testStart.AddDate(0, 0, 1)) {
		t.Errorf("event = %+v", evt)
	}
}
