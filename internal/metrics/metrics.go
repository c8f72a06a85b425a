// Package metrics exposes Prometheus counters for analysis runs.
package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"PriceSentinel/internal/logger"
)

// Metrics holds the analysis counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	SymbolsTotal  *prometheus.CounterVec // labels: outcome
	SignalsTotal  *prometheus.CounterVec // labels: strategy, signal
	DispatchTotal *prometheus.CounterVec // labels: status
	FetchDur      prometheus.Histogram
	RunDur        prometheus.Histogram

	mu      sync.RWMutex
	lastRun time.Time
	started time.Time
}

// New creates the metrics on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		started:  time.Now(),
		SymbolsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_symbols_total",
			Help: "Symbols analyzed, by outcome (ok or error kind)",
		}, []string{"outcome"}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_signals_total",
			Help: "Signals generated, by strategy and signal",
		}, []string{"strategy", "signal"}),
		DispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_dispatch_total",
			Help: "Alert dispatch outcomes",
		}, []string{"status"}),
		FetchDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentinel_fetch_duration_seconds",
			Help:    "Market data fetch latency per symbol",
			Buckets: prometheus.DefBuckets,
		}),
		RunDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentinel_run_duration_seconds",
			Help:    "Wall time of one analysis invocation",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}

	m.registry.MustRegister(
		m.SymbolsTotal,
		m.SignalsTotal,
		m.DispatchTotal,
		m.FetchDur,
		m.RunDur,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) ObserveSymbol(outcome string) {
	if m == nil {
		return
	}
	m.SymbolsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveSignal(strategy, signal string) {
	if m == nil {
		return
	}
	m.SignalsTotal.WithLabelValues(strategy, signal).Inc()
}

func (m *Metrics) ObserveDispatch(status string) {
	if m == nil {
		return
	}
	m.DispatchTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDur.Observe(d.Seconds())
}

// ObserveRun records a finished invocation and its wall time.
func (m *Metrics) ObserveRun(d time.Duration) {
	if m == nil {
		return
	}
	m.RunDur.Observe(d.Seconds())
	m.mu.Lock()
	m.lastRun = time.Now()
	m.mu.Unlock()
}

// Registry returns the registry backing the metrics.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves /metrics and /healthz.
func (m *Metrics) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", m.serveHealth)
	return mux
}

func (m *Metrics) serveHealth(w http.ResponseWriter, _ *http.Request) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := struct {
		Status  string `json:"status"`
		Uptime  string `json:"uptime"`
		LastRun string `json:"last_run,omitempty"`
	}{
		Status: "healthy",
		Uptime: time.Since(m.started).Round(time.Second).String(),
	}
	if !m.lastRun.IsZero() {
		status.LastRun = m.lastRun.Format(time.RFC3339)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// Serve runs the metrics HTTP server until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, log *logrus.Entry) error {
	if log == nil {
		log = logger.Nop()
	}
	srv := &http.Server{Addr: addr, Handler: m.Handler(), ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Infof("metrics server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
