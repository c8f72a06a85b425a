package pipeline

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"PriceSentinel/internal/collector"
	"PriceSentinel/internal/dispatcher"
	"PriceSentinel/internal/logger"
	"PriceSentinel/internal/metrics"
	"PriceSentinel/internal/model"
	"PriceSentinel/internal/strategy"
)

// Config wires an Analyzer. Provider is required; without a Dispatcher every
// alert fails.
type Config struct {
	Provider     collector.Provider
	Dispatcher   *dispatcher.Dispatcher
	Metrics      *metrics.Metrics // optional
	Options      strategy.Options
	Workers      int
	IncludeChart bool
	Log          *logrus.Entry
}

// Analyzer runs requests over a bounded pool of workers.
type Analyzer struct {
	cfg Config
	log *logrus.Entry
	now func() time.Time
}

// Report is the outcome of one Run. Summaries are in request order.
type Report struct {
	RunID     string          `json:"run_id"`
	Summaries []model.Summary `json:"summaries"`
}

// New creates an Analyzer.
func New(cfg Config) *Analyzer {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Dispatcher == nil {
		cfg.Dispatcher = dispatcher.New(nil, log)
	}
	return &Analyzer{cfg: cfg, log: log, now: time.Now}
}

// Run validates req and analyzes every symbol. Per-symbol failures are
// reported in the summaries; only an invalid request returns an error.
func (a *Analyzer) Run(ctx context.Context, req Request) (*Report, error) {
	if err := req.Validate(a.now()); err != nil {
		return nil, err
	}
	strat, err := strategy.New(req.Strategy, a.cfg.Options)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	report := &Report{RunID: uuid.NewString(), Summaries: make([]model.Summary, len(req.Symbols))}
	log := a.log.WithFields(logrus.Fields{"run_id": report.RunID, "strategy": strat.Kind()})
	log.Infof("analyzing %d symbols from %s to %s", len(req.Symbols), req.Start.Format(dateLayout), req.End.Format(dateLayout))

	var g errgroup.Group
	g.SetLimit(a.cfg.Workers)
	for i, symbol := range req.Symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			report.Summaries[i] = a.analyzeSymbol(ctx, symbol, req, strat, log.WithField("symbol", symbol))
			return nil
		})
	}
	_ = g.Wait()

	a.cfg.Metrics.ObserveRun(time.Since(started))
	log.Infof("run finished in %v", time.Since(started).Round(time.Millisecond))
	return report, nil
}

// analyzeSymbol never panics and never returns an error: every failure is
// folded into a skipped summary.
func (a *Analyzer) analyzeSymbol(ctx context.Context, symbol string, req Request, strat strategy.Strategy, log *logrus.Entry) (sum model.Summary) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("stack", string(debug.Stack())).Errorf("panic: %v", r)
			sum = skipped(symbol, strat.Kind(), model.KindInternal, fmt.Sprintf("internal error: %v", r))
		}
		outcome := "ok"
		if sum.Status == model.StatusSkipped {
			outcome = sum.ErrorKind
		}
		a.cfg.Metrics.ObserveSymbol(outcome)
	}()

	fetchStart := time.Now()
	raw, err := a.cfg.Provider.Fetch(ctx, symbol, req.Start, req.End)
	a.cfg.Metrics.ObserveFetch(time.Since(fetchStart))
	if err != nil {
		return a.fail(symbol, strat, err, log)
	}

	an, err := AnalyzeSeries(symbol, raw, strat)
	if err != nil {
		return a.fail(symbol, strat, err, log)
	}

	sum = an.Summary(strat.Kind(), a.cfg.IncludeChart)
	a.cfg.Metrics.ObserveSignal(string(strat.Kind()), string(sum.Decision.Signal))

	sum.Dispatch = a.cfg.Dispatcher.Dispatch(ctx, an.Event(strat.Kind()), strat, req.Recipient)
	a.cfg.Metrics.ObserveDispatch(string(sum.Dispatch.Status))
	if sum.Dispatch.Status == model.DispatchFailed {
		sum.Warnings = append(sum.Warnings, "notification failed: "+sum.Dispatch.Reason)
	}

	log.WithFields(logrus.Fields{
		"signal":   sum.Decision.Signal,
		"dispatch": sum.Dispatch.String(),
	}).Info("symbol analyzed")
	return sum
}

func (a *Analyzer) fail(symbol string, strat strategy.Strategy, err error, log *logrus.Entry) model.Summary {
	kind := model.KindOf(err)
	log.WithError(err).Warnf("symbol skipped: %s", kind)
	return skipped(symbol, strat.Kind(), kind, err.Error())
}

func skipped(symbol string, kind model.StrategyKind, errKind, warning string) model.Summary {
	return model.Summary{
		Symbol:    symbol,
		Status:    model.StatusSkipped,
		ErrorKind: errKind,
		Warnings:  []string{warning},
		Strategy:  kind,
	}
}
