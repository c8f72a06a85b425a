// Package scheduler runs recurring analyses and answers chat commands.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"PriceSentinel/internal/logger"
	"PriceSentinel/internal/model"
	"PriceSentinel/internal/notifier"
	"PriceSentinel/internal/pipeline"
	"PriceSentinel/internal/strategy"
)

// Runner executes one analysis request.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Report, error)
}

// Pruner drops stale cache entries.
type Pruner interface {
	Prune(ctx context.Context, maxAge time.Duration) (int64, error)
}

// Watch describes the recurring analysis.
type Watch struct {
	Symbols      []string
	Recipient    string
	Strategy     model.StrategyKind
	LookbackDays int
	CacheTTL     time.Duration // prune horizon when a Pruner is set
}

// Scheduler manages the cron tasks.
type Scheduler struct {
	Cron   *cron.Cron
	Runner Runner
	Pruner Pruner // optional
	Watch  Watch
	Ctx    context.Context

	log *logrus.Entry
	now func() time.Time
}

// NewScheduler creates a scheduler. Cron specs include a seconds field.
func NewScheduler(ctx context.Context, runner Runner, watch Watch, log *logrus.Entry) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	cl := cron.PrintfLogger(log)
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		Runner: runner,
		Watch:  watch,
		Ctx:    ctx,
		log:    log,
		now:    time.Now,
	}
}

// RegisterAll registers the watch task and, with a Pruner, nightly cache pruning.
func (s *Scheduler) RegisterAll(watchCron string) error {
	if _, err := s.Cron.AddFunc(watchCron, s.watchTask); err != nil {
		return fmt.Errorf("register watch task: %w", err)
	}
	if s.Pruner != nil {
		if _, err := s.Cron.AddFunc("0 0 3 * * *", s.pruneTask); err != nil {
			return fmt.Errorf("register prune task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunNow executes the watch task immediately.
func (s *Scheduler) RunNow() {
	s.watchTask()
}

// window returns [yesterday - lookback, yesterday].
func (s *Scheduler) window() (time.Time, time.Time) {
	end := pipeline.Yesterday(s.now())
	lookback := s.Watch.LookbackDays
	if lookback < 1 {
		lookback = 1
	}
	return end.AddDate(0, 0, -lookback), end
}

func (s *Scheduler) watchTask() {
	start, end := s.window()
	req := pipeline.Request{
		Symbols:   s.Watch.Symbols,
		Start:     start,
		End:       end,
		Recipient: s.Watch.Recipient,
		Strategy:  s.Watch.Strategy,
	}
	s.log.Infof("running watch task for %s", strings.Join(req.Symbols, ","))

	report, err := s.Runner.Run(s.Ctx, req)
	if err != nil {
		s.log.WithError(err).Error("watch task failed")
		return
	}

	var ok, skipped, sent int
	for _, sum := range report.Summaries {
		if sum.Status == model.StatusSkipped {
			skipped++
			continue
		}
		ok++
		if sum.Dispatch.Status == model.DispatchSent {
			sent++
		}
	}
	s.log.WithField("run_id", report.RunID).Infof("watch task done: %d ok, %d skipped, %d alerts sent", ok, skipped, sent)
}

func (s *Scheduler) pruneTask() {
	ttl := s.Watch.CacheTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	n, err := s.Pruner.Prune(s.Ctx, ttl)
	if err != nil {
		s.log.WithError(err).Error("prune cache")
		return
	}
	s.log.Infof("pruned %d stale cache entries", n)
}

const helpText = `Available commands:
/analyze SYMBOLS [STRATEGY]  analyze comma-separated symbols (default: watch list)
/watchlist                   show the watch list
/help                        show this message`

// HandleCommand processes a chat command and returns the reply. Command
// analyses never dispatch alerts; the reply is the report.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	// Telegram appends @botname in group chats.
	name := strings.ToLower(strings.SplitN(fields[0], "@", 2)[0])

	switch name {
	case "/analyze":
		return s.analyzeCommand(ctx, fields[1:])
	case "/watchlist":
		if len(s.Watch.Symbols) == 0 {
			return "watch list is empty"
		}
		return fmt.Sprintf("watch list (%s): %s", s.Watch.Strategy, strings.Join(s.Watch.Symbols, ", "))
	default:
		return helpText
	}
}

func (s *Scheduler) analyzeCommand(ctx context.Context, args []string) string {
	symbols := s.Watch.Symbols
	kind := s.Watch.Strategy
	if len(args) > 1 {
		if k, err := strategy.Parse(args[len(args)-1]); err == nil {
			kind = k
			args = args[:len(args)-1]
		}
	}
	if len(args) > 0 {
		symbols = pipeline.ParseSymbols(strings.Join(args, ","))
	}

	start, end := s.window()
	report, err := s.Runner.Run(ctx, pipeline.Request{Symbols: symbols, Start: start, End: end, Strategy: kind})
	if err != nil {
		return err.Error()
	}
	return notifier.FormatReport(report.Summaries)
}
