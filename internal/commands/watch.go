package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"PriceSentinel/internal/logger"
	"PriceSentinel/internal/metrics"
	"PriceSentinel/internal/notifier"
	"PriceSentinel/internal/pipeline"
	"PriceSentinel/internal/scheduler"
	"PriceSentinel/internal/strategy"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the analysis on a cron schedule",
	Long: `Run the configured watch list on the watch.cron schedule until interrupted.

When telegram.commands is enabled the bot also answers /analyze, /watchlist and
/help. When metrics.listen_addr is set, /metrics and /healthz are served.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Bool("run-now", false, "run the watch task once at startup")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	log.Info("sentinel watch starting")

	m := metrics.New()
	a, err := newApp(cfg, log, m)
	if err != nil {
		return err
	}
	defer a.Close()

	kind, err := strategy.Parse(cfg.Analysis.Strategy)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(ctx, a.analyzer, scheduler.Watch{
		Symbols:      pipeline.ParseSymbols(cfg.Watch.Symbols),
		Recipient:    cfg.Watch.Recipient,
		Strategy:     kind,
		LookbackDays: cfg.Analysis.LookbackDays,
		CacheTTL:     cfg.Cache.TTL,
	}, logger.Component(log, "scheduler"))
	if p, ok := a.store.(scheduler.Pruner); ok {
		sched.Pruner = p
	}
	if err := sched.RegisterAll(cfg.Watch.Cron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if cfg.Metrics.ListenAddr != "" {
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.ListenAddr, logger.Component(log, "metrics")); err != nil {
				log.WithError(err).Error("metrics server failed")
			}
		}()
	}

	if cfg.Telegram.Commands && cfg.Telegram.BotToken != "" {
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		go tn.StartPolling(ctx, sched.HandleCommand, logger.Component(log, "telegram"))
		log.Info("telegram polling started")
	}

	if runNow, _ := cmd.Flags().GetBool("run-now"); runNow {
		log.Info("running watch task now")
		go sched.RunNow()
	}

	log.Info("sentinel is running. Press Ctrl+C to stop.")
	<-ctx.Done()
	log.Info("shutdown signal received, stopping...")
	return nil
}
