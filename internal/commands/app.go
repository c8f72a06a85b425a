package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"PriceSentinel/internal/collector"
	"PriceSentinel/internal/config"
	"PriceSentinel/internal/dispatcher"
	"PriceSentinel/internal/logger"
	"PriceSentinel/internal/metrics"
	"PriceSentinel/internal/notifier"
	"PriceSentinel/internal/pipeline"
	"PriceSentinel/internal/store"
	"PriceSentinel/internal/strategy"
)

// app bundles the collaborators built from config.
type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	store    store.Store
	notifier notifier.Notifier
	analyzer *pipeline.Analyzer
}

func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}

func newApp(cfg *config.Config, log *logrus.Logger, m *metrics.Metrics) (*app, error) {
	a := &app{cfg: cfg, log: log}

	a.store = store.NewNoopStore()
	if cfg.Cache.SQLitePath != "" {
		st, err := store.NewSQLiteStore(cfg.Cache.SQLitePath, logger.Component(log, "store"))
		if err != nil {
			log.WithError(err).Warn("init sqlite cache failed, running without cache")
		} else {
			a.store = st
		}
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Cache.SQLitePath != "" {
		provider = collector.NewCachedProvider(provider, a.store, cfg.Cache.TTL, logger.Component(log, "cache"))
	}
	log.Infof("data source: %s", provider.Name())

	n, err := buildNotifier(cfg, log)
	if err != nil {
		return nil, err
	}
	a.notifier = n

	a.analyzer = pipeline.New(pipeline.Config{
		Provider:   provider,
		Dispatcher: dispatcher.New(n, logger.Component(log, "dispatcher")),
		Metrics:    m,
		Options: strategy.Options{
			ThresholdPercent: cfg.Analysis.ThresholdPercent,
			Overbought:       cfg.Analysis.RSIOverbought,
			Oversold:         cfg.Analysis.RSIOversold,
		},
		Workers:      cfg.Analysis.Workers,
		IncludeChart: cfg.Analysis.IncludeChart,
		Log:          logger.Component(log, "pipeline"),
	})
	return a, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func buildProvider(cfg *config.Config) (collector.Provider, error) {
	ds := cfg.DataSource
	switch strings.ToLower(ds.Provider) {
	case "yahoo":
		return collector.NewYahooProvider(cfg.Proxy, ds.Timeout), nil
	case "vstrader":
		return collector.NewVsTraderProvider(ds.BaseURL, ds.APIKey, cfg.Proxy, ds.Timeout), nil
	case "mock":
		return &collector.MockProvider{Price: 100}, nil
	default:
		return nil, fmt.Errorf("unsupported data provider %q", ds.Provider)
	}
}

func buildNotifier(cfg *config.Config, log *logrus.Logger) (notifier.Notifier, error) {
	var n notifier.Notifier
	switch strings.ToLower(cfg.Notifier.Kind) {
	case "log":
		return notifier.NewLogNotifier(logger.Component(log, "notifier")), nil
	case "email":
		n = notifier.NewEmailNotifier(cfg.Email)
	case "telegram":
		n = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	case "webhook":
		n = notifier.NewWebhookNotifier(cfg.Webhook.URL, cfg.Webhook.Username)
	default:
		return nil, fmt.Errorf("unsupported notifier %q", cfg.Notifier.Kind)
	}
	return notifier.WithRetry(n, cfg.Notifier.MaxRetries, 2*time.Second, logger.Component(log, "notifier")), nil
}
