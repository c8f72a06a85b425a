package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"PriceSentinel/internal/strategy"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "configs/config.yaml"

// LoggingConfig selects log level, format and destination.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
	Output string `yaml:"output"` // stdout, stderr or a file path
}

// EmailConfig holds SMTP credentials. Loaded once and handed to the email notifier.
type EmailConfig struct {
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port"`
	Sender   string `yaml:"sender"`
	Password string `yaml:"password"`
}

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider string        `yaml:"provider"` // yahoo, vstrader or mock
		BaseURL  string        `yaml:"base_url"`
		APIKey   string        `yaml:"api_key"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Cache struct {
		SQLitePath string        `yaml:"sqlite_path"` // empty disables the cache
		TTL        time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	Analysis struct {
		Strategy         string  `yaml:"strategy"`
		Workers          int     `yaml:"workers"`
		LookbackDays     int     `yaml:"lookback_days"`
		ThresholdPercent float64 `yaml:"threshold_percent"`
		RSIOverbought    float64 `yaml:"rsi_overbought"`
		RSIOversold      float64 `yaml:"rsi_oversold"`
		IncludeChart     bool    `yaml:"include_chart"`
	} `yaml:"analysis"`
	Notifier struct {
		Kind       string `yaml:"kind"` // email, telegram, webhook or log
		MaxRetries int    `yaml:"max_retries"`
	} `yaml:"notifier"`
	Email    EmailConfig `yaml:"email"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
		Commands bool   `yaml:"commands"` // accept /analyze commands in watch mode
	} `yaml:"telegram"`
	Webhook struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
	} `yaml:"webhook"`
	Watch struct {
		Cron      string `yaml:"cron"`
		Symbols   string `yaml:"symbols"`
		Recipient string `yaml:"recipient"`
	} `yaml:"watch"`
	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
	Proxy   string        `yaml:"proxy"`
}

// Load reads .env, then the YAML file, then applies environment overrides and defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	envStr("EMAIL_SENDER", &c.Email.Sender)
	envStr("EMAIL_PASSWORD", &c.Email.Password)
	envStr("SMTP_HOST", &c.Email.SMTPHost)
	envInt("SMTP_PORT", &c.Email.SMTPPort)
	envStr("TELEGRAM_BOT_TOKEN", &c.Telegram.BotToken)
	envStr("TELEGRAM_CHAT_ID", &c.Telegram.ChatID)
	envStr("WEBHOOK_URL", &c.Webhook.URL)
	envStr("NOTIFIER", &c.Notifier.Kind)
	envStr("DATA_PROVIDER", &c.DataSource.Provider)
	envStr("VSTRADER_BASE_URL", &c.DataSource.BaseURL)
	envStr("VSTRADER_API_KEY", &c.DataSource.APIKey)
	envStr("HTTPS_PROXY", &c.Proxy)
	envStr("SQLITE_PATH", &c.Cache.SQLitePath)
	envStr("STRATEGY", &c.Analysis.Strategy)
	envInt("WORKERS", &c.Analysis.Workers)
	envStr("WATCH_CRON", &c.Watch.Cron)
	envStr("WATCH_SYMBOLS", &c.Watch.Symbols)
	envStr("ALERT_RECIPIENT", &c.Watch.Recipient)
	envStr("METRICS_ADDR", &c.Metrics.ListenAddr)
	envStr("LOG_LEVEL", &c.Logging.Level)
	envStr("LOG_FORMAT", &c.Logging.Format)
}

func (c *Config) applyDefaults() {
	if c.DataSource.Provider == "" {
		if c.DataSource.BaseURL != "" {
			c.DataSource.Provider = "vstrader"
		} else {
			c.DataSource.Provider = "yahoo"
		}
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 30 * time.Second
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 6 * time.Hour
	}
	if c.Analysis.Strategy == "" {
		c.Analysis.Strategy = "threshold"
	}
	if c.Analysis.Workers == 0 {
		c.Analysis.Workers = 4
	}
	if c.Analysis.LookbackDays == 0 {
		c.Analysis.LookbackDays = 120
	}
	if c.Analysis.ThresholdPercent == 0 {
		c.Analysis.ThresholdPercent = 2
	}
	if c.Analysis.RSIOverbought == 0 {
		c.Analysis.RSIOverbought = 70
	}
	if c.Analysis.RSIOversold == 0 {
		c.Analysis.RSIOversold = 30
	}
	if c.Notifier.Kind == "" {
		c.Notifier.Kind = "log"
	}
	if c.Notifier.MaxRetries == 0 {
		c.Notifier.MaxRetries = 2
	}
	if c.Email.SMTPHost == "" {
		c.Email.SMTPHost = "smtp.gmail.com"
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 465
	}
	if c.Watch.Cron == "" {
		c.Watch.Cron = "0 30 7 * * 1-5"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stderr"
	}
}

// Validate checks that the selected collaborators have what they need.
func (c *Config) Validate() error {
	var errs []string

	switch strings.ToLower(c.DataSource.Provider) {
	case "yahoo", "mock":
	case "vstrader":
		if c.DataSource.BaseURL == "" {
			errs = append(errs, "data_source.base_url is required for vstrader")
		}
	default:
		errs = append(errs, fmt.Sprintf("data_source.provider %q is not supported", c.DataSource.Provider))
	}

	switch strings.ToLower(c.Notifier.Kind) {
	case "log":
	case "email":
		if c.Email.Sender == "" || c.Email.Password == "" {
			errs = append(errs, "email.sender and email.password are required for the email notifier")
		}
	case "telegram":
		if c.Telegram.BotToken == "" {
			errs = append(errs, "telegram.bot_token is required for the telegram notifier")
		}
	case "webhook":
		if c.Webhook.URL == "" {
			errs = append(errs, "webhook.url is required for the webhook notifier")
		}
	default:
		errs = append(errs, fmt.Sprintf("notifier.kind %q is not supported", c.Notifier.Kind))
	}

	if _, err := strategy.Parse(c.Analysis.Strategy); err != nil {
		errs = append(errs, "analysis.strategy: "+err.Error())
	}
	if c.Analysis.Workers < 1 {
		errs = append(errs, "analysis.workers must be positive")
	}
	if c.Analysis.LookbackDays < 1 {
		errs = append(errs, "analysis.lookback_days must be positive")
	}
	if c.Notifier.MaxRetries < 0 {
		errs = append(errs, "notifier.max_retries must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func envStr(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
