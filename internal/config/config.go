package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"TELEGRAM_TOKEN"`
	AdminID int64  `yaml:"admin_id" envconfig:"TELEGRAM_ADMIN_ID"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// FTPConfig describes the remote storage endpoint photos are pushed to.
type FTPConfig struct {
	Addr     string        `yaml:"addr" envconfig:"FTP_ADDR"`
	User     string        `yaml:"user" envconfig:"FTP_USER"`
	Password string        `yaml:"password" envconfig:"FTP_PASSWORD"`
	Timeout  time.Duration `yaml:"timeout" envconfig:"FTP_TIMEOUT"`
}

// FeedbackConfig points at the broadcast destination for anonymous feedback.
type FeedbackConfig struct {
	Chat string `yaml:"chat" envconfig:"FEEDBACK_CHAT"`
}

// UploadConfig tunes the upload pipeline.
type UploadConfig struct {
	// TempDir is where photo bytes are spooled before transfer; empty -> os.TempDir.
	TempDir string `yaml:"temp_dir" envconfig:"UPLOAD_TEMP_DIR"`
	// EscalationContact is named in the failure notice sent to users.
	EscalationContact string `yaml:"escalation_contact" envconfig:"UPLOAD_ESCALATION_CONTACT"`
}

// MetricsConfig controls the optional Prometheus endpoint.
type MetricsConfig struct {
	Listen string `yaml:"listen" envconfig:"METRICS_LISTEN"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir"`
	BotFile     string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

// RateLimitConfig holds settings for rate limiting.
type RateLimitConfig struct {
	IntervalMS int `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	// ExcludeUpdates lists update kinds exempt from rate limiting,
	// e.g. "callback" so inline cancel taps are never throttled.
	ExcludeUpdates []string `yaml:"exclude_updates"`
}

// Config aggregates the full bot configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	FTP       FTPConfig       `yaml:"ftp"`
	Feedback  FeedbackConfig  `yaml:"feedback"`
	Upload    UploadConfig    `yaml:"upload"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}
	if strings.TrimSpace(cfg.FTP.Addr) == "" {
		return fmt.Errorf("ftp.addr is required")
	}
	if !strings.Contains(cfg.FTP.Addr, ":") {
		cfg.FTP.Addr += ":21"
	}
	if cfg.FTP.User == "" {
		cfg.FTP.User = "anonymous"
		if cfg.FTP.Password == "" {
			cfg.FTP.Password = "anonymous"
		}
	}
	if cfg.FTP.Timeout <= 0 {
		cfg.FTP.Timeout = 30 * time.Second
	}
	if strings.TrimSpace(cfg.Feedback.Chat) == "" {
		return fmt.Errorf("feedback.chat is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	if cfg.RateLimit.IntervalMS < 0 {
		return fmt.Errorf("rate_limit.interval_ms must be >= 0")
	}
	return nil
}
