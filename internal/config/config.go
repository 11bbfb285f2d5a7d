package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Env string `yaml:"env" default:"production" validate:"oneof=production development"`

	Strategy struct {
		Profile         string `yaml:"profile" default:"moderate" validate:"oneof=conservative moderate aggressive"`
		InitialBankroll int64  `yaml:"initial_bankroll" default:"100000" validate:"gt=0"`
	} `yaml:"strategy"`

	Fetcher struct {
		Kind string `yaml:"kind" default:"openapi" validate:"oneof=openapi mock"`
	} `yaml:"fetcher"`

	Database struct {
		SQLitePath string `yaml:"sqlite_path" default:"data/kyotei_sentinel.db"`
	} `yaml:"database"`

	Redis struct {
		Addr string `yaml:"addr"` // empty disables redis, memory cache is used
	} `yaml:"redis"`

	Telegram struct {
		BotToken string `yaml:"bot_token"` // empty disables notifications
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`

	HTTP struct {
		Port        int `yaml:"port" default:"8080" validate:"gt=0,lt=65536"`
		MetricsPort int `yaml:"metrics_port" default:"9090" validate:"gt=0,lt=65536"`
	} `yaml:"http"`

	Schedule struct {
		MorningCron string `yaml:"morning_cron" default:"0 0 6 * * *"`
		SettleCron  string `yaml:"settle_cron" default:"0 30 * * * *"`
		ReportCron  string `yaml:"report_cron" default:"0 0 23 * * *"`
	} `yaml:"schedule"`

	Proxy string `yaml:"proxy"`

	// FileMissing is set by Load when the config file did not exist and
	// the values above are pure defaults. main warns on it once the
	// logger is up.
	FileMissing bool `yaml:"-"`
}

// Load reads config from a YAML file, fills defaults and applies
// environment variable overrides. A missing file is not an error:
// the bot runs on pure defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		cfg.FileMissing = true
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	// Environment variable overrides
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("STRATEGY_PROFILE"); v != "" {
		cfg.Strategy.Profile = v
	}
	if v := os.Getenv("INITIAL_BANKROLL"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Strategy.InitialBankroll = n
		}
	}
	if v := os.Getenv("FETCHER_KIND"); v != "" {
		cfg.Fetcher.Kind = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	return cfg, nil
}

// Validate checks the loaded configuration against the struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when bot_token is set")
	}
	return nil
}
