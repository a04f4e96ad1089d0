package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Calendar CalendarConfig `mapstructure:"calendar"`
	Forecast ForecastConfig `mapstructure:"forecast"`
	Server   ServerConfig   `mapstructure:"server"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// CalendarConfig holds calendar feed configuration
type CalendarConfig struct {
	FeedURL             string        `mapstructure:"feed_url"`
	SyncInterval        time.Duration `mapstructure:"sync_interval"`
	LookbackDays        int           `mapstructure:"lookback_days"`
	LookaheadDays       int           `mapstructure:"lookahead_days"`
	Limit               int           `mapstructure:"limit"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRetries          int           `mapstructure:"max_retries"`
	RetryDelayBase      time.Duration `mapstructure:"retry_delay_base"`
	MaxIdleConns        int           `mapstructure:"max_idle_conns"`
	MaxIdleConnsPerHost int           `mapstructure:"max_idle_conns_per_host"`
	IdleConnTimeout     time.Duration `mapstructure:"idle_conn_timeout"`
}

// ForecastConfig holds forecast behavior configuration
type ForecastConfig struct {
	Timeframe string `mapstructure:"timeframe"` // week, month, quarter
}

// ServerConfig holds the HTTP API configuration
type ServerConfig struct {
	Addr    string `mapstructure:"addr"`
	Enabled bool   `mapstructure:"enabled"`
}

// TelegramConfig holds Telegram notification configuration
type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	Enabled        bool          `mapstructure:"enabled"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// StorageConfig holds storage and persistence configuration
type StorageConfig struct {
	MaxEvents int    `mapstructure:"max_events"`
	DBPath    string `mapstructure:"db_path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix("SPENDCAL")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Calendar defaults
	v.SetDefault("calendar.sync_interval", "15m")
	v.SetDefault("calendar.lookback_days", 0)
	v.SetDefault("calendar.lookahead_days", 90)
	v.SetDefault("calendar.limit", 2500)
	v.SetDefault("calendar.timeout", "30s")
	v.SetDefault("calendar.max_retries", 3)
	v.SetDefault("calendar.retry_delay_base", "1s")
	v.SetDefault("calendar.max_idle_conns", 10)
	v.SetDefault("calendar.max_idle_conns_per_host", 10)
	v.SetDefault("calendar.idle_conn_timeout", "90s")

	// Forecast defaults
	v.SetDefault("forecast.timeframe", "week")

	// Server defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.enabled", true)

	// Telegram defaults
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	// Storage defaults
	v.SetDefault("storage.max_events", 5000)
	v.SetDefault("storage.db_path", "./data/spendcal.db")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate Calendar config
	if c.Calendar.FeedURL == "" {
		return fmt.Errorf("calendar.feed_url is required")
	}
	if c.Calendar.SyncInterval < 1*time.Minute {
		return fmt.Errorf("calendar.sync_interval must be at least 1 minute")
	}
	if c.Calendar.LookbackDays < 0 {
		return fmt.Errorf("calendar.lookback_days must not be negative")
	}
	if c.Calendar.LookaheadDays < 1 {
		return fmt.Errorf("calendar.lookahead_days must be at least 1")
	}
	if c.Calendar.Limit < 1 || c.Calendar.Limit > 10000 {
		return fmt.Errorf("calendar.limit must be between 1 and 10000")
	}
	if c.Calendar.Timeout < 1*time.Second {
		return fmt.Errorf("calendar.timeout must be at least 1 second")
	}
	if c.Calendar.MaxRetries < 1 {
		return fmt.Errorf("calendar.max_retries must be at least 1")
	}

	// Validate Forecast config
	validTimeframes := map[string]bool{"week": true, "month": true, "quarter": true}
	if !validTimeframes[c.Forecast.Timeframe] {
		return fmt.Errorf("forecast.timeframe must be one of: week, month, quarter")
	}

	// Validate Server config
	if c.Server.Enabled && c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required when server is enabled")
	}

	// Validate Telegram config
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	// Validate Storage config
	if c.Storage.MaxEvents < 1 {
		return fmt.Errorf("storage.max_events must be at least 1")
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
