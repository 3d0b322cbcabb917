package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the client core.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig points the client at the backend.
type APIConfig struct {
	// BaseURL is the configured API root. It may or may not carry the
	// /api/v1 suffix; the client appends it when missing.
	BaseURL string `mapstructure:"base_url"`

	// Timeout bounds every request round trip.
	Timeout time.Duration `mapstructure:"timeout"`

	// FeedPageSize is the per_page value for feed requests.
	FeedPageSize int `mapstructure:"feed_page_size"`

	// CommentPageSize is the per_page value when walking comment pages.
	CommentPageSize int `mapstructure:"comment_page_size"`
}

// CacheConfig locates the on-disk key-value cache.
type CacheConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load loads configuration from file and environment variables.
// Priority: ENV vars > config.yaml > defaults.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	viper.SetEnvPrefix("WODSOCIAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("api.timeout", "12s")
	viper.SetDefault("api.feed_page_size", 20)
	viper.SetDefault("api.comment_page_size", 50)

	viper.SetDefault("cache.path", "./data/cache")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

func validate(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute URL, got: %s", cfg.API.BaseURL)
	}

	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got: %s", cfg.API.Timeout)
	}
	if cfg.API.FeedPageSize < 1 {
		return fmt.Errorf("api.feed_page_size must be at least 1, got: %d", cfg.API.FeedPageSize)
	}
	if cfg.API.CommentPageSize < 1 {
		return fmt.Errorf("api.comment_page_size must be at least 1, got: %d", cfg.API.CommentPageSize)
	}

	if cfg.Cache.Path == "" {
		return fmt.Errorf("cache.path is required")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error, got: %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" && cfg.Logging.Format != "text" {
		return fmt.Errorf("logging.format must be 'json' or 'text', got: %s", cfg.Logging.Format)
	}

	return nil
}
