// Package config loads the settings of the pcs command.
//
// Values come, by increasing priority, from defaults, a folio.yaml file, a
// .env file and FOLIO_ prefixed environment variables (FOLIO_PRICE_URL sets
// price.url).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/bourse"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	Portfolio PortfolioConfig `mapstructure:"portfolio"`
	Price     PriceConfig     `mapstructure:"price"`
	Log       LogConfig       `mapstructure:"log"`
}

type PortfolioConfig struct {
	Name     string `mapstructure:"name"`
	Currency string `mapstructure:"currency"`
}

type PriceConfig struct {
	URL          string        `mapstructure:"url"`
	LookbackDays int           `mapstructure:"lookback_days"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Rate         float64       `mapstructure:"rate"`      // requests per second, 0 is unlimited
	CacheTTL     time.Duration `mapstructure:"cache_ttl"` // 0 disables the cache
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

var defaults = map[string]any{
	"portfolio.name":      "default",
	"portfolio.currency":  "USD",
	"price.url":           bourse.DefaultURL,
	"price.lookback_days": bourse.DefaultLookback,
	"price.timeout":       bourse.DefaultTimeout,
	"price.rate":          0.0,
	"price.cache_ttl":     time.Duration(0),
	"log.level":           "warn",
}

// Load reads the configuration from the directory path.
// Both folio.yaml and .env are optional.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cannot load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AddConfigPath(path)
	v.SetConfigName("folio")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("cannot read configuration: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot decode configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Portfolio.Currency = strings.ToUpper(c.Portfolio.Currency)
	if !folio.IsCurrency(c.Portfolio.Currency) {
		return fmt.Errorf("portfolio.currency: unknown currency %q", c.Portfolio.Currency)
	}
	if c.Price.LookbackDays < 0 {
		return fmt.Errorf("price.lookback_days must be non-negative, got %d", c.Price.LookbackDays)
	}
	if c.Price.Rate < 0 {
		return fmt.Errorf("price.rate must be non-negative, got %v", c.Price.Rate)
	}
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// LogLevel returns the zerolog level named by log.level.
func (c *Config) LogLevel() (zerolog.Level, error) {
	return zerolog.ParseLevel(strings.ToLower(c.Log.Level))
}

// Oracle returns the price client configuration.
func (c *Config) Oracle() bourse.Config {
	return bourse.Config{
		BaseURL:  c.Price.URL,
		Currency: c.Portfolio.Currency,
		Lookback: c.Price.LookbackDays,
		Timeout:  c.Price.Timeout,
		Rate:     c.Price.Rate,
	}
}
