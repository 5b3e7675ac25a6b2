package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full application configuration. Every tuned heuristic of the
// extraction pipeline lives here rather than in code: the keyword tables were
// tuned by trial, not derived from policy, and the same goes for the amount
// thresholds, so deployments must be able to adjust them.
type Config struct {
	Model      ModelConfig      `mapstructure:"model"`
	Validation ValidationConfig `mapstructure:"validation"`
	Search     SearchConfig     `mapstructure:"search"`
	BigQuery   BigQueryConfig   `mapstructure:"bigquery"`
	Storage    StorageConfig    `mapstructure:"storage"`
}

// ModelConfig configures the upstream completion model.
type ModelConfig struct {
	Name        string  `mapstructure:"name"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// ValidationConfig holds the sanity bounds and fallback defaults used by the
// domain validators.
type ValidationConfig struct {
	// MaxPlausibleAmount rejects bare numbers above this value during regex
	// fallback extraction; larger matches are likely reference numbers.
	MaxPlausibleAmount float64 `mapstructure:"max_plausible_amount"`

	// DefaultTransactionAmount is used when no amount can be recovered at all.
	DefaultTransactionAmount float64 `mapstructure:"default_transaction_amount"`

	// FutureWindowDays bounds how far in the future an extracted date may be.
	FutureWindowDays int `mapstructure:"future_window_days"`

	// PastYearWindow bounds how many full years in the past an extracted
	// date's year may be.
	PastYearWindow int `mapstructure:"past_year_window"`
}

// SearchConfig configures the natural-language search entry point.
type SearchConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
}

// BigQueryConfig identifies the dataset backing the search collaborator.
type BigQueryConfig struct {
	ProjectID string `mapstructure:"project_id"`
	Dataset   string `mapstructure:"dataset"`
}

// StorageConfig identifies the GCS bucket for stored document sources.
type StorageConfig struct {
	Bucket string `mapstructure:"bucket"`
}

// Load reads configuration from the environment with sane defaults.
// Keys map to env vars with the FINASSIST_ prefix, e.g. model.name becomes
// FINASSIST_MODEL_NAME.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("model.name", "gemini-2.5-flash")
	v.SetDefault("model.temperature", 0.0)
	v.SetDefault("model.max_tokens", 1000)

	v.SetDefault("validation.max_plausible_amount", 100000.0)
	v.SetDefault("validation.default_transaction_amount", 100.0)
	v.SetDefault("validation.future_window_days", 366)
	v.SetDefault("validation.past_year_window", 1)

	v.SetDefault("search.default_limit", 20)

	v.SetDefault("bigquery.project_id", "")
	v.SetDefault("bigquery.dataset", "finance")
	v.SetDefault("storage.bucket", "")

	v.SetEnvPrefix("FINASSIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: unmarshal: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Model.Name == "" {
		return fmt.Errorf("model.name must not be empty")
	}
	if c.Model.MaxTokens <= 0 {
		return fmt.Errorf("model.max_tokens must be positive, got %d", c.Model.MaxTokens)
	}
	if c.Validation.MaxPlausibleAmount <= 0 {
		return fmt.Errorf("validation.max_plausible_amount must be positive, got %v", c.Validation.MaxPlausibleAmount)
	}
	if c.Validation.FutureWindowDays <= 0 {
		return fmt.Errorf("validation.future_window_days must be positive, got %d", c.Validation.FutureWindowDays)
	}
	if c.Search.DefaultLimit <= 0 {
		return fmt.Errorf("search.default_limit must be positive, got %d", c.Search.DefaultLimit)
	}
	return nil
}
