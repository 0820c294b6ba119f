// Package config loads acv settings from defaults, an optional YAML file,
// ACV_* environment variables and command-line flags, in rising priority.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/daviddao/agents_catalog_viewer/internal/catalog"
)

// EnvPrefix is the prefix of environment overrides (ACV_CATALOG_SOURCE, ...).
const EnvPrefix = "ACV"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Config is the full acv configuration.
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog"`
	HTTP    HTTPConfig    `mapstructure:"http" yaml:"http"`
	UI      UIConfig      `mapstructure:"ui" yaml:"ui"`
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
}

// CatalogConfig selects and tunes the record source.
type CatalogConfig struct {
	// Source is a file path, a SQLite database or an http(s) URL.
	// Empty means discover.
	Source  string        `mapstructure:"source" yaml:"source"`
	Delay   time.Duration `mapstructure:"delay" yaml:"delay"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Watch   bool          `mapstructure:"watch" yaml:"watch"`
	// Refresh is a polling fallback for Watch. Zero disables polling.
	Refresh time.Duration `mapstructure:"refresh" yaml:"refresh"`
}

// HTTPConfig tunes the HTTP record source.
type HTTPConfig struct {
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RetryMax int           `mapstructure:"retry_max" yaml:"retry_max"`
}

// UIConfig seeds the initial criteria and rendering.
type UIConfig struct {
	Query         string   `mapstructure:"query" yaml:"query"`
	Sort          string   `mapstructure:"sort" yaml:"sort"`
	Statuses      []string `mapstructure:"statuses" yaml:"statuses"`
	Categories    []string `mapstructure:"categories" yaml:"categories"`
	Pricing       string   `mapstructure:"pricing" yaml:"pricing"`
	MarkdownStyle string   `mapstructure:"markdown_style" yaml:"markdown_style"`
}

// LoggerConfig controls the log file. The terminal belongs to the TUI, so
// there is no console output; an empty LogFile disables logging.
type LoggerConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("catalog.source", "")
	v.SetDefault("catalog.delay", "0s")
	v.SetDefault("catalog.timeout", "30s")
	v.SetDefault("catalog.watch", false)
	v.SetDefault("catalog.refresh", "0s")

	v.SetDefault("http.timeout", "10s")
	v.SetDefault("http.retry_max", 2)

	v.SetDefault("ui.query", "")
	v.SetDefault("ui.sort", string(catalog.SortByName))
	v.SetDefault("ui.statuses", []string{})
	v.SetDefault("ui.categories", []string{})
	v.SetDefault("ui.pricing", catalog.PricingAll)
	v.SetDefault("ui.markdown_style", "dark")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", false)
}

// Defaults returns a Config with only the defaults applied.
func Defaults() Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return cfg
}

// Load reads path (or ./acv.yaml when path is empty) into v on top of the
// defaults and environment overrides, then unmarshals and validates.
// A missing default file is not an error; a missing explicit file is.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("acv")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, &ConfigError{Message: "failed to read config: " + err.Error()}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}
	cfg.Logger.Level = strings.ToLower(cfg.Logger.Level)

	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

// Validate checks values that cannot be expressed through types.
func Validate(cfg *Config) error {
	if _, ok := catalog.ParseSortKey(cfg.UI.Sort); !ok {
		return &ConfigError{Message: fmt.Sprintf("unknown sort key %q (valid: name, category, status, pricingModel)", cfg.UI.Sort)}
	}
	if cfg.Catalog.Delay < 0 {
		return &ConfigError{Message: "catalog.delay must not be negative"}
	}
	if cfg.Catalog.Timeout < 0 || cfg.Catalog.Refresh < 0 || cfg.HTTP.Timeout < 0 {
		return &ConfigError{Message: "timeouts and refresh intervals must not be negative"}
	}
	if cfg.HTTP.RetryMax < 0 {
		return &ConfigError{Message: "http.retry_max must not be negative"}
	}
	if !validLevels[cfg.Logger.Level] {
		return &ConfigError{Message: fmt.Sprintf("unknown log level %q", cfg.Logger.Level)}
	}
	return nil
}

// Criteria builds the initial filter criteria from the UI section.
// Validate must have accepted cfg.
func (c UIConfig) Criteria() catalog.Criteria {
	crit := catalog.DefaultCriteria()
	crit.SearchQuery = c.Query
	if k, ok := catalog.ParseSortKey(c.Sort); ok {
		crit.SortBy = k
	}
	crit.Statuses = catalog.Dedupe(c.Statuses)
	crit.Categories = catalog.Dedupe(c.Categories)
	if len(crit.Statuses) == 0 {
		crit.Statuses = nil
	}
	if len(crit.Categories) == 0 {
		crit.Categories = nil
	}
	if c.Pricing != "" {
		crit.PricingModel = c.Pricing
	}
	return crit
}
