// Package config provides configuration types and defaults for ringside.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/zjrosen/ringside/internal/log"
	"github.com/zjrosen/ringside/internal/registration"
	"github.com/zjrosen/ringside/internal/tracing"
)

// Config holds all configuration options for ringside.
type Config struct {
	DBPath              string         `mapstructure:"db_path"`
	ShowID              string         `mapstructure:"show_id"`
	Locale              string         `mapstructure:"locale"`
	Grouping            []string       `mapstructure:"grouping"`
	AutoRefresh         bool           `mapstructure:"auto_refresh"`
	AutoRefreshDebounce time.Duration  `mapstructure:"auto_refresh_debounce"`
	Cache               CacheConfig    `mapstructure:"cache"`
	UI                  UIConfig       `mapstructure:"ui"`
	Tracing             tracing.Config `mapstructure:"tracing"`
}

// CacheConfig controls the registration cache.
type CacheConfig struct {
	// TTL is how long loaded registrations are reused. 0 disables the cache.
	TTL time.Duration `mapstructure:"ttl"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowCounts     bool `mapstructure:"show_counts"`
	StartCollapsed bool `mapstructure:"start_collapsed"`
}

// DefaultDir returns ~/.config/ringside, or "" if the home directory is
// unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "ringside")
}

// DefaultDBPath returns ~/.config/ringside/ringside.db.
func DefaultDBPath() string {
	dir := DefaultDir()
	if dir == "" {
		return "ringside.db"
	}
	return filepath.Join(dir, "ringside.db")
}

// DefaultTracesFilePath returns ~/.config/ringside/traces/traces.jsonl.
func DefaultTracesFilePath() string {
	dir := DefaultDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// Defaults returns a Config with default values.
func Defaults() Config {
	tr := tracing.DefaultConfig()
	tr.FilePath = DefaultTracesFilePath()
	return Config{
		DBPath:              DefaultDBPath(),
		Locale:              "en",
		Grouping:            append([]string(nil), registration.DefaultGrouping...),
		AutoRefresh:         true,
		AutoRefreshDebounce: 500 * time.Millisecond,
		Cache:               CacheConfig{TTL: 5 * time.Minute},
		UI: UIConfig{
			ShowCounts:     true,
			StartCollapsed: false,
		},
		Tracing: tr,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	if c.Locale != "" {
		if _, err := language.Parse(c.Locale); err != nil {
			return fmt.Errorf("locale %q is not a valid BCP 47 tag: %w", c.Locale, err)
		}
	}
	if _, err := registration.Levels(c.Grouping); err != nil {
		return fmt.Errorf("grouping: %w", err)
	}
	if c.AutoRefreshDebounce < 0 {
		return fmt.Errorf("auto_refresh_debounce must not be negative, got %v", c.AutoRefreshDebounce)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %v", c.Cache.TTL)
	}
	return ValidateTracing(c.Tracing)
}

// ValidateTracing checks tracing configuration for errors.
// Empty values use defaults.
func ValidateTracing(tr tracing.Config) error {
	if tr.SampleRate < 0.0 || tr.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tr.SampleRate)
	}

	switch tr.Exporter {
	case "", tracing.ExporterNone, tracing.ExporterFile, tracing.ExporterStdout, tracing.ExporterOTLP:
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tr.Exporter)
	}

	if tr.Enabled {
		if tr.Exporter == tracing.ExporterFile && tr.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tr.Exporter == tracing.ExporterOTLP && tr.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Ringside Configuration

# Path to the registration database (default: ~/.config/ringside/ringside.db)
# db_path: /path/to/ringside.db

# Show opened when --show is not given (default: the most recent show)
# show_id: spring-classic

# Locale used to sort group labels (BCP 47 tag, e.g. en, sv, de)
locale: en

# Tree levels, outermost first. Valid: fci_group, breed, class
grouping:
  - class

# Reload the tree when the database changes
auto_refresh: true
auto_refresh_debounce: 500ms

# Registration cache
cache:
  ttl: 5m   # 0 disables caching

# UI settings
ui:
  show_counts: true        # Show dog counts next to groups
  start_collapsed: false   # Open the tree with every group collapsed

# Tracing (OpenTelemetry)
# tracing:
#   enabled: true
#   exporter: file          # none, file, stdout, otlp
#   file_path: ~/.config/ringside/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments, creating the parent directory if needed.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
