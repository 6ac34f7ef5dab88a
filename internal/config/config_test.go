package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/ringside/internal/tracing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, "en", cfg.Locale)
	require.Equal(t, []string{"class"}, cfg.Grouping)
	require.True(t, cfg.AutoRefresh)
	require.Equal(t, 500*time.Millisecond, cfg.AutoRefreshDebounce)
	require.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	require.True(t, cfg.UI.ShowCounts)
	require.False(t, cfg.UI.StartCollapsed)
	require.False(t, cfg.Tracing.Enabled)
	require.Equal(t, tracing.ExporterFile, cfg.Tracing.Exporter)
	require.NotEmpty(t, cfg.DBPath)
	require.NoError(t, cfg.Validate())
}

func TestDefaults_GroupingIsACopy(t *testing.T) {
	cfg := Defaults()
	cfg.Grouping[0] = "breed"

	require.Equal(t, []string{"class"}, Defaults().Grouping)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty db path", func(c *Config) { c.DBPath = " " }, "db_path must not be empty"},
		{"bad locale", func(c *Config) { c.Locale = "not a locale!" }, "locale"},
		{"unknown level", func(c *Config) { c.Grouping = []string{"owner"} }, `unknown grouping level "owner"`},
		{"repeated level", func(c *Config) { c.Grouping = []string{"breed", "breed"} }, "listed twice"},
		{"negative debounce", func(c *Config) { c.AutoRefreshDebounce = -time.Second }, "auto_refresh_debounce"},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }, "cache.ttl"},
		{"sample rate", func(c *Config) { c.Tracing.SampleRate = 1.5 }, "sample_rate"},
		{"exporter", func(c *Config) { c.Tracing.Exporter = "zipkin" }, "tracing.exporter"},
		{"file path", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.FilePath = ""
		}, "tracing.file_path is required"},
		{"otlp endpoint", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = tracing.ExporterOTLP
			c.Tracing.OTLPEndpoint = ""
		}, "tracing.otlp_endpoint is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			require.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestValidate_EmptyGroupingAndLocaleAreAllowed(t *testing.T) {
	cfg := Defaults()
	cfg.Grouping = nil
	cfg.Locale = ""

	require.NoError(t, cfg.Validate())
}

func TestDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(DefaultConfigTemplate())))

	cfg := Defaults()
	require.NoError(t, v.Unmarshal(&cfg))

	require.Equal(t, Defaults(), cfg)
}

func TestWriteDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(configPath))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
