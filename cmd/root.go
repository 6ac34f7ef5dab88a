package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/ringside/internal/app"
	"github.com/zjrosen/ringside/internal/config"
	"github.com/zjrosen/ringside/internal/infrastructure/sqlite"
	"github.com/zjrosen/ringside/internal/log"
	"github.com/zjrosen/ringside/internal/pubsub"
	"github.com/zjrosen/ringside/internal/registration"
	"github.com/zjrosen/ringside/internal/tracing"
	"github.com/zjrosen/ringside/internal/watcher"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const localConfigPath = ".ringside/config.yaml"

var (
	version    = "dev"
	cfgFile    string
	cfgUsed    string
	cfgErr     error
	debugFlag  bool
	logCleanup func()
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ringside",
	Short: "A terminal tree of dog show registrations",
	Long: `Ringside shows the registrations of a dog show as a collapsible tree,
grouped by FCI group, breed and class.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logCleanup != nil {
			logCleanup()
		}
	},
	RunE: runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/ringside/config.yaml)")
	pf.String("db", "", "path to the registration database")
	pf.StringP("show", "s", "", "show id (default: the most recent show)")
	pf.BoolVarP(&debugFlag, "debug", "d", false, "write debug logs (RINGSIDE_LOG, default debug.log)")
	rootCmd.Flags().Bool("no-auto-refresh", false,
		"disable automatic tree refresh when the database changes")

	// Bind flags to viper
	_ = viper.BindPFlag("db_path", pf.Lookup("db"))
	_ = viper.BindPFlag("show_id", pf.Lookup("show"))
}

func initConfig() {
	cfg, cfgUsed, cfgErr = loadConfig(viper.GetViper(), cfgFile, configCandidates())
}

// configCandidates lists the config lookup order:
// 1. .ringside/config.yaml (current directory)
// 2. ~/.config/ringside/config.yaml (user config)
func configCandidates() []string {
	paths := []string{localConfigPath}
	if dir := config.DefaultDir(); dir != "" {
		paths = append(paths, filepath.Join(dir, "config.yaml"))
	}
	return paths
}

// loadConfig reads explicit, or the first existing candidate. When none
// exists the default config is written to the last candidate. It returns the
// config and the path changes should be saved to.
func loadConfig(v *viper.Viper, explicit string, candidates []string) (config.Config, string, error) {
	setDefaults(v)

	path := explicit
	if path == "" {
		for _, candidate := range candidates {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	if path == "" && len(candidates) > 0 {
		path = candidates[len(candidates)-1]
		if err := config.WriteDefaultConfig(path); err != nil {
			// If write fails, just continue with defaults (no config file)
			log.Warn(log.CatConfig, "Could not write default config", "path", path, "error", err)
			path = ""
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return config.Config{}, path, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return config.Config{}, path, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return config.Config{}, path, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, path, nil
}

func setDefaults(v *viper.Viper) {
	defaults := config.Defaults()
	v.SetDefault("db_path", defaults.DBPath)
	v.SetDefault("locale", defaults.Locale)
	v.SetDefault("grouping", defaults.Grouping)
	v.SetDefault("auto_refresh", defaults.AutoRefresh)
	v.SetDefault("auto_refresh_debounce", defaults.AutoRefreshDebounce)
	v.SetDefault("cache.ttl", defaults.Cache.TTL)
	v.SetDefault("ui.show_counts", defaults.UI.ShowCounts)
	v.SetDefault("ui.start_collapsed", defaults.UI.StartCollapsed)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	v.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)
}

// setup starts debug logging and reports configuration errors before any
// command runs.
func setup(*cobra.Command, []string) error {
	if debugFlag || os.Getenv("RINGSIDE_DEBUG") != "" {
		logPath := os.Getenv("RINGSIDE_LOG")
		if logPath == "" {
			logPath = "debug.log"
		}
		cleanup, err := log.Init(logPath)
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		logCleanup = cleanup
		log.Info(log.CatConfig, "Ringside starting", "version", version, "config", cfgUsed)
	}
	return cfgErr
}

// env holds the opened database and the services built on it.
type env struct {
	db     *sqlite.DB
	tracer *tracing.Provider
	svc    *registration.Service
}

func openEnv(c config.Config) (*env, error) {
	db, err := sqlite.NewDB(c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", c.DBPath, err)
	}
	tracer, err := tracing.NewProvider(c.Tracing)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("starting tracing: %w", err)
	}
	svc, err := registration.NewService(db.RegistrationRepository(), registration.ServiceOptions{
		Grouping: c.Grouping,
		Locale:   c.Locale,
		CacheTTL: c.Cache.TTL,
		Tracer:   tracer.Tracer(),
	})
	if err != nil {
		_ = tracer.Shutdown(context.Background())
		_ = db.Close()
		return nil, err
	}
	return &env{db: db, tracer: tracer, svc: svc}, nil
}

// Close flushes pending spans and closes the database.
func (e *env) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return errors.Join(e.tracer.Shutdown(ctx), e.db.Close())
}

func runApp(cmd *cobra.Command, _ []string) error {
	// Handle --no-auto-refresh flag (negated logic)
	if noAutoRefresh, _ := cmd.Flags().GetBool("no-auto-refresh"); noAutoRefresh {
		cfg.AutoRefresh = false
	}

	e, err := openEnv(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	var changes pubsub.Subscriber[watcher.WatcherEvent]
	if cfg.AutoRefresh {
		if w := startWatcher(e.db.Path(), cfg.AutoRefreshDebounce); w != nil {
			defer func() { _ = w.Stop() }()
			changes = w
		}
	}

	zone.NewGlobal()
	model := app.New(app.Options{
		Source:         e.svc,
		ShowID:         cfg.ShowID,
		ConfigPath:     cfgUsed,
		Changes:        changes,
		ShowCounts:     cfg.UI.ShowCounts,
		StartCollapsed: cfg.UI.StartCollapsed,
	})
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()

	// Clean up watcher resources
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// startWatcher watches the database for changes. Failures disable
// auto-refresh instead of stopping the program.
func startWatcher(dbPath string, debounce time.Duration) *watcher.Watcher {
	w, err := watcher.New(watcher.Config{DBPath: dbPath, Debounce: debounce})
	if err != nil {
		log.Warn(log.CatWatcher, "Auto-refresh disabled", "error", err)
		return nil
	}
	if err := w.Start(); err != nil {
		_ = w.Stop()
		log.Warn(log.CatWatcher, "Auto-refresh disabled", "error", err)
		return nil
	}
	return w
}

// resolveShow returns the show with id, or the most recent show when id is
// empty.
func resolveShow(ctx context.Context, svc *registration.Service, id string) (registration.Show, error) {
	shows, err := svc.Shows(ctx)
	if err != nil {
		return registration.Show{}, err
	}
	if id == "" {
		if len(shows) == 0 {
			return registration.Show{}, errors.New("no shows in the database, run 'ringside import' first")
		}
		return shows[0], nil
	}
	for _, s := range shows {
		if s.ID == id {
			return s, nil
		}
	}
	return registration.Show{}, &registration.NotFoundError{Kind: "show", ID: id}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
