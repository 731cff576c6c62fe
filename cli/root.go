// Package cli provides the command-line interface for warden.
package cli

import (
	"context"
	"os"

	"github.com/safedep/dry/log"
	"github.com/spf13/cobra"
	"github.com/wardenhq/warden/alert"
	"github.com/wardenhq/warden/config"
	"github.com/wardenhq/warden/core/audit"
	"github.com/wardenhq/warden/internal/version"
	"github.com/wardenhq/warden/storage"
	"github.com/wardenhq/warden/tui"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	Store     storage.Store
	Alerts    *alert.Registry
	Presenter tui.Presenter
	Paths     *config.Paths
}

// NewApp creates a new App with the given configuration.
func NewApp(cfg *config.Config) (*App, error) {
	paths := config.ResolvePaths()

	presenter := tui.NewPresenter(tui.FormatTable, tui.PresenterOptions{
		Writer:    os.Stdout,
		UseColors: cfg.ShouldUseColors(),
	})

	alerts, err := alert.FromConfig(cfg.Alerts)
	if err != nil {
		return nil, ErrConfig("invalid alert configuration", err)
	}

	return &App{
		Config:    cfg,
		Alerts:    alerts,
		Presenter: presenter,
		Paths:     paths,
	}, nil
}

// InitStore initializes the database store.
func (a *App) InitStore(ctx context.Context) error {
	store, err := storage.NewSQLiteStore(a.Config.GetDatabasePath())
	if err != nil {
		return err
	}
	if err := store.Init(ctx); err != nil {
		return err
	}
	a.Store = store
	return nil
}

// Recorder builds an audit recorder backed by the store and alert targets.
// InitStore must have been called first for durable persistence.
func (a *App) Recorder() *audit.Recorder {
	opts := []audit.RecorderOption{audit.WithAlerter(a.Alerts)}
	if a.Store != nil {
		opts = append(opts, audit.WithSink(a.Store))
	}
	return audit.NewRecorder(opts...)
}

// Close closes the application resources.
func (a *App) Close() error {
	if a.Alerts != nil {
		if err := a.Alerts.Close(); err != nil {
			log.Errorf("failed to close alert targets: %v", err)
		}
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// GlobalFlags holds the global command flags.
type GlobalFlags struct {
	ConfigPath string
	Verbose    bool
	Quiet      bool
	NoColor    bool
}

var globalFlags GlobalFlags

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "warden",
		Short: "Approval gate for AI agent operations",
		Long: `Warden is a local-first approval gate that sits between an AI coding
agent and the machine it runs on.

Risky operations (file writes, deletions, command execution, package
installs) are classified, checked against policy, and confirmed with the
user before they run. Every decision is recorded in a durable audit trail.`,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Handle NO_COLOR environment variable
			if os.Getenv("NO_COLOR") != "" {
				globalFlags.NoColor = true
			}

			if os.Getenv("WARDEN_NO_COLOR") != "" {
				globalFlags.NoColor = true
			}

			setupInternalLogger()

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&globalFlags.ConfigPath, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "increase output verbosity")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.NoColor, "no-color", false, "disable colored output")

	// Add subcommands
	rootCmd.AddCommand(
		NewCheckCmd(),
		NewLogsCmd(),
		NewEventsCmd(),
		NewStatusCmd(),
		NewDoctorCmd(),
		NewConfigCmd(),
		NewRetentionCmd(),
		NewResetSecurityCmd(),
		NewVersionCmd(),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// setupInternalLogger sets up the DRY logger.
func setupInternalLogger() {
	// Always skip the stdout logger since we are running in a CLI context
	// with our own TUI.
	_ = os.Setenv("APP_LOG_SKIP_STDOUT_LOGGER", "true")

	log.Init("warden", "cli")
}

// loadApp loads the application with configuration.
func loadApp() (*App, error) {
	cfg, err := config.Load(globalFlags.ConfigPath)
	if err != nil {
		return nil, ErrConfig("failed to load configuration", err)
	}

	// Override with flags
	if globalFlags.NoColor {
		cfg.Display.Colors = config.ColorNever
	}

	return NewApp(cfg)
}

// getFormat returns the output format from flags or default.
func getFormat(format string) tui.Format {
	switch format {
	case "json":
		return tui.FormatJSON
	case "jsonl":
		return tui.FormatJSONL
	default:
		return tui.FormatTable
	}
}
