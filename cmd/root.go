package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kartoza/kartoza-sql-lab/internal/config"
	"github.com/kartoza/kartoza-sql-lab/internal/converter"
	"github.com/kartoza/kartoza-sql-lab/internal/postgres"
	"github.com/kartoza/kartoza-sql-lab/internal/tui"
)

var (
	appVersion = "dev"
	verbose    bool

	logger = zap.NewNop()

	// runApp starts the TUI; tests replace it
	runApp = tui.RunApp
)

// SetVersion sets the application version
func SetVersion(v string) {
	appVersion = v
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kartoza-sql-lab",
	Short: "Turn natural-language questions into SQL templates",
	Long: `Kartoza SQL Lab - A TUI for turning analytical questions into
ready-to-edit SQL.

This tool allows you to:
  - Classify a question into a known analytical pattern
  - Render the matching SQL template (window functions, CTEs, cohorts, pivots...)
  - Preview illustrative sample rows for the result
  - Optionally run the SQL against a database from pg_service.conf
    (choose it with 'service use' or ctrl+d in the TUI)
  - Keep a history of generated queries

Built with love by Kartoza.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The TUI owns the terminal
		if cmd == cmd.Root() {
			return nil
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runInteractive,
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// A stale active service only disables execution
	var service *postgres.ServiceEntry
	if cfg.ActiveService != "" {
		service, err = postgres.LookupService(cfg.ActiveService)
		if err != nil {
			logger.Warn("active service unavailable, execution disabled",
				zap.String("service", cfg.ActiveService),
				zap.Error(err),
			)
			service = nil
		}
	}

	engine := converter.NewQueryEngine(
		converter.WithDelay(cfg.Settings.SimulatedDelay()),
		converter.WithLogger(logger),
	)

	return runApp(tui.Options{
		Engine:  engine,
		Config:  cfg,
		Service: service,
		Logger:  logger,
	})
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serviceCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}
