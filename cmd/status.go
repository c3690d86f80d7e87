package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-sql-lab/internal/config"
	"github.com/kartoza/kartoza-sql-lab/internal/converter"
	"github.com/kartoza/kartoza-sql-lab/internal/postgres"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show application status",
	Long:  `Show the current application status including the active database service and query history.`,
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(w, "Status: Not configured\n")
			fmt.Fprintf(w, "Config error: %v\n", err)
			return
		}

		active := cfg.ActiveService
		if active == "" {
			active = "(none)"
		}
		services, _ := postgres.ParsePGServiceFile()

		fmt.Fprintf(w, "Kartoza SQL Lab Status\n")
		fmt.Fprintf(w, "======================\n")
		fmt.Fprintf(w, "Active Database: %s\n", active)
		fmt.Fprintf(w, "Known Services: %d\n", len(services))
		fmt.Fprintf(w, "Patterns: %d\n", len(converter.Catalog()))
		fmt.Fprintf(w, "Simulated Delay: %s\n", cfg.Settings.SimulatedDelay())
		fmt.Fprintf(w, "Query History: %d queries\n", len(cfg.QueryHistory))
	},
}
