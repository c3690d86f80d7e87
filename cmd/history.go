package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-sql-lab/internal/config"
)

var (
	historyLimit int
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear the query history",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of entries to show (0 for all)")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete every history entry")
}

func runHistory(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if historyClear {
		n := len(cfg.QueryHistory)
		cfg.ClearHistory()
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Fprintf(w, "Cleared %d history entries\n", n)
		return nil
	}

	entries := cfg.RecentHistory(historyLimit)
	if len(entries) == 0 {
		fmt.Fprintln(w, "No queries yet")
		return nil
	}

	for _, e := range entries {
		status := "ok"
		if !e.Success {
			status = "failed: " + e.ErrorMessage
		}
		fmt.Fprintf(w, "%s  [%s/%s]  %s\n", e.Timestamp.Format("2006-01-02 15:04"), e.Complexity, e.Pattern, e.NaturalQuery)
		if e.ServiceName != "" {
			fmt.Fprintf(w, "    %s: %d rows in %.1fms (%s)\n", e.ServiceName, e.RowsAffected, e.ExecutionTime, status)
		}
	}
	return nil
}
