package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-sql-lab/internal/converter"
)

var patternsJSON bool

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the dispatch table in evaluation order",
	Long: `List every pattern the converter recognises, in the order it is tried.
The first entry whose triggers appear in the question wins.`,
	RunE: runPatterns,
}

func init() {
	patternsCmd.Flags().BoolVar(&patternsJSON, "json", false, "Print the table as JSON")
}

func runPatterns(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	catalog := converter.Catalog()

	if patternsJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(catalog)
	}

	for _, e := range catalog {
		sep := ", "
		if e.RequireAll {
			sep = " + "
		}
		fmt.Fprintf(w, "%2d. %-20s %-8s %s\n", e.Priority, e.ID, e.Kind, strings.Join(e.Triggers, sep))
	}
	return nil
}
