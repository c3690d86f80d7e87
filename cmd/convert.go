package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kartoza/kartoza-sql-lab/internal/config"
	"github.com/kartoza/kartoza-sql-lab/internal/converter"
	"github.com/kartoza/kartoza-sql-lab/internal/postgres"
	"github.com/kartoza/kartoza-sql-lab/internal/tui"
)

var (
	convertJSON      bool
	convertDelay     time.Duration
	convertSample    bool
	convertExecute   bool
	convertService   string
	convertNoHistory bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [question]",
	Short: "Convert a natural-language question to SQL",
	Long: `Classify a question and print the SQL template it maps to.

Example:
  kartoza-sql-lab convert "Calculate the 30-day moving average of sales"
  kartoza-sql-lab convert --json "top 5 products in each category"
  kartoza-sql-lab convert --execute --service mydb "count customers"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().BoolVar(&convertJSON, "json", false, "Print the result as JSON")
	convertCmd.Flags().DurationVar(&convertDelay, "delay", 0, "Simulated latency before answering")
	convertCmd.Flags().BoolVar(&convertSample, "sample", false, "Also print illustrative sample rows")
	convertCmd.Flags().BoolVar(&convertExecute, "execute", false, "Run the generated SQL against a database")
	convertCmd.Flags().StringVar(&convertService, "service", "", "pg_service.conf entry to execute against (default: active service)")
	convertCmd.Flags().BoolVar(&convertNoHistory, "no-history", false, "Do not record the query in history")
}

// convertOutput is the --json payload
type convertOutput struct {
	*converter.Result
	Sample *converter.SampleTable `json:"sample,omitempty"`
	Rows   *postgres.ResultSet    `json:"rows,omitempty"`
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	question := strings.Join(args, " ")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	engine := converter.NewQueryEngine(
		converter.WithDelay(convertDelay),
		converter.WithLogger(logger),
	)
	res, err := engine.Convert(ctx, question)
	if err != nil {
		if errors.Is(err, converter.ErrEmptyQuery) {
			return fmt.Errorf("nothing to convert: %w", err)
		}
		return err
	}

	out := convertOutput{Result: res}
	if convertSample {
		sample := converter.Sample(question)
		out.Sample = &sample
	}

	var entry config.QueryHistoryEntry
	if !convertNoHistory {
		entry = config.NewHistoryEntry(question, res.SQL, string(res.Complexity), res.Pattern)
		cfg.AddQueryToHistory(entry)
	}

	var execErr error
	if convertExecute {
		out.Rows, execErr = executeConverted(ctx, cfg, res.SQL)
		if !convertNoHistory {
			cfg.UpdateHistoryEntry(entry.ID, func(e *config.QueryHistoryEntry) {
				e.ServiceName = serviceName(cfg)
				if execErr != nil {
					e.Success = false
					e.ErrorMessage = execErr.Error()
					return
				}
				e.RowsAffected = out.Rows.RowCount
				e.ExecutionTime = out.Rows.ExecutionTime
			})
		}
	}

	if !convertNoHistory {
		if err := cfg.Save(); err != nil {
			logger.Warn("failed to save history", zap.Error(err))
		}
	}

	if execErr != nil {
		return execErr
	}

	w := cmd.OutOrStdout()
	if convertJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	printConverted(w, out)
	return nil
}

func serviceName(cfg *config.Config) string {
	if convertService != "" {
		return convertService
	}
	return cfg.ActiveService
}

func executeConverted(ctx context.Context, cfg *config.Config, query string) (*postgres.ResultSet, error) {
	name := serviceName(cfg)
	if name == "" {
		return nil, fmt.Errorf("no database service: pass --service or set active_service in %s", configPathHint())
	}

	service, err := postgres.LookupService(name)
	if err != nil {
		return nil, err
	}

	db, err := service.Connect(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	logger.Debug("executing query", zap.String("service", name))
	return postgres.Execute(ctx, db, query, cfg.Settings.DefaultRowLimit)
}

func configPathHint() string {
	path, err := config.ConfigPath()
	if err != nil {
		return "the config file"
	}
	return path
}

func printConverted(w io.Writer, out convertOutput) {
	fmt.Fprintln(w, out.SQL)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "-- complexity: %s\n", out.Complexity)
	if out.Trigger != "" {
		fmt.Fprintf(w, "-- pattern: %s (matched %q)\n", out.Pattern, out.Trigger)
	} else {
		fmt.Fprintf(w, "-- pattern: %s\n", out.Pattern)
	}

	if out.Rows != nil {
		fmt.Fprintf(w, "\n%d rows in %.1fms\n", out.Rows.RowCount, out.Rows.ExecutionTime)
		fmt.Fprintln(w, tui.RenderTable(out.Rows.Columns, out.Rows.Rows, 0))
	} else if out.Sample != nil {
		fmt.Fprintf(w, "\n%s (sample data)\n", out.Sample.Title)
		fmt.Fprintln(w, tui.RenderTable(out.Sample.Columns, out.Sample.Rows, 0))
	}
}
