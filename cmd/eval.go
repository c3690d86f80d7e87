package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kartoza/kartoza-sql-lab/internal/converter"
	"github.com/kartoza/kartoza-sql-lab/internal/eval"
)

var evalCasesPath string

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Check the converter against known question/SQL pairs",
	Long: `Run the built-in eval cases (or a YAML file of cases) through the
converter and exit non-zero if any case fails. Intended for CI.

Example:
  kartoza-sql-lab eval
  kartoza-sql-lab eval --cases evals.yaml`,
	RunE: runEval,
}

func init() {
	evalCmd.Flags().StringVar(&evalCasesPath, "cases", "", "YAML file with a top-level 'cases' list (default: built-in cases)")
}

func runEval(cmd *cobra.Command, args []string) error {
	cases := eval.DefaultCases()
	if evalCasesPath != "" {
		var err error
		cases, err = eval.LoadCases(evalCasesPath)
		if err != nil {
			return err
		}
	}

	logger.Info("Running evals...", zap.Int("cases", len(cases)))
	results, evalErr := eval.Run(commandContext(cmd), converter.NewQueryEngine(), cases)
	summary := eval.Summarize(results)

	for _, r := range results {
		if r.Passed {
			logger.Info("PASS", zap.String("name", r.Name), zap.String("pattern", r.Pattern))
		} else {
			logger.Error("FAIL",
				zap.String("name", r.Name),
				zap.String("query", r.Query),
				zap.String("error", r.Error),
				zap.String("got", r.GeneratedSQL),
			)
		}
	}

	logger.Info("Eval summary",
		zap.Int("passed", summary.Passed),
		zap.Int("failed", summary.Failed),
		zap.Int("total", summary.Total),
		zap.Float64("pass_rate", summary.PassRate),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "%d/%d evals passed\n", summary.Passed, summary.Total)

	return evalErr
}
