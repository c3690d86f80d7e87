package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kartoza/kartoza-sql-lab/internal/config"
	"github.com/kartoza/kartoza-sql-lab/internal/converter"
	"github.com/kartoza/kartoza-sql-lab/internal/tui"
)

// setup isolates config on disk and resets every flag global.
func setup(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	t.Setenv(config.ConfigDirEnv, t.TempDir())
	t.Setenv("PGSERVICEFILE", filepath.Join(t.TempDir(), "missing.conf"))
	logger = zap.NewNop()

	convertJSON, convertDelay, convertSample = false, 0, false
	convertExecute, convertService, convertNoHistory = false, "", false
	patternsJSON = false
	evalCasesPath = ""
	historyLimit, historyClear = 10, false
	serviceCheck = false

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	return cmd, &buf
}

func TestConvertCmd(t *testing.T) {
	cmd, out := setup(t)

	require.NoError(t, runConvert(cmd, []string{"Show", "the", "running", "total", "of", "sales"}))

	assert.Contains(t, out.String(), "running_total")
	assert.Contains(t, out.String(), "-- complexity: Hard")
	assert.Contains(t, out.String(), `-- pattern: window (matched "running total")`)
	assert.NotContains(t, out.String(), "sample data")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Len(t, cfg.QueryHistory, 1)
	assert.Equal(t, "Show the running total of sales", cfg.QueryHistory[0].NaturalQuery)
	assert.Equal(t, "Hard", cfg.QueryHistory[0].Complexity)
}

func TestConvertCmdJSONWithSample(t *testing.T) {
	cmd, out := setup(t)
	convertJSON = true
	convertSample = true

	require.NoError(t, runConvert(cmd, []string{"top 5 products in each category"}))

	var got struct {
		SQL        string `json:"sql"`
		Complexity string `json:"complexity"`
		Pattern    string `json:"pattern"`
		Trigger    string `json:"trigger"`
		Sample     *converter.SampleTable
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, converter.PatternTopPerCategory, got.Pattern)
	assert.Equal(t, "top+each+category", got.Trigger)
	assert.Contains(t, got.SQL, "WHERE rn <= 5")
	require.NotNil(t, got.Sample)
	assert.Equal(t, "Top products per category", got.Sample.Title)
}

func TestConvertCmdNoHistory(t *testing.T) {
	cmd, _ := setup(t)
	convertNoHistory = true

	require.NoError(t, runConvert(cmd, []string{"count customers"}))

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.QueryHistory)
}

func TestConvertCmdEmptyQuestion(t *testing.T) {
	cmd, out := setup(t)

	err := runConvert(cmd, []string{"   "})
	assert.ErrorIs(t, err, converter.ErrEmptyQuery)
	assert.Empty(t, out.String())
}

func TestConvertCmdExecuteWithoutService(t *testing.T) {
	cmd, _ := setup(t)
	convertExecute = true

	err := runConvert(cmd, []string{"count customers"})
	assert.ErrorContains(t, err, "no database service")

	cfg, loadErr := config.Load()
	require.NoError(t, loadErr)
	require.Len(t, cfg.QueryHistory, 1)
	assert.False(t, cfg.QueryHistory[0].Success)
	assert.Contains(t, cfg.QueryHistory[0].ErrorMessage, "no database service")
}

func TestConvertCmdExecuteUnknownService(t *testing.T) {
	cmd, _ := setup(t)
	convertExecute = true
	convertService = "nowhere"

	err := runConvert(cmd, []string{"count customers"})
	assert.Error(t, err)
}

func TestPatternsCmd(t *testing.T) {
	cmd, out := setup(t)

	require.NoError(t, runPatterns(cmd, nil))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, len(converter.Catalog()))
	assert.Contains(t, lines[0], "1. window")
	assert.Contains(t, lines[5], "top + each + category")
	assert.Contains(t, lines[len(lines)-1], "fallback")
}

func TestPatternsCmdJSON(t *testing.T) {
	cmd, out := setup(t)
	patternsJSON = true

	require.NoError(t, runPatterns(cmd, nil))

	var entries []converter.CatalogEntry
	require.NoError(t, json.Unmarshal(out.Bytes(), &entries))
	assert.Equal(t, converter.Catalog(), entries)
}

func TestEvalCmd(t *testing.T) {
	cmd, out := setup(t)

	require.NoError(t, runEval(cmd, nil))
	assert.Contains(t, out.String(), "evals passed")
}

func TestEvalCmdFailingCases(t *testing.T) {
	cmd, out := setup(t)
	evalCasesPath = filepath.Join(t.TempDir(), "cases.yaml")
	content := "cases:\n  - name: wrong\n    query: pivot sales\n    expected_pattern: window\n"
	require.NoError(t, os.WriteFile(evalCasesPath, []byte(content), 0644))

	err := runEval(cmd, nil)
	assert.ErrorContains(t, err, "1 of 1 evals failed")
	assert.Contains(t, out.String(), "0/1 evals passed")
}

func TestEvalCmdMissingCasesFile(t *testing.T) {
	cmd, _ := setup(t)
	evalCasesPath = filepath.Join(t.TempDir(), "missing.yaml")

	assert.Error(t, runEval(cmd, nil))
}

func TestHistoryCmd(t *testing.T) {
	cmd, out := setup(t)

	require.NoError(t, runHistory(cmd, nil))
	assert.Contains(t, out.String(), "No queries yet")

	cfg := config.DefaultConfig()
	cfg.AddQueryToHistory(config.NewHistoryEntry("pivot sales", "SELECT 1;", "Hard", "pivot"))
	cfg.AddQueryToHistory(config.NewHistoryEntry("count customers", "SELECT 2;", "Medium", "fallback"))
	require.NoError(t, cfg.Save())

	out.Reset()
	historyLimit = 1
	require.NoError(t, runHistory(cmd, nil))
	assert.Contains(t, out.String(), "[Medium/fallback]  count customers")
	assert.NotContains(t, out.String(), "pivot sales")

	out.Reset()
	historyClear = true
	require.NoError(t, runHistory(cmd, nil))
	assert.Contains(t, out.String(), "Cleared 2 history entries")

	loaded, err := config.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded.QueryHistory)
}

func TestStatusCmd(t *testing.T) {
	cmd, out := setup(t)

	statusCmd.Run(cmd, nil)

	assert.Contains(t, out.String(), "Active Database: (none)")
	assert.Contains(t, out.String(), "Patterns: 11")
	assert.Contains(t, out.String(), "Simulated Delay: 800ms")
}

func TestVersionCmd(t *testing.T) {
	cmd, out := setup(t)
	SetVersion("1.2.3")
	defer SetVersion("dev")

	versionCmd.Run(cmd, nil)
	assert.Equal(t, "kartoza-sql-lab version 1.2.3\n", out.String())
}

func writeServiceFile(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pg_service.conf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("PGSERVICEFILE", path)
}

// captureApp replaces the TUI launcher and returns the options it was started with
func captureApp(t *testing.T) *tui.Options {
	t.Helper()
	var got tui.Options
	started := false
	orig := runApp
	runApp = func(opts tui.Options) error {
		got = opts
		started = true
		return nil
	}
	t.Cleanup(func() {
		runApp = orig
		require.True(t, started, "TUI was not started")
	})
	return &got
}

func TestInteractiveStaleActiveService(t *testing.T) {
	cmd, _ := setup(t)
	writeServiceFile(t, "[other]\nhost=localhost\n")

	cfg := config.DefaultConfig()
	cfg.ActiveService = "gone"
	require.NoError(t, cfg.Save())

	opts := captureApp(t)
	require.NoError(t, runInteractive(cmd, nil))

	assert.Nil(t, opts.Service)
	require.NotNil(t, opts.Config)
	assert.Equal(t, "gone", opts.Config.ActiveService)
	assert.Equal(t, 800*time.Millisecond, opts.Engine.Delay())
}

func TestInteractiveActiveService(t *testing.T) {
	cmd, _ := setup(t)
	writeServiceFile(t, "[lab]\nhost=db.internal\ndbname=shop\n")

	cfg := config.DefaultConfig()
	cfg.ActiveService = "lab"
	require.NoError(t, cfg.Save())

	opts := captureApp(t)
	require.NoError(t, runInteractive(cmd, nil))

	require.NotNil(t, opts.Service)
	assert.Equal(t, "db.internal", opts.Service.Host)
}

func TestServiceListAndUse(t *testing.T) {
	cmd, out := setup(t)
	writeServiceFile(t, "[local]\nhost=localhost\ndbname=shop\n\n[warehouse]\nhost=10.0.0.5\ndbname=dw\n")

	require.NoError(t, runServiceUse(cmd, []string{"warehouse"}))
	assert.Equal(t, "Active service: warehouse\n", out.String())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "warehouse", cfg.ActiveService)

	out.Reset()
	require.NoError(t, runServiceList(cmd, nil))
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "  local"))
	assert.True(t, strings.HasPrefix(lines[1], "* warehouse"))

	out.Reset()
	require.NoError(t, runServiceClear(cmd, nil))
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.ActiveService)
}

func TestServiceUseUnknown(t *testing.T) {
	cmd, _ := setup(t)
	writeServiceFile(t, "[local]\nhost=localhost\n")

	err := runServiceUse(cmd, []string{"nowhere"})
	assert.ErrorContains(t, err, "not found")

	cfg, loadErr := config.Load()
	require.NoError(t, loadErr)
	assert.Empty(t, cfg.ActiveService)
}

func TestServiceUseCheckFailure(t *testing.T) {
	cmd, _ := setup(t)
	writeServiceFile(t, "[dead]\nhost=127.0.0.1\nport=1\nsslmode=disable\nconnect_timeout=1\n")
	serviceCheck = true

	assert.Error(t, runServiceUse(cmd, []string{"dead"}))

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.ActiveService)
}

func TestServiceListMissingFile(t *testing.T) {
	cmd, _ := setup(t)
	assert.Error(t, runServiceList(cmd, nil))
}
