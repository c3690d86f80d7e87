package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ConfigDirEnv overrides the configuration directory when set
const ConfigDirEnv = "KARTOZA_SQL_LAB_CONFIG_DIR"

// Config represents the application configuration
type Config struct {
	ActiveService string              `json:"active_service"`
	QueryHistory  []QueryHistoryEntry `json:"query_history"`
	Settings      Settings            `json:"settings"`
}

// Settings contains user preferences
type Settings struct {
	MaxHistorySize    int  `json:"max_history_size"`
	DefaultRowLimit   int  `json:"default_row_limit"`
	SimulatedDelayMs  int  `json:"simulated_delay_ms"`
	ShowSampleResults bool `json:"show_sample_results"`
	VimModeEnabled    bool `json:"vim_mode_enabled"` // vim keybindings in the question editor
}

// SimulatedDelay returns the artificial latency applied before showing a conversion
func (s Settings) SimulatedDelay() time.Duration {
	if s.SimulatedDelayMs <= 0 {
		return 0
	}
	return time.Duration(s.SimulatedDelayMs) * time.Millisecond
}

// QueryHistoryEntry represents a conversion in history
type QueryHistoryEntry struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	NaturalQuery  string    `json:"natural_query"`
	GeneratedSQL  string    `json:"generated_sql"`
	Complexity    string    `json:"complexity"`
	Pattern       string    `json:"pattern"`
	ServiceName   string    `json:"service_name,omitempty"`
	RowsAffected  int       `json:"rows_affected,omitempty"`
	ExecutionTime float64   `json:"execution_time_ms,omitempty"`
	Success       bool      `json:"success"`
	ErrorMessage  string    `json:"error_message,omitempty"`
}

// NewHistoryEntry creates a successful history entry stamped with a fresh ID
func NewHistoryEntry(naturalQuery, generatedSQL, complexity, pattern string) QueryHistoryEntry {
	return QueryHistoryEntry{
		ID:           uuid.NewString(),
		Timestamp:    time.Now(),
		NaturalQuery: naturalQuery,
		GeneratedSQL: generatedSQL,
		Complexity:   complexity,
		Pattern:      pattern,
		Success:      true,
	}
}

// DefaultConfig returns a new config with default values
func DefaultConfig() *Config {
	return &Config{
		ActiveService: "",
		QueryHistory:  []QueryHistoryEntry{},
		Settings: Settings{
			MaxHistorySize:    100,
			DefaultRowLimit:   50,
			SimulatedDelayMs:  800,
			ShowSampleResults: true,
			VimModeEnabled:    false,
		},
	}
}

// ConfigDir returns the configuration directory path
func ConfigDir() (string, error) {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "kartoza-sql-lab"), nil
}

// ConfigPath returns the configuration file path
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load loads the configuration from disk
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if cfg.QueryHistory == nil {
		cfg.QueryHistory = []QueryHistoryEntry{}
	}
	if cfg.Settings.MaxHistorySize <= 0 {
		cfg.Settings.MaxHistorySize = DefaultConfig().Settings.MaxHistorySize
	}

	return cfg, nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// AddQueryToHistory adds a query to the front of the history
func (c *Config) AddQueryToHistory(entry QueryHistoryEntry) {
	c.QueryHistory = append([]QueryHistoryEntry{entry}, c.QueryHistory...)

	if len(c.QueryHistory) > c.Settings.MaxHistorySize {
		c.QueryHistory = c.QueryHistory[:c.Settings.MaxHistorySize]
	}
}

// RecentHistory returns up to limit entries, newest first. limit <= 0 returns all.
func (c *Config) RecentHistory(limit int) []QueryHistoryEntry {
	if limit <= 0 || limit >= len(c.QueryHistory) {
		return c.QueryHistory
	}
	return c.QueryHistory[:limit]
}

// ClearHistory drops every history entry
func (c *Config) ClearHistory() {
	c.QueryHistory = []QueryHistoryEntry{}
}

// UpdateHistoryEntry applies fn to the entry with the given ID.
// It reports whether the entry was found.
func (c *Config) UpdateHistoryEntry(id string, fn func(*QueryHistoryEntry)) bool {
	for i := range c.QueryHistory {
		if c.QueryHistory[i].ID == id {
			fn(&c.QueryHistory[i])
			return true
		}
	}
	return false
}
