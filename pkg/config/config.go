// Package config defines the immutable configuration consumed by the
// orchestrator and its supporting services. Configuration is loaded once
// at startup from YAML plus ARBITER_* environment overrides and passed
// explicitly into constructors; there is no ambient global state.
package config

import (
	"time"
)

// Config is the root configuration object.
type Config struct {
	Server    ServerConfig              `yaml:"server"`
	Race      RaceConfig                `yaml:"race"`
	Health    HealthConfig              `yaml:"health"`
	Routing   RoutingConfig             `yaml:"routing"`
	Providers map[string]ProviderConfig `yaml:"providers"`
	History   HistoryConfig             `yaml:"history"`
	Logging   LoggingConfig             `yaml:"logging"`
	Metrics   MetricsConfig             `yaml:"metrics"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	ListenAddress   string        `yaml:"listen_address"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// RaceConfig configures race execution.
type RaceConfig struct {
	// Deadline is the shared wall-clock budget for one race. It applies
	// to every request unless a caller explicitly overrides it.
	Deadline time.Duration `yaml:"deadline"`

	// TieWindow is how long the executor collects completions after the
	// first success before declaring a winner by priority rank.
	TieWindow time.Duration `yaml:"tie_window"`
}

// HealthConfig configures background probing.
type HealthConfig struct {
	// ProbeTimeout bounds a single provider probe. Independent of the
	// race deadline.
	ProbeTimeout time.Duration `yaml:"probe_timeout"`

	// ProbeSchedule is a cron expression; empty disables periodic probes.
	ProbeSchedule string `yaml:"probe_schedule"`
}

// RoutingConfig configures candidate selection.
type RoutingConfig struct {
	// Rules maps task kinds to ordered provider preference lists.
	// Empty falls back to the built-in affinity table.
	Rules map[string][]string `yaml:"rules"`

	// RulesFile, when set, is a YAML file holding the rules table.
	// The file is watched and reloaded on change.
	RulesFile string `yaml:"rules_file"`
}

// ProviderConfig configures one provider adapter.
type ProviderConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Model        string        `yaml:"model"`
	BaseURL      string        `yaml:"base_url"`
	APIKey       string        `yaml:"api_key"`
	PriorityRank int           `yaml:"priority_rank"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxTokens    int           `yaml:"max_tokens"`
}

// HistoryConfig configures run-history persistence.
type HistoryConfig struct {
	Enabled       bool   `yaml:"enabled"`
	SQLitePath    string `yaml:"sqlite_path"`
	RetentionDays int    `yaml:"retention_days"`
	MaxRecords    int64  `yaml:"max_records"`
	PruneSchedule string `yaml:"prune_schedule"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}
