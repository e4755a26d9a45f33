package config

import "time"

// Default values applied to unset fields.
const (
	DefaultListenAddress   = ":8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	DefaultRaceDeadline = 45 * time.Second
	DefaultTieWindow    = 10 * time.Millisecond

	DefaultProbeTimeout  = 5 * time.Second
	DefaultProbeSchedule = "*/1 * * * *"

	DefaultProviderTimeout = 60 * time.Second

	DefaultRetentionDays = 30
	DefaultMaxRecords    = 100000
	DefaultPruneSchedule = "0 3 * * *"

	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultMetricsPath = "/metrics"
)

// DefaultConfig returns a configuration with every field at its default.
// Providers are empty; at least one must be configured and enabled.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills unset fields in place.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Race.Deadline == 0 {
		cfg.Race.Deadline = DefaultRaceDeadline
	}
	if cfg.Race.TieWindow == 0 {
		cfg.Race.TieWindow = DefaultTieWindow
	}

	if cfg.Health.ProbeTimeout == 0 {
		cfg.Health.ProbeTimeout = DefaultProbeTimeout
	}
	if cfg.Health.ProbeSchedule == "" {
		cfg.Health.ProbeSchedule = DefaultProbeSchedule
	}

	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	for name, p := range cfg.Providers {
		if p.Timeout == 0 {
			p.Timeout = DefaultProviderTimeout
		}
		cfg.Providers[name] = p
	}

	if cfg.History.RetentionDays == 0 {
		cfg.History.RetentionDays = DefaultRetentionDays
	}
	if cfg.History.MaxRecords == 0 {
		cfg.History.MaxRecords = DefaultMaxRecords
	}
	if cfg.History.PruneSchedule == "" {
		cfg.History.PruneSchedule = DefaultPruneSchedule
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}
