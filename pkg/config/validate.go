package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// knownProviders are the adapter implementations this build ships.
var knownProviders = map[string]bool{
	"openai":     true,
	"anthropic":  true,
	"perplexity": true,
}

// Validate checks the configuration for internal consistency.
func Validate(cfg *Config) error {
	if cfg.Race.Deadline <= 0 {
		return fmt.Errorf("race.deadline must be positive, got %s", cfg.Race.Deadline)
	}
	if cfg.Race.TieWindow < 0 {
		return fmt.Errorf("race.tie_window must not be negative, got %s", cfg.Race.TieWindow)
	}
	if cfg.Health.ProbeTimeout <= 0 {
		return fmt.Errorf("health.probe_timeout must be positive, got %s", cfg.Health.ProbeTimeout)
	}
	if cfg.Health.ProbeTimeout >= cfg.Race.Deadline {
		return fmt.Errorf("health.probe_timeout (%s) must be smaller than race.deadline (%s)",
			cfg.Health.ProbeTimeout, cfg.Race.Deadline)
	}
	if cfg.Health.ProbeSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Health.ProbeSchedule); err != nil {
			return fmt.Errorf("invalid health.probe_schedule %q: %w", cfg.Health.ProbeSchedule, err)
		}
	}

	enabled := 0
	for name, p := range cfg.Providers {
		if !knownProviders[name] {
			return fmt.Errorf("unknown provider %q in configuration", name)
		}
		if !p.Enabled {
			continue
		}
		enabled++
		if p.APIKey == "" {
			return fmt.Errorf("provider %q is enabled but has no api_key", name)
		}
		if p.PriorityRank <= 0 {
			return fmt.Errorf("provider %q needs a positive priority_rank", name)
		}
		if p.Timeout <= 0 {
			return fmt.Errorf("provider %q needs a positive timeout", name)
		}
	}
	if enabled == 0 {
		return fmt.Errorf("at least one provider must be enabled")
	}

	for kind, list := range cfg.Routing.Rules {
		if len(list) == 0 {
			return fmt.Errorf("routing rule for %q is empty", kind)
		}
		for _, name := range list {
			if !knownProviders[name] {
				return fmt.Errorf("routing rule for %q names unknown provider %q", kind, name)
			}
		}
	}

	if cfg.History.Enabled && cfg.History.SQLitePath == "" {
		return fmt.Errorf("history.sqlite_path is required when history is enabled")
	}
	if cfg.History.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.History.PruneSchedule); err != nil {
			return fmt.Errorf("invalid history.prune_schedule %q: %w", cfg.History.PruneSchedule, err)
		}
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid logging.format %q", cfg.Logging.Format)
	}

	return nil
}
