package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults, and
// validates the result. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and then
// applies environment variable overrides. Variables follow the convention
// ARBITER_SECTION_FIELD (e.g. ARBITER_RACE_DEADLINE) and always take
// precedence over file values.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("ARBITER_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("ARBITER_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("ARBITER_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	if val := os.Getenv("ARBITER_RACE_DEADLINE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Race.Deadline = d
		}
	}
	if val := os.Getenv("ARBITER_RACE_TIE_WINDOW"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Race.TieWindow = d
		}
	}

	if val := os.Getenv("ARBITER_HEALTH_PROBE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Health.ProbeTimeout = d
		}
	}
	if val := os.Getenv("ARBITER_HEALTH_PROBE_SCHEDULE"); val != "" {
		cfg.Health.ProbeSchedule = val
	}

	if val := os.Getenv("ARBITER_ROUTING_RULES_FILE"); val != "" {
		cfg.Routing.RulesFile = val
	}

	for name := range knownProviders {
		applyProviderEnvOverrides(cfg, name)
	}

	if val := os.Getenv("ARBITER_HISTORY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.History.Enabled = b
		}
	}
	if val := os.Getenv("ARBITER_HISTORY_SQLITE_PATH"); val != "" {
		cfg.History.SQLitePath = val
	}
	if val := os.Getenv("ARBITER_HISTORY_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.History.RetentionDays = i
		}
	}

	if val := os.Getenv("ARBITER_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("ARBITER_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}

	if val := os.Getenv("ARBITER_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
}

// applyProviderEnvOverrides applies ARBITER_PROVIDERS_<NAME>_<FIELD>
// overrides for one provider.
func applyProviderEnvOverrides(cfg *Config, providerName string) {
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}

	provider, exists := cfg.Providers[providerName]
	prefix := fmt.Sprintf("ARBITER_PROVIDERS_%s_", strings.ToUpper(providerName))
	modified := false

	if val := os.Getenv(prefix + "ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			provider.Enabled = b
			modified = true
		}
	}
	if val := os.Getenv(prefix + "MODEL"); val != "" {
		provider.Model = val
		modified = true
	}
	if val := os.Getenv(prefix + "BASE_URL"); val != "" {
		provider.BaseURL = val
		modified = true
	}
	if val := os.Getenv(prefix + "API_KEY"); val != "" {
		provider.APIKey = val
		modified = true
	}
	if val := os.Getenv(prefix + "PRIORITY_RANK"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			provider.PriorityRank = i
			modified = true
		}
	}
	if val := os.Getenv(prefix + "TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			provider.Timeout = d
			modified = true
		}
	}
	if val := os.Getenv(prefix + "MAX_TOKENS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			provider.MaxTokens = i
			modified = true
		}
	}

	if modified || exists {
		if provider.Timeout == 0 {
			provider.Timeout = DefaultProviderTimeout
		}
		cfg.Providers[providerName] = provider
	}
}
