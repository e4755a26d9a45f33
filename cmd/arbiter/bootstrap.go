package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/helios-ai/arbiter/pkg/config"
	"github.com/helios-ai/arbiter/pkg/health"
	"github.com/helios-ai/arbiter/pkg/orchestrator"
	"github.com/helios-ai/arbiter/pkg/providers"
	"github.com/helios-ai/arbiter/pkg/providers/anthropic"
	"github.com/helios-ai/arbiter/pkg/providers/openai"
	"github.com/helios-ai/arbiter/pkg/providers/perplexity"
	"github.com/helios-ai/arbiter/pkg/routing"
	"github.com/helios-ai/arbiter/pkg/telemetry/logging"
	"github.com/helios-ai/arbiter/pkg/telemetry/metrics"
)

// loadConfig loads the config file with environment overrides and applies
// CLI flag overrides on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// setupLogging installs the process logger with every configured API key
// registered for redaction.
func setupLogging(cfg *config.Config) error {
	secrets := make([]string, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		secrets = append(secrets, p.APIKey)
	}

	_, err := logging.Setup(cfg.Logging, logging.NewRedactor(secrets), os.Stdout)
	return err
}

// buildRegistry constructs one adapter per enabled provider.
func buildRegistry(cfg *config.Config) (*providers.Registry, error) {
	var adapters []providers.Adapter

	names := make([]string, 0, len(cfg.Providers))
	for name := range cfg.Providers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		pc := cfg.Providers[name]
		if !pc.Enabled {
			continue
		}

		providerCfg := providers.Config{
			Name:         name,
			Model:        pc.Model,
			BaseURL:      pc.BaseURL,
			APIKey:       pc.APIKey,
			PriorityRank: pc.PriorityRank,
			Timeout:      pc.Timeout,
			MaxTokens:    pc.MaxTokens,
		}

		var (
			adapter providers.Adapter
			err     error
		)
		switch name {
		case "openai":
			adapter, err = openai.NewAdapter(providerCfg)
		case "anthropic":
			adapter, err = anthropic.NewAdapter(providerCfg)
		case "perplexity":
			adapter, err = perplexity.NewAdapter(providerCfg)
		default:
			err = fmt.Errorf("unknown provider %q", name)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to build %s adapter: %w", name, err)
		}
		adapters = append(adapters, adapter)
	}

	return providers.NewRegistry(adapters...)
}

// buildOrchestrator wires registry, prober, and facade from config.
func buildOrchestrator(cfg *config.Config, m *metrics.Metrics, sink orchestrator.RunSink) (*orchestrator.Orchestrator, *health.Prober, error) {
	registry, err := buildRegistry(cfg)
	if err != nil {
		return nil, nil, err
	}

	prober := health.NewProber(registry, cfg.Health.ProbeTimeout)

	var rules routing.Rules
	if len(cfg.Routing.Rules) > 0 {
		rules = rulesFromConfig(cfg.Routing.Rules)
	}
	if cfg.Routing.RulesFile != "" {
		fileRules, err := config.LoadRulesFile(cfg.Routing.RulesFile)
		if err != nil {
			return nil, nil, err
		}
		rules = rulesFromConfig(fileRules)
	}

	orch := orchestrator.New(registry, prober, orchestrator.Options{
		Deadline:  cfg.Race.Deadline,
		TieWindow: cfg.Race.TieWindow,
		Rules:     rules,
		Metrics:   m,
		Sink:      sink,
	})

	return orch, prober, nil
}

// rulesFromConfig converts the config rules table into routing rules.
func rulesFromConfig(raw map[string][]string) routing.Rules {
	rules := make(routing.Rules, len(raw))
	for kind, list := range raw {
		rules[routing.TaskKind(kind)] = list
	}
	return rules
}
