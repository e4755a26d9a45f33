package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/helios-ai/arbiter/pkg/config"
	"github.com/helios-ai/arbiter/pkg/health"
	"github.com/helios-ai/arbiter/pkg/history"
	"github.com/helios-ai/arbiter/pkg/orchestrator"
	"github.com/helios-ai/arbiter/pkg/server"
	"github.com/helios-ai/arbiter/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Arbiter API server",
	Long: `Start the Arbiter API server with the specified configuration.

The server accepts ask requests, probes provider health on a schedule,
and exposes routing rules, run history, and Prometheus metrics.

Examples:
  # Start with default config
  arbiter run

  # Start with custom config
  arbiter run --config /etc/arbiter/config.yaml

  # Override listen address
  arbiter run --listen 0.0.0.0:9000

  # Validate config without starting the server
  arbiter run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Logging.Level = runFlags.logLevel
	}

	if err := setupLogging(cfg); err != nil {
		return err
	}

	if runFlags.dryRun {
		fmt.Println("configuration valid")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	var (
		store    history.Store
		recorder *history.Recorder
		sink     orchestrator.RunSink
	)
	if cfg.History.Enabled {
		sqlStore, err := history.NewSQLiteStore(cfg.History.SQLitePath)
		if err != nil {
			return err
		}
		store = sqlStore
		recorder = history.NewRecorder(sqlStore)
		sink = recorder
		defer func() {
			recorder.Close()
			store.Close()
		}()

		pruner := history.NewPruner(sqlStore, history.PrunerConfig{
			RetentionDays: cfg.History.RetentionDays,
			MaxRecords:    cfg.History.MaxRecords,
			Schedule:      cfg.History.PruneSchedule,
		})
		if err := pruner.Start(ctx); err != nil {
			return err
		}
	}

	orch, prober, err := buildOrchestrator(cfg, m, sink)
	if err != nil {
		return err
	}

	scheduler := health.NewScheduler(prober, cfg.Health.ProbeSchedule)
	if err := scheduler.Start(ctx); err != nil {
		return err
	}

	if cfg.Routing.RulesFile != "" {
		if err := watchRules(ctx, cfg, orch); err != nil {
			return err
		}
	}

	srv := server.New(cfg.Server, orch, server.Options{
		Store:       store,
		Metrics:     m,
		MetricsPath: cfg.Metrics.Path,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutdown signal received")
		return srv.Shutdown(context.Background())
	}
}

// watchRules starts the hot-reload watcher for the routing rules file.
func watchRules(ctx context.Context, cfg *config.Config, orch *orchestrator.Orchestrator) error {
	watcher, err := config.NewRulesWatcher(cfg.Routing.RulesFile)
	if err != nil {
		return err
	}

	go func() {
		err := watcher.Watch(ctx, func(raw map[string][]string) {
			if err := orch.ReloadRules(rulesFromConfig(raw)); err != nil {
				slog.Error("rejected reloaded routing rules", "error", err)
			}
		})
		if err != nil {
			slog.Error("rules watcher exited", "error", err)
		}
	}()

	return nil
}
