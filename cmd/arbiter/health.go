package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

var healthFlags struct {
	jsonOut bool
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe every configured provider",
	Long:  `Probe every configured provider with a one-token request and print status and latency.`,
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)

	healthCmd.Flags().BoolVar(&healthFlags.jsonOut, "json", false, "print the snapshot as JSON")
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	orch, _, err := buildOrchestrator(cfg, nil, nil)
	if err != nil {
		return err
	}

	snap := orch.Health(context.Background(), true)

	if healthFlags.jsonOut {
		return printJSON(cmd.OutOrStdout(), snap)
	}

	names := make([]string, 0, len(snap.Records))
	for name := range snap.Records {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rec := snap.Records[name]
		line := fmt.Sprintf("%-12s %-10s %8s  %s",
			name, rec.Status, rec.Latency.Round(time.Millisecond), rec.Model)
		if rec.LastError != "" {
			line += "  (" + rec.LastError + ")"
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
