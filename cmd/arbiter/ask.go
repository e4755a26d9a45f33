package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/helios-ai/arbiter/pkg/routing"
)

var askFlags struct {
	task     string
	provider string
	online   bool
	jsonOut  bool
}

var askCmd = &cobra.Command{
	Use:   "ask [prompt]",
	Short: "Send one request through the router",
	Long: `Send one prompt through the router and print the winning result.

Examples:
  # Let the affinity table pick the provider
  arbiter ask --task write "Draft a release announcement"

  # Force a specific provider
  arbiter ask --provider openai "Explain the race executor"

  # Ask for live, web-grounded information
  arbiter ask --online "What changed in Go 1.25?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVarP(&askFlags.task, "task", "t", "", "task kind (research, analysis, write, review)")
	askCmd.Flags().StringVarP(&askFlags.provider, "provider", "p", "", "explicit provider override")
	askCmd.Flags().BoolVar(&askFlags.online, "online", false, "request live, web-grounded information")
	askCmd.Flags().BoolVar(&askFlags.jsonOut, "json", false, "print the full outcome as JSON")
}

func runAsk(cmd *cobra.Command, args []string) error {
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

	req := routing.TaskRequest{
		TaskKind:  routing.ParseTaskKind(askFlags.task),
		Prompt:    strings.Join(args, " "),
		Preferred: askFlags.provider,
		Online:    askFlags.online,
	}

	outcome, err := orch.Ask(context.Background(), req)
	if err != nil {
		return err
	}

	if askFlags.jsonOut {
		return printJSON(cmd.OutOrStdout(), outcome)
	}

	if !outcome.Succeeded() {
		fmt.Fprintf(cmd.ErrOrStderr(), "no provider produced a result (%s)\n", outcome.RoutingReason)
		for _, rec := range outcome.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %-12s %-22s %s\n", rec.Provider, rec.Kind, rec.Message)
		}
		return fmt.Errorf("all %d attempts failed", len(outcome.Errors))
	}

	result := outcome.Result
	fmt.Fprintln(cmd.OutOrStdout(), result.Content)
	fmt.Fprintf(cmd.OutOrStdout(), "\n[%s/%s, %s, %s, %d tokens out]\n",
		result.Provider.Name, result.Provider.Model,
		outcome.RoutingReason, outcome.Duration.Round(time.Millisecond), result.TokensOut)
	return nil
}
