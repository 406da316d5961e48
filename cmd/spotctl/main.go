// Package main provides spotctl, the command line client of the study spot finder.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"spotfinder/cmd/spotctl/commands"
	"spotfinder/internal/api"
	"spotfinder/internal/config"
	"spotfinder/internal/observability"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// The CLI only reports errors on stderr and never exports telemetry
	cfg.Server.LogLevel = "error"
	cfg.OpenTelemetry.EnableTracing = false
	cfg.OpenTelemetry.EnableMetrics = false
	cfg.OpenTelemetry.EnableLogging = false

	_, _, logger, err := observability.SetupObservability(&cfg.OpenTelemetry, "spotctl", observability.ParseLevel(cfg.Server.LogLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize observability: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// built after flag parsing so --api takes effect
	newClient := func(l *observability.Logger) commands.SpotAPI {
		return api.NewClient(&cfg.API, l)
	}

	rootCmd := &cobra.Command{
		Use:   "spotctl",
		Short: "Study spot finder command line client",
		Long: `Study spot finder command line client

Manage study spots and reviews on the study spot backend, get recommendations
for a set of survey answers, or browse everything interactively with "spotctl tui".`,
		SilenceUsage: true,

		Run: func(cmd *cobra.Command, _ []string) {
			// Show help if no subcommand provided
			if err := cmd.Help(); err != nil {
				fmt.Printf("Error showing help: %v\n", err)
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfg.API.BaseURL, "api", cfg.API.BaseURL, "study spot backend base URL")

	rootCmd.AddCommand(commands.SpotCommands(newClient, logger))
	rootCmd.AddCommand(commands.ReviewCommands(newClient, logger))
	rootCmd.AddCommand(commands.RecommendCommand(newClient, logger, cfg))
	rootCmd.AddCommand(commands.TUICommand(newClient, cfg))
	rootCmd.AddCommand(commands.VersionCommand())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
