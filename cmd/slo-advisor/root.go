package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "slo-advisor",
	Short: "SLO Implementation Guide generator",
	Long: `slo-advisor turns SLODLC Discovery worksheets into SLO Implementation
Guides for a chosen observability platform, using the Anthropic API.

Core capabilities:
- Validates Discovery worksheets before any content reaches a model
- Generates platform-specific guides for Dynatrace, Grafana, LogicMonitor,
  Splunk, or any other platform by name
- Retries transient API failures with backoff and falls back to a second
  model when the primary is exhausted
- Splits oversized worksheets into chunks that fit the model token budget
- Writes a structured error document when generation fails`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
