package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/slodlc/slo-advisor/internal/config"
	"github.com/slodlc/slo-advisor/internal/worksheet"
)

var validateCmd = &cobra.Command{
	Use:   "validate <worksheet>",
	Short: "Validate a Discovery worksheet",
	Long: `Validate a SLODLC Discovery worksheet without generating anything.

Checks the file extension, size, that the content is text, and that it
contains no executable or injection patterns. The same gate runs before
every generation; this command runs it standalone so CI can fail fast on
a bad worksheet.

Exits non-zero when validation fails. No error document is produced.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		validator, err := buildValidator(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		res := validator.Validate(args[0])
		if !res.OK {
			fmt.Printf("%s Validation failed: %s\n", color.RedString("✗"), res.Reason)
			os.Exit(1)
		}
		fmt.Printf("%s %s\n", color.GreenString("✓"), res.Reason)
	},
}

// buildValidator applies configured size and policy overrides to the
// default worksheet validator.
func buildValidator(cfg *config.Config) (*worksheet.Validator, error) {
	v := worksheet.NewValidator()
	if cfg.Limits.MaxFileSize > 0 {
		v.SetMaxFileSize(cfg.Limits.MaxFileSize)
	}
	if cfg.Policy.Path != "" {
		if err := v.LoadPolicy(cfg.Policy.Path); err != nil {
			return nil, fmt.Errorf("load validation policy: %w", err)
		}
	}
	return v, nil
}
