package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/slodlc/slo-advisor/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify slo-advisor configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/slo-advisor/config.yaml
Project-specific overrides can be placed in .slo-advisor.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a project configuration template",
	Long: `Create a .slo-advisor.yaml template in the current directory.

The template lists every supported key, commented out. Project settings
override the user configuration at ~/.config/slo-advisor/config.yaml.`,
	RunE: runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("anthropic.api_key: %s (%s)\n", config.MaskAPIKey(cfg.Anthropic.APIKey), config.GetAPIKeySource(cfg))
	fmt.Printf("models.primary: %s\n", cfg.Models.Primary)
	fmt.Printf("models.fallback: %s\n", cfg.Models.Fallback)
	fmt.Printf("retry.max_retries: %d\n", cfg.Retry.MaxRetries)
	fmt.Printf("retry.initial_backoff: %s\n", cfg.Retry.InitialBackoff)
	fmt.Printf("limits.max_file_size: %d\n", cfg.Limits.MaxFileSize)
	fmt.Printf("limits.token_budget: %d\n", cfg.Limits.TokenBudget)
	fmt.Printf("policy.path: %s\n", cfg.Policy.Path)
	fmt.Printf("output.repository: %s\n", cfg.Output.Repository)
	fmt.Printf("output.dir: %s\n", cfg.Output.Dir)
	fmt.Printf("api.use_bedrock: %t\n", cfg.API.UseBedrock)
	fmt.Printf("api.aws_region: %s\n", cfg.API.AWSRegion)
	fmt.Printf("api.aws_profile: %s\n", cfg.API.AWSProfile)
	fmt.Printf("log.file: %s\n", cfg.Log.File)
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		return config.MaskAPIKey(cfg.Anthropic.APIKey), nil
	case "models.primary":
		return cfg.Models.Primary, nil
	case "models.fallback":
		return cfg.Models.Fallback, nil
	case "retry.max_retries":
		return strconv.Itoa(cfg.Retry.MaxRetries), nil
	case "retry.initial_backoff":
		return cfg.Retry.InitialBackoff.String(), nil
	case "limits.max_file_size":
		return strconv.FormatInt(cfg.Limits.MaxFileSize, 10), nil
	case "limits.token_budget":
		return strconv.Itoa(cfg.Limits.TokenBudget), nil
	case "policy.path":
		return cfg.Policy.Path, nil
	case "output.repository":
		return cfg.Output.Repository, nil
	case "output.dir":
		return cfg.Output.Dir, nil
	case "api.use_bedrock":
		return strconv.FormatBool(cfg.API.UseBedrock), nil
	case "api.aws_region":
		return cfg.API.AWSRegion, nil
	case "api.aws_profile":
		return cfg.API.AWSProfile, nil
	case "log.file":
		return cfg.Log.File, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "anthropic.api_key":
		// ${VAR} references resolve at load time and cannot be checked
		// here; empty unsets the key.
		if value != "" && !strings.Contains(value, "${") {
			if err := config.ValidateAPIKey(value); err != nil {
				return err
			}
		}
		cfg.Anthropic.APIKey = value
	case "models.primary":
		cfg.Models.Primary = value
	case "models.fallback":
		cfg.Models.Fallback = value
	case "retry.max_retries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_retries: %w", err)
		}
		cfg.Retry.MaxRetries = n
	case "retry.initial_backoff":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for initial_backoff: %w", err)
		}
		cfg.Retry.InitialBackoff = d
	case "limits.max_file_size":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid value for max_file_size: %w", err)
		}
		cfg.Limits.MaxFileSize = n
	case "limits.token_budget":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for token_budget: %w", err)
		}
		cfg.Limits.TokenBudget = n
	case "policy.path":
		cfg.Policy.Path = value
	case "output.repository":
		cfg.Output.Repository = value
	case "output.dir":
		cfg.Output.Dir = value
	case "api.use_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for use_bedrock: %w", err)
		}
		cfg.API.UseBedrock = b
	case "api.aws_region":
		cfg.API.AWSRegion = value
	case "api.aws_profile":
		cfg.API.AWSProfile = value
	case "log.file":
		cfg.Log.File = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := ".slo-advisor.yaml"

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("%s already exists, not overwriting.\n", configPath)
		return nil
	}

	template := `# slo-advisor project configuration
# This file overrides defaults from ~/.config/slo-advisor/config.yaml

# models:
#   primary: claude-sonnet-4-20250514
#   fallback: claude-3-5-haiku-20241022

# retry:
#   max_retries: 3
#   initial_backoff: 1s

# limits:
#   max_file_size: 5242880
#   token_budget: 150000

# policy:
#   path: .slo-advisor-policy.yaml

# output:
#   repository: slo-docs
#   dir: .

# api:
#   use_bedrock: false
#   aws_region: us-west-2

# log:
#   file: .slo-advisor/debug.log
`

	if err := os.WriteFile(configPath, []byte(template), 0644); err != nil {
		return fmt.Errorf("write %s: %w", configPath, err)
	}

	fmt.Printf("%s Created %s\n", color.GreenString("✓"), configPath)
	return nil
}
