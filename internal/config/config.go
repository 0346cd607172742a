// Package config handles configuration loading and management for
// slo-advisor. It supports XDG config paths, project-level overrides, and
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/slodlc/slo-advisor/internal/guide"
	"github.com/slodlc/slo-advisor/internal/worksheet"
)

// Config holds all configuration for slo-advisor.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Models    ModelsConfig    `mapstructure:"models"`
	Retry     RetryConfig     `mapstructure:"retry"`
	Limits    LimitsConfig    `mapstructure:"limits"`
	Policy    PolicyConfig    `mapstructure:"policy"`
	Output    OutputConfig    `mapstructure:"output"`
	API       APIConfig       `mapstructure:"api"`
	Log       LogConfig       `mapstructure:"log"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// ModelsConfig holds model selection settings.
type ModelsConfig struct {
	// Primary is the model tried first.
	Primary string `mapstructure:"primary"`
	// Fallback is tried when the primary exhausts its retries. Empty
	// disables fallback.
	Fallback string `mapstructure:"fallback"`
}

// RetryConfig holds retry settings for model calls.
type RetryConfig struct {
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int `mapstructure:"max_retries"`
	// InitialBackoff is the delay before the first retry; it doubles on
	// each subsequent retry.
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
}

// LimitsConfig holds input size limits.
type LimitsConfig struct {
	// MaxFileSize is the worksheet size ceiling in bytes.
	MaxFileSize int64 `mapstructure:"max_file_size"`
	// TokenBudget is the per-request worksheet token budget; larger
	// worksheets are chunked.
	TokenBudget int `mapstructure:"token_budget"`
}

// PolicyConfig points at an optional worksheet validation policy file.
type PolicyConfig struct {
	Path string `mapstructure:"path"`
}

// OutputConfig holds output destination settings.
type OutputConfig struct {
	// Repository is the documentation repository guides are destined for.
	Repository string `mapstructure:"repository"`
	// Dir is the directory guides are written into. Empty means the
	// current directory.
	Dir string `mapstructure:"dir"`
}

// APIConfig holds API transport settings.
type APIConfig struct {
	// UseBedrock routes model calls through AWS Bedrock instead of the
	// Anthropic API.
	UseBedrock bool   `mapstructure:"use_bedrock"`
	AWSRegion  string `mapstructure:"aws_region"`
	AWSProfile string `mapstructure:"aws_profile"`
}

// LogConfig holds debug logging settings.
type LogConfig struct {
	// File is the debug log path. Empty disables debug logging.
	File string `mapstructure:"file"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY, SLO_ADVISOR_*)
// 2. Project config (.slo-advisor.yaml in current directory or parent)
// 3. User config (~/.config/slo-advisor/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Load user config from XDG path
	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			// Merge project config (takes precedence)
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	// Environment variable overrides: SLO_ADVISOR_MODELS_PRIMARY etc.
	v.SetEnvPrefix("SLO_ADVISOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Map specific environment variables
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("models.primary", cfg.Models.Primary)
	v.Set("models.fallback", cfg.Models.Fallback)
	v.Set("retry.max_retries", cfg.Retry.MaxRetries)
	v.Set("retry.initial_backoff", cfg.Retry.InitialBackoff.String())
	v.Set("limits.max_file_size", cfg.Limits.MaxFileSize)
	v.Set("limits.token_budget", cfg.Limits.TokenBudget)
	v.Set("policy.path", cfg.Policy.Path)
	v.Set("output.repository", cfg.Output.Repository)
	v.Set("output.dir", cfg.Output.Dir)
	v.Set("api.use_bedrock", cfg.API.UseBedrock)
	v.Set("api.aws_region", cfg.API.AWSRegion)
	v.Set("api.aws_profile", cfg.API.AWSProfile)
	v.Set("log.file", cfg.Log.File)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	// Anthropic defaults
	v.SetDefault("anthropic.api_key", "")

	// Model defaults
	v.SetDefault("models.primary", guide.ModelSonnet)
	v.SetDefault("models.fallback", guide.ModelHaiku)

	// Retry defaults
	v.SetDefault("retry.max_retries", 3)
	v.SetDefault("retry.initial_backoff", "1s")

	// Input limit defaults
	v.SetDefault("limits.max_file_size", worksheet.DefaultMaxFileSize)
	v.SetDefault("limits.token_budget", guide.DefaultTokenBudget)

	// Validation policy defaults
	v.SetDefault("policy.path", "")

	// Output defaults
	v.SetDefault("output.repository", "slo-docs")
	v.SetDefault("output.dir", "")

	// API transport defaults
	v.SetDefault("api.use_bedrock", false)
	v.SetDefault("api.aws_region", "")
	v.SetDefault("api.aws_profile", "")

	// Logging defaults
	v.SetDefault("log.file", "")
}

// getUserConfigDir returns the XDG config directory for slo-advisor.
func getUserConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "slo-advisor")
	}

	// Fall back to ~/.config/slo-advisor
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "slo-advisor")
	}
	return filepath.Join(home, ".config", "slo-advisor")
}

// findProjectConfig searches for .slo-advisor.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".slo-advisor.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Anthropic: AnthropicConfig{
			APIKey: "",
		},
		Models: ModelsConfig{
			Primary:  guide.ModelSonnet,
			Fallback: guide.ModelHaiku,
		},
		Retry: RetryConfig{
			MaxRetries:     3,
			InitialBackoff: time.Second,
		},
		Limits: LimitsConfig{
			MaxFileSize: worksheet.DefaultMaxFileSize,
			TokenBudget: guide.DefaultTokenBudget,
		},
		Output: OutputConfig{
			Repository: "slo-docs",
		},
	}
}
