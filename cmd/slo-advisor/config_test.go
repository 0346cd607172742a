package main

import (
	"strings"
	"testing"
	"time"

	"github.com/slodlc/slo-advisor/internal/config"
)

func TestGetConfigValue(t *testing.T) {
	cfg := config.Default()
	cfg.Anthropic.APIKey = "sk-ant-REDACTED"
	cfg.Policy.Path = "policy.yaml"
	cfg.API.AWSRegion = "us-west-2"

	tests := []struct {
		key      string
		expected string
	}{
		{"anthropic.api_key", "sk-ant-...1234"},
		{"models.primary", "claude-sonnet-4-20250514"},
		{"models.fallback", "claude-3-5-haiku-20241022"},
		{"retry.max_retries", "3"},
		{"retry.initial_backoff", "1s"},
		{"limits.max_file_size", "5242880"},
		{"limits.token_budget", "150000"},
		{"policy.path", "policy.yaml"},
		{"output.repository", "slo-docs"},
		{"output.dir", ""},
		{"api.use_bedrock", "false"},
		{"api.aws_region", "us-west-2"},
		{"api.aws_profile", ""},
		{"log.file", ""},
		{"RETRY.MAX_RETRIES", "3"}, // keys are case-insensitive
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := getConfigValue(cfg, tt.key)
			if err != nil {
				t.Fatalf("getConfigValue(%q) returned error: %v", tt.key, err)
			}
			if got != tt.expected {
				t.Errorf("getConfigValue(%q) = %q, want %q", tt.key, got, tt.expected)
			}
		})
	}
}

func TestGetConfigValueUnknownKey(t *testing.T) {
	cfg := config.Default()

	_, err := getConfigValue(cfg, "nope.nothing")
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown configuration key") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGetConfigValueMasksAPIKey(t *testing.T) {
	cfg := config.Default()

	got, err := getConfigValue(cfg, "anthropic.api_key")
	if err != nil {
		t.Fatalf("getConfigValue returned error: %v", err)
	}
	if got != "(not set)" {
		t.Errorf("empty key displayed as %q, want %q", got, "(not set)")
	}

	cfg.Anthropic.APIKey = "sk-ant-secret"
	got, _ = getConfigValue(cfg, "anthropic.api_key")
	if strings.Contains(got, "secret") {
		t.Errorf("display %q leaks the key", got)
	}
}

func TestSetConfigValue(t *testing.T) {
	cfg := config.Default()

	if err := setConfigValue(cfg, "models.primary", "claude-opus-4-20250514"); err != nil {
		t.Fatalf("set models.primary: %v", err)
	}
	if cfg.Models.Primary != "claude-opus-4-20250514" {
		t.Errorf("Models.Primary = %q", cfg.Models.Primary)
	}

	if err := setConfigValue(cfg, "models.fallback", ""); err != nil {
		t.Fatalf("set models.fallback: %v", err)
	}
	if cfg.Models.Fallback != "" {
		t.Errorf("Models.Fallback = %q, want empty (fallback disabled)", cfg.Models.Fallback)
	}

	if err := setConfigValue(cfg, "retry.max_retries", "5"); err != nil {
		t.Fatalf("set retry.max_retries: %v", err)
	}
	if cfg.Retry.MaxRetries != 5 {
		t.Errorf("Retry.MaxRetries = %d, want 5", cfg.Retry.MaxRetries)
	}

	if err := setConfigValue(cfg, "retry.initial_backoff", "2500ms"); err != nil {
		t.Fatalf("set retry.initial_backoff: %v", err)
	}
	if cfg.Retry.InitialBackoff != 2500*time.Millisecond {
		t.Errorf("Retry.InitialBackoff = %s, want 2.5s", cfg.Retry.InitialBackoff)
	}

	if err := setConfigValue(cfg, "limits.max_file_size", "1048576"); err != nil {
		t.Fatalf("set limits.max_file_size: %v", err)
	}
	if cfg.Limits.MaxFileSize != 1048576 {
		t.Errorf("Limits.MaxFileSize = %d, want 1048576", cfg.Limits.MaxFileSize)
	}

	if err := setConfigValue(cfg, "api.use_bedrock", "true"); err != nil {
		t.Fatalf("set api.use_bedrock: %v", err)
	}
	if !cfg.API.UseBedrock {
		t.Error("API.UseBedrock not set")
	}

	if err := setConfigValue(cfg, "anthropic.api_key", "sk-ant-REDACTED"); err != nil {
		t.Fatalf("set anthropic.api_key: %v", err)
	}
	if cfg.Anthropic.APIKey != "sk-ant-REDACTED" {
		t.Errorf("Anthropic.APIKey = %q", cfg.Anthropic.APIKey)
	}

	// Env references and unsetting skip the format check.
	if err := setConfigValue(cfg, "anthropic.api_key", "${SLO_KEY}"); err != nil {
		t.Fatalf("set anthropic.api_key to env reference: %v", err)
	}
	if err := setConfigValue(cfg, "anthropic.api_key", ""); err != nil {
		t.Fatalf("unset anthropic.api_key: %v", err)
	}
}

func TestSetConfigValueRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"non-numeric retries", "retry.max_retries", "many", "invalid value for max_retries"},
		{"non-duration backoff", "retry.initial_backoff", "soon", "invalid duration for initial_backoff"},
		{"non-numeric file size", "limits.max_file_size", "big", "invalid value for max_file_size"},
		{"non-numeric budget", "limits.token_budget", "lots", "invalid value for token_budget"},
		{"non-boolean bedrock", "api.use_bedrock", "maybe", "invalid boolean for use_bedrock"},
		{"wrong key prefix", "anthropic.api_key", "sk-openai-12345678901234567890", "invalid API key"},
		{"truncated key", "anthropic.api_key", "sk-ant-abc", "invalid API key"},
		{"unknown key", "tier.default", "builder", "unknown configuration key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			err := setConfigValue(cfg, tt.key, tt.value)
			if err == nil {
				t.Fatalf("setConfigValue(%q, %q) succeeded, want error", tt.key, tt.value)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSetConfigValueRoundTrip(t *testing.T) {
	// Every settable key should display back what was set, except the
	// API key which is always masked.
	values := map[string]string{
		"models.primary":        "claude-opus-4-20250514",
		"models.fallback":       "claude-3-5-haiku-20241022",
		"retry.max_retries":     "7",
		"retry.initial_backoff": "750ms",
		"limits.max_file_size":  "2097152",
		"limits.token_budget":   "90000",
		"policy.path":           "custom-policy.yaml",
		"output.repository":     "platform-docs",
		"output.dir":            "out",
		"api.use_bedrock":       "true",
		"api.aws_region":        "eu-central-1",
		"api.aws_profile":       "observability",
		"log.file":              "debug.log",
	}

	cfg := config.Default()
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			t.Fatalf("setConfigValue(%q, %q): %v", key, value, err)
		}
		got, err := getConfigValue(cfg, key)
		if err != nil {
			t.Fatalf("getConfigValue(%q): %v", key, err)
		}
		if got != value {
			t.Errorf("round trip for %s: set %q, got %q", key, value, got)
		}
	}
}
