package api

import (
	"os"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
)

func TestNewClient_WithAPIKey(t *testing.T) {
	cfg := ClientConfig{
		APIKey: "test-key-123",
		Model:  anthropic.ModelClaudeSonnet4_20250514,
	}

	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if client == nil {
		t.Fatal("NewClient returned nil")
	}

	if client.Model() != anthropic.ModelClaudeSonnet4_20250514 {
		t.Errorf("Model = %q, want %q", client.Model(), anthropic.ModelClaudeSonnet4_20250514)
	}
}

func TestNewClient_WithEnvVar(t *testing.T) {
	// Save and restore original env var
	original := os.Getenv("ANTHROPIC_API_KEY")
	defer os.Setenv("ANTHROPIC_API_KEY", original)

	os.Setenv("ANTHROPIC_API_KEY", "env-test-key")

	client, err := NewClient(ClientConfig{})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if client == nil {
		t.Fatal("NewClient returned nil")
	}
}

func TestNewClient_NoAPIKey(t *testing.T) {
	// Save and restore original env var
	original := os.Getenv("ANTHROPIC_API_KEY")
	defer os.Setenv("ANTHROPIC_API_KEY", original)

	os.Unsetenv("ANTHROPIC_API_KEY")

	_, err := NewClient(ClientConfig{})
	if err == nil {
		t.Fatal("NewClient should fail without API key")
	}

	expected := "ANTHROPIC_API_KEY environment variable is not set"
	if err.Error() != expected {
		t.Errorf("Error = %q, want %q", err.Error(), expected)
	}
}

func TestNewClient_DefaultModel(t *testing.T) {
	client, err := NewClient(ClientConfig{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	// Should default to Sonnet
	if client.Model() != anthropic.ModelClaudeSonnet4_20250514 {
		t.Errorf("Default model = %q, want %q", client.Model(), anthropic.ModelClaudeSonnet4_20250514)
	}
}

func TestNewClient_Bedrock(t *testing.T) {
	// Skip if AWS credentials not available
	if os.Getenv("AWS_REGION") == "" && os.Getenv("AWS_DEFAULT_REGION") == "" {
		t.Skip("AWS_REGION not set, skipping Bedrock test")
	}

	cfg := ClientConfig{
		UseAWSBedrock: true,
		AWSRegion:     "us-west-2",
		Model:         anthropic.ModelClaudeSonnet4_20250514,
	}

	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient with Bedrock failed: %v", err)
	}

	if !strings.HasPrefix(string(client.Model()), "us.anthropic.") {
		t.Errorf("Model = %q, want Bedrock inference profile format", client.Model())
	}
}

func TestTranslateModelForBedrock(t *testing.T) {
	tests := []struct {
		name     string
		model    anthropic.Model
		expected anthropic.Model
	}{
		{
			"sonnet mapped",
			anthropic.ModelClaudeSonnet4_20250514,
			"us.anthropic.claude-sonnet-4-20250514-v1:0",
		},
		{
			"haiku mapped",
			anthropic.ModelClaude3_5Haiku20241022,
			"us.anthropic.claude-3-5-haiku-20241022-v1:0",
		},
		{
			"already bedrock format passes through",
			"us.anthropic.claude-sonnet-4-20250514-v1:0",
			"us.anthropic.claude-sonnet-4-20250514-v1:0",
		},
		{
			"unknown model passes through",
			"custom-model",
			"custom-model",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := translateModelForBedrock(tc.model)
			if got != tc.expected {
				t.Errorf("translateModelForBedrock(%q) = %q, want %q", tc.model, got, tc.expected)
			}
		})
	}
}

func TestClient_TranslateModelDirectAPI(t *testing.T) {
	client, err := NewClient(ClientConfig{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	// Direct API clients must not rewrite model names.
	got := client.TranslateModel(anthropic.ModelClaude3_5Haiku20241022)
	if got != anthropic.ModelClaude3_5Haiku20241022 {
		t.Errorf("TranslateModel = %q, want %q", got, anthropic.ModelClaude3_5Haiku20241022)
	}
}

func TestClient_TotalUsage(t *testing.T) {
	client, err := NewClient(ClientConfig{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if usage, calls := client.TotalUsage(); calls != 0 || usage.InputTokens != 0 || usage.OutputTokens != 0 {
		t.Errorf("fresh client reports %d in / %d out over %d calls", usage.InputTokens, usage.OutputTokens, calls)
	}

	client.record(Usage{InputTokens: 100, OutputTokens: 50})
	client.record(Usage{InputTokens: 200, OutputTokens: 100})
	client.record(Usage{InputTokens: 50, OutputTokens: 25})

	usage, calls := client.TotalUsage()
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if usage.InputTokens != 350 {
		t.Errorf("InputTokens = %d, want 350", usage.InputTokens)
	}
	if usage.OutputTokens != 175 {
		t.Errorf("OutputTokens = %d, want 175", usage.OutputTokens)
	}
}
