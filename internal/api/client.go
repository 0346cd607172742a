// Package api wraps the Anthropic SDK for single-turn guide generation
// calls, with usage accounting and optional AWS Bedrock transport.
package api

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aws/aws-sdk-go-v2/config"
)

// Client is a thin wrapper over the Anthropic SDK that keeps a running
// total of token usage for end-of-run reporting.
type Client struct {
	inner anthropic.Client
	model anthropic.Model

	mu     sync.Mutex
	calls  int
	totals Usage
}

// ClientConfig selects the transport and default model for a Client.
type ClientConfig struct {
	// Model is used when a call does not name one. Empty selects Sonnet.
	Model anthropic.Model
	// APIKey overrides the ANTHROPIC_API_KEY environment variable.
	APIKey string
	// UseAWSBedrock routes calls through AWS Bedrock; no API key is
	// needed in that mode.
	UseAWSBedrock bool
	AWSRegion     string
	AWSProfile    string
}

// NewClient creates a new Anthropic API client. SDK-level retries are
// disabled; the guide generator applies its own retry policy.
func NewClient(cfg ClientConfig) (*Client, error) {
	var opts []option.RequestOption

	if cfg.UseAWSBedrock {
		var loadOpts []func(*config.LoadOptions) error
		if cfg.AWSRegion != "" {
			loadOpts = append(loadOpts, config.WithRegion(cfg.AWSRegion))
		}
		if cfg.AWSProfile != "" {
			loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.AWSProfile))
		}
		opts = append(opts, bedrock.WithLoadDefaultConfig(context.Background(), loadOpts...))
	} else {
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
		}
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	opts = append(opts, option.WithMaxRetries(0))

	model := cfg.Model
	if model == "" {
		model = anthropic.ModelClaudeSonnet4_20250514
	}
	if cfg.UseAWSBedrock {
		model = translateModelForBedrock(model)
	}

	return &Client{
		inner: anthropic.NewClient(opts...),
		model: model,
	}, nil
}

// Bedrock expects cross-region inference profile IDs rather than plain
// model names: us.anthropic.{model}-v1:0.
func translateModelForBedrock(model anthropic.Model) anthropic.Model {
	profiles := map[anthropic.Model]string{
		anthropic.ModelClaudeSonnet4_20250514:   "us.anthropic.claude-sonnet-4-20250514-v1:0",
		anthropic.ModelClaudeSonnet4_5_20250929: "us.anthropic.claude-sonnet-4-5-20250929-v1:0",
		anthropic.ModelClaudeHaiku4_5_20251001:  "us.anthropic.claude-haiku-4-5-20251001-v1:0",
		anthropic.ModelClaude3_5Haiku20241022:   "us.anthropic.claude-3-5-haiku-20241022-v1:0",
		anthropic.ModelClaudeOpus4_5_20251101:   "us.anthropic.claude-opus-4-5-20251101-v1:0",
	}
	if profile, ok := profiles[model]; ok {
		return anthropic.Model(profile)
	}
	// Unknown names pass through; they may already be profile IDs.
	return model
}

// Model returns the client's default model.
func (c *Client) Model() anthropic.Model {
	return c.model
}

// TranslateModel rewrites a model name into Bedrock profile form when the
// client itself runs against Bedrock. Direct API clients return the name
// unchanged. Used for the primary and fallback models from configuration.
func (c *Client) TranslateModel(model anthropic.Model) anthropic.Model {
	if strings.HasPrefix(string(c.model), "us.anthropic") {
		return translateModelForBedrock(model)
	}
	return model
}

// record adds one call's usage to the running totals.
func (c *Client) record(u Usage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.totals.InputTokens += u.InputTokens
	c.totals.OutputTokens += u.OutputTokens
}

// TotalUsage returns the cumulative token usage and the number of calls
// that reached the API, including calls whose response was discarded.
func (c *Client) TotalUsage() (Usage, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totals, c.calls
}
