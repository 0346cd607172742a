package main

import (
	"fmt"

	"github.com/slodlc/slo-advisor/internal/api"
	"github.com/slodlc/slo-advisor/internal/config"
)

// newAPIClient creates an Anthropic API client from configuration.
// Bedrock transport needs no API key; direct calls resolve the key from
// the environment or the config file.
func newAPIClient(cfg *config.Config) (*api.Client, error) {
	if cfg.API.UseBedrock {
		client, err := api.NewClient(api.ClientConfig{
			UseAWSBedrock: true,
			AWSRegion:     cfg.API.AWSRegion,
			AWSProfile:    cfg.API.AWSProfile,
		})
		if err != nil {
			return nil, fmt.Errorf("create API client: %w", err)
		}
		return client, nil
	}

	key, err := config.GetAPIKey(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w\n\n"+
			"Set it with one of:\n"+
			"  export ANTHROPIC_API_KEY=sk-ant-...\n"+
			"  slo-advisor config anthropic.api_key sk-ant-...", err)
	}

	client, err := api.NewClient(api.ClientConfig{APIKey: key})
	if err != nil {
		return nil, fmt.Errorf("create API client: %w", err)
	}
	return client, nil
}
