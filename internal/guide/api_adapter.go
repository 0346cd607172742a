package guide

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/slodlc/slo-advisor/internal/api"
)

// APICompleter adapts an api.Client to the Completer interface.
type APICompleter struct {
	Client *api.Client
}

// Complete satisfies Completer.
func (a *APICompleter) Complete(ctx context.Context, model, system, prompt string) (Completion, error) {
	text, usage, err := a.Client.Complete(ctx, anthropic.Model(model), system, prompt)
	if err != nil {
		return Completion{}, err
	}
	return Completion{
		Text:         text,
		InputTokens:  usage.InputTokens,
		OutputTokens: usage.OutputTokens,
	}, nil
}
