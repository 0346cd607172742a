package api

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// Usage reports the token consumption of a single completion.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Complete sends a single-turn completion request and returns the
// concatenated text blocks of the response. An empty model falls back to
// the client's configured model.
func (c *Client) Complete(ctx context.Context, model anthropic.Model, system, prompt string) (string, Usage, error) {
	if model == "" {
		model = c.model
	} else {
		model = c.TranslateModel(model)
	}

	resp, err := c.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: 8192,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", Usage{}, err
	}

	usage := Usage{
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}
	c.record(usage)

	var sb strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(variant.Text)
		}
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", usage, ErrEmptyResponse
	}
	return text, usage, nil
}
