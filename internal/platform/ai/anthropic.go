package ai

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/fx"

	cfgpkg "github.com/subtrackr/subtrackr/pkg/config"
)

// Completer produces a single model completion for a system prompt and a
// user prompt. Callers are responsible for constraining the output format
// (the assist service asks for strict JSON and parses it).
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Client wraps the Anthropic messages API.
type Client struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

func NewClient(cfg *cfgpkg.Config) (Completer, error) {
	if cfg.AI.APIKey == "" {
		return nil, fmt.Errorf("ai api key is empty")
	}
	return &Client{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.AI.APIKey)),
		model:     anthropic.Model(cfg.AI.Model),
		maxTokens: cfg.AI.MaxTokens,
	}, nil
}

func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic completion: %w", err)
	}
	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("anthropic completion: no text content in response")
}

var Module = fx.Options(
	fx.Provide(NewClient),
)
