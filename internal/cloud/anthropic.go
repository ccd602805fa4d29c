// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient generates text with Claude.
type AnthropicClient struct {
	client *anthropic.Client
	config Config
}

// NewAnthropicClient creates a Claude client.
func NewAnthropicClient(cfg Config) (*AnthropicClient, error) {
	cfg = cfg.withDefaults(DefaultAnthropicModel)
	if err := cfg.validate("anthropic"); err != nil {
		return nil, err
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)

	return &AnthropicClient{client: &client, config: cfg}, nil
}

// Name implements gateway.Provider.
func (c *AnthropicClient) Name() string { return "anthropic" }

// Model returns the configured model name.
func (c *AnthropicClient) Model() string { return c.config.Model }

// Generate implements gateway.Provider.
func (c *AnthropicClient) Generate(ctx context.Context, prompt string) (string, error) {
	response, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(c.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var text string
	for i := range response.Content {
		if response.Content[i].Type == "text" {
			text += response.Content[i].Text
		}
	}
	return text, nil
}
