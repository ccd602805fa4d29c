// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient generates text through an OpenAI-compatible chat completions API.
// Point BaseURL at DefaultOpenRouterURL to use OpenRouter.
type OpenAIClient struct {
	client *openai.Client
	config Config
}

// NewOpenAIClient creates an OpenAI-compatible client.
func NewOpenAIClient(cfg Config) (*OpenAIClient, error) {
	cfg = cfg.withDefaults(DefaultOpenAIModel)
	if err := cfg.validate("openai"); err != nil {
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
	client := openai.NewClient(opts...)

	return &OpenAIClient{client: &client, config: cfg}, nil
}

// Name implements gateway.Provider.
func (c *OpenAIClient) Name() string { return "openai" }

// Model returns the configured model name.
func (c *OpenAIClient) Model() string { return c.config.Model }

// BaseURL returns the configured endpoint override, if any.
func (c *OpenAIClient) BaseURL() string { return c.config.BaseURL }

// Generate implements gateway.Provider.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:     openai.ChatModel(c.config.Model),
		MaxTokens: openai.Int(int64(c.config.MaxTokens)),
	}

	response, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", ErrNoContent
	}
	return response.Choices[0].Message.Content, nil
}
