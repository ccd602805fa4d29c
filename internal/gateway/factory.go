// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/jeranaias/mio/internal/cloud"
	"github.com/jeranaias/mio/internal/config"
	"github.com/jeranaias/mio/internal/ollama"
)

// ProviderFromConfig builds the provider selected by cfg.Model.Provider.
func ProviderFromConfig(ctx context.Context, cfg *config.Config) (Provider, error) {
	timeout := time.Duration(cfg.Model.TimeoutSecs) * time.Second

	switch cfg.Model.Provider {
	case "ollama":
		return ollama.NewClientWithConfig(&ollama.ClientConfig{
			BaseURL: cfg.Ollama.URL,
			Model:   cfg.Model.Name,
			Timeout: timeout,
		}), nil

	case "gemini", "":
		c, err := cloud.NewGeminiClient(ctx, cloud.Config{
			APIKey:    cfg.Gemini.APIKey,
			Model:     cfg.Model.Name,
			MaxTokens: cfg.Model.MaxTokens,
			Timeout:   timeout,
		})
		if err != nil {
			return nil, err
		}
		return c, nil

	case "anthropic":
		c, err := cloud.NewAnthropicClient(cloud.Config{
			APIKey:    cfg.Anthropic.APIKey,
			Model:     cfg.Model.Name,
			MaxTokens: cfg.Model.MaxTokens,
			Timeout:   timeout,
		})
		if err != nil {
			return nil, err
		}
		return c, nil

	case "openai":
		c, err := cloud.NewOpenAIClient(cloud.Config{
			APIKey:    cfg.OpenAI.APIKey,
			Model:     cfg.Model.Name,
			MaxTokens: cfg.Model.MaxTokens,
			BaseURL:   cfg.OpenAI.BaseURL,
			Timeout:   timeout,
		})
		if err != nil {
			return nil, err
		}
		return c, nil

	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Model.Provider)
	}
}

// FromConfig builds a Gateway over the configured provider.
func FromConfig(ctx context.Context, cfg *config.Config, opts ...GatewayOption) (*Gateway, error) {
	p, err := ProviderFromConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return New(p, opts...), nil
}
