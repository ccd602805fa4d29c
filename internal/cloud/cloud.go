// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud provides hosted model providers backed by vendor SDKs.
//
// Three clients are available, each satisfying gateway.Provider:
//
//   - GeminiClient: Google Gemini via google.golang.org/genai
//   - AnthropicClient: Claude via github.com/anthropics/anthropic-sdk-go
//   - OpenAIClient: OpenAI or any compatible endpoint (OpenRouter) via github.com/openai/openai-go
//
// Every client sends one user message per call. Conversation history is
// already folded into the prompt text by the caller.
package cloud

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultMaxTokens is the default maximum number of tokens in a reply.
	DefaultMaxTokens = 2048

	// DefaultTimeout is the transport limit for a single request.
	DefaultTimeout = 120 * time.Second

	// DefaultOpenRouterURL is the base URL for OpenRouter's OpenAI-compatible API.
	DefaultOpenRouterURL = "https://openrouter.ai/api/v1"
)

// Default models per provider.
const (
	DefaultGeminiModel    = "gemini-2.0-flash"
	DefaultAnthropicModel = "claude-3-5-haiku-latest"
	DefaultOpenAIModel    = "gpt-4o-mini"
)

// Error variables for common provider failures.
var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("API key not configured")

	// ErrNoContent indicates the provider answered without any text.
	ErrNoContent = errors.New("response contained no text")
)

// Config holds the settings shared by every cloud client.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int
	// BaseURL overrides the vendor endpoint. Empty uses the SDK default.
	BaseURL string
	Timeout time.Duration
}

// withDefaults returns a copy of c with zero values filled in.
func (c Config) withDefaults(model string) Config {
	if c.Model == "" {
		c.Model = model
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

func (c Config) validate(provider string) error {
	if c.APIKey == "" {
		return fmt.Errorf("%s: %w", provider, ErrNotConfigured)
	}
	return nil
}

// MaskKey describes an API key without exposing any part of it.
func MaskKey(apiKey string) string {
	if apiKey == "" {
		return "[not set]"
	}
	return fmt.Sprintf("[REDACTED, length=%d, fingerprint=%s]", len(apiKey), KeyFingerprint(apiKey))
}

// KeyFingerprint returns a short SHA-256 fingerprint of an API key for logging.
func KeyFingerprint(apiKey string) string {
	if apiKey == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(h[:4])
}
