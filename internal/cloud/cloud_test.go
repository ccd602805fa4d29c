// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{APIKey: "k"}.withDefaults(DefaultOpenAIModel)
	assert.Equal(t, DefaultOpenAIModel, cfg.Model)
	assert.Equal(t, DefaultMaxTokens, cfg.MaxTokens)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)

	cfg = Config{Model: "custom", MaxTokens: 10}.withDefaults(DefaultOpenAIModel)
	assert.Equal(t, "custom", cfg.Model)
	assert.Equal(t, 10, cfg.MaxTokens)
}

func TestNewClients_RequireAPIKey(t *testing.T) {
	_, err := NewOpenAIClient(Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewAnthropicClient(Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewGeminiClient(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewGeminiClient(t *testing.T) {
	c, err := NewGeminiClient(context.Background(), Config{APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, "gemini", c.Name())
	assert.Equal(t, DefaultGeminiModel, c.Model())
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "[not set]", MaskKey(""))

	masked := MaskKey("sk-secret-value")
	assert.NotContains(t, masked, "secret")
	assert.Contains(t, masked, "length=15")
	assert.Len(t, KeyFingerprint("sk-secret-value"), 8)
	assert.Equal(t, "none", KeyFingerprint(""))
}

// =============================================================================
// OPENAI TESTS
// =============================================================================

func TestOpenAIClient_Generate(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1699999999,
			"model":   "gpt-4o-mini",
			"choices": []map[string]interface{}{{
				"index":         0,
				"message":       map[string]interface{}{"role": "assistant", "content": "Entropy is disorder."},
				"finish_reason": "stop",
			}},
		})
	}))
	defer srv.Close()

	c, err := NewOpenAIClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, "openai", c.Name())
	assert.Equal(t, srv.URL, c.BaseURL())

	out, err := c.Generate(context.Background(), "What is entropy?")
	require.NoError(t, err)
	assert.Equal(t, "Entropy is disorder.", out)
	assert.Equal(t, DefaultOpenAIModel, gotBody["model"])
}

func TestOpenAIClient_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	}))
	defer srv.Close()

	c, err := NewOpenAIClient(Config{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = c.Generate(context.Background(), "hi")
	assert.True(t, errors.Is(err, ErrNoContent))
}

func TestOpenAIClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	c, err := NewOpenAIClient(Config{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = c.Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai chat completion")
}

// =============================================================================
// ANTHROPIC TESTS
// =============================================================================

func TestAnthropicClient_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"), r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-5-haiku-latest",
			"content": [
				{"type": "text", "text": "Entropy "},
				{"type": "text", "text": "is disorder."}
			],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`))
	}))
	defer srv.Close()

	c, err := NewAnthropicClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, "anthropic", c.Name())
	assert.Equal(t, DefaultAnthropicModel, c.Model())

	out, err := c.Generate(context.Background(), "What is entropy?")
	require.NoError(t, err)
	assert.Equal(t, "Entropy is disorder.", out)
}
