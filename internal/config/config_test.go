// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config directory at a temp dir and clears env overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("MIO_HOME", dir)
	for _, k := range []string{
		"MIO_PROVIDER", "MIO_MODEL", "MIO_MAX_TOKENS", "MIO_OLLAMA_URL", "MIO_OPENAI_BASE_URL",
		"MIO_ADDR", "MIO_MODE", "MIO_LOG_LEVEL", "GEMINI_API_KEY", "GOOGLE_API_KEY",
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
	return dir
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "gemini", cfg.Model.Provider)
	assert.Equal(t, "chat", cfg.Chat.Mode)
	assert.True(t, cfg.Chat.Greeting)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Server.Addr, cfg.Server.Addr)
}

func TestLoad_TOML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[model]
provider = "Ollama"
name = "llama3.2"

[ollama]
url = "http://10.0.0.5:11434"

[chat]
mode = "summarize"
`), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.Model.Provider)
	assert.Equal(t, "llama3.2", cfg.Model.Name)
	assert.Equal(t, "http://10.0.0.5:11434", cfg.Ollama.URL)
	assert.Equal(t, "summarize", cfg.Chat.Mode)
	// untouched sections keep defaults
	assert.Equal(t, 2048, cfg.Model.MaxTokens)
	assert.True(t, cfg.Chat.Greeting)
}

func TestLoad_JSONFallback(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"model":{"provider":"anthropic"}}`), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.Model.Provider)
}

func TestLoadFromPath_UnknownKey(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[model]\nprovidr = \"gemini\"\n"), 0600))

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model.providr")
}

func TestLoadFromPath_Invalid(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[model]\nprovider = \"watson\"\n"), 0600))

	_, err := LoadFromPath(path)
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, "model.provider", verrs[0].Field)
}

func TestApplyEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("MIO_PROVIDER", "openai")
	t.Setenv("MIO_MODEL", "gpt-4o")
	t.Setenv("MIO_MAX_TOKENS", "512")
	t.Setenv("MIO_ADDR", "0.0.0.0:9000")
	t.Setenv("MIO_LOG_LEVEL", "DEBUG")
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("MIO_OPENAI_BASE_URL", "https://openrouter.ai/api/v1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Model.Provider)
	assert.Equal(t, "gpt-4o", cfg.Model.Name)
	assert.Equal(t, 512, cfg.Model.MaxTokens)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "g-key", cfg.Gemini.APIKey)
	assert.Equal(t, "or-key", cfg.OpenAI.APIKey)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.OpenAI.BaseURL)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Model.Provider = "nope"
	cfg.Model.MaxTokens = 0
	cfg.Ollama.URL = "ftp://x"
	cfg.Server.Addr = "no-port"
	cfg.Chat.Mode = "debate"
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))

	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{
		"model.provider", "model.max_tokens", "ollama.url", "server.addr", "chat.mode", "log.level",
	}, fields)
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Model.Provider = "anthropic"
	cfg.Anthropic.APIKey = "sk-ant-test"
	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", loaded.Model.Provider)
	assert.Equal(t, "sk-ant-test", loaded.Anthropic.APIKey)
}

func TestString_RedactsKeys(t *testing.T) {
	cfg := Default()
	cfg.OpenAI.APIKey = "sk-very-secret"

	out := cfg.String()
	assert.NotContains(t, out, "sk-very-secret")
	assert.True(t, strings.Contains(out, "[REDACTED]"))
	assert.Equal(t, "sk-very-secret", cfg.OpenAI.APIKey, "String must not mutate the config")
}

// TestConfig_ConcurrentAccess checks Global and SetGlobal under the race detector.
func TestConfig_ConcurrentAccess(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}
