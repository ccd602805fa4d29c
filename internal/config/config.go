// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for mio.
//
// Supports both TOML and JSON configuration formats, with defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.mio/config.toml
//   - ~/.mio/config.json
//   - Built-in defaults
//
// Environment variables (MIO_*, plus the vendor API key variables) override
// whatever was loaded from disk.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/mio/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete mio configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Model selects the provider and its generation settings
	Model ModelConfig `toml:"model" json:"model"`

	// Provider credentials and endpoints
	Ollama    OllamaConfig    `toml:"ollama" json:"ollama"`
	Gemini    GeminiConfig    `toml:"gemini" json:"gemini"`
	Anthropic AnthropicConfig `toml:"anthropic" json:"anthropic"`
	OpenAI    OpenAIConfig    `toml:"openai" json:"openai"`

	// Web front-end
	Server ServerConfig `toml:"server" json:"server"`

	// Chat behaviour shared by both views
	Chat ChatConfig `toml:"chat" json:"chat"`

	// Logging
	Log LogConfig `toml:"log" json:"log"`
}

// ModelConfig selects the model provider.
type ModelConfig struct {
	// Provider is one of "gemini", "ollama", "anthropic", "openai"
	Provider string `toml:"provider" json:"provider"`
	// Name is the model id passed to the provider. Empty uses the provider default.
	Name string `toml:"name" json:"name"`
	// MaxTokens caps the reply length for cloud providers
	MaxTokens int `toml:"max_tokens" json:"max_tokens"`
	// TimeoutSecs is the transport limit for one model call
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// OllamaConfig contains local Ollama configuration.
type OllamaConfig struct {
	URL string `toml:"url" json:"url"`
}

// GeminiConfig contains Google Gemini configuration.
type GeminiConfig struct {
	APIKey string `toml:"api_key" json:"api_key"`
}

// AnthropicConfig contains Anthropic configuration.
type AnthropicConfig struct {
	APIKey string `toml:"api_key" json:"api_key"`
}

// OpenAIConfig contains OpenAI-compatible endpoint configuration.
type OpenAIConfig struct {
	APIKey string `toml:"api_key" json:"api_key"`
	// BaseURL points at an OpenAI-compatible API, e.g. https://openrouter.ai/api/v1
	BaseURL string `toml:"base_url" json:"base_url"`
}

// ServerConfig contains web front-end configuration.
type ServerConfig struct {
	Addr string `toml:"addr" json:"addr"`
	// MaxBodyBytes caps request bodies
	MaxBodyBytes int64 `toml:"max_body_bytes" json:"max_body_bytes"`
	// CORSOrigins lists origins allowed to call the JSON API
	CORSOrigins []string `toml:"cors_origins" json:"cors_origins"`
}

// ChatConfig contains chat behaviour settings.
type ChatConfig struct {
	// Mode is "chat" (conversational) or "summarize" (summary pipeline)
	Mode string `toml:"mode" json:"mode"`
	// Greeting opens each transcript with Mio's greeting turn
	Greeting bool `toml:"greeting" json:"greeting"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error"
	Level string `toml:"level" json:"level"`
}

// Providers lists the accepted values of model.provider.
var Providers = []string{"gemini", "ollama", "anthropic", "openai"}

// Modes lists the accepted values of chat.mode.
var Modes = []string{"chat", "summarize"}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Version: "1",
		Model: ModelConfig{
			Provider:    "gemini",
			MaxTokens:   2048,
			TimeoutSecs: 120,
		},
		Ollama: OllamaConfig{
			URL: "http://127.0.0.1:11434",
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			MaxBodyBytes: 1 << 20,
			CORSOrigins: []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
			},
		},
		Chat: ChatConfig{
			Mode:     "chat",
			Greeting: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// SetDefaults fills zero values that Validate would otherwise reject.
func (c *Config) SetDefaults() {
	d := Default()
	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Model.Provider == "" {
		c.Model.Provider = d.Model.Provider
	}
	if c.Model.MaxTokens == 0 {
		c.Model.MaxTokens = d.Model.MaxTokens
	}
	if c.Model.TimeoutSecs == 0 {
		c.Model.TimeoutSecs = d.Model.TimeoutSecs
	}
	if c.Ollama.URL == "" {
		c.Ollama.URL = d.Ollama.URL
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = d.Server.MaxBodyBytes
	}
	if c.Chat.Mode == "" {
		c.Chat.Mode = d.Chat.Mode
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	c.Model.Provider = strings.ToLower(c.Model.Provider)
	c.Chat.Mode = strings.ToLower(c.Chat.Mode)
	c.Log.Level = strings.ToLower(c.Log.Level)
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the mio configuration directory path.
// MIO_HOME overrides the default of ~/.mio.
func ConfigDir() (string, error) {
	if dir := os.Getenv("MIO_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".mio"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	tomlPath, err := ConfigPathTOML()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(tomlPath); statErr == nil {
		return LoadFromPath(tomlPath)
	}

	jsonPath, err := ConfigPathJSON()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(jsonPath); statErr == nil {
		return LoadFromPath(jsonPath)
	}

	return finish(Default())
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to path with 0600 permissions.
// API keys are written as-is, so the file stays owner-readable only.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# mio configuration file")
	fmt.Fprintln(&buf, "# API keys may also be supplied via GEMINI_API_KEY, ANTHROPIC_API_KEY, OPENAI_API_KEY")
	fmt.Fprintln(&buf)

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.WriteFileAtomic(path, buf.Bytes(), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
// Missing API keys are not errors here; the provider factory reports them
// when the provider is actually built.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if !contains(Providers, c.Model.Provider) {
		errs = append(errs, ValidationError{
			Field:   "model.provider",
			Message: fmt.Sprintf("invalid provider '%s', must be one of: %s", c.Model.Provider, strings.Join(Providers, ", ")),
		})
	}
	if c.Model.MaxTokens < 1 || c.Model.MaxTokens > 200000 {
		errs = append(errs, ValidationError{
			Field:   "model.max_tokens",
			Message: fmt.Sprintf("must be between 1 and 200000, got %d", c.Model.MaxTokens),
		})
	}
	if c.Model.TimeoutSecs < 1 || c.Model.TimeoutSecs > 3600 {
		errs = append(errs, ValidationError{
			Field:   "model.timeout_secs",
			Message: fmt.Sprintf("must be between 1 and 3600, got %d", c.Model.TimeoutSecs),
		})
	}

	if err := validateURL(c.Ollama.URL); err != nil {
		errs = append(errs, ValidationError{Field: "ollama.url", Message: err.Error()})
	}
	if c.OpenAI.BaseURL != "" {
		if err := validateURL(c.OpenAI.BaseURL); err != nil {
			errs = append(errs, ValidationError{Field: "openai.base_url", Message: err.Error()})
		}
	}

	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		errs = append(errs, ValidationError{
			Field:   "server.addr",
			Message: fmt.Sprintf("invalid address '%s': %v", c.Server.Addr, err),
		})
	}
	if c.Server.MaxBodyBytes < 1024 {
		errs = append(errs, ValidationError{
			Field:   "server.max_body_bytes",
			Message: fmt.Sprintf("must be at least 1024, got %d", c.Server.MaxBodyBytes),
		})
	}

	if !contains(Modes, c.Chat.Mode) {
		errs = append(errs, ValidationError{
			Field:   "chat.mode",
			Message: fmt.Sprintf("invalid mode '%s', must be one of: %s", c.Chat.Mode, strings.Join(Modes, ", ")),
		})
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL '%s': %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL '%s': scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid URL '%s': missing host", raw)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported variables:
//   - MIO_PROVIDER: overrides model.provider
//   - MIO_MODEL: overrides model.name
//   - MIO_MAX_TOKENS: overrides model.max_tokens
//   - MIO_OLLAMA_URL: overrides ollama.url
//   - MIO_OPENAI_BASE_URL: overrides openai.base_url
//   - MIO_ADDR: overrides server.addr
//   - MIO_MODE: overrides chat.mode
//   - MIO_LOG_LEVEL: overrides log.level
//   - GEMINI_API_KEY / GOOGLE_API_KEY: gemini.api_key
//   - ANTHROPIC_API_KEY: anthropic.api_key
//   - OPENAI_API_KEY / OPENROUTER_API_KEY: openai.api_key
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("MIO_PROVIDER"); v != "" {
		c.Model.Provider = v
	}
	if v := os.Getenv("MIO_MODEL"); v != "" {
		c.Model.Name = v
	}
	if v := os.Getenv("MIO_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Model.MaxTokens = n
		}
	}
	if v := os.Getenv("MIO_OLLAMA_URL"); v != "" {
		c.Ollama.URL = v
	}
	if v := os.Getenv("MIO_OPENAI_BASE_URL"); v != "" {
		c.OpenAI.BaseURL = v
	}
	if v := os.Getenv("MIO_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("MIO_MODE"); v != "" {
		c.Chat.Mode = v
	}
	if v := os.Getenv("MIO_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}

	if v := firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.Anthropic.APIKey = v
	}
	if v := firstEnv("OPENAI_API_KEY", "OPENROUTER_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// =============================================================================
// DISPLAY
// =============================================================================

// Redacted returns a copy with API keys masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	out.Server.CORSOrigins = append([]string(nil), c.Server.CORSOrigins...)
	out.Gemini.APIKey = redact(c.Gemini.APIKey)
	out.Anthropic.APIKey = redact(c.Anthropic.APIKey)
	out.OpenAI.APIKey = redact(c.OpenAI.APIKey)
	return &out
}

func redact(key string) string {
	if key == "" {
		return ""
	}
	return "[REDACTED]"
}

// String renders the redacted configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c.Redacted()); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return buf.String()
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the process configuration, loading it on first access.
// Load failures fall back to defaults with a warning on stderr.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	globalConfig = cfg
	globalConfigMu.Unlock()
	globalConfigOnce.Do(func() {})
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
