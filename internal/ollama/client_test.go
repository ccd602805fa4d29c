// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestNewClientWithConfig_FillsDefaults(t *testing.T) {
	c := NewClientWithConfig(&ClientConfig{})

	if c.config.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", c.config.BaseURL, DefaultBaseURL)
	}
	if c.config.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", c.config.Timeout, DefaultTimeout)
	}
	if c.Model() != DefaultModel {
		t.Errorf("Model() = %q, want %q", c.Model(), DefaultModel)
	}
	if c.Name() != "ollama" {
		t.Errorf("Name() = %q", c.Name())
	}
}

func TestNewClientWithConfig_Nil(t *testing.T) {
	c := NewClientWithConfig(nil)
	if c.config == nil || c.config.BaseURL == "" {
		t.Fatal("nil config should fall back to defaults")
	}
}

// =============================================================================
// GENERATE TESTS
// =============================================================================

func TestGenerate_Success(t *testing.T) {
	var got GenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(GenerateResponse{Model: got.Model, Response: "Entropy measures disorder.", Done: true})
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL, Model: "mio-test"})
	out, err := c.Generate(context.Background(), "What is entropy?")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out != "Entropy measures disorder." {
		t.Errorf("Generate() = %q", out)
	}
	if got.Model != "mio-test" || got.Prompt != "What is entropy?" || got.Stream {
		t.Errorf("request = %+v", got)
	}
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
		wantIs  error
	}{
		{name: "model not found", status: http.StatusNotFound, wantIs: ErrModelNotFound},
		{name: "api error body", status: http.StatusInternalServerError, body: `{"error":"out of memory"}`, wantMsg: "out of memory"},
		{name: "bare status", status: http.StatusBadGateway, body: "nope", wantMsg: "generate request failed: 502 Bad Gateway"},
		{name: "bad json", status: http.StatusOK, body: "{", wantMsg: "failed to decode response"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
			_, err := c.Generate(context.Background(), "hi")
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.wantIs != nil && !errors.Is(err, tc.wantIs) {
				t.Errorf("error = %v, want %v", err, tc.wantIs)
			}
			if tc.wantMsg != "" {
				var ce *ClientError
				if !errors.As(err, &ce) {
					t.Fatalf("error %T is not *ClientError", err)
				}
				if ce.Message != tc.wantMsg {
					t.Errorf("Message = %q, want %q", ce.Message, tc.wantMsg)
				}
			}
		})
	}
}

func TestGenerate_NotRunning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: url, Timeout: time.Second})
	_, err := c.Generate(context.Background(), "hi")
	if !errors.Is(err, ErrNotRunning) {
		t.Errorf("error = %v, want ErrNotRunning", err)
	}
}

// =============================================================================
// HEALTH TESTS
// =============================================================================

func TestCheckRunning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Ollama is running"))
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	if err := c.CheckRunning(context.Background()); err != nil {
		t.Errorf("CheckRunning() error = %v", err)
	}
}

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"models":[{"name":"llama3.2","size":2147483648}]}`))
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	models, err := c.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if len(models) != 1 || models[0].Name != "llama3.2" {
		t.Fatalf("models = %+v", models)
	}
	if got := models[0].FormatSize(); got != "2.0 GB" {
		t.Errorf("FormatSize() = %q", got)
	}
}

func TestGenerateResponse_TokensPerSecond(t *testing.T) {
	r := &GenerateResponse{EvalCount: 50, EvalDuration: int64(2 * time.Second)}
	if got := r.TokensPerSecond(); got != 25 {
		t.Errorf("TokensPerSecond() = %v, want 25", got)
	}
	if got := (&GenerateResponse{}).TokensPerSecond(); got != 0 {
		t.Errorf("TokensPerSecond() = %v, want 0", got)
	}
}
