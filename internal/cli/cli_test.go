// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/mio/internal/config"
	"github.com/jeranaias/mio/internal/conversation"
	"github.com/jeranaias/mio/internal/gateway"
	"github.com/jeranaias/mio/internal/server"
)

// isolate points the config directory at a fresh temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("MIO_HOME", home)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	return home
}

func run(t *testing.T, provider gateway.Provider, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(WithProvider(func(context.Context, *config.Config) (gateway.Provider, error) {
		return provider, nil
	}))

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestAsk_Plain(t *testing.T) {
	isolate(t)
	fake := gateway.NewFakeText("Mitosis splits one cell into two.")

	out, err := run(t, fake, "ask", "--plain", "What", "is", "mitosis?")
	require.NoError(t, err)
	assert.Equal(t, "Mitosis splits one cell into two.\n", out)

	prompts := fake.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "What is mitosis?")
}

func TestAsk_Rendered(t *testing.T) {
	isolate(t)
	out, err := run(t, gateway.NewFakeText("Cells **divide**."), "ask", "cells?")
	require.NoError(t, err)
	assert.Contains(t, out, "divide")
	assert.NotContains(t, out, "**", "Markdown is rendered, not echoed")
}

func TestAsk_JSON(t *testing.T) {
	isolate(t)
	out, err := run(t, gateway.NewFakeText("Water moves across a membrane."), "ask", "--json", "Explain osmosis")
	require.NoError(t, err)

	var doc struct {
		Generator string `json:"generator"`
		Turns     []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"turns"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "mio", doc.Generator)
	require.Len(t, doc.Turns, 2)
	assert.Equal(t, "user", doc.Turns[0].Role)
	assert.Equal(t, "Explain osmosis", doc.Turns[0].Content)
	assert.Equal(t, "model", doc.Turns[1].Role)
	assert.Equal(t, "Water moves across a membrane.", doc.Turns[1].Content)
}

func TestAsk_Errors(t *testing.T) {
	t.Run("model failure", func(t *testing.T) {
		isolate(t)
		_, err := run(t, gateway.NewFake(gateway.FakeReply{Err: errors.New("quota exceeded")}), "ask", "hi")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Mio encountered an error")
		assert.Contains(t, err.Error(), "quota exceeded")
	})

	t.Run("missing prompt", func(t *testing.T) {
		isolate(t)
		_, err := run(t, gateway.NewFake(), "ask")
		assert.Error(t, err)
	})

	t.Run("blank prompt", func(t *testing.T) {
		isolate(t)
		_, err := run(t, gateway.NewFake(), "ask", "   ")
		assert.ErrorIs(t, err, conversation.ErrEmptyInput)
	})

	t.Run("bad log level", func(t *testing.T) {
		isolate(t)
		_, err := run(t, gateway.NewFakeText("ok"), "--log-level", "loud", "ask", "hi")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestSummarize(t *testing.T) {
	isolate(t)
	fake := gateway.NewFake(
		gateway.FakeReply{Text: "Plants turn light into sugar."},
		gateway.FakeReply{Text: "Plants turn **light** into **sugar**."},
	)

	out, err := run(t, fake, "summarize", "--plain", "photosynthesis")
	require.NoError(t, err)
	assert.Equal(t, "Plants turn **light** into **sugar**.\n", out)
	assert.Len(t, fake.Prompts(), 2, "summary then highlight")
}

func TestConfigCommands(t *testing.T) {
	home := isolate(t)
	want := filepath.Join(home, "config.toml")

	out, err := run(t, nil, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, want+"\n", out)

	out, err = run(t, nil, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, want)
	assert.FileExists(t, want)

	_, err = run(t, nil, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = run(t, nil, "config", "init", "--force")
	require.NoError(t, err)

	t.Setenv("GEMINI_API_KEY", "sk-very-secret")
	out, err = run(t, nil, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `provider = "gemini"`)
	assert.Contains(t, out, "[REDACTED]")
	assert.NotContains(t, out, "sk-very-secret")
}

func TestConfigFlag(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	good := filepath.Join(dir, "good.toml")
	require.NoError(t, os.WriteFile(good, []byte("[chat]\nmode = \"summarize\"\n"), 0600))
	out, err := run(t, nil, "--config", good, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `mode = "summarize"`)

	out, err = run(t, nil, "--config", good, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, good+"\n", out)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[model]\nprovider = \"carrier-pigeon\"\n"), 0600))
	_, err = run(t, nil, "--config", bad, "config", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestVersion(t *testing.T) {
	out, err := run(t, nil, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "mio version "+Version))

	out, err = run(t, nil, "version", "--json")
	require.NoError(t, err)
	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.Platform)
}

func TestMode(t *testing.T) {
	cfg := config.Default()
	m, err := mode(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, "chat", string(m))

	m, err = mode(cfg, "SUMMARIZE")
	require.NoError(t, err)
	assert.Equal(t, "summarize", string(m))

	_, err = mode(cfg, "debate")
	assert.Error(t, err)
}

func TestRunServer_StopsOnCancel(t *testing.T) {
	srv := server.New(gateway.New(gateway.NewFake()), server.Options{Addr: "127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServer(ctx, srv) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
