// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jeranaias/mio/internal/conversation"
	"github.com/jeranaias/mio/internal/prompt"
)

// =============================================================================
// PROVIDER
// =============================================================================

// Provider is a hosted or local model that turns a prompt into text.
type Provider interface {
	// Name identifies the provider in logs and errors.
	Name() string

	// Generate sends a single prompt and returns the model's full reply.
	Generate(ctx context.Context, prompt string) (string, error)
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// Message is one prior turn in a chat request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the input to the chat flow.
type ChatRequest struct {
	Prompt  string    `json:"prompt"`
	History []Message `json:"history"`
}

// ChatResponse is the output of the chat flow.
type ChatResponse struct {
	Response string `json:"response"`
}

// SummaryResponse is the output of the summarize stage.
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// NewChatRequest converts a reducer snapshot into a chat request.
func NewChatRequest(req conversation.PromptRequest) ChatRequest {
	history := make([]Message, 0, len(req.History))
	for _, h := range req.History {
		history = append(history, Message{Role: string(h.Role), Content: h.Text})
	}
	return ChatRequest{Prompt: req.LatestMessage, History: history}
}

// validate checks the prompt and history roles.
func (r ChatRequest) validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return &Error{Kind: KindRequest, Message: "prompt is required"}
	}
	for i, m := range r.History {
		switch conversation.Role(m.Role) {
		case conversation.RoleUser, conversation.RoleModel:
		default:
			return &Error{
				Kind:    KindRequest,
				Message: fmt.Sprintf("invalid role '%s' at history %d: must be one of user, model", m.Role, i),
			}
		}
	}
	return nil
}

func (r ChatRequest) entries() []conversation.HistoryEntry {
	out := make([]conversation.HistoryEntry, 0, len(r.History))
	for _, m := range r.History {
		out = append(out, conversation.HistoryEntry{Role: conversation.Role(m.Role), Text: m.Content})
	}
	return out
}

// =============================================================================
// GATEWAY
// =============================================================================

// Gateway runs the chat and summary flows against an injected Provider.
//
// A Gateway holds no per-conversation state and is safe for concurrent use
// when its Provider is.
type Gateway struct {
	provider Provider
	logger   *log.Logger
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithLogger sets the logger used for call tracing.
func WithLogger(logger *log.Logger) GatewayOption {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New creates a Gateway over provider.
func New(provider Provider, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		provider: provider,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ProviderName returns the name of the underlying provider.
func (g *Gateway) ProviderName() string {
	return g.provider.Name()
}

// Provider returns the underlying provider.
func (g *Gateway) Provider() Provider {
	return g.provider
}

// Chat renders the Mio prompt from req and returns the model's reply.
func (g *Gateway) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	text, err := g.generate(ctx, "chat", prompt.Render(req.entries(), req.Prompt))
	if err != nil {
		return nil, err
	}
	return &ChatResponse{Response: text}, nil
}

// Complete runs the chat flow for a reducer snapshot.
func (g *Gateway) Complete(ctx context.Context, req conversation.PromptRequest) (string, error) {
	resp, err := g.Chat(ctx, NewChatRequest(req))
	if err != nil {
		return "", err
	}
	return resp.Response, nil
}

// Summarize produces a concise summary of topic.
func (g *Gateway) Summarize(ctx context.Context, topic string) (*SummaryResponse, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, &Error{Kind: KindRequest, Message: "topic is required"}
	}
	text, err := g.generate(ctx, "summarize", prompt.RenderSummary(topic))
	if err != nil {
		return nil, err
	}
	return &SummaryResponse{Summary: text}, nil
}

// HighlightKeyConcepts returns summary with its key concepts marked in bold.
func (g *Gateway) HighlightKeyConcepts(ctx context.Context, summary string) (string, error) {
	if strings.TrimSpace(summary) == "" {
		return "", &Error{Kind: KindRequest, Message: "summary is required"}
	}
	return g.generate(ctx, "highlight", prompt.RenderHighlight(summary))
}

func (g *Gateway) generate(ctx context.Context, flow, text string) (string, error) {
	name := g.provider.Name()
	start := time.Now()

	out, err := g.provider.Generate(ctx, text)
	elapsed := time.Since(start)
	if err != nil {
		g.logger.Warn("MODEL_CALL_FAILED", "flow", flow, "provider", name, "duration", elapsed, "err", err)
		return "", wrap(name, err)
	}
	if strings.TrimSpace(out) == "" {
		g.logger.Warn("MODEL_CALL_EMPTY", "flow", flow, "provider", name, "duration", elapsed)
		return "", &Error{Kind: KindEmptyResponse, Provider: name, Message: ErrEmptyResponse.Message}
	}

	g.logger.Debug("MODEL_CALL", "flow", flow, "provider", name,
		"prompt_chars", len(text), "response_chars", len(out), "duration", elapsed)
	return out, nil
}
