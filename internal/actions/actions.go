// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package actions runs one form submission against the gateway.
//
// An action validates the prompt, issues a correlation id, calls the chat
// flow or the summary pipeline, and turns any failure into a user-facing
// message. It never returns a Go error: every outcome is a FormState.
package actions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jeranaias/mio/internal/conversation"
	"github.com/jeranaias/mio/internal/gateway"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// Mode selects which flow a submission runs.
type Mode string

const (
	ModeChat      Mode = "chat"
	ModeSummarize Mode = "summarize"
)

// ParseMode converts a config or flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeChat, "":
		return ModeChat, nil
	case ModeSummarize:
		return ModeSummarize, nil
	}
	return "", fmt.Errorf("unknown mode %q: must be chat or summarize", s)
}

// User-facing messages.
const (
	MsgPromptRequired   = "Please enter a message."
	MsgValidationFailed = "Validation failed"
	MsgNoSummary        = "The AI could not generate a summary."
	errorPrefix         = "Mio encountered an error: "
)

// ErrPromptRequired is the validation failure for a blank prompt.
var ErrPromptRequired = errors.New(MsgPromptRequired)

// =============================================================================
// FORM STATE
// =============================================================================

// FormState is the result of one submission.
// Exactly one of Response and Error is set.
type FormState struct {
	PromptID string `json:"promptId,omitempty"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
	// Invalid marks a validation failure, as opposed to a model failure.
	Invalid bool `json:"-"`
}

// OK reports whether the submission produced a response.
func (s FormState) OK() bool {
	return s.Error == "" && s.Response != ""
}

// Result converts the state into a reducer result.
func (s FormState) Result() conversation.Result {
	if s.OK() {
		return conversation.Result{CorrelationID: s.PromptID, Text: s.Response}
	}
	return conversation.Result{CorrelationID: s.PromptID, Err: errors.New(s.Error)}
}

// Validate checks a raw prompt.
func Validate(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return ErrPromptRequired
	}
	return nil
}

// =============================================================================
// ACTIONS
// =============================================================================

// Actions runs submissions against a gateway.
type Actions struct {
	gw    *gateway.Gateway
	newID func() string
}

// New creates Actions over gw.
func New(gw *gateway.Gateway) *Actions {
	return &Actions{gw: gw, newID: uuid.NewString}
}

// WithIDGenerator replaces the uuid-based correlation id generator.
func (a *Actions) WithIDGenerator(fn func() string) *Actions {
	a.newID = fn
	return a
}

// Chat runs the conversational flow.
func (a *Actions) Chat(ctx context.Context, prompt string, history []conversation.HistoryEntry) FormState {
	if err := Validate(prompt); err != nil {
		return invalid(err)
	}

	id := a.newID()
	text, err := a.gw.Complete(ctx, conversation.PromptRequest{
		LatestMessage: strings.TrimSpace(prompt),
		History:       history,
	})
	if err != nil {
		return FormState{PromptID: id, Error: Describe(err)}
	}
	return FormState{PromptID: id, Response: text}
}

// Summarize runs the summary pipeline: summarize the topic, then bold its
// key concepts.
func (a *Actions) Summarize(ctx context.Context, topic string) FormState {
	if err := Validate(topic); err != nil {
		return invalid(err)
	}

	id := a.newID()
	sum, err := a.gw.Summarize(ctx, strings.TrimSpace(topic))
	if err != nil {
		if gateway.IsEmptyResponse(err) {
			return FormState{PromptID: id, Error: errorPrefix + MsgNoSummary}
		}
		return FormState{PromptID: id, Error: Describe(err)}
	}

	highlighted, err := a.gw.HighlightKeyConcepts(ctx, sum.Summary)
	if err != nil {
		return FormState{PromptID: id, Error: Describe(err)}
	}
	return FormState{PromptID: id, Response: highlighted}
}

// Respond dispatches on mode. Summarize mode ignores history.
func (a *Actions) Respond(ctx context.Context, mode Mode, prompt string, history []conversation.HistoryEntry) FormState {
	if mode == ModeSummarize {
		return a.Summarize(ctx, prompt)
	}
	return a.Chat(ctx, prompt, history)
}

// Describe converts an error into the message shown to the user.
func Describe(err error) string {
	if err == nil || err.Error() == "" {
		return errorPrefix + conversation.FallbackErrorMessage
	}
	return errorPrefix + err.Error()
}

func invalid(err error) FormState {
	msg := MsgValidationFailed
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return FormState{Error: msg, Invalid: true}
}
