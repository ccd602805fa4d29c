// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/mio/internal/actions"
	"github.com/jeranaias/mio/internal/conversation"
)

// =============================================================================
// MESSAGES
// =============================================================================

// ResponseMsg carries the outcome of one submission back to Update.
type ResponseMsg struct {
	State actions.FormState
}

// ExportedMsg reports a finished /export.
type ExportedMsg struct {
	Path string
	Err  error
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// respondCmd runs the selected flow for req off the event loop.
func respondCmd(a *actions.Actions, mode actions.Mode, req conversation.PromptRequest) tea.Cmd {
	return func() tea.Msg {
		return ResponseMsg{State: a.Respond(context.Background(), mode, req.LatestMessage, req.History)}
	}
}
