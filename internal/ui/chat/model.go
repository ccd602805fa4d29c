// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"io"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/jeranaias/mio/internal/actions"
	"github.com/jeranaias/mio/internal/conversation"
	"github.com/jeranaias/mio/internal/gateway"
	"github.com/jeranaias/mio/internal/ui/components"
	"github.com/jeranaias/mio/internal/ui/styles"
)

// MsgStillThinking is the warning shown when submitting while a reply is
// pending.
const MsgStillThinking = "Mio is still thinking…"

const (
	inputHeight = 3
	minViewport = 3
)

// Options configures the chat view.
type Options struct {
	Mode     actions.Mode
	Greeting bool
	Logger   *log.Logger

	// Actions overrides the action runner built from the gateway.
	Actions *actions.Actions
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	gw      *gateway.Gateway
	actions *actions.Actions
	reducer *conversation.Reducer
	mode    actions.Mode
	logger  *log.Logger

	// Styling
	theme    *styles.Theme
	keys     KeyMap
	markdown *markdownCache

	// Dimensions
	width  int
	height int
	ready  bool

	// UI components
	input    textarea.Model
	viewport viewport.Model
	thinking components.ThinkingIndicator
	toasts   *components.ToastManager

	toastTicking bool
	showHelp     bool
	quitting     bool
}

// New creates the chat view over gw.
func New(gw *gateway.Gateway, opts Options) Model {
	mode := opts.Mode
	if mode == "" {
		mode = actions.ModeChat
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	runner := opts.Actions
	if runner == nil {
		runner = actions.New(gw)
	}

	theme := styles.NewTheme()
	keys := DefaultKeyMap()

	ta := textarea.New()
	ta.Placeholder = "Ask Mio anything... (/help for commands)"
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.CharLimit = 8000
	ta.SetHeight(inputHeight)
	ta.SetWidth(76)
	ta.KeyMap.InsertNewline = keys.Newline
	ta.Focus()

	return Model{
		gw:       gw,
		actions:  runner,
		reducer:  conversation.NewReducer(conversation.WithGreeting(opts.Greeting)),
		mode:     mode,
		logger:   logger,
		theme:    theme,
		keys:     keys,
		markdown: newMarkdownCache(theme.IsDark),
		input:    ta,
		viewport: viewport.New(80, 20),
		thinking: components.NewThinkingIndicator(theme),
		toasts:   components.NewToastManager(),
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Turns returns a copy of the transcript.
func (m Model) Turns() []conversation.Turn {
	return m.reducer.Turns()
}

// Mode returns the active flow.
func (m Model) Mode() actions.Mode {
	return m.mode
}

// Toasts returns the visible toasts, newest first.
func (m Model) Toasts() []components.Toast {
	return m.toasts.Toasts()
}

// Run starts the chat view on the terminal and blocks until it exits.
func Run(gw *gateway.Gateway, opts Options) error {
	p := tea.NewProgram(New(gw, opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
