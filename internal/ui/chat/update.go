// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mio/internal/conversation"
	"github.com/jeranaias/mio/internal/ui/components"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ResponseMsg:
		return m.handleResponse(msg)

	case ExportedMsg:
		if msg.Err != nil {
			return m, m.addToast(components.NewErrorToast("Export failed: " + msg.Err.Error()))
		}
		return m, m.addToast(components.NewSuccessToast("Exported to " + msg.Path))

	case components.ToastTickMsg:
		if m.toasts.Expire(msg.Time) == 0 {
			m.toastTicking = false
			m.layout()
			return m, nil
		}
		m.layout()
		return m, components.ToastTickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.thinking, cmd = m.thinking.Update(msg)
		if m.thinking.IsActive() {
			m.refresh(false)
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey routes key presses. Anything not bound here goes to the input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Dismiss):
		if m.showHelp {
			m.showHelp = false
		} else if m.toasts.DismissLatest() {
			m.layout()
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the input through the reducer, or runs it as a slash command.
func (m Model) submit() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	if trimmed := strings.TrimSpace(value); strings.HasPrefix(trimmed, "/") {
		return m.handleCommand(trimmed)
	}

	req, err := m.reducer.Submit(value)
	switch {
	case errors.Is(err, conversation.ErrSubmissionPending):
		return m, m.addToast(components.NewWarningToast(MsgStillThinking))
	case err != nil:
		return m, nil
	}

	m.input.Reset()
	m.showHelp = false
	start := m.thinking.Start()
	m.refresh(true)
	m.logger.Debug("SUBMIT", "mode", m.mode, "history", len(req.History))

	return m, tea.Batch(start, respondCmd(m.actions, m.mode, req))
}

// handleResponse settles the pending turn.
func (m Model) handleResponse(msg ResponseMsg) (tea.Model, tea.Cmd) {
	m.thinking.Stop()

	var cmd tea.Cmd
	if note := m.reducer.Resolve(msg.State.Result()); note != nil {
		m.logger.Warn("SUBMISSION_FAILED", "prompt_id", msg.State.PromptID, "err", note.Message)
		cmd = m.addToast(components.FromNotification(*note))
	}
	m.refresh(true)
	return m, cmd
}

// addToast shows t and starts the expiry ticker if it is not running.
func (m *Model) addToast(t components.Toast) tea.Cmd {
	m.toasts.Add(t)
	m.layout()
	if m.toastTicking {
		return nil
	}
	m.toastTicking = true
	return components.ToastTickCmd()
}

// =============================================================================
// LAYOUT
// =============================================================================

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.theme.SetSize(width, height)
	m.input.SetWidth(max(20, width-4))
	m.markdown.SetWidth(max(20, width-8))
	m.ready = true
	m.layout()
	m.refresh(true)
}

// layout sizes the viewport to whatever the chrome leaves over.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	chrome := lipgloss.Height(m.headerView()) +
		lipgloss.Height(m.inputView()) +
		lipgloss.Height(m.statusView())
	if toasts := m.toastView(); toasts != "" {
		chrome += lipgloss.Height(toasts)
	}

	m.viewport.Width = m.width
	m.viewport.Height = max(minViewport, m.height-chrome)
}

// refresh re-renders the transcript into the viewport.
func (m *Model) refresh(gotoBottom bool) {
	view := components.TurnView{
		Theme:    m.theme,
		Markdown: m.markdown,
		Width:    m.width,
		Thinking: m.thinking.View(),
	}
	m.viewport.SetContent(view.RenderAll(m.reducer.Turns()))
	if gotoBottom {
		m.viewport.GotoBottom()
	}
}
