// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mio/internal/ui/components"
)

// View renders the chat view.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading Mio..."
	}

	body := m.viewport.View()
	if m.showHelp {
		body = lipgloss.Place(m.width, m.viewport.Height, lipgloss.Center, lipgloss.Center, m.helpView())
	}

	parts := []string{m.headerView(), body}
	if toasts := m.toastView(); toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, m.inputView(), m.statusView())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) headerView() string {
	return components.RenderHeader(m.theme, m.gw.ProviderName(), string(m.mode), m.width)
}

func (m Model) toastView() string {
	return components.RenderToastStack(m.toasts.Toasts(), m.width)
}

func (m Model) inputView() string {
	return m.theme.InputFocused.Render(m.input.View())
}

func (m Model) statusView() string {
	bar := components.StatusBar{
		Mode:      string(m.mode),
		Turns:     m.reducer.Len(),
		Pending:   m.reducer.Pending(),
		Shortcuts: m.keys.shortcuts(),
	}
	return bar.Render(m.theme, m.width)
}

func (m Model) helpView() string {
	var sb strings.Builder
	sb.WriteString(m.theme.HelpTitle.Render("Keys"))
	sb.WriteString("\n")
	for _, group := range m.keys.FullHelp() {
		for _, b := range group {
			h := b.Help()
			sb.WriteString(m.theme.ShortcutKey.Render(padRight(h.Key, 12)))
			sb.WriteString(m.theme.ShortcutDesc.Render(h.Desc))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(m.theme.HelpTitle.Render("Commands"))
	sb.WriteString("\n")
	for _, c := range commandHelp {
		sb.WriteString(m.theme.ShortcutKey.Render(padRight(c[0], 32)))
		sb.WriteString(m.theme.ShortcutDesc.Render(c[1]))
		sb.WriteString("\n")
	}

	return m.theme.HelpBox.Render(strings.TrimRight(sb.String(), "\n"))
}

func padRight(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s + " "
}
