// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mio/internal/conversation"
	"github.com/jeranaias/mio/internal/ui/styles"
)

// =============================================================================
// TURN VIEW
// =============================================================================

// TurnView renders transcript turns at a given width.
type TurnView struct {
	Theme    *styles.Theme
	Markdown MarkdownRenderer
	Width    int

	// Thinking is shown in place of a pending turn's body.
	Thinking string
}

// Render renders one turn.
func (v TurnView) Render(t conversation.Turn) string {
	if t.IsPending() {
		return v.renderPending()
	}

	text, _ := t.Text()
	switch t.Role {
	case conversation.RoleUser:
		return v.renderUser(text)
	case conversation.RoleModel:
		return v.renderModel(text)
	default:
		return v.Theme.SystemText.Width(v.contentWidth()).Render(text)
	}
}

// RenderAll renders turns separated by blank lines.
func (v TurnView) RenderAll(turns []conversation.Turn) string {
	parts := make([]string, 0, len(turns))
	for _, t := range turns {
		parts = append(parts, v.Render(t))
	}
	return strings.Join(parts, "\n\n")
}

func (v TurnView) contentWidth() int {
	w := v.Width - 6
	if w < 20 {
		w = 20
	}
	return w
}

// renderUser right-aligns a bubble under a "you" label.
func (v TurnView) renderUser(text string) string {
	maxWidth := v.contentWidth() * 3 / 4
	if maxWidth < 20 {
		maxWidth = 20
	}
	if w := lipgloss.Width(text); w < maxWidth {
		maxWidth = w
	}

	bubble := v.Theme.UserBubble.Width(maxWidth + 2).Render(text)
	label := v.Theme.SpeakerUser.Render("you")
	block := lipgloss.JoinVertical(lipgloss.Right, label, bubble)

	if v.Width > 0 {
		return lipgloss.PlaceHorizontal(v.Width, lipgloss.Right, block)
	}
	return block
}

// renderModel renders model output as Markdown. Plain wrapped text is used
// when no renderer is set or rendering fails.
func (v TurnView) renderModel(text string) string {
	body := ""
	if v.Markdown != nil {
		if out, err := v.Markdown.Render(text); err == nil {
			body = strings.Trim(out, "\n")
		}
	}
	if body == "" {
		body = lipgloss.NewStyle().Width(v.contentWidth()).Render(text)
	}

	label := v.Theme.SpeakerModel.Render(conversation.RoleModel.DisplayName())
	return lipgloss.JoinVertical(lipgloss.Left, label, v.Theme.ModelBody.Render(body))
}

func (v TurnView) renderPending() string {
	label := v.Theme.SpeakerModel.Render(conversation.RoleModel.DisplayName())
	thinking := v.Thinking
	if thinking == "" {
		thinking = v.Theme.ThinkingText.Render("Mio is thinking...")
	}
	return lipgloss.JoinVertical(lipgloss.Left, label, v.Theme.ModelBody.Render(thinking))
}
