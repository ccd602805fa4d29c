// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mio/internal/ui/styles"
	"github.com/jeranaias/mio/internal/util"
)

// RenderHeader renders the one-line title bar: brand on the left, provider
// and mode on the right.
func RenderHeader(theme *styles.Theme, provider, mode string, width int) string {
	title := theme.HeaderTitle.Render("Mio")
	meta := theme.HeaderMeta.Render(provider + " | " + mode)

	if width <= 0 {
		return theme.Header.Render(title + "  " + meta)
	}

	inner := width - theme.Header.GetHorizontalFrameSize()
	gap := inner - lipgloss.Width(title) - lipgloss.Width(meta)
	if gap < 1 {
		meta = theme.HeaderMeta.Render(util.TruncateWidth(provider, inner-lipgloss.Width(title)-1))
		gap = inner - lipgloss.Width(title) - lipgloss.Width(meta)
		if gap < 1 {
			gap = 1
		}
	}
	return theme.Header.Width(width).Render(title + spaces(gap) + meta)
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
