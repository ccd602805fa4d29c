// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mio/internal/ui/styles"
)

// Shortcut is one key hint in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar describes the bottom line of the view.
type StatusBar struct {
	Mode      string
	Turns     int
	Pending   bool
	Shortcuts []Shortcut
}

// Render renders the status bar at width. Shortcuts are dropped from the
// right when they do not fit.
func (s StatusBar) Render(theme *styles.Theme, width int) string {
	mode := theme.StatusMode.Render(strings.ToUpper(s.Mode))

	state := fmt.Sprintf("%d turns", s.Turns)
	if s.Pending {
		state += " | thinking"
	}
	left := mode + " " + state

	hints := make([]string, 0, len(s.Shortcuts))
	for _, sc := range s.Shortcuts {
		hints = append(hints, theme.ShortcutKey.Render(sc.Key)+" "+theme.ShortcutDesc.Render(sc.Desc))
	}

	if width <= 0 {
		return theme.StatusBar.Render(left + "  " + strings.Join(hints, "  "))
	}

	inner := width - theme.StatusBar.GetHorizontalFrameSize()
	right := strings.Join(hints, "  ")
	for len(hints) > 0 && lipgloss.Width(left)+1+lipgloss.Width(right) > inner {
		hints = hints[:len(hints)-1]
		right = strings.Join(hints, "  ")
	}

	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return theme.StatusBar.Width(width).Render(left + spaces(gap) + right)
}
