// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/mio/internal/ui/styles"
)

// =============================================================================
// THINKING INDICATOR
// =============================================================================

// ThinkingIndicator animates the pending turn while Mio is generating.
type ThinkingIndicator struct {
	spinner   spinner.Model
	theme     *styles.Theme
	message   string
	startTime time.Time
	active    bool
}

// NewThinkingIndicator creates a stopped indicator.
func NewThinkingIndicator(theme *styles.Theme) ThinkingIndicator {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: styles.ThinkingSpinner.Frames,
		FPS:    styles.ThinkingSpinner.Duration(),
	}
	return ThinkingIndicator{spinner: s, theme: theme, message: "Mio is thinking"}
}

// Start activates the indicator and returns the first tick.
func (t *ThinkingIndicator) Start() tea.Cmd {
	t.active = true
	t.startTime = time.Now()
	return t.spinner.Tick
}

// Stop deactivates the indicator.
func (t *ThinkingIndicator) Stop() {
	t.active = false
}

// IsActive reports whether the indicator is running.
func (t ThinkingIndicator) IsActive() bool {
	return t.active
}

// Elapsed returns the time since Start.
func (t ThinkingIndicator) Elapsed() time.Duration {
	if t.startTime.IsZero() {
		return 0
	}
	return time.Since(t.startTime)
}

// Update advances the animation. Ticks stop once the indicator is stopped.
func (t ThinkingIndicator) Update(msg tea.Msg) (ThinkingIndicator, tea.Cmd) {
	if !t.active {
		return t, nil
	}
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return t, cmd
}

// View renders the indicator, or "" when stopped.
func (t ThinkingIndicator) View() string {
	if !t.active {
		return ""
	}
	return t.theme.ThinkingText.Render(t.message) +
		t.theme.Spinner.Render(t.spinner.View()) +
		t.theme.ThinkingTime.Render(" ("+formatElapsed(t.Elapsed())+")")
}

// formatElapsed renders d as "4s" or "1m05s".
func formatElapsed(d time.Duration) string {
	secs := int(d.Seconds())
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm%02ds", secs/60, secs%60)
}
