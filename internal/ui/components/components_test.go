// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mio/internal/conversation"
	"github.com/jeranaias/mio/internal/ui/styles"
)

// =============================================================================
// TOASTS
// =============================================================================

func TestToastManager_NewestFirstAndCapped(t *testing.T) {
	m := NewToastManager()
	for i := 0; i < MaxToasts+2; i++ {
		m.AddStatus(string(rune('a' + i)))
	}

	toasts := m.Toasts()
	if len(toasts) != MaxToasts {
		t.Fatalf("Len = %d, want %d", len(toasts), MaxToasts)
	}
	if toasts[0].Message != string(rune('a'+MaxToasts+1)) {
		t.Errorf("newest toast = %q, want the last one added", toasts[0].Message)
	}
}

func TestToastManager_Expire(t *testing.T) {
	m := NewToastManager()
	old := NewStatusToast("old")
	old.CreatedAt = time.Now().Add(-time.Minute)
	m.Add(old)
	m.AddError("fresh")

	if n := m.Expire(time.Now()); n != 1 {
		t.Fatalf("Expire left %d toasts, want 1", n)
	}
	if got := m.Toasts()[0].Message; got != "fresh" {
		t.Errorf("remaining toast = %q, want fresh", got)
	}
}

func TestToastManager_DismissAndRemove(t *testing.T) {
	m := NewToastManager()
	first := m.AddWarning("first")
	m.AddWarning("second")

	if !m.DismissLatest() {
		t.Fatal("DismissLatest() = false with toasts present")
	}
	if got := m.Toasts()[0].Message; got != "first" {
		t.Errorf("after dismiss, top = %q, want first", got)
	}

	m.Remove(first)
	if m.Len() != 0 {
		t.Errorf("Len = %d after Remove, want 0", m.Len())
	}
	if m.DismissLatest() {
		t.Error("DismissLatest() = true on empty manager")
	}
}

func TestFromNotification(t *testing.T) {
	toast := FromNotification(conversation.Notification{Title: "Error", Message: "boom"})
	if toast.Kind != ToastKindError || toast.Title != "Error" || toast.Message != "boom" {
		t.Errorf("FromNotification = %+v", toast)
	}
}

func TestRenderToastStack(t *testing.T) {
	if got := RenderToastStack(nil, 80); got != "" {
		t.Errorf("empty stack rendered %q", got)
	}

	toasts := []Toast{NewErrorToast("Mio encountered an error: boom"), NewWarningToast("Mio is still thinking…")}
	out := RenderToastStack(toasts, 80)
	for _, want := range []string{"boom", "still thinking", styles.StatusIndicators.Error, styles.StatusIndicators.Warning} {
		if !strings.Contains(out, want) {
			t.Errorf("stack missing %q:\n%s", want, out)
		}
	}
	if w := lipgloss.Width(out); w > 80 {
		t.Errorf("stack width = %d, want <= 80", w)
	}
}

// =============================================================================
// TURNS
// =============================================================================

type stubMarkdown struct {
	out string
	err error
}

func (s stubMarkdown) Render(string) (string, error) { return s.out, s.err }

func newTurnView(md MarkdownRenderer) TurnView {
	return TurnView{Theme: &styles.Theme{}, Markdown: md, Width: 80}
}

func TestTurnView_ModelUsesMarkdown(t *testing.T) {
	v := newTurnView(stubMarkdown{out: "\nRENDERED\n"})
	out := v.Render(conversation.NewTextTurn("m1", conversation.RoleModel, "**hi**"))

	if !strings.Contains(out, "RENDERED") {
		t.Errorf("model turn not rendered through markdown:\n%s", out)
	}
	if !strings.Contains(out, "Mio") {
		t.Errorf("model turn missing speaker:\n%s", out)
	}
}

func TestTurnView_ModelFallsBackToPlain(t *testing.T) {
	v := newTurnView(stubMarkdown{err: errors.New("bad")})
	out := v.Render(conversation.NewTextTurn("m1", conversation.RoleModel, "plain reply"))
	if !strings.Contains(out, "plain reply") {
		t.Errorf("fallback missing text:\n%s", out)
	}
}

func TestTurnView_UserAndPending(t *testing.T) {
	v := newTurnView(nil)
	v.Thinking = "THINKING"

	user := v.Render(conversation.NewTextTurn("u1", conversation.RoleUser, "hello there"))
	if !strings.Contains(user, "hello there") || !strings.Contains(user, "you") {
		t.Errorf("user turn = %q", user)
	}

	pending := v.Render(conversation.NewPendingTurn())
	if !strings.Contains(pending, "THINKING") {
		t.Errorf("pending turn = %q, want thinking indicator", pending)
	}
}

func TestTurnView_RenderAll(t *testing.T) {
	v := newTurnView(nil)
	out := v.RenderAll([]conversation.Turn{
		conversation.NewTextTurn("u1", conversation.RoleUser, "one"),
		conversation.NewTextTurn("m1", conversation.RoleModel, "two"),
	})
	if strings.Index(out, "one") > strings.Index(out, "two") {
		t.Errorf("turns out of order:\n%s", out)
	}
}

// =============================================================================
// CHROME
// =============================================================================

func TestRenderHeader(t *testing.T) {
	theme := &styles.Theme{}
	out := RenderHeader(theme, "gemini", "chat", 60)
	if !strings.Contains(out, "Mio") || !strings.Contains(out, "gemini") {
		t.Errorf("header = %q", out)
	}
	if w := lipgloss.Width(out); w != 60 {
		t.Errorf("header width = %d, want 60", w)
	}
}

func TestStatusBar_DropsShortcutsThatDoNotFit(t *testing.T) {
	theme := &styles.Theme{}
	bar := StatusBar{
		Mode:  "chat",
		Turns: 3,
		Shortcuts: []Shortcut{
			{"enter", "send"},
			{"alt+enter", "newline"},
			{"esc", "dismiss"},
			{"ctrl+c", "quit"},
		},
	}

	wide := bar.Render(theme, 120)
	if !strings.Contains(wide, "quit") {
		t.Errorf("wide bar missing last shortcut: %q", wide)
	}

	narrow := bar.Render(theme, 30)
	if strings.Contains(narrow, "quit") {
		t.Errorf("narrow bar kept a shortcut that cannot fit: %q", narrow)
	}
	if !strings.Contains(narrow, "CHAT") {
		t.Errorf("narrow bar lost the mode: %q", narrow)
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{4 * time.Second, "4s"},
		{65 * time.Second, "1m05s"},
	}
	for _, tt := range tests {
		if got := formatElapsed(tt.in); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
