// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/mio/internal/actions"
	"github.com/jeranaias/mio/internal/conversation"
	"github.com/jeranaias/mio/internal/export"
	"github.com/jeranaias/mio/internal/ui/components"
)

// =============================================================================
// COMMAND HANDLER REGISTRY
// =============================================================================

// CommandHandler handles one slash command.
type CommandHandler func(m *Model, args []string) tea.Cmd

// commandHandlers maps command names to their handlers.
var commandHandlers = map[string]CommandHandler{
	"help":   handleHelpCommand,
	"h":      handleHelpCommand,
	"?":      handleHelpCommand,
	"clear":  handleClearCommand,
	"c":      handleClearCommand,
	"export": handleExportCommand,
	"e":      handleExportCommand,
	"mode":   handleModeCommand,
	"m":      handleModeCommand,
	"quit":   handleQuitCommand,
	"q":      handleQuitCommand,
	"exit":   handleQuitCommand,
}

// commandHelp is the command list shown by /help.
var commandHelp = [][2]string{
	{"/help", "Show keys and commands"},
	{"/clear", "Start over from the greeting"},
	{"/export [md|json|html] [path]", "Write the transcript to a file"},
	{"/mode [chat|summarize]", "Show or switch the flow"},
	{"/quit", "Leave"},
}

// handleCommand runs a slash command. The input is cleared either way.
func (m Model) handleCommand(content string) (tea.Model, tea.Cmd) {
	m.input.Reset()

	parts := strings.Fields(content)
	if len(parts) == 0 {
		return m, nil
	}

	name := strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	handler, ok := commandHandlers[name]
	if !ok {
		return m, m.addToast(components.NewErrorToast(fmt.Sprintf("Unknown command: /%s (try /help)", name)))
	}

	cmd := handler(&m, parts[1:])
	return m, cmd
}

// =============================================================================
// HANDLERS
// =============================================================================

func handleHelpCommand(m *Model, _ []string) tea.Cmd {
	m.showHelp = true
	return nil
}

func handleQuitCommand(m *Model, _ []string) tea.Cmd {
	m.quitting = true
	return tea.Quit
}

func handleClearCommand(m *Model, _ []string) tea.Cmd {
	if m.reducer.Pending() {
		return m.addToast(components.NewWarningToast(MsgStillThinking))
	}
	m.reducer.Reset()
	m.refresh(true)
	return m.addToast(components.NewStatusToast("Conversation cleared"))
}

func handleModeCommand(m *Model, args []string) tea.Cmd {
	if len(args) == 0 {
		return m.addToast(components.NewStatusToast("Mode: " + string(m.mode)))
	}

	mode, err := actions.ParseMode(args[0])
	if err != nil {
		return m.addToast(components.NewErrorToast(err.Error()))
	}
	m.mode = mode
	return m.addToast(components.NewStatusToast("Mode set to " + string(mode)))
}

// handleExportCommand accepts a format, a path, or both in either order.
// Without a format the path's extension decides, then Markdown.
func handleExportCommand(m *Model, args []string) tea.Cmd {
	format, path, err := parseExportArgs(args)
	if err != nil {
		return m.addToast(components.NewErrorToast(err.Error()))
	}
	return exportCmd(m.reducer.Turns(), format, path)
}

func parseExportArgs(args []string) (export.Format, string, error) {
	var (
		format export.Format
		path   string
	)
	for _, arg := range args {
		if format == "" {
			if f, err := export.ParseFormat(arg); err == nil {
				format = f
				continue
			}
		}
		if path != "" {
			return "", "", fmt.Errorf("usage: /export [md|json|html] [path]")
		}
		path = arg
	}

	if format == "" {
		format = export.FormatMarkdown
		if path != "" {
			format = export.FormatForPath(path)
		}
	}
	return format, path, nil
}

func exportCmd(turns []conversation.Turn, format export.Format, path string) tea.Cmd {
	return func() tea.Msg {
		written, err := export.ToFile(turns, format, path)
		return ExportedMsg{Path: written, Err: err}
	}
}
