// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompt renders the text prompts sent to the model.
//
// Every function here is pure: the same inputs always give byte-identical
// output, and message content is passed through untouched.
package prompt

import (
	"strings"

	"github.com/jeranaias/mio/internal/conversation"
)

// =============================================================================
// TEMPLATES
// =============================================================================

const (
	// Preamble opens every chat prompt and sets the Mio persona.
	Preamble = "You are Mio, a luxurious and intelligent AI educational assistant. " +
		"Your personality is sophisticated, elegant, and knowledgeable. " +
		"Engage in a natural, flowing conversation. " +
		"Provide clear and concise explanations when asked, but your primary goal " +
		"is to be a helpful and engaging conversational partner."

	historyHeader = "Here is the chat history so far:"
	latestHeader  = "Here is the user's latest message:"

	// Closing ends every chat prompt.
	Closing = "Your response should be in character as Mio."

	summaryInstruction = "You are an expert in simplifying complex topics. " +
		"Please provide a concise summary of the following topic:"

	highlightInstruction = "You are an expert editor. Rewrite the following summary, " +
		"marking each key concept in bold using Markdown (**concept**). " +
		"Do not add, remove, or reword anything else. Return only the rewritten summary."
)

// Roles maps the roles that appear in a rendered transcript to their speaker label.
var Roles = map[conversation.Role]string{
	conversation.RoleUser:  "User",
	conversation.RoleModel: "Mio",
}

// =============================================================================
// CHAT PROMPT
// =============================================================================

// Transcript returns the conversation lines of a chat prompt: one line per
// user or model history entry in order, then the latest message. Entries
// with any other role are skipped. The last line is always "User: <latest>".
func Transcript(history []conversation.HistoryEntry, latest string) []string {
	lines := make([]string, 0, len(history)+1)
	for _, h := range history {
		label, ok := Roles[h.Role]
		if !ok {
			continue
		}
		lines = append(lines, label+": "+h.Text)
	}
	return append(lines, Roles[conversation.RoleUser]+": "+latest)
}

// Render builds the full chat prompt around Transcript.
func Render(history []conversation.HistoryEntry, latest string) string {
	lines := Transcript(history, latest)
	past, current := lines[:len(lines)-1], lines[len(lines)-1]

	var sb strings.Builder
	sb.WriteString(Preamble)
	sb.WriteString("\n\n")
	sb.WriteString(historyHeader)
	sb.WriteString("\n")
	for _, line := range past {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(latestHeader)
	sb.WriteString("\n")
	sb.WriteString(current)
	sb.WriteString("\n\n")
	sb.WriteString(Closing)
	return sb.String()
}

// RenderRequest renders a prompt from a reducer snapshot.
func RenderRequest(req conversation.PromptRequest) string {
	return Render(req.History, req.LatestMessage)
}

// =============================================================================
// SUMMARY PIPELINE PROMPTS
// =============================================================================

// RenderSummary builds the prompt for the summarize stage.
func RenderSummary(topic string) string {
	return summaryInstruction + "\n\n" + topic
}

// RenderHighlight builds the prompt that bolds key concepts in a summary.
func RenderHighlight(summary string) string {
	return highlightInstruction + "\n\n" + summary
}
