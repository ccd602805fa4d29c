// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role identifies who produced a turn.
type Role string

const (
	RoleUser   Role = "user"
	RoleModel  Role = "model"
	RoleSystem Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns the speaker label shown in transcripts.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "User"
	case RoleModel:
		return "Mio"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModel, RoleSystem:
		return true
	}
	return false
}

// =============================================================================
// CONTENT VARIANT
// =============================================================================

// Content is the payload of a turn. It is either Text or Pending; the
// unexported marker method keeps the set closed.
type Content interface {
	isContent()
}

// Text is finished turn content.
type Text string

// Pending marks the placeholder turn that stands in for an unresolved model reply.
type Pending struct{}

func (Text) isContent()    {}
func (Pending) isContent() {}

// =============================================================================
// TURN TYPE
// =============================================================================

// PendingID is the reserved id of the pending turn. Real ids never equal it.
const PendingID = "thinking"

// GreetingID and GreetingText describe the turn a new transcript opens with.
const (
	GreetingID   = "0"
	GreetingText = "Hello, Nice to meet you. Feel free to share your doubt"
)

// Turn is a single entry in the transcript.
type Turn struct {
	ID      string
	Role    Role
	Content Content
}

// NewTextTurn creates a finished turn.
func NewTextTurn(id string, role Role, text string) Turn {
	return Turn{ID: id, Role: role, Content: Text(text)}
}

// NewPendingTurn creates the placeholder turn for an outstanding model call.
func NewPendingTurn() Turn {
	return Turn{ID: PendingID, Role: RoleModel, Content: Pending{}}
}

// IsPending reports whether the turn is the pending placeholder.
func (t Turn) IsPending() bool {
	_, ok := t.Content.(Pending)
	return ok
}

// Text returns the turn's text and whether it had any.
func (t Turn) Text() (string, bool) {
	s, ok := t.Content.(Text)
	return string(s), ok
}

// Preview returns a single-line preview of the turn, truncated to maxLen runes.
func (t Turn) Preview(maxLen int) string {
	text, ok := t.Text()
	if !ok {
		return "..."
	}
	text = strings.ReplaceAll(text, "\n", " ")
	runes := []rune(text)
	if maxLen > 3 && len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return text
}

// turnJSON is the wire form of a turn. Pending turns are never serialized.
type turnJSON struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// MarshalJSON encodes a text turn. Encoding a pending turn is an error.
func (t Turn) MarshalJSON() ([]byte, error) {
	text, ok := t.Text()
	if !ok {
		return nil, fmt.Errorf("turn %q: pending turns cannot be encoded", t.ID)
	}
	return json.Marshal(turnJSON{ID: t.ID, Role: t.Role, Content: text})
}

// UnmarshalJSON decodes a text turn.
func (t *Turn) UnmarshalJSON(data []byte) error {
	var raw turnJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.ID = raw.ID
	t.Role = raw.Role
	t.Content = Text(raw.Content)
	return nil
}

// =============================================================================
// PROMPT REQUEST
// =============================================================================

// HistoryEntry is one prior turn as seen by the prompt renderer.
type HistoryEntry struct {
	Role Role   `json:"role"`
	Text string `json:"content"`
}

// PromptRequest is the snapshot produced by Submit and sent to the gateway.
type PromptRequest struct {
	LatestMessage string         `json:"prompt"`
	History       []HistoryEntry `json:"history"`
}
