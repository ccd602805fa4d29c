// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyInput is returned by Submit when the input is blank.
	ErrEmptyInput = errors.New("please enter a message")

	// ErrSubmissionPending is returned by Submit while a reply is outstanding.
	ErrSubmissionPending = errors.New("a response is already pending")
)

// FallbackErrorMessage is shown when a failure carries no usable message.
const FallbackErrorMessage = "An unknown error occurred."

// =============================================================================
// RESULT AND NOTIFICATION
// =============================================================================

// Result is the outcome of a model call, fed back through Resolve.
type Result struct {
	// CorrelationID is the id issued for the reply; empty means "generate one".
	CorrelationID string
	Text          string
	Err           error
}

// Notification is a transient user-facing message raised on failure.
type Notification struct {
	Title   string
	Message string
}

// =============================================================================
// REDUCER
// =============================================================================

// Reducer owns the transcript and applies submit and resolve transitions.
type Reducer struct {
	turns    []Turn
	newID    func() string
	greeting bool
}

// Option configures a Reducer.
type Option func(*reducerOptions)

type reducerOptions struct {
	greeting bool
	newID    func() string
	turns    []Turn
}

// WithGreeting controls whether the transcript opens with the greeting turn.
// It is on by default.
func WithGreeting(enabled bool) Option {
	return func(o *reducerOptions) { o.greeting = enabled }
}

// WithIDGenerator replaces the uuid-based id generator.
func WithIDGenerator(fn func() string) Option {
	return func(o *reducerOptions) { o.newID = fn }
}

// WithTurns seeds the transcript. Seeded turns replace the greeting and go
// through the same filtering as Restore.
func WithTurns(turns []Turn) Option {
	return func(o *reducerOptions) { o.turns = turns }
}

// NewReducer creates a reducer in the Idle state.
func NewReducer(opts ...Option) *Reducer {
	o := reducerOptions{greeting: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.newID == nil {
		o.newID = uuid.NewString
	}

	r := &Reducer{newID: o.newID, greeting: o.greeting}
	if o.turns != nil {
		r.Restore(o.turns)
	} else {
		r.Reset()
	}
	return r
}

// Turns returns a copy of the transcript.
func (r *Reducer) Turns() []Turn {
	out := make([]Turn, len(r.turns))
	copy(out, r.turns)
	return out
}

// Len returns the number of turns, including a pending one.
func (r *Reducer) Len() int {
	return len(r.turns)
}

// Pending reports whether a model reply is outstanding.
func (r *Reducer) Pending() bool {
	return r.pendingIndex() >= 0
}

// History returns the user and model text turns in order.
func (r *Reducer) History() []HistoryEntry {
	history := make([]HistoryEntry, 0, len(r.turns))
	for _, t := range r.turns {
		text, ok := t.Text()
		if !ok {
			continue
		}
		if t.Role != RoleUser && t.Role != RoleModel {
			continue
		}
		history = append(history, HistoryEntry{Role: t.Role, Text: text})
	}
	return history
}

// Submit records a user message and opens the pending turn.
//
// The returned request carries the history as it stood before the new user
// turn, plus the trimmed message. Blank input and submission while a reply is
// pending leave the transcript untouched.
func (r *Reducer) Submit(input string) (PromptRequest, error) {
	message := strings.TrimSpace(input)
	if message == "" {
		return PromptRequest{}, ErrEmptyInput
	}
	if r.Pending() {
		return PromptRequest{}, ErrSubmissionPending
	}

	req := PromptRequest{
		LatestMessage: message,
		History:       r.History(),
	}

	r.turns = append(r.turns,
		NewTextTurn(r.freshID(), RoleUser, input),
		NewPendingTurn(),
	)
	return req, nil
}

// Resolve settles the pending turn.
//
// On success the pending turn is replaced in place by a model turn. On error,
// or when the reply is blank, the pending turn is removed and a Notification
// is returned. Without a pending turn Resolve does nothing.
func (r *Reducer) Resolve(res Result) *Notification {
	idx := r.pendingIndex()
	if idx < 0 {
		return nil
	}

	if res.Err != nil || strings.TrimSpace(res.Text) == "" {
		r.turns = append(r.turns[:idx], r.turns[idx+1:]...)
		msg := FallbackErrorMessage
		if res.Err != nil && res.Err.Error() != "" {
			msg = res.Err.Error()
		}
		return &Notification{Title: "Error", Message: msg}
	}

	id := res.CorrelationID
	if id == "" || id == PendingID || r.hasID(id) {
		id = r.freshID()
	}
	r.turns[idx] = NewTextTurn(id, RoleModel, res.Text)
	return nil
}

// Restore replaces the transcript with turns decoded from elsewhere.
// Pending, blank and invalid-role turns are dropped, as is anything using
// the reserved id. Of turns sharing an id only the first is kept.
func (r *Reducer) Restore(turns []Turn) {
	r.turns = make([]Turn, 0, len(turns))
	seen := make(map[string]bool, len(turns))
	for _, t := range turns {
		if t.ID == "" || t.ID == PendingID || seen[t.ID] || !t.Role.Valid() {
			continue
		}
		text, ok := t.Text()
		if !ok || strings.TrimSpace(text) == "" {
			continue
		}
		seen[t.ID] = true
		r.turns = append(r.turns, t)
	}
}

// Reset returns the transcript to its opening state: the greeting turn, or
// nothing when the reducer was built without one.
func (r *Reducer) Reset() {
	if r.greeting {
		r.turns = []Turn{NewTextTurn(GreetingID, RoleModel, GreetingText)}
		return
	}
	r.turns = make([]Turn, 0)
}

func (r *Reducer) pendingIndex() int {
	for i, t := range r.turns {
		if t.IsPending() {
			return i
		}
	}
	return -1
}

func (r *Reducer) hasID(id string) bool {
	for _, t := range r.turns {
		if t.ID == id {
			return true
		}
	}
	return false
}

// maxIDAttempts bounds draws from a custom generator before falling back to
// uuids.
const maxIDAttempts = 16

// freshID draws ids until one is unused and not reserved.
func (r *Reducer) freshID() string {
	gen := r.newID
	for attempt := 0; ; attempt++ {
		if attempt == maxIDAttempts {
			gen = uuid.NewString
		}
		id := gen()
		if id != "" && id != PendingID && !r.hasID(id) {
			return id
		}
	}
}
