// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package actions

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/mio/internal/conversation"
	"github.com/jeranaias/mio/internal/gateway"
)

func newActions(replies ...gateway.FakeReply) (*Actions, *gateway.Fake) {
	fake := gateway.NewFake(replies...)
	a := New(gateway.New(fake)).WithIDGenerator(func() string { return "prompt-1" })
	return a, fake
}

func TestChat_Success(t *testing.T) {
	a, fake := newActions(gateway.FakeReply{Text: "Hi there"})

	st := a.Chat(context.Background(), "  Hello  ", []conversation.HistoryEntry{
		{Role: conversation.RoleModel, Text: conversation.GreetingText},
	})
	assert.True(t, st.OK())
	assert.Equal(t, "prompt-1", st.PromptID)
	assert.Equal(t, "Hi there", st.Response)
	assert.Empty(t, st.Error)

	require.Len(t, fake.Prompts(), 1)
	assert.Contains(t, fake.Prompts()[0], "User: Hello\n")
}

func TestChat_Validation(t *testing.T) {
	a, fake := newActions(gateway.FakeReply{Text: "unused"})

	st := a.Chat(context.Background(), "   ", nil)
	assert.False(t, st.OK())
	assert.True(t, st.Invalid)
	assert.Equal(t, MsgPromptRequired, st.Error)
	assert.Empty(t, st.PromptID)
	assert.Empty(t, fake.Prompts())
}

func TestChat_Failures(t *testing.T) {
	tests := []struct {
		name  string
		reply gateway.FakeReply
		want  string
	}{
		{"provider error", gateway.FakeReply{Err: errors.New("quota exceeded")}, "quota exceeded"},
		{"empty response", gateway.FakeReply{Text: ""}, "empty response"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, _ := newActions(tc.reply)
			st := a.Chat(context.Background(), "hi", nil)
			assert.False(t, st.OK())
			assert.False(t, st.Invalid)
			assert.True(t, strings.HasPrefix(st.Error, "Mio encountered an error: "), st.Error)
			assert.Contains(t, st.Error, tc.want)
			assert.Equal(t, "prompt-1", st.PromptID)
		})
	}
}

func TestSummarize_Pipeline(t *testing.T) {
	a, fake := newActions(
		gateway.FakeReply{Text: "Cells divide."},
		gateway.FakeReply{Text: "**Cells** divide."},
	)

	st := a.Summarize(context.Background(), "Mitosis")
	require.True(t, st.OK(), st.Error)
	assert.Equal(t, "**Cells** divide.", st.Response)
	assert.Len(t, fake.Prompts(), 2)
}

func TestSummarize_EmptySummary(t *testing.T) {
	a, fake := newActions(gateway.FakeReply{Text: ""})

	st := a.Summarize(context.Background(), "Mitosis")
	assert.Equal(t, "Mio encountered an error: "+MsgNoSummary, st.Error)
	assert.Len(t, fake.Prompts(), 1, "highlight stage must not run")
}

func TestRespond_Dispatch(t *testing.T) {
	a, fake := newActions(gateway.FakeReply{Text: "ok"})

	a.Respond(context.Background(), ModeSummarize, "topic", nil)
	assert.Contains(t, fake.Prompts()[0], "concise summary")

	a.Respond(context.Background(), ModeChat, "hello", nil)
	assert.Contains(t, fake.Prompts()[len(fake.Prompts())-1], "User: hello")
}

func TestFormState_Result(t *testing.T) {
	ok := FormState{PromptID: "p", Response: "r"}.Result()
	assert.Equal(t, conversation.Result{CorrelationID: "p", Text: "r"}, ok)

	bad := FormState{PromptID: "p", Error: "boom"}.Result()
	require.Error(t, bad.Err)
	assert.Equal(t, "boom", bad.Err.Error())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Summarize")
	require.NoError(t, err)
	assert.Equal(t, ModeSummarize, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeChat, m)

	_, err = ParseMode("debate")
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Mio encountered an error: An unknown error occurred.", Describe(nil))
	assert.Equal(t, "Mio encountered an error: x", Describe(errors.New("x")))
}
