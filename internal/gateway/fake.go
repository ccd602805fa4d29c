// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"context"
	"sync"
)

// FakeReply is one scripted outcome for Fake.
type FakeReply struct {
	Text string
	Err  error
}

// Fake is a scripted Provider for tests and offline demos.
//
// Replies are consumed in order; once exhausted the last reply repeats.
// With no replies at all, Fake echoes nothing and Generate returns "".
type Fake struct {
	mu      sync.Mutex
	replies []FakeReply
	prompts []string
}

// NewFake creates a Fake that returns replies in order.
func NewFake(replies ...FakeReply) *Fake {
	return &Fake{replies: replies}
}

// NewFakeText creates a Fake that always answers with text.
func NewFakeText(text string) *Fake {
	return NewFake(FakeReply{Text: text})
}

// Name implements Provider.
func (f *Fake) Name() string { return "fake" }

// Generate implements Provider.
func (f *Fake) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.prompts = append(f.prompts, prompt)
	if len(f.replies) == 0 {
		return "", nil
	}
	r := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return r.Text, r.Err
}

// Prompts returns every prompt received so far.
func (f *Fake) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.prompts))
	copy(out, f.prompts)
	return out
}
