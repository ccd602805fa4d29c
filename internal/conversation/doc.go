// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation holds the chat transcript and the reducer that drives it.
//
// A transcript is an ordered list of turns. Each turn carries either finished
// text or the pending placeholder shown while the model is working. The
// Reducer is the only writer: it appends on submit and replaces or removes
// the pending turn when the model call settles.
//
// # Key Types
//
//   - Turn: one entry in the transcript (id, role, content)
//   - Content: sealed variant, either Text or Pending
//   - Reducer: state machine over the transcript (Idle / AwaitingResponse)
//   - PromptRequest: snapshot handed to the model gateway on submit
//
// # Usage
//
//	r := conversation.NewReducer()
//	req, err := r.Submit("what is entropy?")
//	if err != nil {
//	    return err
//	}
//	text, err := gw.Chat(ctx, req)
//	if n := r.Resolve(conversation.Result{Text: text, Err: err}); n != nil {
//	    showToast(n.Message)
//	}
//
// The Reducer is not safe for concurrent use. Callers serialize access,
// either through an event loop or by giving each request its own Reducer.
package conversation
