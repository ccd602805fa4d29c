// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the Mio terminal view.

The Model is a Bubble Tea model over a conversation.Reducer. Every mutation of
the transcript happens inside Update, so the reducer needs no locking.

# Flow

  - Enter submits the input through Reducer.Submit, which appends the user
    turn and the pending turn.
  - The gateway call runs as a tea.Cmd and comes back as a ResponseMsg.
  - ResponseMsg is fed to Reducer.Resolve. A failure becomes an error toast.
  - Submitting while a reply is pending shows a warning toast instead.

# Commands

  - /help - Show keys and commands
  - /clear - Start over from the greeting
  - /export [md|json|html] [path] - Write the transcript to a file
  - /mode [chat|summarize] - Show or switch the flow
  - /quit - Leave
*/
package chat
