// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the mio command tree.
//
// # Commands
//
//   - serve: web chat on a local address
//   - chat: terminal chat (the default when no command is given)
//   - ask: one chat turn, printed to stdout
//   - summarize: summary of a topic with key concepts in bold
//   - config: show, path, init
//   - version: build information
//
// Global flags --config and --log-level apply to every command.
// Configuration is loaded lazily, so "mio version" and "mio config path"
// work even when the config file is broken.
package cli
