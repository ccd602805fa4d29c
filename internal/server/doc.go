// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides the Mio web view and its JSON actions.
//
// Endpoints:
//   - GET  /               - Chat page with the greeting transcript
//   - POST /               - Submit a prompt from the page form
//   - POST /api/chat       - {prompt, history} to {promptId, response}
//   - POST /api/summarize  - {topic} to {promptId, response}
//   - GET  /health         - Health check
//   - GET  /static/        - Stylesheet and script
//
// The page keeps no server-side session. Finished turns travel in a hidden
// history field and are restored into a fresh reducer on every post.
package server
