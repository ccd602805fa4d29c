// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a Mio transcript to Markdown, JSON or HTML.
//
// Only finished turns are exported. A pending turn is skipped.
//
// Usage:
//
//	path, err := export.ToFile(reducer.Turns(), export.FormatMarkdown, "chat.md")
//
//	var buf bytes.Buffer
//	err := export.JSON(turns, &buf)
package export
