// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling for the Mio terminal view.
//
// Colors are lipgloss.AdaptiveColor values so the view reads on light and
// dark terminals alike. Theme groups the composed styles used by the
// components and chat packages.
//
// Status messages always carry an ASCII indicator alongside their color:
//
//	styles.RenderError("Mio encountered an error")   // [X] ...
//	styles.RenderWarning("Mio is still thinking…")   // [!] ...
package styles
