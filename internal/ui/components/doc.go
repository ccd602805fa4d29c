// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the building blocks of the Mio terminal view:
// turn rendering, the thinking indicator, the header and status bar, and
// non-blocking toasts.
package components
