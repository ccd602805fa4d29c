// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway is the boundary between mio and the model.
//
// A Gateway renders prompts and hands them to a Provider, which is any client
// that can turn one prompt into one reply. Providers are injected, so tests
// substitute Fake and production picks one from config with FromConfig.
//
// # Flows
//
//   - Chat: {prompt, history} -> {response}, using the Mio persona prompt
//   - Summarize: topic -> {summary}
//   - HighlightKeyConcepts: summary -> summary with key concepts in bold
//
// Blank replies are failures (ErrEmptyResponse), the same as transport errors.
// There are no retries and no timeout beyond the provider's own transport limit.
package gateway
