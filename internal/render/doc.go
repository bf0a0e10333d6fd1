// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render classifies and draws message content for the terminal.
//
// Classification is a heuristic: content that carries any code-like token, or
// spans lines and runs past 100 characters, is drawn as a preformatted block.
// Everything else is wrapped prose. False positives are expected.
//
// Block content is syntax highlighted with chroma. Help text is rendered as
// markdown with glamour.
package render
