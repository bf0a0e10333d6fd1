// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across neurogo.
//
// # Key Functions
//
//   - TruncateWidth: cut a string to a terminal cell width with an ellipsis
//   - Width: terminal cell width of a string
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	title := util.TruncateWidth(header, 40)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
