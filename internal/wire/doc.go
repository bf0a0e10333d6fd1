// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package wire defines the JSON shapes exchanged with the NeuroGO backend.
//
// Two transports carry commands and they never share a shape:
//
//   - The live socket at /ws carries tagged frames. Outbound frames are always
//     {"type":"process","prompt":...}; inbound frames are "response", "error",
//     or anything else (kept as UnknownFrame).
//   - The one-shot endpoint POST /api/process takes {"prompt":...} and answers
//     with either a "response" or an "error" field.
//
// # Key Types
//
//   - ProcessFrame: outbound socket frame
//   - Frame: closed set of inbound socket frames (ResponseFrame, ErrorFrame, UnknownFrame)
//   - ProcessRequest / ProcessResult: one-shot request and reply bodies
//   - Health: /api/health reply
package wire
