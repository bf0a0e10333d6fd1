// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package live owns the persistent websocket to the backend.
//
// A Manager holds at most one connection. Inbound frames and connection state
// changes are delivered to a Handler. Sends are only valid while connected;
// nothing is queued.
//
// In always-on mode every ended attempt (dial failure, peer close, read error
// or manual Disconnect) schedules exactly one reopen after a fixed delay.
// There is no backoff and no retry limit. Shutdown stops any pending reopen.
package live
