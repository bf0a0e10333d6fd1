// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the client state of one neurogo run.
//
// A Session owns the message log, the provider list, the current provider,
// the loading flag and the connection indicator. Front ends drive it through
// Submit, QuickCommand and SwitchProvider and re-render when an observer is
// notified. All state is replaced wholesale on each refresh; nothing is merged
// with earlier values.
//
// # Key Types
//
//   - Session: The controller
//   - State: A point-in-time copy of everything a front end displays
//   - Event: Change notification delivered to observers
//
// # Usage
//
//	s := session.New(session.Options{Processor: client, Health: client})
//	s.Attach(live.NewManager(liveOpts, s))
//	s.OnChange(func(ev session.Event) { redraw() })
//	s.Start()
//	defer s.Close()
//
//	s.Submit("list providers")
//
// A command submitted while the live connection is open is sent as a socket
// frame; otherwise it goes through the one-shot endpoint. Either way the
// current provider is re-queried shortly afterwards. A newer refresh
// supersedes one that is still pending, and replies to superseded refreshes
// are discarded.
package session
