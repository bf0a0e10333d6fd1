// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat is the Bubble Tea model of the NeuroGO chat screen.

The model owns no protocol state. It drives a *session.Session, redraws from
session.Snapshot whenever the session reports a change, and forwards input:

	Enter        submit the prompt
	F1-F5        switch to the Nth known provider
	F6           return to auto mode
	Ctrl+L, F7   list providers
	F8           show current provider
	Ctrl+R       re-fetch health, providers and current provider
	Ctrl+K       clear the screen
	PgUp / PgDn  scroll the transcript
	Ctrl+C, Esc  quit

Session changes are coalesced through a one-slot channel that a tea.Cmd
waits on, so session callbacks never block the event loop.
*/
package chat
