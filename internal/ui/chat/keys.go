// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the keyboard bindings of the chat screen.
type KeyMap struct {
	Submit   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Clear    key.Binding
	Refresh  key.Binding
	Auto     key.Binding
	List     key.Binding
	Current  key.Binding
	Quit     key.Binding

	// Providers switch to the Nth known provider.
	Providers []key.Binding
}

// MaxProviderKeys is how many providers get a function key.
const MaxProviderKeys = 5

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	km := KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("C-k", "clear"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "refresh"),
		),
		Auto: key.NewBinding(
			key.WithKeys("f6"),
			key.WithHelp("F6", "auto"),
		),
		List: key.NewBinding(
			key.WithKeys("ctrl+l", "f7"),
			key.WithHelp("C-l", "providers"),
		),
		Current: key.NewBinding(
			key.WithKeys("f8"),
			key.WithHelp("F8", "current"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("C-c", "quit"),
		),
	}
	for _, k := range []string{"f1", "f2", "f3", "f4", "f5"} {
		km.Providers = append(km.Providers, key.NewBinding(key.WithKeys(k)))
	}
	return km
}

// ProviderIndex returns which provider key msg matches, or -1.
func (km KeyMap) ProviderIndex(msg string) int {
	for i, b := range km.Providers {
		for _, k := range b.Keys() {
			if k == msg {
				return i
			}
		}
	}
	return -1
}
