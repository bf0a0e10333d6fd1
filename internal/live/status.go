// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package live

import "github.com/jeranaias/neurogo-tui/internal/wire"

// Status is the connection indicator state.
type Status int

const (
	StatusConnecting Status = iota
	StatusConnected
	StatusDisconnected
	// StatusError is reported when an attempt ends abnormally. It is always
	// followed by StatusDisconnected.
	StatusError
	// StatusFailed is reported when no attempt could be made at all, such as
	// an unusable endpoint. It is terminal: nothing is rescheduled.
	StatusFailed
)

// String returns the indicator text.
func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "Connecting..."
	case StatusConnected:
		return "Connected"
	case StatusDisconnected:
		return "Disconnected"
	case StatusError:
		return "Connection Error"
	case StatusFailed:
		return "Connection Failed"
	default:
		return "Unknown"
	}
}

// Connected reports whether s is the open state.
func (s Status) Connected() bool {
	return s == StatusConnected
}

// Handler receives connection events. Calls come from the manager's
// goroutines and must not block for long.
type Handler interface {
	HandleFrame(wire.Frame)
	HandleStatus(Status)
}

// HandlerFuncs adapts plain functions to Handler. Nil fields are skipped.
type HandlerFuncs struct {
	Frame  func(wire.Frame)
	Status func(Status)
}

// HandleFrame calls Frame.
func (h HandlerFuncs) HandleFrame(f wire.Frame) {
	if h.Frame != nil {
		h.Frame(f)
	}
}

// HandleStatus calls Status.
func (h HandlerFuncs) HandleStatus(s Status) {
	if h.Status != nil {
		h.Status(s)
	}
}
