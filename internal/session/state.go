// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"github.com/jeranaias/neurogo-tui/internal/live"
	"github.com/jeranaias/neurogo-tui/internal/model"
	"github.com/jeranaias/neurogo-tui/internal/providers"
	"github.com/jeranaias/neurogo-tui/internal/wire"
)

// EventKind identifies what changed.
type EventKind int

const (
	EventMessage EventKind = iota
	EventStatus
	EventLoading
	EventProviders
	EventCurrent
	EventHealth
)

func (k EventKind) String() string {
	switch k {
	case EventMessage:
		return "message"
	case EventStatus:
		return "status"
	case EventLoading:
		return "loading"
	case EventProviders:
		return "providers"
	case EventCurrent:
		return "current"
	case EventHealth:
		return "health"
	default:
		return "unknown"
	}
}

// Event is a change notification.
type Event struct {
	Kind EventKind
	// Message is set for EventMessage.
	Message model.Message
}

// State is a copy of the displayed client state.
type State struct {
	Status  live.Status
	Loading bool

	HealthChecked bool
	Health        wire.Health
	// HealthErr is set when the health endpoint could not be reached.
	HealthErr error

	ProvidersLoaded bool
	Providers       []string
	Badges          []providers.Badge
	// ProvidersErr is set when the last provider list fetch failed.
	ProvidersErr error

	Current providers.Current

	Messages int
}

// Online reports whether the last health check succeeded.
func (s State) Online() bool {
	return s.HealthChecked && s.HealthErr == nil && s.Health.Healthy()
}

// HealthLabel renders the health badge.
func (s State) HealthLabel() string {
	switch {
	case !s.HealthChecked:
		return "Checking..."
	case s.Online():
		return "API Online"
	default:
		return "API Offline"
	}
}

// ProviderSummary renders the provider headline and detail lines.
func (s State) ProviderSummary() (headline, detail string) {
	if s.ProvidersErr != nil && !s.ProvidersLoaded {
		return "Failed to load providers", s.ProvidersErr.Error()
	}
	if !s.ProvidersLoaded {
		return "Loading providers...", ""
	}
	return providers.Summary(s.Providers)
}

// CurrentLabel renders the current provider line.
func (s State) CurrentLabel() string {
	if s.Current.IsZero() {
		return "Provider: unknown"
	}
	return "Provider: " + s.Current.Label()
}
