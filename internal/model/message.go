// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "NeuroGO"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// KIND TYPE
// =============================================================================

// Kind selects the layout of a message body.
type Kind int

const (
	// KindPlain is wrapped prose.
	KindPlain Kind = iota
	// KindBlock is preformatted text, kept verbatim.
	KindBlock
)

func (k Kind) String() string {
	if k == KindBlock {
		return "block"
	}
	return "plain"
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Error prefixes used for assistant entries that report a failure.
const (
	ErrorPrefix        = "Error: "
	NetworkErrorPrefix = "Network Error: "
)

// Message is a single log entry.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Kind      Kind
	Timestamp time.Time
}

// NewMessage creates a message with a fresh id and the current time. Kind is
// left as KindPlain; callers that classify content set it afterwards.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a user-authored message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) Message {
	return NewMessage(RoleAssistant, content)
}

// NewErrorMessage creates an assistant message for a backend-reported error.
func NewErrorMessage(errText string) Message {
	return NewMessage(RoleAssistant, ErrorPrefix+errText)
}

// NewNetworkErrorMessage creates an assistant message for a transport failure.
func NewNetworkErrorMessage(err error) Message {
	return NewMessage(RoleAssistant, NetworkErrorPrefix+err.Error())
}

// NewSystemMessage creates a system notice.
func NewSystemMessage(content string) Message {
	return NewMessage(RoleSystem, content)
}

// IsError reports whether the message reports a failure.
func (m Message) IsError() bool {
	return m.Role == RoleAssistant &&
		(strings.HasPrefix(m.Content, ErrorPrefix) || strings.HasPrefix(m.Content, NetworkErrorPrefix))
}
