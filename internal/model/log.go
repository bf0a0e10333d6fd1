// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "sync"

// Log is an append-only message sequence. It is safe for concurrent use.
type Log struct {
	mu       sync.RWMutex
	messages []Message
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{messages: make([]Message, 0, 32)}
}

// Append adds m to the end of the log and returns its index.
func (l *Log) Append(m Message) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, m)
	return len(l.messages) - 1
}

// Messages returns a snapshot of the log.
func (l *Log) Messages() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Since returns the messages appended at or after index i.
func (l *Log) Since(i int) []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 {
		i = 0
	}
	if i >= len(l.messages) {
		return nil
	}
	out := make([]Message, len(l.messages)-i)
	copy(out, l.messages[i:])
	return out
}

// Last returns the newest message.
func (l *Log) Last() (Message, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.messages) == 0 {
		return Message{}, false
	}
	return l.messages[len(l.messages)-1], true
}

// Len returns the number of messages.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}
