// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the message log shown by every neurogo front end.
//
// # Key Types
//
//   - Role: Message author (user, assistant, system)
//   - Kind: How the content is laid out (plain or block)
//   - Message: One entry with id, role, content and timestamp
//   - Log: Append-only, goroutine-safe sequence of messages
//
// The log lives for the life of the process and is never persisted.
//
// # Usage
//
//	log := model.NewLog()
//	log.Append(model.NewUserMessage("list providers"))
//	for _, m := range log.Messages() {
//	    fmt.Println(m.Role.DisplayName(), m.Content)
//	}
package model
