// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-TUI commands of
// neurogo.
//
// # Usage
//
//	cmd, args := cli.Parse(os.Args[1:])
//	env, err := cli.NewEnv(args)
//	...
//	err = cli.HandleStatus(ctx, env)
//
// # Commands Overview
//
//   - chat: line REPL over the live connection, falling back to one-shot
//   - ask, command, probe: one-shot requests
//   - status, providers, current, use: provider state
//   - ws: manual socket console
//   - mock: local demo backend
//   - config, version, help
//
// The full-screen TUI lives in internal/ui/chat and is started by main.
//
// # Output
//
// Styled output is used only on a terminal and honors NO_COLOR and
// FORCE_COLOR. --json wraps results in JSONResponse.
//
// # Exit Codes
//
// GetExitCode maps errors: 2 usage, 3 config, 4 backend error, 5 network,
// 8 timeout, 1 anything else.
package cli
