// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server is a local NeuroGO-compatible backend for demos and tests.
//
// It speaks the same contract as the real service and answers the provider
// commands with the same prose, so the client's text scraping can be
// exercised end to end without any model provider configured.
//
// Endpoints:
//   - GET  /api/health  - Health check
//   - POST /api/process - One-shot command
//   - GET  /api/routes  - Registered command patterns
//   - GET  /ws          - Live socket
//
// Commands:
//   - list providers, current provider
//   - use <provider>, use auto
//   - with <provider> <text>, chat <text>, echo <text>
package server
