// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for neurogo.
//
// Configuration is a single TOML file with sensible defaults, environment
// variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ServerConfig: Backend location and endpoint paths
//   - LiveConfig: Live connection reconnect policy
//   - RefreshConfig: Post-command provider refresh
//   - ProvidersConfig: Known provider identifiers used for availability badges
//   - LogConfig: Log file sink
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Command-line flags (--server)
//   - Environment variables (NEUROGO_*)
//   - ~/.neurogo/config.toml (or the file given with --config)
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Server.BaseURL)
package config
