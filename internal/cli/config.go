// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - The config command.

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/jeranaias/neurogo-tui/internal/config"
)

// HandleConfig runs "config show", "config path" or "config init".
func HandleConfig(env *Env) error {
	switch env.Args.Subcommand {
	case "", "show":
		if env.Args.JSON {
			return NewJSONResponse("config", env.Config).Write(env.Out)
		}
		fmt.Fprint(env.Out, env.Config.String())
		return nil

	case "path":
		fmt.Fprintln(env.Out, env.ConfigPath)
		return nil

	case "init":
		return initConfig(env)

	default:
		return &UsageError{
			Command: "config",
			Usage:   "neurogo config [show|path|init [--force]]",
			Reason:  "unknown subcommand " + env.Args.Subcommand,
		}
	}
}

// initConfig writes the defaults. An existing file is kept unless --force.
func initConfig(env *Env) error {
	if env.ConfigPath == "" {
		return errors.New("config init: no config path")
	}
	if _, err := os.Stat(env.ConfigPath); err == nil && !env.Args.Force {
		return &UsageError{
			Command: "config init",
			Reason:  env.ConfigPath + " already exists (use --force to overwrite)",
		}
	}
	if err := config.SaveTOML(config.Default(), env.ConfigPath); err != nil {
		return err
	}
	fmt.Fprintf(env.Out, "%s Wrote %s\n", RenderStatus(true), env.ConfigPath)
	return nil
}
