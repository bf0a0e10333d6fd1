// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// run.go - Command dispatch.

package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
)

// Handler runs one command.
type Handler func(ctx context.Context, env *Env) error

// Handlers maps commands to their implementation. CmdTUI is supplied by the
// caller so this package does not depend on the TUI.
func Handlers(tui Handler) map[Command]Handler {
	return map[Command]Handler{
		CmdTUI:       tui,
		CmdChat:      HandleChat,
		CmdAsk:       HandleAsk,
		CmdStatus:    HandleStatus,
		CmdProviders: HandleProviders,
		CmdCurrent:   HandleCurrent,
		CmdUse:       HandleUse,
		CmdCommand:   HandleCommand,
		CmdProbe:     HandleProbe,
		CmdWS:        HandleWS,
		CmdMock:      HandleMock,
		CmdConfig:    func(_ context.Context, env *Env) error { return HandleConfig(env) },
	}
}

// Run executes cmd and returns the process exit code.
func Run(ctx context.Context, cmd Command, args Args, tui Handler) int {
	switch cmd {
	case CmdHelp:
		PrintUsage(os.Stdout)
		return ExitSuccess
	case CmdVersion:
		_ = HandleVersion(ctx, &Env{Args: args, Out: os.Stdout})
		return ExitSuccess
	case CmdUnknown:
		err := &UsageError{Command: args.Name, Reason: "unknown command (see neurogo help)"}
		DisplayError(os.Stderr, args.Name, err, args.JSON)
		return GetExitCode(err)
	}

	env, err := NewEnv(args)
	if err != nil {
		DisplayError(os.Stderr, args.Name, err, args.JSON)
		return GetExitCode(err)
	}
	defer env.Close()

	h := Handlers(tui)[cmd]
	if h == nil {
		err = fmt.Errorf("command %q is not available", args.Name)
	} else {
		err = h(ctx, env)
	}
	if err != nil {
		out := env.Err
		if args.JSON {
			out = env.Out
		}
		DisplayError(out, args.Name, err, args.JSON)
	}
	return GetExitCode(err)
}

// HandleVersion prints version information.
func HandleVersion(_ context.Context, env *Env) error {
	if env.Args.JSON {
		return NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}).Write(env.Out)
	}
	PrintVersion(env.Out)
	return nil
}
