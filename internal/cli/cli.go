// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing for neurogo.
package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/jeranaias/neurogo-tui/internal/render"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdAsk
	CmdStatus
	CmdProviders
	CmdCurrent
	CmdUse
	CmdCommand
	CmdProbe
	CmdWS
	CmdMock
	CmdConfig
	CmdVersion
	CmdHelp
	CmdUnknown
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Server     string
	ConfigPath string
	JSON       bool
	Verbose    bool
	Quiet      bool

	// Command-specific
	Name       string // command word as typed
	Query      string // joined positionals for ask/command/use
	Subcommand string
	Method     string // probe
	Path       string // probe
	Data       string // probe --data
	RawBody    bool   // command --raw
	Force      bool   // config init --force
	Addr       string // mock --addr
	Providers  []string

	// Raw args (remaining after the command word)
	Raw []string
}

const usageText = `# neurogo

Terminal client for a NeuroGO assistant backend.

## Usage

    neurogo [global flags] <command> [args]

## Commands

| Command | Description |
|---|---|
| ` + "`tui`" + ` | Full-screen chat (default) |
| ` + "`chat`" + ` | Line-based chat with history |
| ` + "`ask <prompt>`" + ` | Send one command and print the reply |
| ` + "`status`, `s`" + ` | API health, providers and current provider |
| ` + "`providers`" + ` | List configured providers |
| ` + "`current`" + ` | Show the current provider |
| ` + "`use <provider\\|auto>`" + ` | Switch provider |
| ` + "`command <text> [--raw]`" + ` | Send a command; --raw sends the body verbatim |
| ` + "`probe <METHOD> <PATH> [--data BODY]`" + ` | Call any endpoint and print the reply |
| ` + "`ws`" + ` | Interactive socket console |
| ` + "`mock [--addr HOST:PORT] [--providers a,b]`" + ` | Run a local demo backend |
| ` + "`config [show\\|path\\|init]`" + ` | Configuration |
| ` + "`version`" + ` | Print version |

## Global flags

    --server URL     Backend base URL (default http://localhost:8080)
    --config PATH    Config file (default ~/.neurogo/config.toml)
    --json           JSON output for status, providers, current, version
    -v, --verbose    Debug logging
    -q, --quiet      Errors only

## Examples

    neurogo status
    neurogo use ollama
    neurogo ask "chat hello"
    neurogo probe GET /api/routes
    neurogo --server http://10.0.0.5:8080 tui
`

// PrintUsage writes the help text, rendered as markdown on a terminal.
func PrintUsage(w io.Writer) {
	if IsStdoutTTY() && ColorsEnabled() {
		fmt.Fprint(w, render.Markdown(usageText))
		return
	}
	fmt.Fprint(w, usageText)
}

// PrintVersion writes version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "neurogo %s (commit %s, built %s, %s)\n", Version, GitCommit, BuildDate, runtime.Version())
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses argv (without the program name).
func Parse(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)
	if len(remaining) == 0 {
		return CmdTUI, args
	}

	args.Name = strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch args.Name {
	case "tui":
		return CmdTUI, args

	case "chat":
		return CmdChat, args

	case "ask":
		p := NewArgParser(remaining)
		args.Query = strings.Join(p.PositionalFrom(0), " ")
		return CmdAsk, args

	case "status", "s":
		return CmdStatus, args

	case "providers", "list":
		return CmdProviders, args

	case "current":
		return CmdCurrent, args

	case "use", "switch":
		p := NewArgParser(remaining)
		args.Query = p.Positional(0)
		return CmdUse, args

	case "command", "cmd":
		p := NewArgParser(remaining, "raw")
		args.RawBody = p.BoolFlag("raw")
		args.Query = strings.Join(p.PositionalFrom(0), " ")
		return CmdCommand, args

	case "probe":
		p := NewArgParser(remaining)
		args.Method = strings.ToUpper(p.Positional(0))
		args.Path = p.Positional(1)
		args.Data = p.FlagOrDefault("data", p.Flag("d"))
		return CmdProbe, args

	case "ws", "socket":
		return CmdWS, args

	case "mock", "serve":
		p := NewArgParser(remaining)
		args.Addr = p.Flag("addr")
		if list := p.Flag("providers"); list != "" {
			args.Providers = splitList(list)
		}
		return CmdMock, args

	case "config":
		p := NewArgParser(remaining, "force")
		args.Subcommand = p.Subcommand()
		args.Force = p.BoolFlag("force")
		return CmdConfig, args

	case "version", "--version":
		return CmdVersion, args

	case "help", "-h", "--help":
		return CmdHelp, args

	default:
		return CmdUnknown, args
	}
}

// parseGlobalFlags extracts global flags anywhere in argv.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var (
		remaining []string
		args      Args
	)
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch arg {
		case "--json":
			args.JSON = true
		case "-v", "--verbose":
			args.Verbose = true
		case "-q", "--quiet":
			args.Quiet = true
		case "--server", "--config":
			if i+1 < len(argv) {
				i++
				setGlobal(&args, arg, argv[i])
			}
		default:
			if k, v, ok := strings.Cut(arg, "="); ok && (k == "--server" || k == "--config") {
				setGlobal(&args, k, v)
			} else {
				remaining = append(remaining, arg)
			}
		}
	}
	return remaining, args
}

func setGlobal(args *Args, flag, value string) {
	switch flag {
	case "--server":
		args.Server = value
	case "--config":
		args.ConfigPath = value
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
