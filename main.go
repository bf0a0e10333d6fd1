// NeuroGO TUI - A terminal client for the NeuroGO provider router.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/neurogo-tui/internal/cli"
	"github.com/jeranaias/neurogo-tui/internal/config"
	"github.com/jeranaias/neurogo-tui/internal/ui/chat"
	"github.com/jeranaias/neurogo-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// configDebounce coalesces the burst of events editors emit on save.
const configDebounce = 250 * time.Millisecond

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse(os.Args[1:])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, cmd, args, runTUI)
	stop()
	os.Exit(code)
}

// =============================================================================
// TUI
// =============================================================================

// runTUI starts the full-screen client. The session owns all network work;
// the program only renders it.
func runTUI(ctx context.Context, env *cli.Env) error {
	sess, err := env.NewSession(true)
	if err != nil {
		return err
	}
	defer sess.Close()

	theme := styles.NewTheme()
	m := chat.New(sess, theme)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	// USABILITY: Editing the config file updates the provider badges live.
	if env.ConfigPath != "" {
		w, err := config.NewWatcher(env.ConfigPath, configDebounce,
			func(cfg *config.Config) {
				p.Send(chat.ConfigReloadedMsg{Known: cfg.Providers.Known})
			},
			func(err error) {
				env.Logger.Warn("config reload failed", zap.Error(err))
			})
		if err != nil {
			env.Logger.Debug("config watch disabled", zap.String("path", env.ConfigPath), zap.Error(err))
		} else {
			defer w.Close()
		}
	}

	sess.Start()
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
