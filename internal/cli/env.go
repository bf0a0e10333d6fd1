// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// env.go - Shared command environment: config, logger, clients.

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/neurogo-tui/internal/api"
	"github.com/jeranaias/neurogo-tui/internal/config"
	"github.com/jeranaias/neurogo-tui/internal/live"
	"github.com/jeranaias/neurogo-tui/internal/logging"
	"github.com/jeranaias/neurogo-tui/internal/session"
)

// Env is what every command runs against.
type Env struct {
	Args       Args
	Config     *config.Config
	ConfigPath string
	Logger     *zap.Logger
	Client     *api.Client
	Out        io.Writer
	Err        io.Writer

	logCloser io.Closer
}

// NewEnv loads configuration, applies flag overrides and opens the log.
func NewEnv(args Args) (*Env, error) {
	cfg, err := config.Load(args.ConfigPath)
	if err != nil {
		return nil, err
	}
	path := args.ConfigPath
	if path == "" {
		if path, err = config.ConfigPath(); err != nil {
			path = ""
		}
	}
	if err := applyFlags(cfg, args); err != nil {
		return nil, err
	}

	logger, closer, err := logging.New(logOptions(cfg, args))
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return NewEnvWith(args, cfg, path, logger, closer), nil
}

// NewEnvWith assembles an Env from parts. Tests use it directly.
func NewEnvWith(args Args, cfg *config.Config, path string, logger *zap.Logger, closer io.Closer) *Env {
	logger = logging.OrNop(logger)
	client := api.New(cfg.Server.BaseURL).
		WithPaths(cfg.Server.ProcessPath, cfg.Server.HealthPath).
		WithTimeout(cfg.Server.RequestTimeout.Duration).
		WithLogger(logger)
	return &Env{
		Args:       args,
		Config:     cfg,
		ConfigPath: path,
		Logger:     logger,
		Client:     client,
		Out:        os.Stdout,
		Err:        os.Stderr,
		logCloser:  closer,
	}
}

// Close flushes the log.
func (e *Env) Close() error {
	if e.logCloser == nil {
		return nil
	}
	return e.logCloser.Close()
}

// applyFlags layers command-line flags over the loaded config.
func applyFlags(cfg *config.Config, args Args) error {
	if args.Server == "" {
		return nil
	}
	cfg.Server.BaseURL = strings.TrimSpace(args.Server)
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	return nil
}

func logOptions(cfg *config.Config, args Args) logging.Options {
	opts := logging.Options{
		Path:       cfg.Log.Path,
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: 3,
	}
	if cfg.LogToStderr() {
		opts.Path = ""
	}
	switch {
	case args.Verbose:
		opts.Level = "debug"
	case args.Quiet:
		opts.Level = "error"
	}
	return opts
}

// =============================================================================
// SESSION WIRING
// =============================================================================

// SocketURL returns the live endpoint for the configured backend.
func (e *Env) SocketURL() (string, error) {
	return live.Endpoint(e.Config.Server.BaseURL, e.Config.Server.WSPath)
}

// NewSession builds a session. With withLive set it also attaches a live
// manager using the always-on reconnect policy from config.
func (e *Env) NewSession(withLive bool) (*session.Session, error) {
	sess := session.New(session.Options{
		Processor:    e.Client,
		Health:       e.Client,
		Known:        e.Config.Providers.Known,
		RefreshDelay: e.Config.Refresh.Delay.Duration,
		Supersede:    e.Config.Refresh.Supersede,
		Logger:       e.Logger,
	})
	if !withLive {
		return sess, nil
	}

	url, err := e.SocketURL()
	if err != nil {
		sess.Close()
		return nil, err
	}
	sess.Attach(live.NewManager(live.Options{
		URL:             url,
		AlwaysReconnect: e.Config.Live.AlwaysReconnect,
		ReconnectDelay:  e.Config.Live.ReconnectDelay.Duration,
		Logger:          e.Logger,
	}, sess))
	return sess, nil
}
