// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// mock.go - Local demo backend.

package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/neurogo-tui/internal/server"
)

// shutdownTimeout bounds the graceful stop of the demo backend.
const shutdownTimeout = 5 * time.Second

// HandleMock serves the demo backend until ctx is cancelled.
func HandleMock(ctx context.Context, env *Env) error {
	addr := env.Args.Addr
	if addr == "" {
		addr = server.DefaultAddr
	}
	list := env.Args.Providers
	if len(list) == 0 {
		list = server.DefaultProviders
	}

	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := server.New(server.NewBackend(list...)).WithLogger(env.Logger.Named("mock"))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(l) }()
	fmt.Fprintf(env.Out, "Mock backend on http://%s with providers %v (Ctrl+C to stop)\n", l.Addr(), list)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(stopCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		env.Logger.Warn("mock shutdown", zap.Error(err))
	}
	return <-errCh
}
