// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// providers.go - The providers, current and use commands.

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeranaias/neurogo-tui/internal/providers"
)

// HandleProviders lists the configured providers.
func HandleProviders(ctx context.Context, env *Env) error {
	list, err := providers.NewTextSource(env.Client).Providers(ctx)
	if err != nil {
		return err
	}
	if env.Args.JSON {
		return NewJSONResponse("providers", map[string]interface{}{
			"providers": append([]string{}, list...),
			"count":     len(list),
		}).Write(env.Out)
	}

	headline, detail := providers.Summary(list)
	fmt.Fprintln(env.Out, headline)
	if len(list) == 0 {
		fmt.Fprintln(env.Out, DimStyle.Render(detail))
		return nil
	}
	for _, p := range list {
		fmt.Fprintf(env.Out, "  %s\n", p)
	}
	return nil
}

// HandleCurrent prints the current provider.
func HandleCurrent(ctx context.Context, env *Env) error {
	cur, err := providers.NewTextSource(env.Client).Current(ctx)
	if err != nil && !errors.Is(err, providers.ErrNoCurrent) {
		return err
	}
	if env.Args.JSON {
		return NewJSONResponse("current", map[string]string{
			"current": cur.Label(),
			"token":   cur.Token,
		}).Write(env.Out)
	}
	fmt.Fprintf(env.Out, "Current: %s\n", cur.Label())
	return nil
}

// HandleUse switches provider and prints the backend's reply followed by the
// re-queried current provider.
func HandleUse(ctx context.Context, env *Env) error {
	if env.Args.Query == "" {
		return ErrMissingArgument("use", "provider", "neurogo use <provider|auto>")
	}
	res, err := env.Client.Process(ctx, providers.SwitchCommand(env.Args.Query))
	if err != nil {
		return err
	}
	if res.Failed() {
		return &BackendError{Message: res.Error}
	}
	if !env.Args.JSON {
		fmt.Fprintln(env.Out, res.Response)
	}
	return HandleCurrent(ctx, env)
}
