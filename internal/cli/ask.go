// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot commands: ask, command and probe.

package cli

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jeranaias/neurogo-tui/internal/model"
	"github.com/jeranaias/neurogo-tui/internal/render"
	"github.com/jeranaias/neurogo-tui/internal/wire"
)

// HandleAsk sends one command through the one-shot endpoint and prints the
// reply. A backend error becomes the command's error.
func HandleAsk(ctx context.Context, env *Env) error {
	prompt := strings.TrimSpace(env.Args.Query)
	if prompt == "" {
		return ErrMissingArgument("ask", "prompt", `neurogo ask "chat hello"`)
	}
	res, err := env.Client.Process(ctx, prompt)
	if err != nil {
		return err
	}
	if res.Failed() {
		return &BackendError{Message: res.Error}
	}
	fmt.Fprintln(env.Out, renderReply(res.Response))
	return nil
}

// renderReply highlights block-shaped replies on a color terminal.
func renderReply(text string) string {
	if !ColorsEnabled() {
		return text
	}
	if render.Classify(text) == model.KindBlock {
		return render.Highlight(text)
	}
	return text
}

// HandleCommand is the docs page process tester. With --raw the argument is
// sent as the request body verbatim, so malformed payloads can be tried.
func HandleCommand(ctx context.Context, env *Env) error {
	if env.Args.Query == "" {
		return ErrMissingArgument("command", "text", `neurogo command "list providers" | neurogo command --raw '{"prompt":"echo hi"}'`)
	}

	var (
		res wire.ProcessResult
		err error
	)
	if env.Args.RawBody {
		res, err = env.Client.ProcessRaw(ctx, []byte(env.Args.Query))
	} else {
		res, err = env.Client.Process(ctx, env.Args.Query)
	}
	if err != nil {
		return err
	}
	if env.Args.JSON {
		return NewJSONResponse("command", res).Write(env.Out)
	}
	if res.Failed() {
		fmt.Fprintf(env.Out, "Response: %s\n", res.Error)
		return &BackendError{Message: res.Error}
	}
	fmt.Fprintf(env.Out, "Response: %s\n", res.Response)
	return nil
}

// HandleProbe calls an arbitrary endpoint and prints the status and body.
func HandleProbe(ctx context.Context, env *Env) error {
	const usage = "neurogo probe <METHOD> <PATH> [--data BODY]"
	if env.Args.Method == "" || env.Args.Path == "" {
		return ErrMissingArgument("probe", "method and path", usage)
	}
	switch env.Args.Method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodHead, http.MethodOptions:
	default:
		return &UsageError{Command: "probe", Usage: usage, Reason: "unsupported method " + env.Args.Method}
	}

	var body []byte
	if env.Args.Data != "" {
		body = []byte(env.Args.Data)
	}
	res, err := env.Client.Probe(ctx, env.Args.Method, env.Args.Path, body)
	if err != nil {
		return err
	}
	if env.Args.JSON {
		return NewJSONResponse("probe", map[string]interface{}{
			"status":      res.StatusCode,
			"duration_ms": res.Duration.Milliseconds(),
			"body":        res.Body,
		}).Write(env.Out)
	}

	fmt.Fprintf(env.Out, "%s %s %s\n", RenderStatus(res.StatusCode < 400), res.Status, DimStyle.Render(res.Duration.Round(time.Millisecond).String()))
	fmt.Fprintln(env.Out, res.Body)
	return nil
}
