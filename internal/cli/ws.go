// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ws.go - Manual socket console.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/peterh/liner"

	"github.com/jeranaias/neurogo-tui/internal/live"
	"github.com/jeranaias/neurogo-tui/internal/wire"
)

// consoleTimeFormat matches a browser's toLocaleTimeString.
const consoleTimeFormat = "15:04:05"

// Console prints timestamped socket traffic. Writes are serialized because
// frames arrive on the manager's read goroutine.
type Console struct {
	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

// NewConsole writes to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out, now: time.Now}
}

// Line prints "[time] sender: text".
func (c *Console) Line(sender, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "[%s] %s: %s\n", c.now().Format(consoleTimeFormat), sender, text)
}

// HandleFrame implements live.Handler.
func (c *Console) HandleFrame(f wire.Frame) {
	c.Line("Server", frameText(f))
}

// HandleStatus implements live.Handler.
func (c *Console) HandleStatus(s live.Status) {
	switch s {
	case live.StatusConnected:
		c.Line("System", "Connected to WebSocket")
	case live.StatusDisconnected:
		c.Line("System", "Disconnected from WebSocket")
	case live.StatusError, live.StatusFailed:
		c.Line("System", s.String())
	}
}

// frameText shows the response, else the error, else the raw frame.
func frameText(f wire.Frame) string {
	switch v := f.(type) {
	case wire.ResponseFrame:
		if v.Response != "" {
			return v.Response
		}
	case wire.ErrorFrame:
		if v.Error != "" {
			return v.Error
		}
	case wire.UnknownFrame:
		return string(v.Raw)
	}
	raw, err := wire.EncodeFrame(f)
	if err != nil {
		return f.Type()
	}
	return string(raw)
}

// Socket is the part of *live.Manager the console drives.
type Socket interface {
	Start()
	Connected() bool
	Send(prompt string) error
	Disconnect() error
	Shutdown()
}

// HandleWS runs the console. Closing does not reconnect; /connect reopens.
func HandleWS(ctx context.Context, env *Env) error {
	url, err := env.SocketURL()
	if err != nil {
		return err
	}
	console := NewConsole(env.Out)
	mgr := live.NewManager(live.Options{
		URL:             url,
		AlwaysReconnect: false,
		Logger:          env.Logger,
	}, console)
	defer mgr.Shutdown()

	in := NewChatCLI("ws_history")
	defer in.Close()

	fmt.Fprintln(env.Out, TitleStyle.Render("Socket console ")+DimStyle.Render(url))
	fmt.Fprintln(env.Out, DimStyle.Render("/connect  /disconnect  /quit; anything else is sent as a process frame"))
	mgr.Start()
	return RunConsole(ctx, console, mgr, in)
}

// RunConsole is the console loop.
func RunConsole(ctx context.Context, console *Console, sock Socket, in LineReader) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		input, err := in.ReadInput("ws> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		input = strings.TrimSpace(input)
		switch input {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/connect":
			sock.Start()
			continue
		case "/disconnect":
			_ = sock.Disconnect()
			continue
		}

		if !sock.Connected() {
			console.Line("System", "Error: WebSocket not connected. Type /connect first.")
			continue
		}
		console.Line("You", input)
		if err := sock.Send(input); err != nil {
			console.Line("System", "Error: "+err.Error())
		}
	}
}
