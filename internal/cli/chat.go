// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-based interactive chat.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/peterh/liner"

	"github.com/jeranaias/neurogo-tui/internal/config"
	"github.com/jeranaias/neurogo-tui/internal/model"
	"github.com/jeranaias/neurogo-tui/internal/providers"
	"github.com/jeranaias/neurogo-tui/internal/render"
	"github.com/jeranaias/neurogo-tui/internal/session"
)

// replyTimeout bounds the wait for one reply when no request timeout is
// configured.
const replyTimeout = 2 * time.Minute

// =============================================================================
// INPUT HISTORY
// =============================================================================

// LineReader reads one line of input. *ChatCLI implements it; tests use a
// scripted reader.
type LineReader interface {
	ReadInput(prompt string) (string, error)
	Close()
}

// ChatCLI provides input history and line editing.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a line editor whose history lives in the config dir
// under name.
func NewChatCLI(name string) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	c := &ChatCLI{line: line, historyFile: filepath.Join(dir, name)}
	if f, err := os.Open(c.historyFile); err == nil {
		_, _ = c.line.ReadHistory(f)
		f.Close()
	}
	return c
}

// ReadInput reads a line with history navigation.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history with owner-only permissions and restores the terminal.
func (c *ChatCLI) Close() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0700); err == nil {
		if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			_, _ = c.line.WriteHistory(f)
			f.Close()
		}
	}
	c.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// HandleChat runs the line-based chat with a live connection.
func HandleChat(ctx context.Context, env *Env) error {
	sess, err := env.NewSession(true)
	if err != nil {
		return err
	}
	defer sess.Close()

	in := NewChatCLI("chat_history")
	defer in.Close()

	sess.Start()
	return RunChat(ctx, env, sess, in)
}

// RunChat is the REPL loop. It returns when input ends or /quit is entered.
func RunChat(ctx context.Context, env *Env, sess *session.Session, in LineReader) error {
	r := render.New(GetTerminalWidth(), ColorsEnabled())
	idle := make(chan struct{}, 1)
	sess.OnChange(func(ev session.Event) {
		if ev.Kind == session.EventLoading && !sess.Snapshot().Loading {
			select {
			case idle <- struct{}{}:
			default:
			}
		}
	})

	fmt.Fprintln(env.Out, TitleStyle.Render("NeuroGO chat")+DimStyle.Render("  /help for commands, Ctrl+D to exit"))
	for {
		input, err := in.ReadInput("neurogo> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(env.Out)
				return nil
			}
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		prompt := input
		if strings.HasPrefix(input, "/") {
			var quit bool
			prompt, quit = chatSlash(env, sess, input)
			if quit {
				return nil
			}
			if prompt == "" {
				continue
			}
		}

		select {
		case <-idle:
		default:
		}
		mark := sess.Log().Len()
		if !sess.Submit(prompt) {
			continue
		}
		if err := waitIdle(ctx, idle, env.Config.Server.RequestTimeout.Duration); err != nil {
			fmt.Fprintln(env.Err, WarningStyle.Render("[no reply yet]"))
		}
		for _, m := range sess.Log().Since(mark) {
			if m.Role != model.RoleUser {
				fmt.Fprintln(env.Out, r.Message(m))
			}
		}
	}
}

func waitIdle(ctx context.Context, idle <-chan struct{}, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = replyTimeout
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return context.DeadlineExceeded
	}
}

// chatSlash handles a slash command. It returns a prompt to submit, if any.
func chatSlash(env *Env, sess *session.Session, input string) (prompt string, quit bool) {
	fields := strings.Fields(input)
	switch strings.ToLower(fields[0]) {
	case "/quit", "/exit", "/q":
		return "", true
	case "/providers", "/list":
		return providers.ListPrompt, false
	case "/current":
		return providers.CurrentPrompt, false
	case "/use":
		if len(fields) < 2 {
			fmt.Fprintln(env.Err, "Usage: /use <provider|auto>")
			return "", false
		}
		return providers.SwitchCommand(fields[1]), false
	case "/status":
		st := sess.Snapshot()
		headline, _ := st.ProviderSummary()
		fmt.Fprintf(env.Out, "%s | %s | %s | %s\n", st.Status, st.HealthLabel(), headline, st.CurrentLabel())
	case "/history":
		printHistory(env.Out, sess.Messages())
	case "/help":
		fmt.Fprintln(env.Out, "/providers  /current  /use <p|auto>  /status  /history  /quit")
	default:
		fmt.Fprintf(env.Err, "Unknown command %s (try /help)\n", fields[0])
	}
	return "", false
}

func printHistory(w io.Writer, msgs []model.Message) {
	if len(msgs) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No messages yet."))
		return
	}
	for _, m := range msgs {
		first, _, _ := strings.Cut(m.Content, "\n")
		fmt.Fprintf(w, "%s %s: %s\n", DimStyle.Render("["+humanize.Time(m.Timestamp)+"]"), m.Role.DisplayName(), first)
	}
}
