// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/neurogo-tui/internal/live"
	"github.com/jeranaias/neurogo-tui/internal/render"
	"github.com/jeranaias/neurogo-tui/internal/session"
	"github.com/jeranaias/neurogo-tui/internal/ui/components"
	"github.com/jeranaias/neurogo-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// SessionChangedMsg is delivered after the session reports one or more
// changes.
type SessionChangedMsg struct{}

// ConfigReloadedMsg carries a new known-provider list from a config reload.
type ConfigReloadedMsg struct {
	Known []string
}

type syncDoneMsg struct{ err error }

// =============================================================================
// MODEL
// =============================================================================

// Model is the chat screen.
type Model struct {
	sess     *session.Session
	theme    *styles.Theme
	keys     KeyMap
	renderer *render.Renderer

	header    *components.Header
	statusBar *components.StatusBar
	viewport  viewport.Model
	input     textinput.Model
	spinner   spinner.Model

	changes chan struct{}

	width, height int
	ready         bool
	// hidden messages precede this log index after Ctrl+K.
	clearedAt int
	shown     int
}

// New creates the chat screen for sess. The session should be started by
// the caller; changes reported before the program runs are not lost.
func New(sess *session.Session, theme *styles.Theme) *Model {
	ti := textinput.New()
	ti.Placeholder = "Type a command, e.g. chat hello"
	ti.Prompt = theme.InputPrompt.Render("> ")
	ti.CharLimit = 4096
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		sess:      sess,
		theme:     theme,
		keys:      DefaultKeyMap(),
		renderer:  render.New(80, theme.HasColor()),
		header:    components.NewHeader(theme),
		statusBar: components.NewStatusBar(theme),
		viewport:  viewport.New(80, 20),
		input:     ti,
		spinner:   sp,
		changes:   make(chan struct{}, 1),
	}
	m.statusBar.Shortcuts = []components.Shortcut{
		{Key: "Enter", Desc: "send"},
		{Key: "F1-F5", Desc: "provider"},
		{Key: "F6", Desc: "auto"},
		{Key: "C-l", Desc: "list"},
		{Key: "C-r", Desc: "refresh"},
		{Key: "C-k", Desc: "clear"},
		{Key: "C-c", Desc: "quit"},
	}
	sess.OnChange(func(session.Event) { m.signal() })
	m.refresh()
	return m
}

// signal records a pending change without blocking.
func (m *Model) signal() {
	select {
	case m.changes <- struct{}{}:
	default:
	}
}

// waitForChange blocks until the session reports a change.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return SessionChangedMsg{}
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		waitForChange(m.changes),
	)
}

// refresh copies session state into the components.
func (m *Model) refresh() {
	st := m.sess.Snapshot()

	m.header.Status = st.Status.String()
	m.header.StatusTone = statusTone(st.Status)
	m.header.Health = st.HealthLabel()
	m.header.HealthTone = healthTone(st)
	m.header.Current = st.CurrentLabel()
	headline, detail := st.ProviderSummary()
	m.header.Summary = headline
	if detail != "" {
		m.header.Summary += ": " + detail
	}
	m.header.Badges = st.Badges
	m.header.Active = st.Current.Token

	m.statusBar.Loading = st.Loading
	m.statusBar.Spinner = m.spinner.View()

	msgs := m.sess.Messages()
	if m.clearedAt > len(msgs) {
		m.clearedAt = len(msgs)
	}
	visible := msgs[m.clearedAt:]
	if len(visible) == 0 {
		m.viewport.SetContent(m.theme.Hint.Render("No messages yet. Try 'list providers' or 'chat hello'."))
	} else {
		m.viewport.SetContent(m.renderer.Messages(visible))
	}
	if len(msgs) != m.shown {
		m.viewport.GotoBottom()
		m.shown = len(msgs)
	}
}

func statusTone(s live.Status) styles.Tone {
	switch s {
	case live.StatusConnected:
		return styles.ToneGood
	case live.StatusConnecting:
		return styles.ToneWarn
	case live.StatusError, live.StatusFailed:
		return styles.ToneBad
	default:
		return styles.ToneNeutral
	}
}

func healthTone(st session.State) styles.Tone {
	switch {
	case !st.HealthChecked:
		return styles.ToneWarn
	case st.Online():
		return styles.ToneGood
	default:
		return styles.ToneBad
	}
}
