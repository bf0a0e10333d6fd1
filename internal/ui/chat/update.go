// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/neurogo-tui/internal/providers"
)

// syncTimeout bounds a manual Ctrl+R refresh.
const syncTimeout = 10 * time.Second

// chrome is the number of rows outside the transcript: two header rows,
// the input and the status bar.
const chrome = 4

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case SessionChangedMsg:
		m.refresh()
		return m, waitForChange(m.changes)

	case ConfigReloadedMsg:
		m.sess.SetKnown(msg.Known)
		return m, nil

	case syncDoneMsg:
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.statusBar.Spinner = m.spinner.View()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// handleKey processes bindings. Unhandled keys go to the text input.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	m.statusBar.Notice = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, true

	case key.Matches(msg, m.keys.Submit):
		if m.sess.Submit(m.input.Value()) {
			m.input.Reset()
		}
		return nil, true

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return nil, true

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return nil, true

	case key.Matches(msg, m.keys.Clear):
		m.clearedAt = len(m.sess.Messages())
		m.refresh()
		return nil, true

	case key.Matches(msg, m.keys.Refresh):
		return m.syncCmd(), true

	case key.Matches(msg, m.keys.Auto):
		m.sess.SwitchProvider(providers.Auto)
		return nil, true

	case key.Matches(msg, m.keys.List):
		m.sess.QuickCommand(providers.ListPrompt)
		return nil, true

	case key.Matches(msg, m.keys.Current):
		m.sess.QuickCommand(providers.CurrentPrompt)
		return nil, true
	}

	if i := m.keys.ProviderIndex(msg.String()); i >= 0 {
		if known := m.sess.Known(); i < len(known) {
			m.switchTo(known[i])
		}
		return nil, true
	}
	return nil, false
}

// switchTo sends "use <id>" unless the provider list has loaded and id is
// not in it. Before the first list arrives every key is live.
func (m *Model) switchTo(id string) {
	st := m.sess.Snapshot()
	if st.ProvidersLoaded && !providers.IsAvailable(st.Badges, id) {
		m.statusBar.Notice = id + " is not available"
		return
	}
	m.sess.SwitchProvider(id)
}

func (m *Model) syncCmd() tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()
		return syncDoneMsg{err: sess.Sync(ctx)}
	}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.ready = true

	m.header.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.renderer.SetWidth(width)
	m.input.Width = width - 4

	vh := height - chrome
	if vh < 3 {
		vh = 3
	}
	m.viewport.Width = width
	m.viewport.Height = vh
	m.refresh()
}
