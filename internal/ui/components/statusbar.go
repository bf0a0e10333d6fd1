// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/neurogo-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT - Loading indicator and shortcuts
// =============================================================================

// Shortcut is one key hint.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the bottom line of the chat screen. Notice is a one-line hint
// shown while no request is pending.
type StatusBar struct {
	Loading   bool
	Spinner   string
	Notice    string
	Shortcuts []Shortcut
	Width     int
	theme     *styles.Theme
}

// NewStatusBar creates a StatusBar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// SetWidth updates the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// View renders the bar. Shortcuts are dropped from the right until it fits.
func (s *StatusBar) View() string {
	left := ""
	switch {
	case s.Loading:
		left = s.Spinner + " Waiting for response..."
	case s.Notice != "":
		left = s.theme.Hint.Render(s.Notice)
	}

	hints := make([]string, 0, len(s.Shortcuts))
	for _, sc := range s.Shortcuts {
		hints = append(hints, s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDsc.Render(sc.Desc))
	}

	inner := s.Width - 2
	for len(hints) > 0 {
		line := joinBar(left, strings.Join(hints, "  "))
		if lipgloss.Width(line) <= inner {
			return s.theme.StatusBar.Render(line)
		}
		hints = hints[:len(hints)-1]
	}
	return s.theme.StatusBar.Render(left)
}

func joinBar(left, right string) string {
	if left == "" {
		return right
	}
	if right == "" {
		return left
	}
	return left + "   " + right
}
