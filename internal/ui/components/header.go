// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the NeuroGO TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/neurogo-tui/internal/providers"
	"github.com/jeranaias/neurogo-tui/internal/ui/styles"
	"github.com/jeranaias/neurogo-tui/internal/util"
)

// =============================================================================
// HEADER COMPONENT - Connection, health, provider and badges
// =============================================================================

// Header is the two-line title bar. Active is the current provider token;
// its badge is highlighted.
type Header struct {
	Title      string
	Status     string
	StatusTone styles.Tone
	Health     string
	HealthTone styles.Tone
	Current    string
	Summary    string
	Badges     []providers.Badge
	Active     string
	Width      int
	theme      *styles.Theme
}

// NewHeader creates a Header with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "NeuroGO",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the header. Segments that do not fit are dropped from the
// right; the provider label is truncated first.
func (h *Header) View() string {
	width := h.Width
	if width < 20 {
		width = 20
	}
	inner := width - 2

	sep := h.theme.Separator.Render(" | ")
	parts := []string{
		h.theme.Brand.Render(h.Title),
		styles.RenderTone(h.StatusTone, h.Status),
		styles.RenderTone(h.HealthTone, h.Health),
	}
	top := strings.Join(parts, sep)
	if room := inner - lipgloss.Width(top) - lipgloss.Width(sep); room > 4 && h.Current != "" {
		top += sep + util.TruncateWidth(h.Current, room)
	}
	top = fit(top, parts, sep, inner)

	bottom := h.badgeLine(inner)
	return h.theme.Header.Width(width).Render(top + "\n" + bottom)
}

// badgeLine renders known providers followed by the summary when it fits.
// The current provider is bracketed so it stays visible without color.
func (h *Header) badgeLine(inner int) string {
	badges := make([]string, 0, len(h.Badges))
	for _, b := range h.Badges {
		switch {
		case b.Available && h.Active != "" && strings.EqualFold(b.ID, h.Active):
			badges = append(badges, h.theme.BadgeActive.Render("["+b.ID+"]"))
		case b.Available:
			badges = append(badges, h.theme.BadgeOn.Render(b.ID))
		default:
			badges = append(badges, h.theme.BadgeOff.Render(b.ID))
		}
	}
	line := strings.Join(badges, " ")
	if h.Summary != "" {
		room := inner - lipgloss.Width(line)
		if line != "" {
			room -= 3
		}
		if room > 4 {
			summary := h.theme.Hint.Render(util.TruncateWidth(h.Summary, room))
			if line == "" {
				line = summary
			} else {
				line += h.theme.Separator.Render(" | ") + summary
			}
		}
	}
	return line
}

// fit drops trailing segments until the line fits.
func fit(line string, parts []string, sep string, width int) string {
	for lipgloss.Width(line) > width && len(parts) > 1 {
		parts = parts[:len(parts)-1]
		line = strings.Join(parts, sep)
	}
	return line
}
