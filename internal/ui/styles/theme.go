// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components for the chat screen.
type Theme struct {
	ColorProfile termenv.Profile
	IsDark       bool

	Header      lipgloss.Style
	Brand       lipgloss.Style
	Separator   lipgloss.Style
	BadgeOn     lipgloss.Style
	BadgeOff    lipgloss.Style
	BadgeActive lipgloss.Style
	InputPrompt lipgloss.Style
	StatusBar   lipgloss.Style
	ShortcutKey lipgloss.Style
	ShortcutDsc lipgloss.Style
	Hint        lipgloss.Style
}

// NewTheme detects the terminal's capabilities and builds the styles.
func NewTheme() *Theme {
	return NewThemeForProfile(termenv.EnvColorProfile(), lipgloss.HasDarkBackground())
}

// NewThemeForProfile builds the styles for a known profile. termenv.Ascii
// yields styles that emit no escape codes.
func NewThemeForProfile(profile termenv.Profile, dark bool) *Theme {
	lipgloss.SetColorProfile(profile)
	lipgloss.SetHasDarkBackground(dark)

	t := &Theme{ColorProfile: profile, IsDark: dark}
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextPrimary).
		Padding(0, 1)
	t.Brand = lipgloss.NewStyle().Bold(true).Foreground(Cyan)
	t.Separator = lipgloss.NewStyle().Foreground(Overlay)
	t.BadgeOn = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	t.BadgeOff = lipgloss.NewStyle().Foreground(TextMuted).Strikethrough(true)
	t.BadgeActive = lipgloss.NewStyle().Foreground(Emerald).Bold(true).Underline(true)
	t.InputPrompt = lipgloss.NewStyle().Foreground(Purple).Bold(true)
	t.StatusBar = lipgloss.NewStyle().Foreground(TextSecondary).Padding(0, 1)
	t.ShortcutKey = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.ShortcutDsc = lipgloss.NewStyle().Foreground(TextMuted)
	t.Hint = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)
	return t
}

// HasColor reports whether the profile renders any color.
func (t *Theme) HasColor() bool {
	return t.ColorProfile != termenv.Ascii
}
