// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the NeuroGO TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Purple - Primary accent, assistant messages, selections
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// Cyan - Brand color, user messages, commands
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Emerald - Connected, available providers
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors, failed connections, unavailable providers
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Connecting, pending health check
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// SurfaceDim - Header and footer backgrounds
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}

// Overlay - Borders, separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextSecondary - Labels
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}

// TextMuted - Hints, timestamps, system lines
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// =============================================================================
// ACCESSIBILITY: Shapes alongside colors
// =============================================================================

// StatusIndicatorSet contains text indicators for status states.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Pending string
	Active  string
}

// StatusIndicators are ASCII-only so they survive any terminal font.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Pending: "[ ]",
	Active:  "[*]",
}

// Tone selects the color and indicator of a status string.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneGood
	ToneWarn
	ToneBad
)

// Color returns the foreground color for the tone.
func (t Tone) Color() lipgloss.TerminalColor {
	switch t {
	case ToneGood:
		return Emerald
	case ToneWarn:
		return Amber
	case ToneBad:
		return Rose
	default:
		return TextSecondary
	}
}

// Indicator returns the ASCII shape for the tone.
func (t Tone) Indicator() string {
	switch t {
	case ToneGood:
		return StatusIndicators.Success
	case ToneWarn:
		return StatusIndicators.Pending
	case ToneBad:
		return StatusIndicators.Error
	default:
		return StatusIndicators.Active
	}
}

// RenderTone renders message with the tone's indicator and color.
// ACCESSIBILITY: the indicator carries the state when color is off.
func RenderTone(t Tone, message string) string {
	return lipgloss.NewStyle().Foreground(t.Color()).Bold(true).
		Render(t.Indicator() + " " + message)
}

// RenderStatus renders a success or failure line.
func RenderStatus(success bool, message string) string {
	if success {
		return RenderTone(ToneGood, message)
	}
	return RenderTone(ToneBad, message)
}
