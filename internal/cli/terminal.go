// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection for neurogo output.
//
// USABILITY: piped output gets no colors and no prompts; NO_COLOR and
// FORCE_COLOR are honored.

package cli

import (
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY reports whether stdin is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY reports whether stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// DefaultTerminalWidth is used when the width cannot be detected.
const DefaultTerminalWidth = 80

// GetTerminalWidth returns the stdout width, or DefaultTerminalWidth.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	return width
}

// =============================================================================
// COLOR OUTPUT CONTROL
// =============================================================================

var (
	colorsMu      sync.Mutex
	colorsDecided bool
	colorsEnabled bool
)

// ColorsEnabled reports whether styled output should be used.
// See https://no-color.org/ for the NO_COLOR convention.
func ColorsEnabled() bool {
	colorsMu.Lock()
	defer colorsMu.Unlock()
	if !colorsDecided {
		colorsEnabled = detectColors(os.Getenv, IsStdoutTTY())
		colorsDecided = true
	}
	return colorsEnabled
}

// detectColors applies NO_COLOR, then FORCE_COLOR, then TTY detection.
func detectColors(getenv func(string) string, tty bool) bool {
	if getenv("NO_COLOR") != "" {
		return false
	}
	if getenv("FORCE_COLOR") != "" {
		return true
	}
	return tty
}

// ForceColorsEnabled overrides detection. Tests only.
func ForceColorsEnabled(enabled bool) {
	colorsMu.Lock()
	defer colorsMu.Unlock()
	colorsEnabled = enabled
	colorsDecided = true
}

// GetColorProfile returns termenv.Ascii when colors are off, otherwise the
// detected profile of stdout.
func GetColorProfile() termenv.Profile {
	if !ColorsEnabled() {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}
