// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the NeuroGO TUI.

# Color System (colors.go)

All colors are Lip Gloss AdaptiveColor values:

  - Cyan - Brand, user messages
  - Purple - Assistant messages, input prompt
  - Emerald - Connected, available providers
  - Amber - Connecting, checking
  - Rose - Errors, unavailable

Status lines pair every color with an ASCII StatusIndicators shape so state
stays readable with NO_COLOR.

# Theme (theme.go)

Theme bundles the lipgloss styles the chat screen draws with. NewTheme
detects the terminal color profile via termenv; NewThemeForProfile pins one,
which tests use with termenv.Ascii.
*/
package styles
