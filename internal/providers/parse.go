// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package providers

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// Sentinel prompts sent to elicit provider information.
const (
	ListPrompt    = "list providers"
	CurrentPrompt = "current provider"
)

// Auto is the current-provider token meaning no provider is pinned.
const Auto = "auto"

const (
	markerGlyph      = "🎯"
	indentPrefix     = "   "
	commandsHeading  = "Commands:"
	selectedSuffix   = "(currently selected)"
	autoModeFragment = "auto mode"
)

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	currentPattern = regexp.MustCompile(`Currently using: (\w+)`)
)

// fold case-folds s. A Caser carries state, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// =============================================================================
// PROVIDER LIST
// =============================================================================

// ParseList extracts provider names from a "list providers" reply, in order
// of appearance and without de-duplication.
//
// A line is a candidate when it carries the marker glyph or starts with three
// spaces. The glyph is removed, whitespace runs collapse to one space, and
// headings containing "Commands:" are skipped. A "(currently selected)"
// annotation is dropped.
func ParseList(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if !strings.Contains(line, markerGlyph) && !strings.HasPrefix(line, indentPrefix) {
			continue
		}

		name := strings.Replace(line, markerGlyph, "", 1)
		name = strings.TrimSpace(whitespaceRun.ReplaceAllString(name, " "))
		if name == "" || strings.Contains(name, commandsHeading) {
			continue
		}

		name = strings.TrimSpace(strings.Replace(name, selectedSuffix, "", 1))
		if name == "" {
			continue
		}
		out = append(out, name)
	}
	return out
}

// =============================================================================
// AVAILABILITY
// =============================================================================

// Badge is the availability of one known provider id.
type Badge struct {
	ID        string
	Available bool
}

// Availability reports, for each known id, whether any parsed name contains
// it case-insensitively.
func Availability(known, parsed []string) []Badge {
	folded := make([]string, len(parsed))
	for i, p := range parsed {
		folded[i] = fold(p)
	}

	badges := make([]Badge, 0, len(known))
	for _, id := range known {
		needle := fold(id)
		b := Badge{ID: id}
		for _, p := range folded {
			if strings.Contains(p, needle) {
				b.Available = true
				break
			}
		}
		badges = append(badges, b)
	}
	return badges
}

// IsAvailable looks up id in badges.
func IsAvailable(badges []Badge, id string) bool {
	needle := fold(id)
	for _, b := range badges {
		if fold(b.ID) == needle {
			return b.Available
		}
	}
	return false
}

// Summary renders the headline and detail lines for a provider list.
func Summary(list []string) (headline, detail string) {
	if len(list) == 0 {
		return "⚠️ No providers configured", "Install Ollama or add API keys to get started"
	}
	return fmt.Sprintf("✅ %d provider(s) available", len(list)), strings.Join(list, ", ")
}

// =============================================================================
// CURRENT PROVIDER
// =============================================================================

// Current is the active provider.
type Current struct {
	// Token is the case-folded provider id, or Auto.
	Token string
	// Display is the captured text as the backend wrote it.
	Display string
}

// IsAuto reports whether no provider is pinned.
func (c Current) IsAuto() bool {
	return c.Token == Auto
}

// IsZero reports whether nothing is known yet.
func (c Current) IsZero() bool {
	return c.Token == ""
}

// Label renders the current provider for a status line.
func (c Current) Label() string {
	switch {
	case c.IsZero():
		return "unknown"
	case c.IsAuto():
		return "Auto Mode"
	default:
		return c.Display
	}
}

// ParseCurrent extracts the current provider from a "current provider" reply.
// Any mention of "auto mode" wins. ok is false when nothing matched, in which
// case callers keep their previous value.
func ParseCurrent(text string) (cur Current, ok bool) {
	if strings.Contains(text, autoModeFragment) {
		return Current{Token: Auto, Display: "Auto Mode"}, true
	}
	m := currentPattern.FindStringSubmatch(text)
	if m == nil {
		return Current{}, false
	}
	return Current{Token: strings.ToLower(m[1]), Display: m[1]}, true
}

// SwitchCommand returns the command that pins provider, or returns to auto
// mode for "auto".
func SwitchCommand(provider string) string {
	p := strings.TrimSpace(provider)
	if strings.EqualFold(p, Auto) {
		return "use auto"
	}
	return "use " + p
}
