// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrNoRoute is returned for a prompt no command pattern matches.
var ErrNoRoute = errors.New("no matching route found for prompt")

// DefaultProviders are the providers a demo backend reports.
var DefaultProviders = []string{"DeepSeek", "Ollama"}

// =============================================================================
// COMMAND ROUTER
// =============================================================================

type routeFunc func(captures []string) (string, error)

type route struct {
	pattern string
	re      *regexp.Regexp
	fn      routeFunc
}

// patternRegexp turns "use *" into ^use (.*?)$. Literal text is quoted.
func patternRegexp(pattern string) *regexp.Regexp {
	parts := strings.Split(pattern, "*")
	var b strings.Builder
	b.WriteString("^")
	for i, part := range parts {
		b.WriteString(regexp.QuoteMeta(part))
		if i < len(parts)-1 {
			b.WriteString("(.*?)")
		}
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String())
}

// =============================================================================
// BACKEND
// =============================================================================

// Backend holds provider state and answers commands. It is safe for
// concurrent use.
type Backend struct {
	mu        sync.Mutex
	providers []string
	current   string // empty means auto mode
	routes    []route
}

// NewBackend creates a backend reporting the given providers in order.
func NewBackend(providers ...string) *Backend {
	b := &Backend{providers: append([]string(nil), providers...)}

	// Order matters: the first matching pattern wins.
	b.handle("use auto", b.useAuto)
	b.handle("use *", b.use)
	b.handle("current provider", b.currentProvider)
	b.handle("list providers", b.listProviders)
	b.handle("with * *", b.with)
	b.handle("chat *", b.chat)
	b.handle("echo *", func(c []string) (string, error) { return c[0], nil })
	return b
}

func (b *Backend) handle(pattern string, fn routeFunc) {
	b.routes = append(b.routes, route{pattern: pattern, re: patternRegexp(pattern), fn: fn})
}

// Routes returns the registered command patterns.
func (b *Backend) Routes() []string {
	out := make([]string, len(b.routes))
	for i, r := range b.routes {
		out[i] = r.pattern
	}
	return out
}

// Process answers one command.
func (b *Backend) Process(prompt string) (string, error) {
	for _, r := range b.routes {
		if m := r.re.FindStringSubmatch(prompt); m != nil {
			return r.fn(m[1:])
		}
	}
	return "", ErrNoRoute
}

// Current returns the pinned provider, or "" in auto mode.
func (b *Backend) Current() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// SetProviders replaces the configured providers. A pinned provider that is
// no longer configured falls back to auto mode.
func (b *Backend) SetProviders(providers ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.providers = append([]string(nil), providers...)
	if b.lookup(b.current) == "" {
		b.current = ""
	}
}

// lookup finds a configured provider by case-insensitive name. Callers hold mu.
func (b *Backend) lookup(name string) string {
	for _, p := range b.providers {
		if strings.EqualFold(p, name) {
			return p
		}
	}
	return ""
}

// normalizeProviderName maps a typed name onto its canonical spelling.
func normalizeProviderName(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "openai":
		return "OpenAI"
	case "deepseek":
		return "DeepSeek"
	case "gemini":
		return "Gemini"
	case "ollama":
		return "Ollama"
	case "huggingface":
		return "HuggingFace"
	default:
		return cases.Title(language.Und).String(strings.ToLower(strings.TrimSpace(name)))
	}
}

// =============================================================================
// COMMANDS
// =============================================================================

func (b *Backend) useAuto([]string) (string, error) {
	b.mu.Lock()
	b.current = ""
	b.mu.Unlock()
	return "✅ Switched to auto mode. The system will automatically choose the best provider for each task.", nil
}

func (b *Backend) use(c []string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	name := b.lookup(normalizeProviderName(c[0]))
	if name == "" {
		return fmt.Sprintf("❌ Provider '%s' not available. Available providers: %s",
			c[0], strings.Join(b.providers, ", ")), nil
	}
	b.current = name
	return fmt.Sprintf("✅ Switched to %s provider. All subsequent commands will use %s.", name, name), nil
}

func (b *Backend) currentProvider([]string) (string, error) {
	if cur := b.Current(); cur != "" {
		return fmt.Sprintf("🎯 Currently using: %s", cur), nil
	}
	return "🤖 Currently in auto mode - the system chooses the best provider for each task.", nil
}

func (b *Backend) listProviders([]string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.providers) == 0 {
		return "❌ No providers configured.", nil
	}

	var sb strings.Builder
	sb.WriteString("📋 Available providers:\n\n")
	for _, name := range b.providers {
		if name == b.current {
			fmt.Fprintf(&sb, "🎯 %s (currently selected)\n", name)
		} else {
			fmt.Fprintf(&sb, "   %s\n", name)
		}
	}
	sb.WriteString("\n💡 Commands:\n")
	sb.WriteString("• 'use [provider]' - Switch to specific provider\n")
	sb.WriteString("• 'use auto' - Auto-select best provider for each task\n")
	sb.WriteString("• 'current provider' - Show current provider\n")
	sb.WriteString("• 'list providers' - Show this list\n")
	return sb.String(), nil
}

func (b *Backend) with(c []string) (string, error) {
	b.mu.Lock()
	name := b.lookup(normalizeProviderName(c[0]))
	available := strings.Join(b.providers, ", ")
	b.mu.Unlock()
	if name == "" {
		return fmt.Sprintf("❌ Provider '%s' not available. Available providers: %s", c[0], available), nil
	}
	return fmt.Sprintf("[Using %s]\n\n%s", name, reply(c[1])), nil
}

func (b *Backend) chat(c []string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case b.current != "":
		return fmt.Sprintf("[Using: %s]\n\n%s", b.current, reply(c[0])), nil
	case len(b.providers) > 0:
		return fmt.Sprintf("[Auto-selected: %s]\n\n%s", b.providers[0], reply(c[0])), nil
	default:
		return "", errors.New("no providers available")
	}
}

func reply(text string) string {
	return "You said: " + text
}
