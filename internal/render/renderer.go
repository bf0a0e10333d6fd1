// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/neurogo-tui/internal/model"
	"github.com/jeranaias/neurogo-tui/internal/ui/styles"
)

const minWidth = 20

// =============================================================================
// RENDERER
// =============================================================================

// Renderer draws log entries at a fixed width.
type Renderer struct {
	width int
	color bool

	labelUser      lipgloss.Style
	labelAssistant lipgloss.Style
	labelSystem    lipgloss.Style
	labelError     lipgloss.Style
	body           lipgloss.Style
	errorBody      lipgloss.Style
	systemBody     lipgloss.Style
	block          lipgloss.Style
}

// New creates a renderer. With color off the output carries no escape codes,
// which is what piped output needs.
func New(width int, color bool) *Renderer {
	r := &Renderer{color: color}
	r.SetWidth(width)
	return r
}

// SetWidth changes the wrap width.
func (r *Renderer) SetWidth(width int) {
	if width < minWidth {
		width = minWidth
	}
	r.width = width

	base := lipgloss.NewStyle()
	r.labelUser = base
	r.labelAssistant = base
	r.labelSystem = base
	r.labelError = base
	r.body = base.Width(width - 2).PaddingLeft(2)
	r.errorBody = r.body
	r.systemBody = r.body
	r.block = base.PaddingLeft(2)

	if !r.color {
		return
	}
	r.labelUser = base.Bold(true).Foreground(styles.Cyan)
	r.labelAssistant = base.Bold(true).Foreground(styles.Purple)
	r.labelSystem = base.Italic(true).Foreground(styles.TextMuted)
	r.labelError = base.Bold(true).Foreground(styles.Rose)
	r.body = r.body.Foreground(styles.TextPrimary)
	r.errorBody = r.errorBody.Foreground(styles.Rose)
	r.systemBody = r.systemBody.Foreground(styles.TextMuted)
	r.block = lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Overlay).
		Padding(0, 1).
		MarginLeft(2).
		MaxWidth(width)
}

// Width returns the current wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Label renders the sender label of m.
func (r *Renderer) Label(m model.Message) string {
	name := m.Role.DisplayName()
	switch {
	case m.IsError():
		return r.labelError.Render(name)
	case m.Role == model.RoleUser:
		return r.labelUser.Render(name)
	case m.Role == model.RoleSystem:
		return r.labelSystem.Render(name)
	default:
		return r.labelAssistant.Render(name)
	}
}

// Body renders the content of m according to its Kind.
func (r *Renderer) Body(m model.Message) string {
	if m.Kind == model.KindBlock {
		code := strings.TrimRight(m.Content, "\n")
		if r.color {
			code = Highlight(code)
		}
		return r.block.Render(code)
	}

	switch {
	case m.IsError():
		return r.errorBody.Render(m.Content)
	case m.Role == model.RoleSystem:
		return r.systemBody.Render(m.Content)
	default:
		return r.body.Render(m.Content)
	}
}

// Message renders label and body of m.
func (r *Renderer) Message(m model.Message) string {
	return r.Label(m) + "\n" + r.Body(m)
}

// Messages renders a log, one blank line between entries.
func (r *Renderer) Messages(msgs []model.Message) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, r.Message(m))
	}
	return strings.Join(parts, "\n\n")
}

// =============================================================================
// SYNTAX HIGHLIGHTING
// =============================================================================

// Highlight applies terminal syntax highlighting to code. The language is
// guessed from the content; unknown content passes through the fallback
// lexer. On any failure the input is returned unchanged.
func Highlight(code string) string {
	lexer := lexers.Analyse(code)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}

// Language names the lexer chroma would pick for code, or "" when unsure.
func Language(code string) string {
	if lexer := lexers.Analyse(code); lexer != nil {
		return lexer.Config().Name
	}
	return ""
}
