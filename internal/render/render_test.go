// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"
	"testing"

	"github.com/jeranaias/neurogo-tui/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want model.Kind
	}{
		{"plain sentence", "Hello there, how are you?", model.KindPlain},
		{"brace", "use {x}", model.KindBlock},
		{"go source", "package main", model.KindBlock},
		{"url", "see https://example.com", model.KindBlock},
		{"sql lower case", "select 1", model.KindBlock},
		{"http verb", "send a POST", model.KindBlock},
		{"fence", "```\nx\n```", model.KindBlock},
		{"shebang", "#!/bin/sh", model.KindBlock},
		{"short multi-line", "one\ntwo", model.KindPlain},
		{"long multi-line", strings.Repeat("a", 60) + "\n" + strings.Repeat("b", 60), model.KindBlock},
		{"long single line", strings.Repeat("a", 200), model.KindPlain},
		{"exactly threshold", strings.Repeat("a", 50) + "\n" + strings.Repeat("b", 49), model.KindPlain},
		// 71 runes but 102 UTF-16 units.
		{"emoji count twice", strings.Repeat("📋", 31) + "\n" + strings.Repeat("b", 39), model.KindBlock},
		{"emoji at threshold", strings.Repeat("📋", 30) + "\n" + strings.Repeat("b", 39), model.KindPlain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.in); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestUTF16Len(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"é", 1},
		{"🎯", 2},
		{"a🎯b", 4},
		{"\xff", 1},
	}
	for _, tt := range tests {
		if got := utf16Len(tt.in); got != tt.want {
			t.Errorf("utf16Len(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestClassified(t *testing.T) {
	m := Classified(model.NewAssistantMessage("func main() {}"))
	if m.Kind != model.KindBlock {
		t.Errorf("Classified() Kind = %v, want %v", m.Kind, model.KindBlock)
	}
}

func TestRendererPlainNoColor(t *testing.T) {
	r := New(40, false)
	out := r.Message(Classified(model.NewUserMessage("hello world")))

	for _, want := range []string{"You", "hello world"} {
		if !strings.Contains(out, want) {
			t.Errorf("Message() = %q, missing %q", out, want)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("Message() = %q, want no escape codes", out)
	}
}

func TestRendererBlockKeepsLines(t *testing.T) {
	r := New(60, false)
	m := Classified(model.NewAssistantMessage("func main() {\n\tprintln(1)\n}"))
	out := r.Body(m)

	for _, want := range []string{"func main() {", "println(1)"} {
		if !strings.Contains(out, want) {
			t.Errorf("Body() = %q, missing %q", out, want)
		}
	}
	if lines := strings.Count(out, "\n") + 1; lines != 3 {
		t.Errorf("Body() has %d lines, want 3:\n%s", lines, out)
	}
}

func TestRendererMinimumWidth(t *testing.T) {
	r := New(3, false)
	if r.Width() != minWidth {
		t.Errorf("Width() = %d, want %d", r.Width(), minWidth)
	}
}

func TestRendererMessages(t *testing.T) {
	r := New(40, false)
	out := r.Messages([]model.Message{
		model.NewUserMessage("a"),
		model.NewErrorMessage("b"),
	})
	if !strings.Contains(out, "Error: b") {
		t.Errorf("Messages() = %q, missing error entry", out)
	}
	if !strings.Contains(out, "\n\n") {
		t.Errorf("Messages() = %q, want a blank line between entries", out)
	}
}

func TestHighlightReturnsContent(t *testing.T) {
	if out := Highlight("package main\n\nfunc main() {}\n"); !strings.Contains(out, "main") {
		t.Errorf("Highlight() = %q, lost the content", out)
	}
}

func TestMarkdownFallsBackToText(t *testing.T) {
	out := Markdown("# Title\n\nbody")
	for _, want := range []string{"Title", "body"} {
		if !strings.Contains(out, want) {
			t.Errorf("Markdown() = %q, missing %q", out, want)
		}
	}
}
