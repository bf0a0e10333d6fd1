// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

var (
	mdOnce     sync.Once
	mdMu       sync.Mutex
	mdRenderer *glamour.TermRenderer
)

// Markdown renders markdown for the terminal at 80 columns. The input is
// returned as-is when the renderer cannot be built or fails.
func Markdown(text string) string {
	mdOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err == nil {
			mdRenderer = r
		}
	})
	if mdRenderer == nil {
		return text
	}
	mdMu.Lock()
	out, err := mdRenderer.Render(text)
	mdMu.Unlock()
	if err != nil {
		return text
	}
	return out
}
