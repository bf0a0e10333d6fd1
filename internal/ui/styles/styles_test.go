// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/muesli/termenv"
)

func TestToneIndicators(t *testing.T) {
	tests := []struct {
		tone Tone
		want string
	}{
		{ToneGood, "[OK]"},
		{ToneWarn, "[ ]"},
		{ToneBad, "[X]"},
		{ToneNeutral, "[*]"},
	}
	for _, tc := range tests {
		if got := tc.tone.Indicator(); got != tc.want {
			t.Errorf("Tone(%d).Indicator() = %q, want %q", tc.tone, got, tc.want)
		}
		if tc.tone.Color() == nil {
			t.Errorf("Tone(%d).Color() returned nil", tc.tone)
		}
	}
}

func TestRenderStatusPlain(t *testing.T) {
	NewThemeForProfile(termenv.Ascii, true)

	if got := RenderStatus(true, "API Online"); got != "[OK] API Online" {
		t.Errorf("RenderStatus(true) = %q", got)
	}
	if got := RenderStatus(false, "API Offline"); got != "[X] API Offline" {
		t.Errorf("RenderStatus(false) = %q", got)
	}
}

func TestThemeForProfile(t *testing.T) {
	th := NewThemeForProfile(termenv.Ascii, false)
	if th.HasColor() {
		t.Error("Ascii theme should report no color")
	}
	if got := th.Brand.Render("NeuroGO"); got != "NeuroGO" {
		t.Errorf("Ascii Brand.Render = %q, want plain text", got)
	}

	th = NewThemeForProfile(termenv.TrueColor, true)
	if !th.HasColor() || !th.IsDark {
		t.Error("TrueColor dark theme flags not set")
	}
	NewThemeForProfile(termenv.Ascii, true)
}
