// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package wire

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestProcessFrame_LiteralShape(t *testing.T) {
	data, err := json.Marshal(ProcessFrame{Prompt: "list providers"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if want := `{"type":"process","prompt":"list providers"}`; string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}

func TestProcessRequest_LiteralShape(t *testing.T) {
	data, err := json.Marshal(ProcessRequest{Prompt: "list providers"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if want := `{"prompt":"list providers"}`; string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
	if strings.Contains(string(data), "type") {
		t.Errorf("Marshal() = %s, one-shot body must not carry a type tag", data)
	}
}

func TestDecodeFrame(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Frame
	}{
		{"response", `{"type":"response","response":"hi"}`, ResponseFrame{Response: "hi"}},
		{"error", `{"type":"error","error":"boom"}`, ErrorFrame{Error: "boom"}},
		{"empty response", `{"type":"response"}`, ResponseFrame{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeFrame([]byte(tt.in))
			if err != nil {
				t.Fatalf("DecodeFrame(%s) error = %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeFrame(%s) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeFrame_UnknownTagKeepsRaw(t *testing.T) {
	in := `{"type":"progress","pct":40}`
	got, err := DecodeFrame([]byte(in))
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}

	unknown, ok := got.(UnknownFrame)
	if !ok {
		t.Fatalf("DecodeFrame() = %T, want UnknownFrame", got)
	}
	if unknown.Type() != "progress" {
		t.Errorf("Type() = %q, want %q", unknown.Type(), "progress")
	}
	if string(unknown.Raw) != in {
		t.Errorf("Raw = %s, want %s", unknown.Raw, in)
	}
}

func TestDecodeFrame_Malformed(t *testing.T) {
	_, err := DecodeFrame([]byte(`not json`))
	if !errors.Is(err, ErrMalformedFrame) {
		t.Errorf("DecodeFrame() error = %v, want ErrMalformedFrame", err)
	}
}

func TestEncodeFrame(t *testing.T) {
	tests := []struct {
		name string
		in   Frame
		want string
	}{
		{"error", ErrorFrame{Error: "Unknown message type"}, `{"type":"error","error":"Unknown message type"}`},
		{"response omits error", ResponseFrame{Response: "hi"}, `{"type":"response","response":"hi"}`},
		{"unknown without raw", UnknownFrame{Tag: "ping"}, `{"type":"ping"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeFrame(tt.in)
			if err != nil {
				t.Fatalf("EncodeFrame() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("EncodeFrame() = %s, want %s", data, tt.want)
			}
		})
	}
}

func TestEncodeFrame_DecodesBack(t *testing.T) {
	data, err := EncodeFrame(ErrorFrame{Error: "Unknown message type"})
	if err != nil {
		t.Fatalf("EncodeFrame() error = %v", err)
	}
	back, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	if back != (ErrorFrame{Error: "Unknown message type"}) {
		t.Errorf("DecodeFrame() = %#v", back)
	}
}

func TestDecodeProcessFrame(t *testing.T) {
	f, ok, err := DecodeProcessFrame([]byte(`{"type":"process","prompt":"hello"}`))
	if err != nil || !ok {
		t.Fatalf("DecodeProcessFrame() = %v, %v", ok, err)
	}
	if f.Prompt != "hello" {
		t.Errorf("Prompt = %q, want %q", f.Prompt, "hello")
	}

	_, ok, err = DecodeProcessFrame([]byte(`{"type":"ping"}`))
	if err != nil {
		t.Fatalf("DecodeProcessFrame() error = %v", err)
	}
	if ok {
		t.Error("DecodeProcessFrame(ping) ok = true, want false")
	}
}

func TestHealth_Healthy(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"healthy", true},
		{"ok", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := (Health{Status: tt.status}).Healthy(); got != tt.want {
			t.Errorf("Health{%q}.Healthy() = %v, want %v", tt.status, got, tt.want)
		}
	}
}
