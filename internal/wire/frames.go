// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package wire

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Frame type tags used on the live socket.
const (
	TypeProcess  = "process"
	TypeResponse = "response"
	TypeError    = "error"
)

// ErrMalformedFrame is returned when an inbound frame is not a JSON object.
var ErrMalformedFrame = errors.New("malformed frame")

// =============================================================================
// OUTBOUND
// =============================================================================

// ProcessFrame is the only frame the client ever sends over the socket.
type ProcessFrame struct {
	Prompt string
}

// MarshalJSON always emits the "process" tag so callers cannot forget it.
func (f ProcessFrame) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string `json:"type"`
		Prompt string `json:"prompt"`
	}{Type: TypeProcess, Prompt: f.Prompt})
}

// =============================================================================
// INBOUND
// =============================================================================

// Frame is an inbound socket frame. The set of implementations is closed:
// ResponseFrame, ErrorFrame and UnknownFrame.
type Frame interface {
	// Type returns the frame tag as received.
	Type() string
	isFrame()
}

// ResponseFrame carries assistant content.
type ResponseFrame struct {
	Response string
}

// ErrorFrame carries a backend-reported error.
type ErrorFrame struct {
	Error string
}

// UnknownFrame is any frame whose tag the client does not render.
type UnknownFrame struct {
	Tag string
	Raw json.RawMessage
}

func (ResponseFrame) Type() string  { return TypeResponse }
func (ErrorFrame) Type() string     { return TypeError }
func (f UnknownFrame) Type() string { return f.Tag }

func (ResponseFrame) isFrame() {}
func (ErrorFrame) isFrame()    {}
func (UnknownFrame) isFrame()  {}

// inboundEnvelope mirrors the server's WSMessage.
type inboundEnvelope struct {
	Type     string `json:"type"`
	Response string `json:"response"`
	Error    string `json:"error"`
}

// DecodeFrame decodes one inbound socket payload.
func DecodeFrame(data []byte) (Frame, error) {
	var env inboundEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	switch env.Type {
	case TypeResponse:
		return ResponseFrame{Response: env.Response}, nil
	case TypeError:
		return ErrorFrame{Error: env.Error}, nil
	default:
		raw := make(json.RawMessage, len(data))
		copy(raw, data)
		return UnknownFrame{Tag: env.Type, Raw: raw}, nil
	}
}

// EncodeFrame encodes an inbound frame the way the backend does. It exists for
// servers and fakes that speak the same protocol.
func EncodeFrame(f Frame) ([]byte, error) {
	switch v := f.(type) {
	case ResponseFrame:
		return json.Marshal(struct {
			Type     string `json:"type"`
			Response string `json:"response"`
		}{Type: TypeResponse, Response: v.Response})
	case ErrorFrame:
		return json.Marshal(struct {
			Type  string `json:"type"`
			Error string `json:"error"`
		}{Type: TypeError, Error: v.Error})
	case UnknownFrame:
		if len(v.Raw) > 0 {
			return v.Raw, nil
		}
		return json.Marshal(struct {
			Type string `json:"type"`
		}{Type: v.Tag})
	default:
		return nil, fmt.Errorf("unsupported frame %T", f)
	}
}

// DecodeProcessFrame decodes an outbound frame on the server side. Frames with a
// tag other than "process" are reported with ok=false.
func DecodeProcessFrame(data []byte) (frame ProcessFrame, ok bool, err error) {
	var env struct {
		Type   string `json:"type"`
		Prompt string `json:"prompt"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return ProcessFrame{}, false, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	if env.Type != TypeProcess {
		return ProcessFrame{}, false, nil
	}
	return ProcessFrame{Prompt: env.Prompt}, true, nil
}
