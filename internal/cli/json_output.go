// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - JSON output for scripting.
package cli

import (
	"encoding/json"
	"io"
	"time"
)

// JSONResponse is the envelope of every --json output.
type JSONResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Error     *string     `json:"error"`
	Timestamp string      `json:"timestamp"`
	Command   string      `json:"command,omitempty"`
}

// NewJSONResponse creates a successful response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates an error response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	msg := err.Error()
	return &JSONResponse{
		Error:     &msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Write encodes the response with indentation.
func (r *JSONResponse) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// =============================================================================
// RESPONSE DATA TYPES
// =============================================================================

// StatusData is the data of "status --json".
type StatusData struct {
	Online         bool            `json:"online"`
	API            string          `json:"api"`
	Framework      string          `json:"framework,omitempty"`
	Version        string          `json:"version,omitempty"`
	HealthError    string          `json:"health_error,omitempty"`
	Providers      []string        `json:"providers"`
	ProvidersError string          `json:"providers_error,omitempty"`
	Known          []KnownProvider `json:"known"`
	Current        string          `json:"current"`
	CurrentToken   string          `json:"current_token,omitempty"`
}

// KnownProvider is one availability badge.
type KnownProvider struct {
	ID        string `json:"id"`
	Available bool   `json:"available"`
}

// VersionData is the data of "version --json".
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}
