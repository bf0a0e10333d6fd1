// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package wire

// HealthySentinel is the only /api/health status value treated as success.
const HealthySentinel = "healthy"

// ProcessRequest is the body of POST /api/process.
type ProcessRequest struct {
	Prompt string `json:"prompt"`
}

// ProcessResult is the reply of POST /api/process. Exactly one field is
// expected to be set; Error wins when both are.
type ProcessResult struct {
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Failed reports whether the backend returned an application error.
func (r ProcessResult) Failed() bool {
	return r.Error != ""
}

// Health is the reply of GET /api/health.
type Health struct {
	Status    string `json:"status"`
	Framework string `json:"framework,omitempty"`
	Version   string `json:"version,omitempty"`
}

// Healthy reports whether the status equals the success sentinel.
func (h Health) Healthy() bool {
	return h.Status == HealthySentinel
}
