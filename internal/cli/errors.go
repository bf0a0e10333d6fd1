// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error types and exit codes for neurogo commands.
//
// STANDARDIZED PATTERN:
//   - Commands return errors and never exit themselves
//   - main displays the error and exits with GetExitCode

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/neurogo-tui/internal/api"
	"github.com/jeranaias/neurogo-tui/internal/config"
	"github.com/jeranaias/neurogo-tui/internal/live"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates a configuration error
	ExitConfigError = 3
	// ExitBackendError indicates the backend answered with an error
	ExitBackendError = 4
	// ExitNetworkError indicates the backend could not be reached
	ExitNetworkError = 5
	// ExitTimeoutError indicates an operation timed out
	ExitTimeoutError = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// UsageError reports a malformed command line.
type UsageError struct {
	Command string
	Usage   string
	Reason  string
}

func (e *UsageError) Error() string {
	if e.Usage == "" {
		return fmt.Sprintf("%s: %s", e.Command, e.Reason)
	}
	return fmt.Sprintf("%s: %s\nUsage: %s", e.Command, e.Reason, e.Usage)
}

// ErrMissingArgument returns a UsageError for a missing argument.
func ErrMissingArgument(command, arg, usage string) error {
	return &UsageError{Command: command, Usage: usage, Reason: "missing " + arg}
}

// BackendError is an application error reported by the backend.
type BackendError struct {
	Message string
}

func (e *BackendError) Error() string {
	return e.Message
}

// =============================================================================
// DISPLAY
// =============================================================================

// GetExitCode maps an error onto an exit code.
func GetExitCode(err error) int {
	var (
		usageErr   *UsageError
		backendErr *BackendError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &usageErr):
		return ExitUsageError
	case errors.Is(err, config.ErrInvalidConfig):
		return ExitConfigError
	case errors.As(err, &backendErr):
		return ExitBackendError
	case errors.Is(err, context.DeadlineExceeded):
		return ExitTimeoutError
	case errors.Is(err, api.ErrTransport), errors.Is(err, live.ErrNotConnected):
		return ExitNetworkError
	default:
		return ExitGeneralError
	}
}

// DisplayError writes err for a human, or as a JSON error response.
func DisplayError(w io.Writer, command string, err error, jsonMode bool) {
	if err == nil {
		return
	}
	if jsonMode {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		_ = enc.Encode(NewJSONErrorResponse(command, err))
		return
	}
	fmt.Fprintf(w, "%s %v\n", ErrorStyle.Render("Error:"), err)
}
