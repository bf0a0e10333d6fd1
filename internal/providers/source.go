// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeranaias/neurogo-tui/internal/wire"
)

// ErrNoCurrent is returned when a current-provider reply names nothing.
var ErrNoCurrent = errors.New("current provider not found in reply")

// Source reports provider state.
type Source interface {
	// Providers returns the configured provider names.
	Providers(ctx context.Context) ([]string, error)
	// Current returns the active provider. ErrNoCurrent means the reply was
	// understood but named no provider.
	Current(ctx context.Context) (Current, error)
}

// Processor sends one command through the one-shot endpoint. *api.Client
// satisfies it.
type Processor interface {
	Process(ctx context.Context, prompt string) (wire.ProcessResult, error)
}

// TextSource scrapes provider state from the sentinel prompt replies.
type TextSource struct {
	proc Processor
}

// NewTextSource wraps proc.
func NewTextSource(proc Processor) *TextSource {
	return &TextSource{proc: proc}
}

// Providers sends "list providers" and parses the reply.
func (s *TextSource) Providers(ctx context.Context) ([]string, error) {
	res, err := s.proc.Process(ctx, ListPrompt)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	if res.Failed() {
		return nil, fmt.Errorf("list providers: %s", res.Error)
	}
	return ParseList(res.Response), nil
}

// Current sends "current provider" and parses the reply.
func (s *TextSource) Current(ctx context.Context) (Current, error) {
	res, err := s.proc.Process(ctx, CurrentPrompt)
	if err != nil {
		return Current{}, fmt.Errorf("current provider: %w", err)
	}
	if res.Response == "" {
		return Current{}, ErrNoCurrent
	}
	cur, ok := ParseCurrent(res.Response)
	if !ok {
		return Current{}, ErrNoCurrent
	}
	return cur, nil
}

// Static is a structured Source with fixed answers.
type Static struct {
	List    []string
	Active  Current
	ListErr error
	CurErr  error
}

// Providers returns a copy of List.
func (s *Static) Providers(context.Context) ([]string, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	return append([]string(nil), s.List...), nil
}

// Current returns Active.
func (s *Static) Current(context.Context) (Current, error) {
	if s.CurErr != nil {
		return Current{}, s.CurErr
	}
	if s.Active.IsZero() {
		return Current{}, ErrNoCurrent
	}
	return s.Active, nil
}
