// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/neurogo-tui/internal/live"
	"github.com/jeranaias/neurogo-tui/internal/model"
	"github.com/jeranaias/neurogo-tui/internal/providers"
	"github.com/jeranaias/neurogo-tui/internal/render"
	"github.com/jeranaias/neurogo-tui/internal/wire"
)

// DefaultRefreshDelay is how long after a command the current provider is
// re-queried.
const DefaultRefreshDelay = time.Second

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("session closed")

// Transport is the live connection as the session uses it. *live.Manager
// satisfies it.
type Transport interface {
	Start()
	Connected() bool
	Send(prompt string) error
	Shutdown()
}

// HealthChecker queries backend health. *api.Client satisfies it.
type HealthChecker interface {
	Health(ctx context.Context) (wire.Health, error)
}

// Options configures a Session.
type Options struct {
	// Processor is the one-shot command endpoint. Required.
	Processor providers.Processor
	// Health is the health endpoint. Nil skips health checks.
	Health HealthChecker
	// Source reports provider state. Nil scrapes it through Processor.
	Source providers.Source
	// Known lists the provider ids that get availability badges.
	Known []string
	// RefreshDelay defaults to DefaultRefreshDelay. Negative means immediately.
	RefreshDelay time.Duration
	// Supersede cancels a pending refresh when a newer one is scheduled.
	Supersede bool
	Logger    *zap.Logger
}

// =============================================================================
// SESSION
// =============================================================================

// Session is the client-state controller for one run.
type Session struct {
	opts   Options
	source providers.Source
	logger *zap.Logger
	log    *model.Log

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	live      Transport
	state     State
	known     []string
	observers []func(Event)
	closed    bool

	// refresh bookkeeping; refreshSeq counts scheduled refreshes.
	refreshSeq    uint64
	refreshTimer  *time.Timer
	refreshCancel context.CancelFunc
}

// New creates a session. Call Attach to give it a live connection and Start
// to begin the initial fetches.
func New(opts Options) *Session {
	if opts.RefreshDelay == 0 {
		opts.RefreshDelay = DefaultRefreshDelay
	}
	if opts.RefreshDelay < 0 {
		opts.RefreshDelay = 0
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	source := opts.Source
	if source == nil {
		source = providers.NewTextSource(opts.Processor)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		opts:   opts,
		source: source,
		logger: logger.Named("session"),
		log:    model.NewLog(),
		ctx:    ctx,
		cancel: cancel,
		known:  append([]string(nil), opts.Known...),
		state:  State{Status: live.StatusDisconnected},
	}
}

// Attach sets the live connection. It must be called before Start.
func (s *Session) Attach(t Transport) {
	s.mu.Lock()
	s.live = t
	s.mu.Unlock()
}

// OnChange registers an observer. Observers run on the goroutine that caused
// the change and must not block.
func (s *Session) OnChange(fn func(Event)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// Start opens the live connection and fetches health, the provider list and
// the current provider in the background.
func (s *Session) Start() {
	s.mu.Lock()
	t := s.live
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}
	if t != nil {
		t.Start()
	}
	s.goAsync(func() { _ = s.Sync(s.ctx) })
}

// Sync fetches health, the provider list and the current provider
// concurrently and waits for all three. It returns the first failure; every
// outcome is also recorded in State.
func (s *Session) Sync(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return s.checkHealth(ctx) })
	g.Go(func() error { return s.loadProviders(ctx) })
	seq := s.currentSeq()
	g.Go(func() error { return s.loadCurrent(ctx, seq) })
	return g.Wait()
}

// Close stops pending refreshes, shuts the live connection down and waits for
// in-flight requests to be cancelled.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.refreshTimer != nil {
		s.refreshTimer.Stop()
	}
	if s.refreshCancel != nil {
		s.refreshCancel()
	}
	t := s.live
	s.mu.Unlock()

	s.cancel()
	if t != nil {
		t.Shutdown()
	}
	s.wg.Wait()
}

// =============================================================================
// STATE ACCESS
// =============================================================================

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Providers = append([]string(nil), s.state.Providers...)
	st.Badges = append([]providers.Badge(nil), s.state.Badges...)
	st.Messages = s.log.Len()
	return st
}

// Messages returns the message log.
func (s *Session) Messages() []model.Message {
	return s.log.Messages()
}

// Log returns the underlying message log.
func (s *Session) Log() *model.Log {
	return s.log
}

// Known returns the provider ids that get badges.
func (s *Session) Known() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.known...)
}

// SetKnown replaces the known provider ids and recomputes badges.
func (s *Session) SetKnown(known []string) {
	s.mu.Lock()
	s.known = append([]string(nil), known...)
	s.state.Badges = providers.Availability(s.known, s.state.Providers)
	s.mu.Unlock()
	s.notify(Event{Kind: EventProviders})
}

// =============================================================================
// COMMAND DISPATCH
// =============================================================================

// Submit sends a command. Whitespace-only input is ignored and reported as
// false. The command goes over the live connection when it is open, and
// through the one-shot endpoint otherwise.
func (s *Session) Submit(prompt string) bool {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return false
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	t := s.live
	s.mu.Unlock()

	s.appendMessage(model.NewUserMessage(prompt))
	s.setLoading(true)

	if t != nil && t.Connected() {
		if err := t.Send(prompt); err != nil {
			s.logger.Warn("live send failed", zap.Error(err))
			s.appendMessage(model.NewNetworkErrorMessage(err))
			s.setLoading(false)
		}
		s.scheduleRefresh()
		return true
	}

	s.goAsync(func() {
		s.processOneShot(prompt)
		s.scheduleRefresh()
	})
	return true
}

// QuickCommand submits a canned command.
func (s *Session) QuickCommand(cmd string) bool {
	return s.Submit(cmd)
}

// SwitchProvider pins provider, or returns to auto mode for "auto".
func (s *Session) SwitchProvider(provider string) bool {
	return s.Submit(providers.SwitchCommand(provider))
}

func (s *Session) processOneShot(prompt string) {
	defer s.setLoading(false)

	res, err := s.opts.Processor.Process(s.ctx, prompt)
	switch {
	case err != nil:
		if s.ctx.Err() != nil {
			return
		}
		s.logger.Warn("one-shot request failed", zap.Error(err))
		s.appendMessage(model.NewNetworkErrorMessage(err))
	case res.Failed():
		s.appendMessage(model.NewErrorMessage(res.Error))
	default:
		s.appendMessage(model.NewAssistantMessage(res.Response))
	}
}

// =============================================================================
// LIVE HANDLER
// =============================================================================

// HandleFrame renders an inbound socket frame. Any frame clears the loading
// flag.
func (s *Session) HandleFrame(f wire.Frame) {
	switch v := f.(type) {
	case wire.ResponseFrame:
		s.appendMessage(model.NewAssistantMessage(v.Response))
	case wire.ErrorFrame:
		s.appendMessage(model.NewErrorMessage(v.Error))
	default:
		s.logger.Warn("ignoring frame", zap.String("type", f.Type()))
	}
	s.setLoading(false)
}

// HandleStatus updates the connection indicator.
func (s *Session) HandleStatus(st live.Status) {
	s.mu.Lock()
	s.state.Status = st
	s.mu.Unlock()
	s.notify(Event{Kind: EventStatus})
}

// =============================================================================
// FETCHES
// =============================================================================

func (s *Session) checkHealth(ctx context.Context) error {
	if s.opts.Health == nil {
		return nil
	}
	h, err := s.opts.Health.Health(ctx)
	if err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
	}
	s.mu.Lock()
	s.state.HealthChecked = true
	s.state.Health = h
	s.state.HealthErr = err
	s.mu.Unlock()
	s.notify(Event{Kind: EventHealth})
	return err
}

func (s *Session) loadProviders(ctx context.Context) error {
	list, err := s.source.Providers(ctx)
	s.mu.Lock()
	if err != nil {
		s.state.ProvidersErr = err
	} else {
		s.state.ProvidersErr = nil
		s.state.ProvidersLoaded = true
		s.state.Providers = list
		s.state.Badges = providers.Availability(s.known, list)
	}
	s.mu.Unlock()
	if err != nil {
		s.logger.Warn("failed to load providers", zap.Error(err))
	}
	s.notify(Event{Kind: EventProviders})
	return err
}

// loadCurrent queries the current provider. With superseding enabled the
// reply is applied only if no newer refresh was scheduled since seq.
func (s *Session) loadCurrent(ctx context.Context, seq uint64) error {
	cur, err := s.source.Current(ctx)
	if err != nil {
		if errors.Is(err, providers.ErrNoCurrent) {
			return nil
		}
		if ctx.Err() == nil {
			s.logger.Warn("failed to get current provider", zap.Error(err))
		}
		return err
	}

	s.mu.Lock()
	if s.opts.Supersede && seq != s.refreshSeq {
		s.mu.Unlock()
		s.logger.Debug("discarding superseded refresh", zap.Uint64("seq", seq))
		return nil
	}
	s.state.Current = cur
	s.mu.Unlock()
	s.notify(Event{Kind: EventCurrent})
	return nil
}

func (s *Session) currentSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshSeq
}

// scheduleRefresh queries the current provider after the refresh delay.
func (s *Session) scheduleRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.refreshSeq++
	seq := s.refreshSeq
	if s.opts.Supersede {
		if s.refreshTimer != nil {
			s.refreshTimer.Stop()
		}
		if s.refreshCancel != nil {
			s.refreshCancel()
		}
	}

	ctx, cancel := context.WithCancel(s.ctx)
	s.refreshCancel = cancel
	s.refreshTimer = time.AfterFunc(s.opts.RefreshDelay, func() {
		started := s.goAsync(func() {
			defer cancel()
			_ = s.loadCurrent(ctx, seq)
		})
		if !started {
			cancel()
		}
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// goAsync runs fn on a tracked goroutine unless the session is closed.
func (s *Session) goAsync(fn func()) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		fn()
	}()
	return true
}

func (s *Session) appendMessage(m model.Message) {
	m = render.Classified(m)
	s.log.Append(m)
	s.notify(Event{Kind: EventMessage, Message: m})
}

func (s *Session) setLoading(loading bool) {
	s.mu.Lock()
	changed := s.state.Loading != loading
	s.state.Loading = loading
	s.mu.Unlock()
	if changed {
		s.notify(Event{Kind: EventLoading})
	}
}

func (s *Session) notify(ev Event) {
	s.mu.Lock()
	obs := make([]func(Event), len(s.observers))
	copy(obs, s.observers)
	s.mu.Unlock()
	for _, fn := range obs {
		fn(ev)
	}
}
