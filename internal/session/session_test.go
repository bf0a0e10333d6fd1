// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jeranaias/neurogo-tui/internal/live"
	"github.com/jeranaias/neurogo-tui/internal/model"
	"github.com/jeranaias/neurogo-tui/internal/providers"
	"github.com/jeranaias/neurogo-tui/internal/wire"
)

// =============================================================================
// FAKES
// =============================================================================

type fakeProcessor struct {
	mu      sync.Mutex
	prompts []string
	reply   func(prompt string) (wire.ProcessResult, error)
}

func (f *fakeProcessor) Process(_ context.Context, prompt string) (wire.ProcessResult, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	reply := f.reply
	f.mu.Unlock()
	if reply == nil {
		return wire.ProcessResult{Response: "echo: " + prompt}, nil
	}
	return reply(prompt)
}

func (f *fakeProcessor) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

func (f *fakeProcessor) count(prompt string) int {
	n := 0
	for _, p := range f.calls() {
		if p == prompt {
			n++
		}
	}
	return n
}

type fakeTransport struct {
	mu        sync.Mutex
	connected bool
	sent      []string
	sendErr   error
	started   int
	shutdown  bool
}

func (f *fakeTransport) Start() {
	f.mu.Lock()
	f.started++
	f.mu.Unlock()
}

func (f *fakeTransport) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeTransport) Send(prompt string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, prompt)
	return nil
}

func (f *fakeTransport) Shutdown() {
	f.mu.Lock()
	f.shutdown = true
	f.mu.Unlock()
}

type fakeHealth struct {
	h   wire.Health
	err error
}

func (f fakeHealth) Health(context.Context) (wire.Health, error) { return f.h, f.err }

// scriptedSource answers Current calls in order; a non-nil gate blocks that
// call until closed, ignoring context cancellation.
type scriptedSource struct {
	mu      sync.Mutex
	answers []providers.Current
	gates   []chan struct{}
	calls   int
}

func (s *scriptedSource) Providers(context.Context) ([]string, error) {
	return []string{"deepseek"}, nil
}

func (s *scriptedSource) Current(context.Context) (providers.Current, error) {
	s.mu.Lock()
	i := s.calls
	s.calls++
	var gate chan struct{}
	if i < len(s.gates) {
		gate = s.gates[i]
	}
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if i >= len(s.answers) {
		return providers.Current{}, providers.ErrNoCurrent
	}
	return s.answers[i], nil
}

func (s *scriptedSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestSession(t *testing.T, opts Options) *Session {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = zaptest.NewLogger(t)
	}
	if opts.RefreshDelay == 0 {
		opts.RefreshDelay = 20 * time.Millisecond
	}
	s := New(opts)
	t.Cleanup(s.Close)
	return s
}

func waitMessages(t *testing.T, s *Session, n int) []model.Message {
	t.Helper()
	require.Eventually(t, func() bool { return s.Log().Len() >= n }, 2*time.Second, 5*time.Millisecond)
	return s.Messages()
}

// =============================================================================
// SUBMIT
// =============================================================================

func TestSubmitWhitespaceIsNoop(t *testing.T) {
	proc := &fakeProcessor{}
	tr := &fakeTransport{connected: true}
	s := newTestSession(t, Options{Processor: proc})
	s.Attach(tr)

	for _, in := range []string{"", "   ", "\t\n  "} {
		assert.False(t, s.Submit(in))
	}
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, s.Log().Len())
	assert.Empty(t, proc.calls())
	assert.Empty(t, tr.sent)
	assert.False(t, s.Snapshot().Loading)
}

func TestSubmitOneShotWhenDisconnected(t *testing.T) {
	proc := &fakeProcessor{}
	s := newTestSession(t, Options{Processor: proc})
	s.Attach(&fakeTransport{})

	require.True(t, s.Submit("  hello  "))
	msgs := waitMessages(t, s, 2)

	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "echo: hello", msgs[1].Content)
	assert.Eventually(t, func() bool { return !s.Snapshot().Loading }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "hello", proc.calls()[0])
}

func TestSubmitWithoutTransportUsesOneShot(t *testing.T) {
	proc := &fakeProcessor{}
	s := newTestSession(t, Options{Processor: proc})

	require.True(t, s.Submit("hi"))
	msgs := waitMessages(t, s, 2)
	assert.Equal(t, "echo: hi", msgs[1].Content)
}

func TestSubmitBackendAndNetworkErrors(t *testing.T) {
	proc := &fakeProcessor{reply: func(prompt string) (wire.ProcessResult, error) {
		switch prompt {
		case "bad":
			return wire.ProcessResult{Error: "router failed"}, nil
		case "down":
			return wire.ProcessResult{}, errors.New("connection refused")
		}
		return wire.ProcessResult{}, providers.ErrNoCurrent
	}}
	s := newTestSession(t, Options{Processor: proc})

	s.Submit("bad")
	msgs := waitMessages(t, s, 2)
	assert.Equal(t, "Error: router failed", msgs[1].Content)
	assert.True(t, msgs[1].IsError())

	s.Submit("down")
	msgs = waitMessages(t, s, 4)
	assert.Equal(t, "Network Error: connection refused", msgs[3].Content)
}

func TestSubmitOverLiveConnection(t *testing.T) {
	proc := &fakeProcessor{}
	tr := &fakeTransport{connected: true}
	s := newTestSession(t, Options{Processor: proc})
	s.Attach(tr)

	require.True(t, s.Submit("list providers"))
	assert.True(t, s.Snapshot().Loading, "loading until a frame arrives")
	assert.Equal(t, []string{"list providers"}, tr.sent)
	assert.Zero(t, proc.count("list providers"), "one-shot endpoint not used")

	s.HandleFrame(wire.ResponseFrame{Response: "📋 Available providers:"})
	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "📋 Available providers:", msgs[1].Content)
	assert.False(t, s.Snapshot().Loading)
}

func TestSubmitLiveSendFailure(t *testing.T) {
	tr := &fakeTransport{connected: true, sendErr: errors.New("broken pipe")}
	s := newTestSession(t, Options{Processor: &fakeProcessor{}})
	s.Attach(tr)

	s.Submit("hello")
	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1].Content, "Network Error: ")
	assert.False(t, s.Snapshot().Loading)
}

func TestQuickCommandAndSwitchProvider(t *testing.T) {
	tr := &fakeTransport{connected: true}
	s := newTestSession(t, Options{Processor: &fakeProcessor{}})
	s.Attach(tr)

	s.QuickCommand("current provider")
	s.SwitchProvider("ollama")
	s.SwitchProvider("auto")
	assert.Equal(t, []string{"current provider", "use ollama", "use auto"}, tr.sent)
}

func TestMessagesAreClassified(t *testing.T) {
	tr := &fakeTransport{connected: true}
	s := newTestSession(t, Options{Processor: &fakeProcessor{}})
	s.Attach(tr)

	s.Submit("hello")
	s.HandleFrame(wire.ResponseFrame{Response: "func main() {}"})
	msgs := s.Messages()
	assert.Equal(t, model.KindPlain, msgs[0].Kind)
	assert.Equal(t, model.KindBlock, msgs[1].Kind)
}

// =============================================================================
// LIVE HANDLER
// =============================================================================

func TestHandleFrameVariants(t *testing.T) {
	s := newTestSession(t, Options{Processor: &fakeProcessor{}})

	s.setLoading(true)
	s.HandleFrame(wire.ErrorFrame{Error: "Unknown message type"})
	assert.Equal(t, "Error: Unknown message type", s.Messages()[0].Content)
	assert.False(t, s.Snapshot().Loading)

	s.setLoading(true)
	s.HandleFrame(wire.UnknownFrame{Tag: "telemetry"})
	assert.Equal(t, 1, s.Log().Len(), "unknown frames are not rendered")
	assert.False(t, s.Snapshot().Loading, "any frame clears loading")
}

func TestHandleStatus(t *testing.T) {
	s := newTestSession(t, Options{Processor: &fakeProcessor{}})
	var got []EventKind
	s.OnChange(func(ev Event) { got = append(got, ev.Kind) })

	s.HandleStatus(live.StatusConnected)
	assert.Equal(t, live.StatusConnected, s.Snapshot().Status)
	assert.Equal(t, []EventKind{EventStatus}, got)
}

// =============================================================================
// REFRESH
// =============================================================================

func TestRefreshAfterSubmit(t *testing.T) {
	proc := &fakeProcessor{reply: func(prompt string) (wire.ProcessResult, error) {
		if prompt == providers.CurrentPrompt {
			return wire.ProcessResult{Response: "🎯 Currently using: OpenAI"}, nil
		}
		return wire.ProcessResult{Response: "✅ Switched to OpenAI provider."}, nil
	}}
	s := newTestSession(t, Options{Processor: proc, RefreshDelay: 50 * time.Millisecond, Supersede: true})
	s.Attach(&fakeTransport{connected: true})

	start := time.Now()
	s.SwitchProvider("openai")

	require.Eventually(t, func() bool { return s.Snapshot().Current.Token == "openai" }, 2*time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.Equal(t, "OpenAI", s.Snapshot().Current.Display)
	assert.Equal(t, 1, proc.count(providers.CurrentPrompt))
}

func TestRefreshUnmatchedLeavesCurrent(t *testing.T) {
	src := &scriptedSource{answers: []providers.Current{{Token: "ollama", Display: "Ollama"}}}
	s := newTestSession(t, Options{Processor: &fakeProcessor{}, Source: src})
	s.Attach(&fakeTransport{connected: true})

	require.NoError(t, s.Sync(context.Background()))
	assert.Equal(t, "ollama", s.Snapshot().Current.Token)

	s.Submit("hi")
	require.Eventually(t, func() bool { return src.callCount() == 2 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, "ollama", s.Snapshot().Current.Token, "no match keeps the stale value")
}

func TestNewerRefreshSupersedesPending(t *testing.T) {
	src := &scriptedSource{answers: []providers.Current{{Token: "x", Display: "x"}}}
	proc := &fakeProcessor{}
	s := newTestSession(t, Options{Processor: proc, Source: src, RefreshDelay: 80 * time.Millisecond, Supersede: true})
	s.Attach(&fakeTransport{connected: true})

	s.Submit("one")
	time.Sleep(20 * time.Millisecond)
	s.Submit("two")

	require.Eventually(t, func() bool { return src.callCount() >= 1 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 1, src.callCount(), "the first pending refresh never fired")
}

func TestStaleRefreshReplyDiscarded(t *testing.T) {
	slow := make(chan struct{})
	src := &scriptedSource{
		answers: []providers.Current{
			{Token: "openai", Display: "OpenAI"},
			{Token: "deepseek", Display: "DeepSeek"},
		},
		gates: []chan struct{}{slow, nil},
	}
	s := newTestSession(t, Options{Processor: &fakeProcessor{}, Source: src, RefreshDelay: 10 * time.Millisecond, Supersede: true})
	s.Attach(&fakeTransport{connected: true})

	s.Submit("use openai")
	require.Eventually(t, func() bool { return src.callCount() == 1 }, 2*time.Second, 5*time.Millisecond)

	s.Submit("use deepseek")
	require.Eventually(t, func() bool { return s.Snapshot().Current.Token == "deepseek" }, 2*time.Second, 5*time.Millisecond)

	close(slow)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, "deepseek", s.Snapshot().Current.Token, "late reply from the superseded refresh is dropped")
}

func TestLastResponseWinsWithoutSupersede(t *testing.T) {
	slow := make(chan struct{})
	src := &scriptedSource{
		answers: []providers.Current{
			{Token: "openai", Display: "OpenAI"},
			{Token: "deepseek", Display: "DeepSeek"},
		},
		gates: []chan struct{}{slow, nil},
	}
	s := newTestSession(t, Options{Processor: &fakeProcessor{}, Source: src, RefreshDelay: 10 * time.Millisecond})
	s.Attach(&fakeTransport{connected: true})

	s.Submit("use openai")
	require.Eventually(t, func() bool { return src.callCount() == 1 }, 2*time.Second, 5*time.Millisecond)
	s.Submit("use deepseek")
	require.Eventually(t, func() bool { return s.Snapshot().Current.Token == "deepseek" }, 2*time.Second, 5*time.Millisecond)

	close(slow)
	require.Eventually(t, func() bool { return s.Snapshot().Current.Token == "openai" }, 2*time.Second, 5*time.Millisecond)
}

// =============================================================================
// SYNC / LIFECYCLE
// =============================================================================

func TestSync(t *testing.T) {
	proc := &fakeProcessor{reply: func(prompt string) (wire.ProcessResult, error) {
		switch prompt {
		case providers.ListPrompt:
			return wire.ProcessResult{Response: "📋 Available providers:\n\n🎯 DeepSeek (currently selected)\n   Ollama\n"}, nil
		case providers.CurrentPrompt:
			return wire.ProcessResult{Response: "🤖 Currently in auto mode - the system chooses the best provider for each task."}, nil
		}
		return wire.ProcessResult{}, nil
	}}
	s := newTestSession(t, Options{
		Processor: proc,
		Health:    fakeHealth{h: wire.Health{Status: "healthy"}},
		Known:     []string{"deepseek", "openai", "ollama"},
	})

	require.NoError(t, s.Sync(context.Background()))
	st := s.Snapshot()
	assert.True(t, st.Online())
	assert.Equal(t, "API Online", st.HealthLabel())
	assert.Equal(t, []string{"DeepSeek", "Ollama"}, st.Providers)
	assert.Equal(t, []providers.Badge{{ID: "deepseek", Available: true}, {ID: "openai", Available: false}, {ID: "ollama", Available: true}}, st.Badges)
	assert.True(t, st.Current.IsAuto())
	assert.Equal(t, "Provider: Auto Mode", st.CurrentLabel())

	head, _ := st.ProviderSummary()
	assert.Equal(t, "✅ 2 provider(s) available", head)
}

func TestSyncFailures(t *testing.T) {
	down := errors.New("connection refused")
	proc := &fakeProcessor{reply: func(string) (wire.ProcessResult, error) { return wire.ProcessResult{}, down }}
	s := newTestSession(t, Options{Processor: proc, Health: fakeHealth{err: down}})

	err := s.Sync(context.Background())
	assert.ErrorIs(t, err, down)

	st := s.Snapshot()
	assert.Equal(t, "API Offline", st.HealthLabel())
	head, _ := st.ProviderSummary()
	assert.Equal(t, "Failed to load providers", head)
	assert.True(t, st.Current.IsZero())
}

func TestSetKnownRecomputesBadges(t *testing.T) {
	s := newTestSession(t, Options{Processor: &fakeProcessor{}, Source: &providers.Static{List: []string{"Gemini"}}})
	require.NoError(t, s.loadProviders(context.Background()))

	s.SetKnown([]string{"gemini", "openai"})
	assert.Equal(t, []providers.Badge{{ID: "gemini", Available: true}, {ID: "openai", Available: false}}, s.Snapshot().Badges)
	assert.Equal(t, []string{"gemini", "openai"}, s.Known())
}

func TestStartOpensTransport(t *testing.T) {
	tr := &fakeTransport{}
	s := newTestSession(t, Options{Processor: &fakeProcessor{}, Health: fakeHealth{h: wire.Health{Status: "healthy"}}})
	s.Attach(tr)

	s.Start()
	require.Eventually(t, func() bool { return s.Snapshot().HealthChecked }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, tr.started)
}

func TestCloseStopsEverything(t *testing.T) {
	proc := &fakeProcessor{}
	tr := &fakeTransport{connected: true}
	s := New(Options{Processor: proc, RefreshDelay: 30 * time.Millisecond})
	s.Attach(tr)

	s.Submit("hi")
	s.Close()
	s.Close()

	assert.True(t, tr.shutdown)
	assert.False(t, s.Submit("after close"))
	time.Sleep(80 * time.Millisecond)
	assert.Zero(t, proc.count(providers.CurrentPrompt), "pending refresh cancelled")
}

func TestObserversSeeMessages(t *testing.T) {
	s := newTestSession(t, Options{Processor: &fakeProcessor{}})
	s.Attach(&fakeTransport{connected: true})

	var mu sync.Mutex
	var contents []string
	s.OnChange(func(ev Event) {
		if ev.Kind == EventMessage {
			mu.Lock()
			contents = append(contents, ev.Message.Content)
			mu.Unlock()
		}
	})

	s.Submit("ping")
	s.HandleFrame(wire.ResponseFrame{Response: "pong"})

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"ping", "pong"}, contents)
}
