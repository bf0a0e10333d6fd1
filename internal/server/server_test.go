// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/neurogo-tui/internal/api"
	"github.com/jeranaias/neurogo-tui/internal/live"
	"github.com/jeranaias/neurogo-tui/internal/providers"
	"github.com/jeranaias/neurogo-tui/internal/session"
	"github.com/jeranaias/neurogo-tui/internal/wire"
)

// =============================================================================
// BACKEND
// =============================================================================

func TestPatternRegexp(t *testing.T) {
	re := patternRegexp("with * *")
	m := re.FindStringSubmatch("with openai tell me a joke")
	require.NotNil(t, m)
	assert.Equal(t, "openai", m[1])
	assert.Equal(t, "tell me a joke", m[2])

	assert.Nil(t, patternRegexp("echo *").FindStringSubmatch("say echo hi"))
	assert.NotNil(t, patternRegexp("a.b").FindStringSubmatch("a.b"))
	assert.Nil(t, patternRegexp("a.b").FindStringSubmatch("axb"))
}

func TestBackendListProviders(t *testing.T) {
	b := NewBackend("DeepSeek", "Ollama")
	_, err := b.Process("use ollama")
	require.NoError(t, err)

	got, err := b.Process(providers.ListPrompt)
	require.NoError(t, err)
	want := "📋 Available providers:\n\n" +
		"   DeepSeek\n" +
		"🎯 Ollama (currently selected)\n" +
		"\n💡 Commands:\n" +
		"• 'use [provider]' - Switch to specific provider\n" +
		"• 'use auto' - Auto-select best provider for each task\n" +
		"• 'current provider' - Show current provider\n" +
		"• 'list providers' - Show this list\n"
	assert.Equal(t, want, got)
	assert.Equal(t, []string{"DeepSeek", "Ollama"}, providers.ParseList(got))
}

func TestBackendNoProviders(t *testing.T) {
	b := NewBackend()
	got, err := b.Process("list providers")
	require.NoError(t, err)
	assert.Equal(t, "❌ No providers configured.", got)
	assert.Empty(t, providers.ParseList(got))

	_, err = b.Process("chat hi")
	assert.Error(t, err)
}

func TestBackendSwitching(t *testing.T) {
	b := NewBackend("DeepSeek", "OpenAI")

	got, _ := b.Process("current provider")
	cur, ok := providers.ParseCurrent(got)
	require.True(t, ok)
	assert.True(t, cur.IsAuto())

	got, _ = b.Process("use openai")
	assert.Equal(t, "✅ Switched to OpenAI provider. All subsequent commands will use OpenAI.", got)
	assert.Equal(t, "OpenAI", b.Current())

	got, _ = b.Process("current provider")
	assert.Equal(t, "🎯 Currently using: OpenAI", got)
	cur, ok = providers.ParseCurrent(got)
	require.True(t, ok)
	assert.Equal(t, "openai", cur.Token)

	got, _ = b.Process("use gemini")
	assert.Equal(t, "❌ Provider 'gemini' not available. Available providers: DeepSeek, OpenAI", got)
	assert.Equal(t, "OpenAI", b.Current())

	got, _ = b.Process("use auto")
	assert.True(t, strings.HasPrefix(got, "✅ Switched to auto mode."))
	assert.Equal(t, "", b.Current())
}

func TestBackendChat(t *testing.T) {
	b := NewBackend("DeepSeek", "Ollama")

	got, err := b.Process("chat hello")
	require.NoError(t, err)
	assert.Equal(t, "[Auto-selected: DeepSeek]\n\nYou said: hello", got)

	_, _ = b.Process("use ollama")
	got, _ = b.Process("chat hello")
	assert.Equal(t, "[Using: Ollama]\n\nYou said: hello", got)

	got, _ = b.Process("with deepseek write a haiku")
	assert.Equal(t, "[Using DeepSeek]\n\nYou said: write a haiku", got)

	got, _ = b.Process("echo ping")
	assert.Equal(t, "ping", got)

	_, err = b.Process("nonsense")
	assert.ErrorIs(t, err, ErrNoRoute)
}

func TestSetProvidersDropsMissingCurrent(t *testing.T) {
	b := NewBackend("DeepSeek", "Ollama")
	_, _ = b.Process("use ollama")
	b.SetProviders("DeepSeek")
	assert.Equal(t, "", b.Current())
}

func TestNormalizeProviderName(t *testing.T) {
	tests := map[string]string{
		"openai":      "OpenAI",
		"DEEPSEEK":    "DeepSeek",
		" gemini ":    "Gemini",
		"huggingface": "HuggingFace",
		"mistral":     "Mistral",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeProviderName(in), in)
	}
}

// =============================================================================
// HTTP
// =============================================================================

func newTestServer(t *testing.T, backend *Backend) (*Server, *httptest.Server) {
	t.Helper()
	s := New(backend)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		_ = s.Shutdown(context.Background())
		ts.Close()
	})
	return s, ts
}

func postProcess(t *testing.T, url, body string) (int, wire.ProcessResult) {
	t.Helper()
	resp, err := http.Post(url+"/api/process", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out wire.ProcessResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHealthEndpoint(t *testing.T) {
	_, ts := newTestServer(t, nil)
	h, err := api.New(ts.URL).Health(context.Background())
	require.NoError(t, err)
	assert.True(t, h.Healthy())
	assert.Equal(t, Framework, h.Framework)
	assert.Equal(t, Version, h.Version)
}

func TestProcessEndpoint(t *testing.T) {
	_, ts := newTestServer(t, NewBackend("Ollama"))

	code, out := postProcess(t, ts.URL, `{"prompt":"echo hi"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "hi", out.Response)

	code, out = postProcess(t, ts.URL, `{not json`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid JSON payload", out.Error)

	code, out = postProcess(t, ts.URL, `{"prompt":"   "}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Prompt is required", out.Error)

	code, out = postProcess(t, ts.URL, `{"prompt":"what is this"}`)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, ErrNoRoute.Error(), out.Error)
}

func TestProcessThroughClient(t *testing.T) {
	_, ts := newTestServer(t, NewBackend("Ollama"))
	c := api.New(ts.URL)

	res, err := c.Process(context.Background(), "nonsense")
	require.NoError(t, err)
	assert.True(t, res.Failed())
	assert.Equal(t, ErrNoRoute.Error(), res.Error)
}

func TestRoutesEndpoint(t *testing.T) {
	s, ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/api/routes")
	require.NoError(t, err)
	defer resp.Body.Close()

	var out struct {
		Routes []struct {
			Pattern string `json:"pattern"`
		} `json:"routes"`
		Count int `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, len(s.Backend().Routes()), out.Count)
	require.NotEmpty(t, out.Routes)
	assert.Equal(t, "use auto", out.Routes[0].Pattern)
}

func TestCORSPreflight(t *testing.T) {
	_, ts := newTestServer(t, nil)
	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/process", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	s := New(nil).WithRateLimit(1, 2)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	var codes []int
	for i := 0; i < 3; i++ {
		resp, err := http.Get(ts.URL + "/api/health")
		require.NoError(t, err)
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, http.StatusTooManyRequests}, codes)
}

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
}

// =============================================================================
// WEBSOCKET
// =============================================================================

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url, err := live.Endpoint(ts.URL, "/ws")
	require.NoError(t, err)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, payload string) wire.Frame {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(payload)))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	f, err := wire.DecodeFrame(data)
	require.NoError(t, err)
	return f
}

func TestSocketFrames(t *testing.T) {
	_, ts := newTestServer(t, NewBackend("Ollama"))
	conn := dialWS(t, ts)

	assert.Equal(t, wire.ResponseFrame{Response: "hi"}, roundTrip(t, conn, `{"type":"process","prompt":"echo hi"}`))
	assert.Equal(t, wire.ErrorFrame{Error: ErrNoRoute.Error()}, roundTrip(t, conn, `{"type":"process","prompt":"??"}`))
	assert.Equal(t, wire.ErrorFrame{Error: "Unknown message type"}, roundTrip(t, conn, `{"type":"ping"}`))
	assert.Equal(t, wire.ErrorFrame{Error: "Invalid JSON payload"}, roundTrip(t, conn, `nope`))
}

func TestShutdownClosesSockets(t *testing.T) {
	s, ts := newTestServer(t, nil)
	conn := dialWS(t, ts)
	roundTrip(t, conn, `{"type":"process","prompt":"echo x"}`)

	require.NoError(t, s.Shutdown(context.Background()))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestSocketOpenedAfterShutdownIsClosed(t *testing.T) {
	s, ts := newTestServer(t, nil)
	require.NoError(t, s.Shutdown(context.Background()))

	conn := dialWS(t, ts)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Empty(t, s.conns)
}

// =============================================================================
// END TO END
// =============================================================================

func TestSessionAgainstMockBackend(t *testing.T) {
	_, ts := newTestServer(t, NewBackend("DeepSeek", "Ollama"))

	client := api.New(ts.URL)
	sess := session.New(session.Options{
		Processor:    client,
		Health:       client,
		Known:        []string{"deepseek", "openai", "ollama"},
		RefreshDelay: 100 * time.Millisecond,
		Supersede:    true,
	})
	url, err := live.Endpoint(ts.URL, "/ws")
	require.NoError(t, err)
	mgr := live.NewManager(live.Options{URL: url, AlwaysReconnect: true}, sess)
	sess.Attach(mgr)
	sess.Start()
	defer sess.Close()

	require.Eventually(t, func() bool {
		st := sess.Snapshot()
		return st.Status.Connected() && st.ProvidersLoaded && !st.Current.IsZero()
	}, 5*time.Second, 10*time.Millisecond)

	st := sess.Snapshot()
	assert.Equal(t, "API Online", st.HealthLabel())
	assert.Equal(t, []string{"DeepSeek", "Ollama"}, st.Providers)
	assert.True(t, providers.IsAvailable(st.Badges, "ollama"))
	assert.False(t, providers.IsAvailable(st.Badges, "openai"))
	assert.True(t, st.Current.IsAuto())

	require.True(t, sess.SwitchProvider("ollama"))
	require.Eventually(t, func() bool {
		return sess.Snapshot().Current.Token == "ollama"
	}, 5*time.Second, 10*time.Millisecond)

	require.True(t, sess.Submit("chat hello"))
	require.Eventually(t, func() bool {
		msgs := sess.Messages()
		return len(msgs) > 0 && strings.Contains(msgs[len(msgs)-1].Content, "[Using: Ollama]")
	}, 5*time.Second, 10*time.Millisecond)
}
