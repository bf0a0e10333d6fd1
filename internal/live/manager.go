// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package live

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jeranaias/neurogo-tui/internal/wire"
)

const (
	// DefaultReconnectDelay is the fixed delay before a reopen.
	DefaultReconnectDelay = 3 * time.Second

	// MaxFrameSize bounds a single inbound frame.
	// SECURITY: prevents a peer from exhausting memory with one frame.
	MaxFrameSize = 4 * 1024 * 1024

	writeWait     = 10 * time.Second
	handshakeWait = 15 * time.Second
)

var (
	// ErrNotConnected is returned by Send and Disconnect while closed.
	ErrNotConnected = errors.New("websocket not connected")

	// ErrShutdown is returned once the manager has been shut down.
	ErrShutdown = errors.New("live connection shut down")
)

// Endpoint derives the socket URL from the backend origin: https becomes wss,
// anything else becomes ws. The origin's path is replaced by path.
func Endpoint(baseURL, path string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid base URL %q: missing host", baseURL)
	}
	switch strings.ToLower(u.Scheme) {
	case "https", "wss":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u.Path = path
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a Manager.
type Options struct {
	// URL is the ws:// or wss:// endpoint.
	URL string
	// AlwaysReconnect schedules a reopen after every ended attempt.
	AlwaysReconnect bool
	// ReconnectDelay is the fixed reopen delay. Zero means DefaultReconnectDelay.
	ReconnectDelay time.Duration
	// Dialer overrides the websocket dialer.
	Dialer *websocket.Dialer
	// Header is sent with the handshake.
	Header http.Header
	Logger *zap.Logger
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager owns a single live connection.
type Manager struct {
	opts    Options
	handler Handler
	logger  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	conn     *websocket.Conn
	dialing  bool
	manual   map[*websocket.Conn]bool
	timer    *time.Timer
	shutdown bool

	// gorilla/websocket supports one concurrent writer.
	writeMu sync.Mutex

	wg sync.WaitGroup
}

// NewManager creates a manager that reports to h. Nothing is dialed until Start.
func NewManager(opts Options, h Handler) *Manager {
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = DefaultReconnectDelay
	}
	if opts.Dialer == nil {
		opts.Dialer = &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeWait,
		}
	}
	if h == nil {
		h = HandlerFuncs{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		opts:    opts,
		handler: h,
		logger:  logger.Named("live"),
		ctx:     ctx,
		cancel:  cancel,
		manual:  make(map[*websocket.Conn]bool),
	}
}

// URL returns the endpoint.
func (m *Manager) URL() string {
	return m.opts.URL
}

// Start begins a connection attempt in the background. It is a no-op while a
// connection is open or being dialed.
func (m *Manager) Start() {
	m.mu.Lock()
	if m.shutdown || m.conn != nil || m.dialing {
		m.mu.Unlock()
		return
	}
	m.dialing = true
	m.wg.Add(1)
	m.mu.Unlock()

	go m.run()
}

// Connected reports whether a connection is open.
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn != nil
}

// Send writes a process frame. It fails with ErrNotConnected when closed.
func (m *Manager) Send(prompt string) error {
	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(wire.ProcessFrame{Prompt: prompt}); err != nil {
		return fmt.Errorf("send frame: %w", err)
	}
	return nil
}

// Disconnect closes the open connection as if the peer had. In always-on mode
// a reopen is still scheduled.
func (m *Manager) Disconnect() error {
	m.mu.Lock()
	conn := m.conn
	if conn != nil {
		m.manual[conn] = true
	}
	m.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	m.closeConn(conn)
	return nil
}

// Shutdown stops any pending reopen, closes the connection and waits for the
// manager's goroutines. It must not be called from a Handler callback.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	if m.shutdown {
		m.mu.Unlock()
		return
	}
	m.shutdown = true
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	conn := m.conn
	if conn != nil {
		m.manual[conn] = true
	}
	m.mu.Unlock()

	m.cancel()
	if conn != nil {
		m.closeConn(conn)
	}
	m.wg.Wait()
}

// =============================================================================
// CONNECTION LIFECYCLE
// =============================================================================

func (m *Manager) run() {
	defer m.wg.Done()

	if _, err := url.ParseRequestURI(m.opts.URL); err != nil {
		m.mu.Lock()
		m.dialing = false
		m.mu.Unlock()
		m.logger.Error("unusable endpoint", zap.String("url", m.opts.URL), zap.Error(err))
		m.handler.HandleStatus(StatusFailed)
		return
	}

	m.handler.HandleStatus(StatusConnecting)
	conn, resp, err := m.opts.Dialer.DialContext(m.ctx, m.opts.URL, m.opts.Header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		m.mu.Lock()
		m.dialing = false
		down := m.shutdown
		m.mu.Unlock()
		if down {
			return
		}
		m.logger.Warn("dial failed", zap.String("url", m.opts.URL), zap.Error(err))
		m.handler.HandleStatus(StatusError)
		m.ended()
		return
	}

	m.mu.Lock()
	m.dialing = false
	if m.shutdown {
		m.mu.Unlock()
		conn.Close()
		return
	}
	m.conn = conn
	m.mu.Unlock()

	m.logger.Info("connected", zap.String("url", m.opts.URL))
	m.handler.HandleStatus(StatusConnected)

	abnormal := m.readLoop(conn)

	m.mu.Lock()
	if m.conn == conn {
		m.conn = nil
	}
	manual := m.manual[conn]
	delete(m.manual, conn)
	down := m.shutdown
	m.mu.Unlock()
	conn.Close()

	if down {
		return
	}
	if abnormal && !manual {
		m.handler.HandleStatus(StatusError)
	}
	m.ended()
}

// readLoop delivers frames until the connection ends. It reports whether the
// end was abnormal.
func (m *Manager) readLoop(conn *websocket.Conn) bool {
	conn.SetReadLimit(MaxFrameSize)
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				m.logger.Info("peer closed", zap.Error(err))
				return false
			}
			m.logger.Info("read ended", zap.Error(err))
			return true
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		frame, err := wire.DecodeFrame(data)
		if err != nil {
			sample := data
			if len(sample) > 256 {
				sample = sample[:256]
			}
			m.logger.Warn("dropping malformed frame", zap.Error(err), zap.ByteString("sample", sample), zap.Int("len", len(data)))
			continue
		}
		if u, ok := frame.(wire.UnknownFrame); ok {
			m.logger.Warn("unknown message type", zap.String("type", u.Tag))
		}
		m.handler.HandleFrame(frame)
	}
}

// ended reports the close and, in always-on mode, schedules one reopen.
func (m *Manager) ended() {
	m.handler.HandleStatus(StatusDisconnected)
	if !m.opts.AlwaysReconnect {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shutdown {
		return
	}
	m.logger.Debug("reconnect scheduled", zap.Duration("delay", m.opts.ReconnectDelay))
	m.timer = time.AfterFunc(m.opts.ReconnectDelay, m.Start)
}

func (m *Manager) closeConn(conn *websocket.Conn) {
	m.writeMu.Lock()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	m.writeMu.Unlock()
	conn.Close()
}
