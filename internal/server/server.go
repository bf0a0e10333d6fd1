// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jeranaias/neurogo-tui/internal/wire"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultAddr is the default listen address.
	DefaultAddr = "localhost:8080"

	// Framework and Version are reported by /api/health.
	Framework = "NeuroGO"
	Version   = "1.0.0"

	// DefaultRateLimit is requests per second allowed per client IP.
	DefaultRateLimit = 20

	// DefaultBurst is the per-IP burst size.
	DefaultBurst = 40

	// MaxRequestSize bounds /api/process bodies.
	MaxRequestSize = 1 << 20

	readHeaderTimeout = 10 * time.Second
	writeWait         = 10 * time.Second
)

// =============================================================================
// SERVER
// =============================================================================

// Server serves the NeuroGO contract over HTTP and WebSocket.
type Server struct {
	backend   *Backend
	logger    *zap.Logger
	rateLimit float64
	burst     int

	upgrader websocket.Upgrader

	mu         sync.Mutex
	httpServer *http.Server
	conns      map[*websocket.Conn]struct{}
	closed     bool
}

// New creates a server answering commands with backend.
func New(backend *Backend) *Server {
	if backend == nil {
		backend = NewBackend(DefaultProviders...)
	}
	return &Server{
		backend:   backend,
		logger:    zap.NewNop(),
		rateLimit: DefaultRateLimit,
		burst:     DefaultBurst,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// WithLogger sets the request logger.
func (s *Server) WithLogger(logger *zap.Logger) *Server {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithRateLimit sets the per-IP rate. A rate of 0 disables limiting.
func (s *Server) WithRateLimit(perSecond float64, burst int) *Server {
	s.rateLimit = perSecond
	s.burst = burst
	return s
}

// Backend returns the command backend.
func (s *Server) Backend() *Backend {
	return s.backend
}

// Handler builds the HTTP handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware(s.logger))
	r.Use(CORSMiddleware())
	if s.rateLimit > 0 {
		r.Use(RateLimitMiddleware(NewRateLimiter(s.rateLimit, s.burst)))
	}

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.POST("/process", s.handleProcess)
	api.GET("/routes", s.handleRoutes)
	r.GET("/ws", s.handleWS)
	return r
}

// Start listens on addr and serves until Shutdown.
func (s *Server) Start(addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Serve serves on an existing listener until Shutdown.
func (s *Server) Serve(l net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return l.Close()
	}
	s.httpServer = srv
	s.mu.Unlock()

	s.logger.Info("mock backend listening", zap.String("addr", l.Addr().String()))
	err := srv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and closes open sockets.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	srv := s.httpServer
	conns := make([]*websocket.Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	// Hijacked connections are not tracked by http.Server.
	for _, c := range conns {
		_ = c.Close()
	}
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// =============================================================================
// HANDLERS
// =============================================================================

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, wire.Health{
		Status:    wire.HealthySentinel,
		Framework: Framework,
		Version:   Version,
	})
}

func (s *Server) handleProcess(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxRequestSize)

	var req wire.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, wire.ProcessResult{Error: "Invalid JSON payload"})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		c.JSON(http.StatusBadRequest, wire.ProcessResult{Error: "Prompt is required"})
		return
	}

	resp, err := s.backend.Process(req.Prompt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, wire.ProcessResult{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, wire.ProcessResult{Response: resp})
}

type routeInfo struct {
	Pattern string `json:"pattern"`
}

func (s *Server) handleRoutes(c *gin.Context) {
	patterns := s.backend.Routes()
	routes := make([]routeInfo, len(patterns))
	for i, p := range patterns {
		routes[i] = routeInfo{Pattern: p}
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes, "count": len(routes)})
}

func (s *Server) handleWS(c *gin.Context) {
	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Info("websocket upgrade failed", zap.Error(err))
		return
	}
	if !s.track(ws, true) {
		_ = ws.Close()
		return
	}
	defer func() {
		s.track(ws, false)
		_ = ws.Close()
	}()

	s.logger.Debug("websocket client connected", zap.String("remote", c.ClientIP()))
	for {
		mt, data, rerr := ws.ReadMessage()
		if rerr != nil {
			if websocket.IsCloseError(rerr,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				s.logger.Debug("websocket peer closed")
			} else {
				s.logger.Debug("websocket read ended", zap.Error(rerr))
			}
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		if err := s.writeFrame(ws, s.answer(data)); err != nil {
			s.logger.Debug("websocket write failed", zap.Error(err))
			return
		}
	}
}

// answer maps one inbound socket frame to its reply.
func (s *Server) answer(data []byte) wire.Frame {
	frame, ok, err := wire.DecodeProcessFrame(data)
	if err != nil {
		return wire.ErrorFrame{Error: "Invalid JSON payload"}
	}
	if !ok {
		return wire.ErrorFrame{Error: "Unknown message type"}
	}
	resp, err := s.backend.Process(frame.Prompt)
	if err != nil {
		return wire.ErrorFrame{Error: err.Error()}
	}
	return wire.ResponseFrame{Response: resp}
}

func (s *Server) writeFrame(ws *websocket.Conn, f wire.Frame) error {
	payload, err := wire.EncodeFrame(f)
	if err != nil {
		return err
	}
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	return ws.WriteMessage(websocket.TextMessage, payload)
}

// track adds or removes a socket from the shutdown set. Adding fails once
// Shutdown has run; the caller closes the socket.
func (s *Server) track(ws *websocket.Conn, open bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !open {
		delete(s.conns, ws)
		return true
	}
	if s.closed {
		return false
	}
	s.conns[ws] = struct{}{}
	return true
}
