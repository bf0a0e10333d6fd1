// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/neurogo-tui/internal/wire"
)

// Default endpoint paths.
const (
	DefaultProcessPath = "/api/process"
	DefaultHealthPath  = "/api/health"

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024
)

var (
	// ErrTransport wraps failures to reach the backend at all.
	ErrTransport = errors.New("transport error")

	// ErrDecode wraps bodies that are not the JSON the endpoint promises.
	ErrDecode = errors.New("decode error")

	// ErrEmptyPrompt is returned by Process for a whitespace-only prompt.
	ErrEmptyPrompt = errors.New("empty prompt")
)

// PERFORMANCE: one pooled transport for every client in the process.
var sharedTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        20,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
	TLSHandshakeTimeout: 10 * time.Second,
	TLSClientConfig: &tls.Config{
		MinVersion: tls.VersionTLS12,
	},
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to one backend.
type Client struct {
	baseURL     string
	processPath string
	healthPath  string
	httpClient  *http.Client
	logger      *zap.Logger
}

// New creates a client for baseURL ("http://host:port"). No request timeout is
// applied until WithTimeout is called.
func New(baseURL string) *Client {
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		processPath: DefaultProcessPath,
		healthPath:  DefaultHealthPath,
		httpClient:  &http.Client{Transport: sharedTransport},
		logger:      zap.NewNop(),
	}
}

// WithTimeout bounds every request. Zero removes the bound.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient = &http.Client{Transport: c.httpClient.Transport, Timeout: timeout}
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// WithPaths overrides the process and health paths. Empty values keep the default.
func (c *Client) WithPaths(processPath, healthPath string) *Client {
	if processPath != "" {
		c.processPath = processPath
	}
	if healthPath != "" {
		c.healthPath = healthPath
	}
	return c
}

// WithLogger sets the logger. Nil keeps the current one.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// BaseURL returns the backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// ENDPOINTS
// =============================================================================

// Health queries the health endpoint. Any JSON body with a status field is
// returned; callers check Healthy().
func (c *Client) Health(ctx context.Context) (wire.Health, error) {
	var h wire.Health
	status, body, err := c.do(ctx, http.MethodGet, c.healthPath, nil)
	if err != nil {
		return h, err
	}
	if err := json.Unmarshal(body, &h); err != nil {
		return h, fmt.Errorf("%w: health (HTTP %d): %v", ErrDecode, status, err)
	}
	return h, nil
}

// Process sends one command through the one-shot endpoint.
func (c *Client) Process(ctx context.Context, prompt string) (wire.ProcessResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return wire.ProcessResult{}, ErrEmptyPrompt
	}
	body, err := json.Marshal(wire.ProcessRequest{Prompt: prompt})
	if err != nil {
		return wire.ProcessResult{}, fmt.Errorf("failed to encode request: %w", err)
	}
	return c.ProcessRaw(ctx, body)
}

// ProcessRaw posts body to the process endpoint verbatim. The backend answers
// invalid input with HTTP 400 and an error field, which is returned as a
// result rather than an error.
func (c *Client) ProcessRaw(ctx context.Context, body []byte) (wire.ProcessResult, error) {
	var res wire.ProcessResult
	status, data, err := c.do(ctx, http.MethodPost, c.processPath, body)
	if err != nil {
		return res, err
	}
	if err := json.Unmarshal(data, &res); err != nil {
		return res, fmt.Errorf("%w: process (HTTP %d): %v", ErrDecode, status, err)
	}
	if status >= 300 && !res.Failed() {
		res.Error = fmt.Sprintf("HTTP %d", status)
	}
	return res, nil
}

// ProbeResult is the outcome of a diagnostic request.
type ProbeResult struct {
	StatusCode int
	Status     string
	// Body is pretty-printed when it is JSON, verbatim otherwise.
	Body string
	// JSON reports whether Body was valid JSON.
	JSON     bool
	Duration time.Duration
}

// Probe issues an arbitrary request for diagnostics. Non-2xx statuses are not
// errors; only transport failures are.
func (c *Client) Probe(ctx context.Context, method, path string, body []byte) (ProbeResult, error) {
	start := time.Now()
	req, err := c.newRequest(ctx, strings.ToUpper(method), path, body)
	if err != nil {
		return ProbeResult{}, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ProbeResult{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return ProbeResult{}, err
	}

	out := ProbeResult{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       string(data),
		Duration:   time.Since(start),
	}
	var pretty bytes.Buffer
	if json.Indent(&pretty, data, "", "  ") == nil {
		out.Body = pretty.String()
		out.JSON = true
	}
	return out, nil
}

// =============================================================================
// PLUMBING
// =============================================================================

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return 0, nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return 0, nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	c.logger.Debug("request done",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, data, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	// SECURITY: read one byte past the limit to detect oversize bodies.
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrTransport, err)
	}
	if len(data) > MaxResponseSize {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrDecode, MaxResponseSize)
	}
	return data, nil
}
