// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/neurogo-tui/internal/util"
)

// ErrInvalidConfig wraps every validation failure returned by Load.
var ErrInvalidConfig = errors.New("invalid config")

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete neurogo configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Live      LiveConfig      `toml:"live"`
	Refresh   RefreshConfig   `toml:"refresh"`
	Providers ProvidersConfig `toml:"providers"`
	Log       LogConfig       `toml:"log"`
}

// ServerConfig locates the backend.
type ServerConfig struct {
	// BaseURL is the page origin equivalent: scheme, host and port.
	BaseURL string `toml:"base_url"`
	// ProcessPath is the one-shot command endpoint.
	ProcessPath string `toml:"process_path"`
	// HealthPath is the health endpoint.
	HealthPath string `toml:"health_path"`
	// WSPath is the live socket endpoint. Its scheme follows BaseURL.
	WSPath string `toml:"ws_path"`
	// RequestTimeout bounds one-shot requests. Zero means no timeout.
	RequestTimeout Duration `toml:"request_timeout"`
}

// LiveConfig controls the live connection.
type LiveConfig struct {
	// AlwaysReconnect schedules one reopen after every close.
	AlwaysReconnect bool `toml:"always_reconnect"`
	// ReconnectDelay is the fixed delay before a reopen.
	ReconnectDelay Duration `toml:"reconnect_delay"`
}

// RefreshConfig controls the provider refresh that follows each command.
type RefreshConfig struct {
	// Delay is how long after a command the current provider is re-queried.
	Delay Duration `toml:"delay"`
	// Supersede cancels a pending refresh when a newer one is scheduled.
	Supersede bool `toml:"supersede"`
}

// ProvidersConfig lists the provider identifiers that get availability badges.
type ProvidersConfig struct {
	Known []string `toml:"known"`
}

// LogConfig controls the log sink.
type LogConfig struct {
	// Path is the log file. "-" logs to stderr.
	Path string `toml:"path"`
	// Level is debug, info, warn or error.
	Level string `toml:"level"`
	// MaxSizeMB is the rotation threshold.
	MaxSizeMB int `toml:"max_size_mb"`
}

// Duration wraps time.Duration so it reads and writes as "3s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultKnownProviders are the provider identifiers shown as badges.
var DefaultKnownProviders = []string{"deepseek", "openai", "gemini", "ollama", "huggingface"}

// Default returns the built-in configuration.
func Default() *Config {
	known := make([]string, len(DefaultKnownProviders))
	copy(known, DefaultKnownProviders)

	return &Config{
		Server: ServerConfig{
			BaseURL:     "http://localhost:8080",
			ProcessPath: "/api/process",
			HealthPath:  "/api/health",
			WSPath:      "/ws",
		},
		Live: LiveConfig{
			AlwaysReconnect: true,
			ReconnectDelay:  Duration{3 * time.Second},
		},
		Refresh: RefreshConfig{
			Delay:     Duration{1 * time.Second},
			Supersede: true,
		},
		Providers: ProvidersConfig{
			Known: known,
		},
		Log: LogConfig{
			Level:     "info",
			MaxSizeMB: 10,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the neurogo configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".neurogo"), nil
}

// ConfigPath returns the path to the default TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultLogPath returns the default log file location.
func DefaultLogPath() string {
	dir, err := ConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "neurogo.log")
	}
	return filepath.Join(dir, "neurogo.log")
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads configuration from path, or from the default location when path
// is empty. A missing default file is not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, err
		}
	} else if explicit {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg. Keys absent from the file keep their
// current values.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML writes cfg to path atomically.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# neurogo configuration file\n")
	buf.WriteString("# Generated by neurogo config init - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// String renders cfg as TOML for display.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("<config encode error: %v>", err)
	}
	return buf.String()
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.Server.BaseURL)
	switch {
	case err != nil:
		errs = append(errs, ValidationError{"server.base_url", err.Error()})
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, ValidationError{"server.base_url", fmt.Sprintf("scheme %q must be http or https", u.Scheme)})
	case u.Host == "":
		errs = append(errs, ValidationError{"server.base_url", "missing host"})
	}

	for field, p := range map[string]string{
		"server.process_path": c.Server.ProcessPath,
		"server.health_path":  c.Server.HealthPath,
		"server.ws_path":      c.Server.WSPath,
	} {
		if !strings.HasPrefix(p, "/") {
			errs = append(errs, ValidationError{field, fmt.Sprintf("path %q must start with /", p)})
		}
	}

	if c.Server.RequestTimeout.Duration < 0 {
		errs = append(errs, ValidationError{"server.request_timeout", "must not be negative"})
	}
	if c.Live.ReconnectDelay.Duration <= 0 {
		errs = append(errs, ValidationError{"live.reconnect_delay", "must be positive"})
	}
	if c.Refresh.Delay.Duration < 0 {
		errs = append(errs, ValidationError{"refresh.delay", "must not be negative"})
	}
	for i, p := range c.Providers.Known {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, ValidationError{fmt.Sprintf("providers.known[%d]", i), "must not be empty"})
		}
	}
	if c.Log.MaxSizeMB < 0 {
		errs = append(errs, ValidationError{"log.max_size_mb", "must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills zero values left by a partial config file.
func (c *Config) SetDefaults() {
	d := Default()

	c.Server.BaseURL = strings.TrimSuffix(strings.TrimSpace(c.Server.BaseURL), "/")
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = d.Server.BaseURL
	}
	if c.Server.ProcessPath == "" {
		c.Server.ProcessPath = d.Server.ProcessPath
	}
	if c.Server.HealthPath == "" {
		c.Server.HealthPath = d.Server.HealthPath
	}
	if c.Server.WSPath == "" {
		c.Server.WSPath = d.Server.WSPath
	}
	if c.Live.ReconnectDelay.Duration == 0 {
		c.Live.ReconnectDelay = d.Live.ReconnectDelay
	}
	if len(c.Providers.Known) == 0 {
		c.Providers.Known = d.Providers.Known
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = d.Log.MaxSizeMB
	}
	if c.Log.Path == "" {
		c.Log.Path = DefaultLogPath()
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - NEUROGO_SERVER: overrides server.base_url
//   - NEUROGO_REQUEST_TIMEOUT: overrides server.request_timeout ("30s")
//   - NEUROGO_RECONNECT: "0"/"false" disables live.always_reconnect
//   - NEUROGO_RECONNECT_DELAY: overrides live.reconnect_delay
//   - NEUROGO_PROVIDERS: comma-separated providers.known
//   - NEUROGO_LOG: overrides log.path
//   - NEUROGO_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("NEUROGO_SERVER"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("NEUROGO_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Server.RequestTimeout = Duration{d}
		}
	}
	if v := os.Getenv("NEUROGO_RECONNECT"); v != "" {
		c.Live.AlwaysReconnect = parseBool(v)
	}
	if v := os.Getenv("NEUROGO_RECONNECT_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Live.ReconnectDelay = Duration{d}
		}
	}
	if v := os.Getenv("NEUROGO_PROVIDERS"); v != "" {
		var known []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				known = append(known, p)
			}
		}
		c.Providers.Known = known
	}
	if v := os.Getenv("NEUROGO_LOG"); v != "" {
		c.Log.Path = v
	}
	if v := os.Getenv("NEUROGO_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// LogToStderr reports whether the log path selects stderr.
func (c *Config) LogToStderr() bool {
	return c.Log.Path == "-"
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Providers.Known = append([]string(nil), c.Providers.Known...)
	return &out
}
