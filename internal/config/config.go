// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads client settings from a TOML file with
// environment variable overrides.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/parley-tui/internal/util"
)

// ===== CONSTANTS =====

const (
	// dataDirName is the per-user directory under $HOME.
	dataDirName = ".parley"

	// configFile is the config file name inside the data directory.
	configFile = "config.toml"

	// defaultServerURL is used when no backend address is configured.
	defaultServerURL = "http://localhost:8000"

	// Timeout bounds in seconds.
	defaultTimeoutSecs = 30
	minTimeoutSecs     = 5
	maxTimeoutSecs     = 300

	// Retry bounds for idempotent requests.
	defaultMaxRetries = 3
	maxMaxRetries     = 10
)

// ===== TYPES =====

// Config holds all client settings.
type Config struct {
	// ServerURL is the chat backend base address.
	ServerURL string `toml:"server_url"`

	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs"`

	// MaxRetries is the retry count for idempotent requests.
	MaxRetries int `toml:"max_retries"`

	// RenderMarkdown enables markdown rendering of assistant replies.
	RenderMarkdown bool `toml:"render_markdown"`

	// dataDir is resolved at load time, not persisted.
	dataDir string
}

var (
	global   *Config
	globalMu sync.Mutex
)

// ===== LOADING =====

// Default returns a config with all defaults applied.
func Default() *Config {
	return &Config{
		ServerURL:      defaultServerURL,
		TimeoutSecs:    defaultTimeoutSecs,
		MaxRetries:     defaultMaxRetries,
		RenderMarkdown: true,
	}
}

// Global returns the shared config, loading it on first use.
func Global() *Config {
	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		global = Load()
	}
	return global
}

// Load reads the config file, applies env overrides, and validates.
// A missing or unreadable file falls back to defaults.
func Load() *Config {
	cfg := Default()
	cfg.dataDir = resolveDataDir()

	path := filepath.Join(cfg.dataDir, configFile)
	if data, err := os.ReadFile(path); err == nil {
		// Unknown keys are tolerated so old binaries can read
		// newer config files.
		if err := toml.Unmarshal(data, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "warning: ignoring malformed config %s: %v\n", path, err)
			cfg = Default()
			cfg.dataDir = resolveDataDir()
		}
	}

	cfg.applyEnv()
	cfg.validate()
	return cfg
}

// applyEnv overrides file settings from PARLEY_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("PARLEY_SERVER_URL"); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv("PARLEY_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TimeoutSecs = n
		}
	}
	if v := os.Getenv("PARLEY_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("PARLEY_RENDER_MARKDOWN"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.RenderMarkdown = b
		}
	}
}

// validate clamps out-of-range values instead of failing startup.
func (c *Config) validate() {
	c.ServerURL = strings.TrimRight(strings.TrimSpace(c.ServerURL), "/")
	if c.ServerURL == "" {
		c.ServerURL = defaultServerURL
	}
	if c.TimeoutSecs < minTimeoutSecs {
		c.TimeoutSecs = minTimeoutSecs
	}
	if c.TimeoutSecs > maxTimeoutSecs {
		c.TimeoutSecs = maxTimeoutSecs
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.MaxRetries > maxMaxRetries {
		c.MaxRetries = maxMaxRetries
	}
}

// ===== PERSISTENCE =====

// Save writes the config file atomically.
func (c *Config) Save() error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	path := filepath.Join(c.dataDir, configFile)
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0644, 0700); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DataDir returns the per-user data directory.
func (c *Config) DataDir() string {
	return c.dataDir
}

// resolveDataDir picks the data directory, honoring PARLEY_DATA_DIR.
func resolveDataDir() string {
	if dir := os.Getenv("PARLEY_DATA_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return dataDirName
	}
	return filepath.Join(home, dataDirName)
}
