// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	t.Setenv("PARLEY_DATA_DIR", t.TempDir())

	cfg := Load()
	if cfg.ServerURL != "http://localhost:8000" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.TimeoutSecs != 30 {
		t.Errorf("TimeoutSecs = %d", cfg.TimeoutSecs)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d", cfg.MaxRetries)
	}
	if !cfg.RenderMarkdown {
		t.Error("RenderMarkdown should default to true")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PARLEY_DATA_DIR", dir)

	content := `
server_url = "https://chat.example.com/"
timeout_secs = 60
render_markdown = false
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Load()
	if cfg.ServerURL != "https://chat.example.com" {
		t.Errorf("ServerURL = %q, want trailing slash stripped", cfg.ServerURL)
	}
	if cfg.TimeoutSecs != 60 {
		t.Errorf("TimeoutSecs = %d", cfg.TimeoutSecs)
	}
	if cfg.RenderMarkdown {
		t.Error("RenderMarkdown should be false")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PARLEY_DATA_DIR", dir)
	t.Setenv("PARLEY_SERVER_URL", "http://env-wins:9000")

	content := `server_url = "http://file-loses:8000"`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Load()
	if cfg.ServerURL != "http://env-wins:9000" {
		t.Errorf("ServerURL = %q, env should override file", cfg.ServerURL)
	}
}

func TestValidationClamps(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PARLEY_DATA_DIR", dir)

	content := `
timeout_secs = 9999
max_retries = -5
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Load()
	if cfg.TimeoutSecs != 300 {
		t.Errorf("TimeoutSecs = %d, want clamped to 300", cfg.TimeoutSecs)
	}
	if cfg.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want clamped to 0", cfg.MaxRetries)
	}
}

func TestMalformedFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PARLEY_DATA_DIR", dir)

	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[broken"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Load()
	if cfg.ServerURL != "http://localhost:8000" {
		t.Errorf("ServerURL = %q, want default after malformed file", cfg.ServerURL)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PARLEY_DATA_DIR", dir)

	cfg := Load()
	cfg.ServerURL = "http://saved:8080"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded := Load()
	if reloaded.ServerURL != "http://saved:8080" {
		t.Errorf("reloaded ServerURL = %q", reloaded.ServerURL)
	}
}
