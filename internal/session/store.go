// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session persists the authenticated session across runs.
package session

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/parley-tui/internal/util"
)

// ===== CONSTANTS =====

const (
	// sessionFile is the session file name inside the data directory.
	sessionFile = "session.toml"

	// filePerm keeps the token readable only by the owner.
	filePerm = 0600

	// dirPerm keeps the data directory private.
	dirPerm = 0700
)

// ===== TYPES =====

// Session is the persisted credential pair.
type Session struct {
	Token  string `toml:"token"`
	UserID string `toml:"user_id"`
}

// Valid reports whether both fields are present. A session missing
// either field is treated as absent.
func (s Session) Valid() bool {
	return s.Token != "" && s.UserID != ""
}

// Store reads and writes the session file.
type Store struct {
	path string
}

// ===== STORE =====

// NewStore creates a store backed by the given data directory.
func NewStore(dataDir string) *Store {
	return &Store{path: filepath.Join(dataDir, sessionFile)}
}

// Path returns the session file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted session. A missing or unreadable file yields
// a zero session with no error; a corrupt file is cleared so the next
// run starts clean.
func (s *Store) Load() Session {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Session{}
	}

	var sess Session
	if err := toml.Unmarshal(data, &sess); err != nil {
		// Corrupt session file. Remove it rather than failing every
		// startup until the user deletes it by hand.
		os.Remove(s.path)
		return Session{}
	}
	if !sess.Valid() {
		return Session{}
	}
	return sess
}

// Save persists the session atomically with owner-only permissions.
func (s *Store) Save(sess Session) error {
	if !sess.Valid() {
		return errors.New("refusing to save incomplete session")
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(sess); err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := util.AtomicWriteFile(s.path, buf.Bytes(), filePerm, dirPerm); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes the persisted session. Clearing an absent session is
// not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
