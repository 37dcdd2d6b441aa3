// parley TUI - A terminal chat client for the parley backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jeranaias/parley-tui/internal/api"
	"github.com/jeranaias/parley-tui/internal/config"
	"github.com/jeranaias/parley-tui/internal/session"
	"github.com/jeranaias/parley-tui/internal/ui/auth"
	"github.com/jeranaias/parley-tui/internal/ui/chat"
	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// ===== ROOT MODEL =====

type screen int

const (
	screenAuth screen = iota
	screenChat
)

// rootModel owns the screen switch between auth and chat. Each screen
// is a self-contained model; the root forwards everything else.
type rootModel struct {
	cfg    *config.Config
	client *api.Client
	store  *session.Store
	theme  *styles.Theme

	screen screen
	auth   auth.Model
	chat   chat.Model

	width  int
	height int
}

func newRootModel(cfg *config.Config, client *api.Client, store *session.Store, theme *styles.Theme) rootModel {
	m := rootModel{
		cfg:    cfg,
		client: client,
		store:  store,
		theme:  theme,
		screen: screenAuth,
		auth:   auth.New(client, theme),
	}

	// A persisted session skips the auth screen. Expired tokens will
	// surface as auth errors once the chat screen starts fetching.
	if sess := store.Load(); sess.Valid() {
		client.SetToken(sess.Token)
		m.chat = chat.New(client, cfg, sess.UserID, theme)
		m.screen = screenChat
	}
	return m
}

func (m rootModel) Init() tea.Cmd {
	if m.screen == screenChat {
		return m.chat.Init()
	}
	return m.auth.Init()
}

func (m rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Remember the size; the inactive screen gets it replayed on
		// the next switch.
		m.width = msg.Width
		m.height = msg.Height

	case auth.SuccessMsg:
		return m.handleAuthSuccess(msg)

	case chat.LogoutMsg:
		return m.handleLogout()
	}

	switch m.screen {
	case screenChat:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd
	default:
		var cmd tea.Cmd
		m.auth, cmd = m.auth.Update(msg)
		return m, cmd
	}
}

func (m rootModel) handleAuthSuccess(msg auth.SuccessMsg) (tea.Model, tea.Cmd) {
	sess := session.Session{Token: msg.Token, UserID: msg.UserID}
	if err := m.store.Save(sess); err != nil {
		// The session still works for this run; it just won't persist.
		log.Printf("save session: %v", err)
	}
	m.client.SetToken(msg.Token)

	m.chat = chat.New(m.client, m.cfg, msg.UserID, m.theme)
	m.screen = screenChat

	cmds := []tea.Cmd{m.chat.Init()}
	if m.width > 0 {
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m rootModel) handleLogout() (tea.Model, tea.Cmd) {
	if err := m.store.Clear(); err != nil {
		log.Printf("clear session: %v", err)
	}
	m.client.ClearToken()

	m.auth = auth.New(m.client, m.theme)
	m.screen = screenAuth

	cmds := []tea.Cmd{m.auth.Init()}
	if m.width > 0 {
		var cmd tea.Cmd
		m.auth, cmd = m.auth.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m rootModel) View() string {
	if m.screen == screenChat {
		return m.chat.View()
	}
	return m.auth.View()
}

// ===== ENTRY POINT =====

func main() {
	serverURL := flag.String("server", "", "backend base URL (overrides config)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("parley %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "parley requires an interactive terminal")
		os.Exit(1)
	}

	cfg := config.Global()
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}

	setupLogging(cfg.DataDir())

	client := api.NewClient(
		api.WithBaseURL(cfg.ServerURL),
		api.WithTimeout(time.Duration(cfg.TimeoutSecs)*time.Second),
		api.WithMaxRetries(cfg.MaxRetries),
	)
	store := session.NewStore(cfg.DataDir())
	theme := styles.NewTheme()

	program := tea.NewProgram(
		newRootModel(cfg, client, store, theme),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "parley: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging sends the standard logger to a file. Log lines written
// to the terminal would tear the TUI, so when the file cannot be
// opened logging is discarded instead.
func setupLogging(dataDir string) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		log.SetOutput(io.Discard)
		return
	}
	path := filepath.Join(dataDir, "parley.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.Printf("parley %s starting (commit %s)", Version, GitCommit)
}
