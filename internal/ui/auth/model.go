// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth implements the login and signup screen.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/parley-tui/internal/api"
	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// ===== CONSTANTS =====

const (
	submitTimeout = 30 * time.Second

	fieldUsername = 0
	fieldPassword = 1
	fieldConfirm  = 2
)

// Mode selects which form is shown.
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
)

// ===== MESSAGES =====

// SuccessMsg is emitted when authentication completes. The root model
// consumes it and switches to the chat screen.
type SuccessMsg struct {
	Token  string
	UserID string
}

// failedMsg carries an authentication error back to the form.
type failedMsg struct {
	err error
}

// ===== MODEL =====

// Model is the auth screen state.
type Model struct {
	client *api.Client
	theme  *styles.Theme

	mode       Mode
	inputs     []textinput.Model
	focus      int
	submitting bool
	errText    string
	spinner    spinner.Model

	width  int
	height int
}

// New creates the auth screen in login mode.
func New(client *api.Client, theme *styles.Theme) Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	confirm := textinput.New()
	confirm.Placeholder = "confirm password"
	confirm.CharLimit = 128
	confirm.EchoMode = textinput.EchoPassword
	confirm.EchoCharacter = '*'

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	return Model{
		client:  client,
		theme:   theme,
		mode:    ModeLogin,
		inputs:  []textinput.Model{username, password, confirm},
		spinner: sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// fieldCount returns the number of visible inputs for the current mode.
func (m Model) fieldCount() int {
	if m.mode == ModeSignup {
		return 3
	}
	return 2
}

// ===== UPDATE =====

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case failedMsg:
		m.submitting = false
		m.errText = humanizeAuthError(msg.err)
		return m, nil

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateInputs(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.submitting {
		// Only allow bailing out while a request is in flight.
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyTab, tea.KeyDown:
		m.setFocus((m.focus + 1) % m.fieldCount())
		return m, nil

	case tea.KeyShiftTab, tea.KeyUp:
		m.setFocus((m.focus - 1 + m.fieldCount()) % m.fieldCount())
		return m, nil

	case tea.KeyCtrlT:
		return m.toggleMode(), nil

	case tea.KeyEnter:
		return m.submit()
	}

	return m.updateInputs(msg)
}

func (m *Model) setFocus(idx int) {
	m.focus = idx
	for i := range m.inputs {
		if i == idx {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// toggleMode switches between login and signup, clearing transient state.
func (m Model) toggleMode() Model {
	if m.mode == ModeLogin {
		m.mode = ModeSignup
	} else {
		m.mode = ModeLogin
	}
	m.errText = ""
	m.inputs[fieldConfirm].SetValue("")
	if m.focus >= m.fieldCount() {
		m.setFocus(0)
	}
	return m
}

func (m Model) updateInputs(msg tea.Msg) (Model, tea.Cmd) {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

// submit validates the form and dispatches the auth request.
func (m Model) submit() (Model, tea.Cmd) {
	username := strings.TrimSpace(m.inputs[fieldUsername].Value())
	password := m.inputs[fieldPassword].Value()

	if username == "" || password == "" {
		m.errText = "username and password are required"
		return m, nil
	}
	if m.mode == ModeSignup && password != m.inputs[fieldConfirm].Value() {
		// Checked client-side, no request is issued.
		m.errText = "passwords do not match"
		return m, nil
	}

	m.errText = ""
	m.submitting = true
	mode := m.mode
	client := m.client

	submitCmd := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()

		var resp api.AuthResponse
		var err error
		if mode == ModeSignup {
			resp, err = client.Signup(ctx, username, password)
		} else {
			resp, err = client.Login(ctx, username, password)
		}
		if err != nil {
			return failedMsg{err: err}
		}
		return SuccessMsg{Token: resp.Token, UserID: resp.UserID}
	}

	return m, tea.Batch(m.spinner.Tick, submitCmd)
}

// ===== VIEW =====

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	title := "Log In"
	action := "create an account"
	if m.mode == ModeSignup {
		title = "Sign Up"
		action = "log in instead"
	}
	b.WriteString(m.theme.AuthTitle.Render("parley / " + title))
	b.WriteString("\n\n")

	labels := []string{"Username", "Password", "Confirm"}
	for i := 0; i < m.fieldCount(); i++ {
		b.WriteString(m.theme.AuthLabel.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.submitting {
		b.WriteString(m.spinner.View())
		b.WriteString(m.theme.TypingText.Render(" authenticating..."))
	} else {
		b.WriteString(m.theme.ButtonActive.Render(title))
	}
	b.WriteString("\n")

	if m.errText != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.AuthError.Render(m.errText))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.AuthSwitch.Render("ctrl+t to " + action))

	box := m.theme.AuthBox.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

// humanizeAuthError maps transport errors to user-facing text.
func humanizeAuthError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, api.ErrAuthFailed):
		return "invalid username or password"
	case errors.Is(err, api.ErrRateLimited):
		return "too many attempts, try again shortly"
	default:
		return fmt.Sprintf("could not reach the server: %v", err)
	}
}
