// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/parley-tui/internal/api"
	"github.com/jeranaias/parley-tui/internal/config"
	"github.com/jeranaias/parley-tui/internal/convo"
	"github.com/jeranaias/parley-tui/internal/model"
	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// ===== CONSTANTS =====

const (
	sidebarWidth  = 28
	headerHeight  = 1
	inputHeight   = 3
	statusHeight  = 1
	maxInputChars = 4000
)

// ===== MODEL =====

// Model is the chat screen state. All mutation happens in Update; the
// runtime delivers messages one at a time, so handlers never race.
type Model struct {
	cmds  *Commands
	theme *styles.Theme
	cfg   *config.Config

	user   model.User
	list   *convo.List
	thread *convo.Thread

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	errText string
	ready   bool
	width   int
	height  int
}

// New creates the chat screen for an authenticated user.
func New(client *api.Client, cfg *config.Config, userID string, theme *styles.Theme) Model {
	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.CharLimit = maxInputChars
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	var renderer *glamour.TermRenderer
	if cfg.RenderMarkdown {
		// Renderer failure just means plain-text replies.
		renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
	}

	return Model{
		cmds:     NewCommands(client, userID, time.Duration(cfg.TimeoutSecs)*time.Second),
		theme:    theme,
		cfg:      cfg,
		list:     convo.NewList(),
		thread:   convo.NewThread(),
		input:    input,
		spinner:  sp,
		renderer: renderer,
	}
}

// Init kicks off the session bootstrap: profile and conversation list
// load in parallel.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.cmds.LoadUser(),
		m.cmds.LoadConversations(),
		textinput.Blink,
	)
}

// ===== UPDATE =====

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case UserLoadedMsg:
		m.user = msg.User
		return m, nil

	case ConversationsLoadedMsg:
		return m.handleConversationsLoaded(msg)

	case ConversationCreatedMsg:
		return m.handleConversationCreated(msg)

	case ConversationDeletedMsg:
		return m.handleConversationDeleted(msg)

	case ThreadLoadedMsg:
		return m.handleThreadLoaded(msg)

	case SendConfirmedMsg:
		return m.handleSendConfirmed(msg)

	case SendFailedMsg:
		return m.handleSendFailed(msg)

	case ErrorMsg:
		// An expired or revoked token sends the user back to auth.
		if errors.Is(msg.Err, api.ErrAuthFailed) {
			return m, func() tea.Msg { return LogoutMsg{} }
		}
		m.errText = msg.Context + ": " + msg.Err.Error()
		return m, nil

	case spinner.TickMsg:
		if !m.thread.Sending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateComponents(msg)
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	threadWidth := msg.Width - sidebarWidth - 1
	threadHeight := msg.Height - headerHeight - inputHeight - statusHeight
	if threadWidth < 20 {
		threadWidth = 20
	}
	if threadHeight < 3 {
		threadHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(threadWidth, threadHeight)
		m.ready = true
	} else {
		m.viewport.Width = threadWidth
		m.viewport.Height = threadHeight
	}
	m.input.Width = threadWidth - 4
	m.refreshThreadView()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyCtrlN:
		return m, m.cmds.CreateConversation(model.DefaultTitle)

	case tea.KeyCtrlD:
		if id := m.list.SelectedID(); id != "" {
			return m, m.cmds.DeleteConversation(id)
		}
		return m, nil

	case tea.KeyCtrlP:
		return m.selectAdjacent(-1)

	case tea.KeyCtrlJ:
		return m.selectAdjacent(1)

	case tea.KeyCtrlR:
		// Re-select the current conversation to reload its thread.
		if id := m.list.SelectedID(); id != "" && m.list.Select(id) {
			m.errText = ""
			return m, m.cmds.LoadThread(id)
		}
		return m, nil

	case tea.KeyCtrlL:
		return m, func() tea.Msg { return LogoutMsg{} }

	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyEnter:
		return m.handleSend()
	}

	return m.updateComponents(msg)
}

// selectAdjacent moves the selection through the canonical order and
// reloads the thread when the selection changes.
func (m Model) selectAdjacent(delta int) (Model, tea.Cmd) {
	items := m.list.Items()
	if len(items) == 0 {
		return m, nil
	}

	// With nothing selected (after deleting the selected conversation)
	// start from the most recent.
	if m.list.SelectedID() == "" {
		id := items[len(items)-1].ID
		m.list.Select(id)
		m.errText = ""
		return m, m.cmds.LoadThread(id)
	}

	cur := 0
	for i, c := range items {
		if c.ID == m.list.SelectedID() {
			cur = i
			break
		}
	}
	next := cur + delta
	if next < 0 || next >= len(items) {
		return m, nil
	}

	if m.list.Select(items[next].ID) {
		m.errText = ""
		return m, m.cmds.LoadThread(items[next].ID)
	}
	return m, nil
}

// handleSend starts the optimistic send cycle.
func (m Model) handleSend() (Model, tea.Cmd) {
	pending, ok := m.thread.BeginSend(m.input.Value())
	if !ok {
		return m, nil
	}

	m.input.SetValue("")
	m.errText = ""
	m.refreshThreadView()
	return m, tea.Batch(
		m.cmds.Send(pending.ConversationID, pending.Content),
		m.spinner.Tick,
	)
}

func (m Model) handleConversationsLoaded(msg ConversationsLoadedMsg) (Model, tea.Cmd) {
	m.list.ApplyLoaded(msg.Conversations)
	if id := m.list.SelectedID(); id != "" {
		return m, m.cmds.LoadThread(id)
	}
	m.thread.Reset()
	m.refreshThreadView()
	return m, nil
}

func (m Model) handleConversationCreated(msg ConversationCreatedMsg) (Model, tea.Cmd) {
	m.list.ApplyCreated(msg.Conversation)
	// A fresh conversation has no history worth fetching.
	m.thread.Replace(msg.Conversation.ID, nil)
	m.errText = ""
	m.refreshThreadView()
	return m, nil
}

func (m Model) handleConversationDeleted(msg ConversationDeletedMsg) (Model, tea.Cmd) {
	// Deleting the selected conversation leaves nothing selected; the
	// thread clears and the user picks the next conversation.
	if !m.list.ApplyDeleted(msg.ID) {
		return m, nil
	}
	m.thread.Reset()
	m.refreshThreadView()
	return m, nil
}

func (m Model) handleThreadLoaded(msg ThreadLoadedMsg) (Model, tea.Cmd) {
	// A load for a conversation no longer selected is stale.
	if msg.ConversationID != m.list.SelectedID() {
		return m, nil
	}
	m.thread.Replace(msg.ConversationID, msg.Messages)
	m.refreshThreadView()
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) handleSendConfirmed(msg SendConfirmedMsg) (Model, tea.Cmd) {
	m.thread.ConfirmSend(msg.ConversationID, msg.UserMessage, msg.Reply)
	m.refreshThreadView()
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) handleSendFailed(msg SendFailedMsg) (Model, tea.Cmd) {
	switch msg.Stage {
	case StagePost:
		m.thread.FailSendPost(msg.ConversationID)
		// Give the user their draft back to retry.
		if msg.ConversationID == m.thread.ConversationID() && m.input.Value() == "" {
			m.input.SetValue(msg.Draft)
		}
		m.errText = "message not sent: " + msg.Err.Error()
	case StageReply:
		m.thread.FailSendReply(msg.ConversationID, msg.UserMessage)
		m.errText = "no reply: " + msg.Err.Error()
	}
	m.refreshThreadView()
	return m, nil
}

func (m Model) updateComponents(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	// Keystrokes belong to the composer; the viewport would otherwise
	// scroll on its default j/k bindings while the user types.
	if _, isKey := msg.(tea.KeyMsg); !isKey {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}
