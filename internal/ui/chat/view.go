// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/parley-tui/internal/model"
	"github.com/jeranaias/parley-tui/internal/util"
)

// ===== VIEW =====

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	thread := m.viewport.View()
	input := m.renderInput()
	status := m.renderStatus()

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, thread)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, input, status)
}

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("parley")

	badge := ""
	if m.user.Username != "" {
		badge = m.theme.UserBadge.Render(m.user.Initial()) + " " + m.user.Username
	}

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(badge) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.Header.Width(m.width).Render(title + strings.Repeat(" ", gap) + badge)
}

// renderSidebar lists conversations newest first. The canonical list
// order never changes; only this view is reversed.
func (m Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(m.theme.SidebarNewButton.Render("+ New Conversation"))
	b.WriteString("\n\n")

	switch {
	case m.list.Loading():
		b.WriteString(m.theme.SidebarEmpty.Render("loading..."))
	case m.list.IsEmpty():
		b.WriteString(m.theme.SidebarEmpty.Render("no conversations yet"))
	default:
		for _, c := range m.list.DisplayOrder() {
			title := runewidth.Truncate(c.DisplayTitle(), sidebarWidth-5, "…")
			// Pad so the selection highlight spans the full row.
			title = util.PadRight(title, sidebarWidth-5)
			if c.ID == m.list.SelectedID() {
				b.WriteString(m.theme.SidebarSelected.Render("> " + title))
			} else {
				b.WriteString(m.theme.SidebarItem.Render("  " + title))
			}
			b.WriteString("\n")
		}
	}

	height := m.height - headerHeight - inputHeight - statusHeight
	return m.theme.Sidebar.Width(sidebarWidth).Height(height).Render(b.String())
}

// refreshThreadView re-renders the message list into the viewport.
func (m *Model) refreshThreadView() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderThread())
}

func (m Model) renderThread() string {
	if m.list.SelectedID() == "" {
		return m.theme.EmptyThread.Width(m.viewport.Width).Render(
			"\nNo conversation selected.\nPress ctrl+n to start one.")
	}

	msgs := m.thread.Messages()
	if len(msgs) == 0 && !m.thread.Sending() {
		return m.theme.EmptyThread.Width(m.viewport.Width).Render(
			"\nNo messages yet. Say hello.")
	}

	var b strings.Builder
	for _, msg := range msgs {
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}

	if m.thread.Sending() {
		b.WriteString(m.spinner.View())
		b.WriteString(m.theme.TypingText.Render(" AI is typing..."))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderMessage(msg model.Message) string {
	var b strings.Builder

	if msg.IsUser {
		b.WriteString(m.theme.UserLabel.Render(msg.SenderLabel()))
	} else {
		b.WriteString(m.theme.AssistantLabel.Render(msg.SenderLabel()))
	}
	b.WriteString("\n")

	switch {
	case msg.IsPending():
		b.WriteString(m.theme.PendingMessage.Render(msg.Content + " …"))
	case !msg.IsUser && m.renderer != nil:
		rendered, err := m.renderer.Render(msg.Content)
		if err != nil {
			b.WriteString(m.theme.AssistantMsg.Render(msg.Content))
		} else {
			b.WriteString(strings.TrimRight(rendered, "\n"))
		}
	case msg.IsUser:
		b.WriteString(m.theme.UserMessage.Render(msg.Content))
	default:
		b.WriteString(m.theme.AssistantMsg.Render(msg.Content))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderInput() string {
	width := m.width - sidebarWidth - 1
	if width < 20 {
		width = 20
	}
	return m.theme.InputContainer.Width(width).Render(m.input.View())
}

func (m Model) renderStatus() string {
	if m.errText != "" {
		return m.theme.StatusBar.Width(m.width).Render(
			m.theme.ErrorBanner.Render("✗ " + m.errText))
	}

	shortcuts := []struct{ key, desc string }{
		{"enter", "send"},
		{"ctrl+n", "new"},
		{"ctrl+d", "delete"},
		{"ctrl+p/j", "switch"},
		{"ctrl+r", "refresh"},
		{"ctrl+l", "logout"},
		{"ctrl+c", "quit"},
	}

	parts := make([]string, len(shortcuts))
	for i, s := range shortcuts {
		parts[i] = m.theme.ShortcutKey.Render(s.key) + " " + m.theme.ShortcutDesc.Render(s.desc)
	}
	return m.theme.StatusBar.Width(m.width).Render(strings.Join(parts, "  "))
}
