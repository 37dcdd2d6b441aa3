// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/parley-tui/internal/api"
)

// Commands builds the tea.Cmd closures that talk to the backend. All
// network work happens inside the returned closures, off the update
// loop; results come back as the typed messages in messages.go.
type Commands struct {
	client  *api.Client
	userID  string
	timeout time.Duration
}

// NewCommands creates a command factory for the given user.
func NewCommands(client *api.Client, userID string, timeout time.Duration) *Commands {
	return &Commands{client: client, userID: userID, timeout: timeout}
}

func (c *Commands) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.timeout)
}

// LoadUser fetches the authenticated user's profile.
func (c *Commands) LoadUser() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.ctx()
		defer cancel()

		user, err := c.client.FetchUser(ctx, c.userID)
		if err != nil {
			return ErrorMsg{Context: "load profile", Err: err}
		}
		return UserLoadedMsg{User: user}
	}
}

// LoadConversations fetches the conversation list.
func (c *Commands) LoadConversations() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.ctx()
		defer cancel()

		convos, err := c.client.FetchConversations(ctx, c.userID)
		if err != nil {
			return ErrorMsg{Context: "load conversations", Err: err}
		}
		return ConversationsLoadedMsg{Conversations: convos}
	}
}

// CreateConversation creates a conversation with the default title.
func (c *Commands) CreateConversation(title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.ctx()
		defer cancel()

		convo, err := c.client.CreateConversation(ctx, c.userID, title)
		if err != nil {
			return ErrorMsg{Context: "create conversation", Err: err}
		}
		return ConversationCreatedMsg{Conversation: convo}
	}
}

// DeleteConversation removes a conversation. A conversation already
// gone on the server still counts as deleted locally.
func (c *Commands) DeleteConversation(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.ctx()
		defer cancel()

		err := c.client.DeleteConversation(ctx, id)
		if err != nil && !isNotFound(err) {
			return ErrorMsg{Context: "delete conversation", Err: err}
		}
		return ConversationDeletedMsg{ID: id}
	}
}

// LoadThread fetches a conversation's messages.
func (c *Commands) LoadThread(conversationID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.ctx()
		defer cancel()

		msgs, err := c.client.FetchMessages(ctx, conversationID)
		if err != nil {
			return ErrorMsg{Context: "load messages", Err: err}
		}
		return ThreadLoadedMsg{ConversationID: conversationID, Messages: msgs}
	}
}

// Send runs the two-stage send cycle: persist the user message, then
// request the assistant reply. A failure in either stage reports which
// stage broke so the thread can roll back correctly.
func (c *Commands) Send(conversationID, content string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.ctx()
		defer cancel()

		userMsg, err := c.client.PostMessage(ctx, conversationID, content)
		if err != nil {
			return SendFailedMsg{
				ConversationID: conversationID,
				Stage:          StagePost,
				Draft:          content,
				Err:            err,
			}
		}

		reply, err := c.client.RequestAIReply(ctx, conversationID, content)
		if err != nil {
			return SendFailedMsg{
				ConversationID: conversationID,
				Stage:          StageReply,
				UserMessage:    userMsg,
				Err:            err,
			}
		}

		return SendConfirmedMsg{
			ConversationID: conversationID,
			UserMessage:    userMsg,
			Reply:          reply,
		}
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, api.ErrNotFound)
}
