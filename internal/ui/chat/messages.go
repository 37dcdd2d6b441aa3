// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the main chat screen: the conversation
// sidebar, the message thread, and the composer.
package chat

import "github.com/jeranaias/parley-tui/internal/model"

// ===== RESULT MESSAGES =====
//
// Every completed request re-enters the update loop as one of these.
// Thread-scoped messages carry the conversation id they belong to so
// stale results from a previous selection can be discarded.

// UserLoadedMsg carries the authenticated user's profile.
type UserLoadedMsg struct {
	User model.User
}

// ConversationsLoadedMsg carries the fetched conversation list in
// server order.
type ConversationsLoadedMsg struct {
	Conversations []model.Conversation
}

// ConversationCreatedMsg carries a newly created conversation.
type ConversationCreatedMsg struct {
	Conversation model.Conversation
}

// ConversationDeletedMsg confirms a conversation deletion.
type ConversationDeletedMsg struct {
	ID string
}

// ThreadLoadedMsg carries a conversation's fetched messages.
type ThreadLoadedMsg struct {
	ConversationID string
	Messages       []model.Message
}

// SendConfirmedMsg completes a successful send cycle.
type SendConfirmedMsg struct {
	ConversationID string
	UserMessage    model.Message
	Reply          model.Message
}

// SendStage identifies which half of the send cycle failed.
type SendStage int

const (
	// StagePost is the persist-user-message stage.
	StagePost SendStage = iota
	// StageReply is the request-assistant-reply stage.
	StageReply
)

// SendFailedMsg reports a failed send cycle. For StagePost failures
// Draft holds the text to restore to the composer; for StageReply
// failures UserMessage holds the already-persisted user message.
type SendFailedMsg struct {
	ConversationID string
	Stage          SendStage
	Draft          string
	UserMessage    model.Message
	Err            error
}

// ErrorMsg reports a failed request outside the send cycle.
type ErrorMsg struct {
	Context string
	Err     error
}

// LogoutMsg asks the root model to clear the session and return to the
// auth screen.
type LogoutMsg struct{}
