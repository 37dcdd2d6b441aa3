// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// DefaultTitle is the title sent when the user creates a new conversation.
// The server fixes the title at creation; the client never renames it.
const DefaultTitle = "New Conversation"

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is a named container of messages owned by one user. The id
// is server-assigned and uniquely identifies the conversation within the
// owning user's set; the messages themselves are fetched separately.
type Conversation struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// DisplayTitle returns the conversation title or a default.
func (c Conversation) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return DefaultTitle
}

// =============================================================================
// USER TYPE
// =============================================================================

// User is the profile of the logged-in account. Display-only: fetched once
// per chat-screen entry and immutable for the life of the session.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Initial returns the uppercase first rune of the username for the avatar
// badge, or "?" if the username is empty.
func (u User) Initial() string {
	for _, r := range u.Username {
		if r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		return string(r)
	}
	return "?"
}
