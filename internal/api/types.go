// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

// ===== REQUEST TYPES =====

// credentialsRequest is the body for both login and signup.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// createConversationRequest is the body for conversation creation.
type createConversationRequest struct {
	UserID string `json:"user_id"`
	Title  string `json:"title"`
}

// postMessageRequest is the body for persisting a message.
type postMessageRequest struct {
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
	IsUser         bool   `json:"is_user"`
}

// generateRequest is the body for requesting an assistant reply.
type generateRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

// ===== RESPONSE TYPES =====

// AuthResponse is returned by login and signup.
type AuthResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}
