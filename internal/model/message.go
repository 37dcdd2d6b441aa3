// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"

	"github.com/google/uuid"

	"github.com/jeranaias/parley-tui/internal/util"
)

// =============================================================================
// PROVENANCE TYPE
// =============================================================================

// Provenance records where a message id came from. A pending message was
// synthesized locally during a send cycle and carries a client-generated
// temporary id; a confirmed message was returned by the server and carries
// the server-assigned id. Identity decisions (dedup, replacement) must key
// off this tag, never off the shape of the id string.
type Provenance int

const (
	// ProvenanceConfirmed marks a server-confirmed message.
	ProvenanceConfirmed Provenance = iota

	// ProvenancePending marks a locally synthesized message awaiting
	// server confirmation.
	ProvenancePending
)

// String returns the string representation of the provenance.
func (p Provenance) String() string {
	if p == ProvenancePending {
		return "pending"
	}
	return "confirmed"
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation thread.
type Message struct {
	// Identity
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`

	// Content
	Content string `json:"content"`
	IsUser  bool   `json:"is_user"`

	// Provenance is client-side bookkeeping, never sent on the wire.
	Provenance Provenance `json:"-"`
}

// NewPendingMessage creates a locally synthesized user message with a
// temporary id, to be shown while the server round trip is in flight.
func NewPendingMessage(conversationID, content string) Message {
	return Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Content:        content,
		IsUser:         true,
		Provenance:     ProvenancePending,
	}
}

// IsPending returns true if the message has not been confirmed by the server.
func (m Message) IsPending() bool {
	return m.Provenance == ProvenancePending
}

// SenderLabel returns a human-readable name for the message sender.
func (m Message) SenderLabel() string {
	if m.IsUser {
		return "You"
	}
	return "AI"
}

// Preview returns a truncated single-line preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m Message) Preview(maxLen int) string {
	return util.TruncateRunes(strings.ReplaceAll(m.Content, "\n", " "), maxLen)
}

// IsEmpty returns true if the message has no content.
func (m Message) IsEmpty() bool {
	return len(strings.TrimSpace(m.Content)) == 0
}
