// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

// =============================================================================
// PROVENANCE TESTS
// =============================================================================

func TestNewPendingMessage(t *testing.T) {
	msg := NewPendingMessage("c1", "hello")

	if !msg.IsPending() {
		t.Error("NewPendingMessage should be pending")
	}
	if !msg.IsUser {
		t.Error("Pending messages are always user-authored")
	}
	if msg.ConversationID != "c1" {
		t.Errorf("ConversationID = %q, want c1", msg.ConversationID)
	}
	if msg.ID == "" {
		t.Error("Pending message should carry a temporary id")
	}
}

func TestNewPendingMessage_UniqueIDs(t *testing.T) {
	a := NewPendingMessage("c1", "one")
	b := NewPendingMessage("c1", "two")
	if a.ID == b.ID {
		t.Errorf("Temporary ids should be unique, both were %q", a.ID)
	}
}

func TestMessage_ConfirmedByDefault(t *testing.T) {
	msg := Message{ID: "m1", Content: "hi"}
	if msg.IsPending() {
		t.Error("Zero-value provenance should be confirmed")
	}
	if msg.Provenance.String() != "confirmed" {
		t.Errorf("Provenance.String() = %q, want confirmed", msg.Provenance.String())
	}
}

// =============================================================================
// MESSAGE HELPER TESTS
// =============================================================================

func TestMessage_SenderLabel(t *testing.T) {
	user := Message{IsUser: true}
	ai := Message{IsUser: false}

	if user.SenderLabel() != "You" {
		t.Errorf("SenderLabel() = %q, want You", user.SenderLabel())
	}
	if ai.SenderLabel() != "AI" {
		t.Errorf("SenderLabel() = %q, want AI", ai.SenderLabel())
	}
}

func TestMessage_Preview(t *testing.T) {
	tests := []struct {
		name    string
		content string
		maxLen  int
		want    string
	}{
		{"short content unchanged", "hi there", 20, "hi there"},
		{"long content truncated", strings.Repeat("a", 30), 10, "aaaaaaa..."},
		{"newlines flattened", "line1\nline2", 20, "line1 line2"},
		{"tiny max keeps prefix", "hello", 2, "he"},
		{"unicode safe", "héllo wörld this is long", 10, "héllo w..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Message{Content: tc.content}.Preview(tc.maxLen)
			if got != tc.want {
				t.Errorf("Preview(%d) = %q, want %q", tc.maxLen, got, tc.want)
			}
		})
	}
}

func TestMessage_IsEmpty(t *testing.T) {
	if !(Message{Content: "   \n"}).IsEmpty() {
		t.Error("Whitespace-only content should be empty")
	}
	if (Message{Content: "x"}).IsEmpty() {
		t.Error("Non-blank content should not be empty")
	}
}

// =============================================================================
// CONVERSATION / USER TESTS
// =============================================================================

func TestConversation_DisplayTitle(t *testing.T) {
	if got := (Conversation{Title: "Plans"}).DisplayTitle(); got != "Plans" {
		t.Errorf("DisplayTitle() = %q, want Plans", got)
	}
	if got := (Conversation{}).DisplayTitle(); got != DefaultTitle {
		t.Errorf("DisplayTitle() = %q, want %q", got, DefaultTitle)
	}
}

func TestUser_Initial(t *testing.T) {
	tests := []struct {
		username string
		want     string
	}{
		{"alice", "A"},
		{"Bob", "B"},
		{"", "?"},
		{"ümit", "Ü"},
	}

	for _, tc := range tests {
		got := User{Username: tc.username}.Initial()
		if tc.username == "ümit" {
			// Non-ASCII initials are passed through unchanged.
			if got != "ü" {
				t.Errorf("Initial(%q) = %q, want ü", tc.username, got)
			}
			continue
		}
		if got != tc.want {
			t.Errorf("Initial(%q) = %q, want %q", tc.username, got, tc.want)
		}
	}
}
