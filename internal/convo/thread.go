// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package convo

import (
	"strings"

	"github.com/jeranaias/parley-tui/internal/model"
)

// Thread manages the message list of the selected conversation and the
// optimistic send cycle.
//
// A send goes through two backend stages: persist the user message,
// then request the assistant reply. The pending message placed by
// BeginSend stands in for the user message until the first stage
// confirms it. At most one send is in flight; BeginSend refuses while
// sending is true.
//
// Every mutation is guarded by conversation id. Results arriving for a
// conversation other than the current one are stale and are silently
// discarded, which keeps a slow response from a previous selection from
// corrupting the visible thread.
type Thread struct {
	conversationID string
	messages       []model.Message
	sending        bool
	pendingID      string
}

// NewThread returns an empty thread with no conversation bound.
func NewThread() *Thread {
	return &Thread{}
}

// ===== QUERIES =====

// Messages returns the thread in chronological order.
func (t *Thread) Messages() []model.Message {
	return t.messages
}

// ConversationID returns the bound conversation id, or "" when none.
func (t *Thread) ConversationID() string {
	return t.conversationID
}

// Sending reports whether a send cycle is in flight.
func (t *Thread) Sending() bool {
	return t.sending
}

// Len returns the number of messages, the pending one included.
func (t *Thread) Len() int {
	return len(t.messages)
}

// ===== LOADING =====

// Replace binds the thread to a conversation and installs its fetched
// messages. Any in-flight send belongs to the previous conversation and
// its results will fail the id guard, so the sending flag resets.
func (t *Thread) Replace(conversationID string, msgs []model.Message) {
	t.conversationID = conversationID
	t.messages = msgs
	t.sending = false
	t.pendingID = ""
}

// Reset clears the thread entirely, used when no conversation remains.
func (t *Thread) Reset() {
	t.Replace("", nil)
}

// ===== SEND CYCLE =====

// BeginSend starts the optimistic send cycle. The trimmed content must
// be non-empty, a conversation must be bound, and no send may already
// be in flight; otherwise nothing happens and ok is false. On success
// the returned pending message is already appended to the thread and
// the caller dispatches the network stage with it.
func (t *Thread) BeginSend(content string) (pending model.Message, ok bool) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" || t.conversationID == "" || t.sending {
		return model.Message{}, false
	}

	pending = model.NewPendingMessage(t.conversationID, trimmed)
	t.messages = append(t.messages, pending)
	t.sending = true
	t.pendingID = pending.ID
	return pending, true
}

// ConfirmSend completes a successful send cycle: the pending message is
// replaced by the server-confirmed user message, and the assistant
// reply is appended after it. Results for a different conversation are
// discarded.
func (t *Thread) ConfirmSend(conversationID string, userMsg, aiMsg model.Message) {
	if conversationID != t.conversationID {
		return
	}

	idx := t.pendingIndex()
	if idx >= 0 {
		t.messages[idx] = userMsg
		t.messages = append(t.messages[:idx+1], append([]model.Message{aiMsg}, t.messages[idx+1:]...)...)
	} else {
		// No pending message means the thread was reloaded mid-send
		// and may already hold the persisted records.
		if !t.containsID(userMsg.ID) {
			t.messages = append(t.messages, userMsg)
		}
		if !t.containsID(aiMsg.ID) {
			t.messages = append(t.messages, aiMsg)
		}
	}
	t.sending = false
	t.pendingID = ""
}

// FailSendPost handles a failure in the first stage, before the user
// message was persisted. The pending message is removed so the thread
// matches the server again; the caller restores the draft to the input.
func (t *Thread) FailSendPost(conversationID string) {
	if conversationID != t.conversationID {
		return
	}

	if idx := t.pendingIndex(); idx >= 0 {
		t.messages = append(t.messages[:idx], t.messages[idx+1:]...)
	}
	t.sending = false
	t.pendingID = ""
}

// FailSendReply handles a failure in the second stage, after the user
// message was persisted but before a reply arrived. The pending message
// is swapped for the confirmed user message; the thread keeps what the
// server has.
func (t *Thread) FailSendReply(conversationID string, userMsg model.Message) {
	if conversationID != t.conversationID {
		return
	}

	if idx := t.pendingIndex(); idx >= 0 {
		t.messages[idx] = userMsg
	} else if !t.containsID(userMsg.ID) {
		t.messages = append(t.messages, userMsg)
	}
	t.sending = false
	t.pendingID = ""
}

// containsID reports whether a confirmed message with this id is
// already in the thread.
func (t *Thread) containsID(id string) bool {
	for _, m := range t.messages {
		if m.ID == id && !m.IsPending() {
			return true
		}
	}
	return false
}

// pendingIndex locates the pending message, or -1 when none exists.
// The pending message is nearly always last, but a scan keeps the
// invariant independent of ordering.
func (t *Thread) pendingIndex() int {
	if t.pendingID == "" {
		return -1
	}
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].ID == t.pendingID && t.messages[i].IsPending() {
			return i
		}
	}
	return -1
}
