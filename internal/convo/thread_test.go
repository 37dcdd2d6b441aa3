// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package convo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/parley-tui/internal/model"
)

func confirmed(id, convoID, content string, isUser bool) model.Message {
	return model.Message{
		ID:             id,
		ConversationID: convoID,
		Content:        content,
		IsUser:         isUser,
	}
}

func pendingCount(t *Thread) int {
	n := 0
	for _, m := range t.Messages() {
		if m.IsPending() {
			n++
		}
	}
	return n
}

func TestReplaceBindsConversation(t *testing.T) {
	th := NewThread()
	msgs := []model.Message{
		confirmed("m-1", "c-1", "hello", true),
		confirmed("m-2", "c-1", "hi there", false),
	}

	th.Replace("c-1", msgs)

	assert.Equal(t, "c-1", th.ConversationID())
	assert.Len(t, th.Messages(), 2)
	assert.False(t, th.Sending())
}

func TestBeginSendAppendsPending(t *testing.T) {
	th := NewThread()
	th.Replace("c-1", nil)

	pending, ok := th.BeginSend("  hello world  ")
	require.True(t, ok)

	assert.Equal(t, "hello world", pending.Content, "content should be trimmed")
	assert.True(t, pending.IsPending())
	assert.True(t, pending.IsUser)
	assert.Equal(t, "c-1", pending.ConversationID)
	assert.True(t, th.Sending())

	require.Len(t, th.Messages(), 1)
	assert.Equal(t, pending.ID, th.Messages()[0].ID)
}

func TestBeginSendPreconditions(t *testing.T) {
	tests := []struct {
		name    string
		setup   func() *Thread
		content string
	}{
		{
			name: "blank content",
			setup: func() *Thread {
				th := NewThread()
				th.Replace("c-1", nil)
				return th
			},
			content: "   \n\t  ",
		},
		{
			name:    "no conversation bound",
			setup:   NewThread,
			content: "hello",
		},
		{
			name: "send already in flight",
			setup: func() *Thread {
				th := NewThread()
				th.Replace("c-1", nil)
				_, ok := th.BeginSend("first")
				require.True(t, ok)
				return th
			},
			content: "second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := tt.setup()
			before := th.Len()

			_, ok := th.BeginSend(tt.content)

			assert.False(t, ok)
			assert.Equal(t, before, th.Len(), "refused send must not touch the thread")
		})
	}
}

// Successful cycle: the pending message becomes the confirmed pair.
func TestConfirmSend(t *testing.T) {
	th := NewThread()
	th.Replace("c-1", []model.Message{confirmed("m-1", "c-1", "earlier", true)})

	pending, ok := th.BeginSend("hello")
	require.True(t, ok)

	userMsg := confirmed("m-2", "c-1", "hello", true)
	aiMsg := confirmed("m-3", "c-1", "hi back", false)
	th.ConfirmSend("c-1", userMsg, aiMsg)

	msgs := th.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "m-1", msgs[0].ID)
	assert.Equal(t, "m-2", msgs[1].ID)
	assert.Equal(t, "m-3", msgs[2].ID)
	assert.False(t, th.Sending())
	assert.Zero(t, pendingCount(th), "no pending message may survive confirmation")
	assert.NotEqual(t, pending.ID, msgs[1].ID, "temp id must be replaced by the server id")
}

// First-stage failure: the thread rolls back to the server's state.
func TestFailSendPost(t *testing.T) {
	th := NewThread()
	th.Replace("c-1", []model.Message{confirmed("m-1", "c-1", "earlier", true)})

	_, ok := th.BeginSend("doomed")
	require.True(t, ok)

	th.FailSendPost("c-1")

	require.Len(t, th.Messages(), 1)
	assert.Equal(t, "m-1", th.Messages()[0].ID)
	assert.False(t, th.Sending())
}

// Second-stage failure: the user message survives, no reply appears.
func TestFailSendReply(t *testing.T) {
	th := NewThread()
	th.Replace("c-1", nil)

	_, ok := th.BeginSend("hello")
	require.True(t, ok)

	userMsg := confirmed("m-2", "c-1", "hello", true)
	th.FailSendReply("c-1", userMsg)

	msgs := th.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "m-2", msgs[0].ID)
	assert.False(t, msgs[0].IsPending())
	assert.False(t, th.Sending())
}

// Stale results from a previously selected conversation are discarded.
func TestStaleResultsDiscarded(t *testing.T) {
	th := NewThread()
	th.Replace("c-1", nil)
	_, ok := th.BeginSend("in old conversation")
	require.True(t, ok)

	// The user switches conversations while the send is in flight.
	th.Replace("c-2", []model.Message{confirmed("m-9", "c-2", "other thread", true)})

	// Results for c-1 arrive late, in every variant.
	th.ConfirmSend("c-1", confirmed("m-2", "c-1", "in old conversation", true), confirmed("m-3", "c-1", "reply", false))
	th.FailSendPost("c-1")
	th.FailSendReply("c-1", confirmed("m-2", "c-1", "in old conversation", true))

	msgs := th.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "m-9", msgs[0].ID)
	assert.False(t, th.Sending())
}

// Switching away and back while a send is in flight reloads a thread
// that may already hold the persisted user message; the late results
// must not duplicate it.
func TestLateResultsAfterReloadNotDuplicated(t *testing.T) {
	th := NewThread()
	th.Replace("c-1", nil)
	_, ok := th.BeginSend("hello")
	require.True(t, ok)

	userMsg := confirmed("m-2", "c-1", "hello", true)
	aiMsg := confirmed("m-3", "c-1", "hi back", false)

	// The user switches away and back; the reload already contains
	// the persisted user message, and the pending record is gone.
	th.Replace("c-1", []model.Message{userMsg})

	th.ConfirmSend("c-1", userMsg, aiMsg)

	msgs := th.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "m-2", msgs[0].ID)
	assert.Equal(t, "m-3", msgs[1].ID)

	// The reply-failure variant must not duplicate either.
	th.Replace("c-1", []model.Message{userMsg})
	th.FailSendReply("c-1", userMsg)
	require.Len(t, th.Messages(), 1)
}

// Switching conversations clears the sending guard so the new thread
// can send immediately.
func TestReplaceResetsSendingGuard(t *testing.T) {
	th := NewThread()
	th.Replace("c-1", nil)
	_, ok := th.BeginSend("in flight")
	require.True(t, ok)

	th.Replace("c-2", nil)

	assert.False(t, th.Sending())
	_, ok = th.BeginSend("new thread")
	assert.True(t, ok)
}

func TestResetClearsEverything(t *testing.T) {
	th := NewThread()
	th.Replace("c-1", []model.Message{confirmed("m-1", "c-1", "hello", true)})
	_, ok := th.BeginSend("pending")
	require.True(t, ok)

	th.Reset()

	assert.Empty(t, th.Messages())
	assert.Empty(t, th.ConversationID())
	assert.False(t, th.Sending())
}

// At most one pending message exists at any point in the cycle.
func TestSinglePendingInvariant(t *testing.T) {
	th := NewThread()
	th.Replace("c-1", nil)

	_, ok := th.BeginSend("first")
	require.True(t, ok)
	assert.Equal(t, 1, pendingCount(th))

	// A second BeginSend is refused while sending.
	_, ok = th.BeginSend("second")
	assert.False(t, ok)
	assert.Equal(t, 1, pendingCount(th))

	th.ConfirmSend("c-1", confirmed("m-1", "c-1", "first", true), confirmed("m-2", "c-1", "reply", false))
	assert.Zero(t, pendingCount(th))

	// The next cycle starts cleanly.
	_, ok = th.BeginSend("second")
	require.True(t, ok)
	assert.Equal(t, 1, pendingCount(th))
}
