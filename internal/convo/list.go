// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package convo holds the conversation and message state machines.
// Both managers are pure state: they never perform I/O, and every
// mutation happens through an Apply method invoked with the result of
// a completed request. The UI layer owns scheduling and hands results
// here one at a time.
package convo

import "github.com/jeranaias/parley-tui/internal/model"

// List manages the conversation set and the current selection.
//
// Conversations are kept in server response order, where the last
// element is the most recent. The sidebar shows them newest-first via
// DisplayOrder, which is a pure view transform; the canonical order
// never changes.
type List struct {
	items      []model.Conversation
	selectedID string
	loading    bool
}

// NewList returns an empty list in the loading state, matching the
// screen's initial condition before the first fetch completes.
func NewList() *List {
	return &List{loading: true}
}

// ===== QUERIES =====

// Items returns the conversations in canonical (server) order.
func (l *List) Items() []model.Conversation {
	return l.items
}

// DisplayOrder returns a newest-first copy for the sidebar.
func (l *List) DisplayOrder() []model.Conversation {
	out := make([]model.Conversation, len(l.items))
	for i, c := range l.items {
		out[len(l.items)-1-i] = c
	}
	return out
}

// Selected returns the selected conversation, if any.
func (l *List) Selected() (model.Conversation, bool) {
	for _, c := range l.items {
		if c.ID == l.selectedID {
			return c, true
		}
	}
	return model.Conversation{}, false
}

// SelectedID returns the selected conversation id, or "" when none.
func (l *List) SelectedID() string {
	return l.selectedID
}

// Len returns the number of conversations.
func (l *List) Len() int {
	return len(l.items)
}

// IsEmpty reports whether the user has no conversations.
func (l *List) IsEmpty() bool {
	return len(l.items) == 0
}

// Loading reports whether the initial fetch is still in flight.
func (l *List) Loading() bool {
	return l.loading
}

// ===== MUTATIONS =====

// ApplyLoaded replaces the conversation set with a fetched list and
// auto-selects the most recent conversation. An empty list leaves
// nothing selected.
func (l *List) ApplyLoaded(items []model.Conversation) {
	l.items = items
	l.loading = false
	if len(items) == 0 {
		l.selectedID = ""
		return
	}
	l.selectedID = items[len(items)-1].ID
}

// ApplyCreated appends a newly created conversation and selects it.
// The new conversation becomes the most recent.
func (l *List) ApplyCreated(c model.Conversation) {
	l.items = append(l.items, c)
	l.selectedID = c.ID
}

// Select moves the selection to the given conversation and reports
// whether the id was found. Selecting the current conversation is
// still ok=true: the caller re-triggers a thread reload, which
// refreshes a thread that may have gone stale.
func (l *List) Select(id string) bool {
	for _, c := range l.items {
		if c.ID == id {
			l.selectedID = id
			return true
		}
	}
	return false
}

// ApplyDeleted removes a conversation. Deleting the selected
// conversation clears the selection entirely; the next conversation is
// chosen by the user, not guessed by the client. It reports whether
// the selection was cleared, so the caller knows to reset the thread.
func (l *List) ApplyDeleted(id string) bool {
	idx := -1
	for i, c := range l.items {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	l.items = append(l.items[:idx], l.items[idx+1:]...)
	if l.selectedID != id {
		return false
	}

	l.selectedID = ""
	return true
}
