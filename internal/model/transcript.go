// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "sync"

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Turn is the role/content pair sent upstream as conversation context.
type Turn struct {
	Role    Role
	Content string
}

// Transcript is the ordered, append-only list of messages of a session.
// Messages are never removed or reordered; only the content of an existing
// message may grow.
type Transcript struct {
	mu       sync.RWMutex
	messages []*Message
	index    map[string]int
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{
		index: make(map[string]int),
	}
}

// Append adds a message to the end of the transcript.
func (t *Transcript) Append(msg *Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.index[msg.ID] = len(t.messages)
	t.messages = append(t.messages, msg)
}

// AppendContent appends a fragment to the message with the given ID.
// Returns false if no such message exists.
func (t *Transcript) AppendContent(id, fragment string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	i, ok := t.index[id]
	if !ok {
		return false
	}
	t.messages[i].Append(fragment)
	return true
}

// MarkError flags the message with the given ID as an error message.
func (t *Transcript) MarkError(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	i, ok := t.index[id]
	if !ok {
		return false
	}
	t.messages[i].IsError = true
	return true
}

// Get returns a copy of the message with the given ID.
func (t *Transcript) Get(id string) (*Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	i, ok := t.index[id]
	if !ok {
		return nil, false
	}
	return t.messages[i].Clone(), true
}

// Messages returns a copy of all messages in order.
func (t *Transcript) Messages() []*Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*Message, len(t.messages))
	for i, m := range t.messages {
		out[i] = m.Clone()
	}
	return out
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Context returns the turns sent upstream with a request. Error messages are
// local annotations and are left out.
func (t *Transcript) Context() []Turn {
	t.mu.RLock()
	defer t.mu.RUnlock()

	turns := make([]Turn, 0, len(t.messages))
	for _, m := range t.messages {
		if m.IsError {
			continue
		}
		turns = append(turns, Turn{Role: m.Role, Content: m.Content})
	}
	return turns
}
