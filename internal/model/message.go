// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat transcript.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Label returns the speaker label shown in front of a message.
func (r Role) Label() string {
	switch r {
	case RoleUser:
		return "User"
	case RoleAssistant:
		return "AI"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single entry in the transcript.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// IsError marks a synthetic assistant message produced from a failed
	// request. Error messages are shown but never sent back upstream.
	IsError bool `json:"is_error,omitempty"`

	// PERFORMANCE: strings.Builder avoids quadratic allocations during streaming
	content strings.Builder
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) *Message {
	m := &Message{
		ID:        uuid.NewString(),
		Role:      role,
		CreatedAt: time.Now(),
	}
	m.content.WriteString(content)
	m.Content = content
	return m
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates an assistant message seeded with the first
// streamed fragment.
func NewAssistantMessage(content string) *Message {
	return NewMessage(RoleAssistant, content)
}

// NewErrorMessage creates a synthetic assistant message carrying an error text.
func NewErrorMessage(text string) *Message {
	m := NewMessage(RoleAssistant, text)
	m.IsError = true
	return m
}

// Append adds a streamed fragment to the end of the content.
func (m *Message) Append(fragment string) {
	if fragment == "" {
		return
	}
	if m.content.Len() == 0 && m.Content != "" {
		m.content.WriteString(m.Content)
	}
	m.content.WriteString(fragment)
	m.Content = m.content.String()
}

// IsUser returns true if this is a user message.
func (m *Message) IsUser() bool {
	return m.Role == RoleUser
}

// IsAssistant returns true if this is an assistant message.
func (m *Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}

// Clone returns a copy that shares no mutable state with m.
func (m *Message) Clone() *Message {
	c := &Message{
		ID:        m.ID,
		Role:      m.Role,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		IsError:   m.IsError,
	}
	c.content.WriteString(m.Content)
	return c
}
