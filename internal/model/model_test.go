// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestRole_Label(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "User"},
		{RoleAssistant, "AI"},
		{Role("other"), "other"},
	}

	for _, tc := range tests {
		if got := tc.role.Label(); got != tc.want {
			t.Errorf("Role(%q).Label() = %q, want %q", tc.role, got, tc.want)
		}
	}
}

func TestMessage_Append(t *testing.T) {
	m := NewAssistantMessage("Hi")
	m.Append(" there")
	m.Append("")
	m.Append("!")

	if m.Content != "Hi there!" {
		t.Errorf("Content = %q, want %q", m.Content, "Hi there!")
	}
}

func TestMessage_IDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		m := NewUserMessage("x")
		if m.ID == "" {
			t.Fatal("empty message ID")
		}
		if seen[m.ID] {
			t.Fatalf("duplicate message ID %q", m.ID)
		}
		seen[m.ID] = true
	}
}

func TestMessage_CloneIsIndependent(t *testing.T) {
	m := NewAssistantMessage("a")
	c := m.Clone()
	c.Append("b")

	if m.Content != "a" {
		t.Errorf("original mutated: %q", m.Content)
	}
	if c.Content != "ab" {
		t.Errorf("clone Content = %q, want %q", c.Content, "ab")
	}
}

// =============================================================================
// TRANSCRIPT TESTS
// =============================================================================

func TestTranscript_AppendKeepsOrder(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewUserMessage("one"))
	tr.Append(NewAssistantMessage("two"))
	tr.Append(NewUserMessage("three"))

	msgs := tr.Messages()
	if len(msgs) != 3 {
		t.Fatalf("Len = %d, want 3", len(msgs))
	}
	want := []string{"one", "two", "three"}
	for i, m := range msgs {
		if m.Content != want[i] {
			t.Errorf("message %d = %q, want %q", i, m.Content, want[i])
		}
	}
}

func TestTranscript_AppendContent(t *testing.T) {
	tr := NewTranscript()
	reply := NewAssistantMessage("Hi")
	tr.Append(reply)

	if !tr.AppendContent(reply.ID, " there") {
		t.Fatal("AppendContent returned false for known ID")
	}
	if tr.AppendContent("missing", "x") {
		t.Error("AppendContent returned true for unknown ID")
	}

	got, ok := tr.Get(reply.ID)
	if !ok || got.Content != "Hi there" {
		t.Errorf("Get = %+v, %v; want content %q", got, ok, "Hi there")
	}
}

func TestTranscript_ContextSkipsErrors(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewUserMessage("Hello"))
	tr.Append(NewErrorMessage("rate limited"))
	tr.Append(NewUserMessage("again"))

	turns := tr.Context()
	if len(turns) != 2 {
		t.Fatalf("Context() has %d turns, want 2", len(turns))
	}
	if turns[0].Content != "Hello" || turns[1].Content != "again" {
		t.Errorf("Context() = %+v", turns)
	}
}

func TestTranscript_MessagesReturnsCopies(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewUserMessage("Hello"))

	msgs := tr.Messages()
	msgs[0].Content = "changed"

	if tr.Messages()[0].Content != "Hello" {
		t.Error("Messages() exposed internal state")
	}
}
