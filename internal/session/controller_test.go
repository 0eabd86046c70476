// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarceloDCastro/chat-ai/internal/completion"
	"github.com/MarceloDCastro/chat-ai/internal/model"
)

// =============================================================================
// SUBMIT TESTS
// =============================================================================

func TestSubmit_AppendsUserMessageBeforeSending(t *testing.T) {
	c := NewController()

	req, err := c.Submit("Hello")
	require.NoError(t, err)

	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, "Hello", msgs[0].Content)

	assert.Equal(t, StateSending, c.State())
	assert.True(t, c.IsLoading())
	assert.NotEmpty(t, req.ID)
	assert.Equal(t, []completion.Message{{Role: "user", Content: "Hello"}}, req.Messages)
}

func TestSubmit_EmptyText(t *testing.T) {
	c := NewController()

	_, err := c.Submit("")
	require.NoError(t, err)

	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "", msgs[0].Content)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
}

func TestSubmit_BusyWhileLoading(t *testing.T) {
	c := NewController()

	req, err := c.Submit("first")
	require.NoError(t, err)

	_, err = c.Submit("second")
	assert.True(t, errors.Is(err, ErrBusy))
	assert.Equal(t, 1, c.Len())

	c.HandleFragment(req.ID, "partial")
	_, err = c.Submit("third")
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, 2, c.Len())
}

func TestSubmit_ContextIncludesHistory(t *testing.T) {
	c := NewController()

	req, _ := c.Submit("Hello")
	c.HandleFragment(req.ID, "Hi")
	c.HandleDone(req.ID)

	req, err := c.Submit("How are you?")
	require.NoError(t, err)

	assert.Equal(t, []completion.Message{
		{Role: "user", Content: "Hello"},
		{Role: "assistant", Content: "Hi"},
		{Role: "user", Content: "How are you?"},
	}, req.Messages)
}

// =============================================================================
// STREAMING TESTS
// =============================================================================

func TestStreaming_FragmentsConcatenate(t *testing.T) {
	c := NewController()
	req, _ := c.Submit("Hello")

	assert.True(t, c.HandleFragment(req.ID, "Hi"))
	assert.Equal(t, StateStreaming, c.State())
	assert.True(t, c.HandleFragment(req.ID, " there"))
	assert.True(t, c.HandleDone(req.ID))

	msgs := c.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Hi there", msgs[1].Content)
	assert.False(t, msgs[1].IsError)
	assert.Equal(t, StateIdle, c.State())
	assert.False(t, c.IsLoading())
}

func TestStreaming_DoneWithoutFragments(t *testing.T) {
	c := NewController()
	req, _ := c.Submit("Hello")

	c.HandleDone(req.ID)

	assert.Equal(t, 1, c.Len())
	assert.False(t, c.IsLoading())
}

func TestStreaming_StaleEventsDropped(t *testing.T) {
	c := NewController()
	first, _ := c.Submit("one")
	c.HandleDone(first.ID)

	second, _ := c.Submit("two")

	assert.False(t, c.HandleFragment(first.ID, "late"))
	assert.False(t, c.HandleError(first.ID, errors.New("late")))
	assert.False(t, c.HandleDone("unknown"))
	assert.False(t, c.Apply(nil))
	assert.True(t, c.IsLoading())

	c.HandleFragment(second.ID, "ok")
	c.HandleDone(second.ID)

	assert.False(t, c.HandleFragment(second.ID, "after done"))

	msgs := c.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "ok", msgs[2].Content)
}

func TestStreaming_ManySubmissions(t *testing.T) {
	c := NewController()

	const n = 10
	for i := 0; i < n; i++ {
		req, err := c.Submit(fmt.Sprintf("msg %d", i))
		require.NoError(t, err)
		switch i % 3 {
		case 0:
			c.Apply(FragmentEvent{RequestID: req.ID, Text: "a"})
			c.Apply(FragmentEvent{RequestID: req.ID, Text: "b"})
			c.Apply(DoneEvent{RequestID: req.ID})
		case 1:
			c.Apply(ErrorEvent{RequestID: req.ID, Err: errors.New("boom")})
		case 2:
			c.Apply(DoneEvent{RequestID: req.ID})
		}
	}

	users, assistants := 0, 0
	next := 0
	for _, m := range c.Messages() {
		switch m.Role {
		case model.RoleUser:
			assert.Equal(t, fmt.Sprintf("msg %d", next), m.Content, "user messages out of order")
			next++
			users++
		case model.RoleAssistant:
			assistants++
		}
	}
	assert.Equal(t, n, users)
	assert.LessOrEqual(t, assistants, n)
}

// =============================================================================
// ERROR TESTS
// =============================================================================

func TestHandleError_PayloadMessage(t *testing.T) {
	c := NewController()
	req, _ := c.Submit("Hello")

	err := &completion.PayloadError{StatusCode: 429, Payload: []byte(`{"error":{"message":"rate limited"}}`)}
	assert.True(t, c.HandleError(req.ID, err))

	msgs := c.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "rate limited", msgs[1].Content)
	assert.True(t, msgs[1].IsError)
	assert.Equal(t, "rate limited", c.LastError())
	assert.Equal(t, StateIdle, c.State())
	assert.False(t, c.IsLoading())
}

func TestHandleError_MalformedPayload(t *testing.T) {
	c := NewController()
	req, _ := c.Submit("Hello")

	require.NotPanics(t, func() {
		c.HandleError(req.ID, errors.New("connection refused"))
	})

	msgs := c.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, FallbackErrorMessage, msgs[1].Content)
}

func TestHandleError_AfterPartialReply(t *testing.T) {
	c := NewController()
	req, _ := c.Submit("Hello")

	c.HandleFragment(req.ID, "Hi")
	c.HandleError(req.ID, errors.New("reset"))

	msgs := c.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Hi\n\n"+FallbackErrorMessage, msgs[1].Content)
	assert.True(t, msgs[1].IsError)

	// Error replies are not sent back upstream.
	next, err := c.Submit("again")
	require.NoError(t, err)
	assert.Equal(t, []completion.Message{
		{Role: "user", Content: "Hello"},
		{Role: "user", Content: "again"},
	}, next.Messages)
}

func TestHandleError_PassesThroughErrorState(t *testing.T) {
	var transitions []string
	c := NewController(WithTransitionHook(func(from, to State) {
		transitions = append(transitions, from.String()+"->"+to.String())
	}))

	req, _ := c.Submit("Hello")
	c.HandleError(req.ID, nil)

	assert.Equal(t, []string{"idle->sending", "sending->error", "error->idle"}, transitions)
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StateSending, "sending"},
		{StateStreaming, "streaming"},
		{StateError, "error"},
		{State(99), "unknown"},
	}
	for _, tc := range tests {
		if got := tc.state.String(); got != tc.want {
			t.Errorf("State(%d).String() = %q, want %q", tc.state, got, tc.want)
		}
	}
}
