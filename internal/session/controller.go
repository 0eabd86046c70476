// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session implements the chat session controller: the transcript,
// the request lifecycle and error translation.
package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/MarceloDCastro/chat-ai/internal/completion"
	"github.com/MarceloDCastro/chat-ai/internal/model"
)

// ErrBusy is returned by Submit while a request is in flight.
var ErrBusy = errors.New("a reply is still being generated")

// =============================================================================
// STATE
// =============================================================================

// State is the request lifecycle state.
type State int

const (
	StateIdle State = iota
	StateSending
	StateStreaming
	StateError
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateStreaming:
		return "streaming"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// TransitionFunc observes lifecycle transitions.
type TransitionFunc func(from, to State)

// Request is a submitted conversation waiting for a reply.
type Request struct {
	ID       string
	Messages []completion.Message
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the transcript and drives the request lifecycle:
//
//	idle -> sending -> streaming -> idle
//	sending|streaming -> error -> idle
//
// Events carry the ID of the request they belong to; events for any other
// request are dropped.
type Controller struct {
	mu sync.Mutex

	transcript *model.Transcript
	state      State
	active     string // ID of the in-flight request
	replyID    string // assistant message receiving the active stream
	lastError  string

	onTransition TransitionFunc
}

// Option configures a Controller.
type Option func(*Controller)

// WithTransitionHook registers fn to be called on every state change.
func WithTransitionHook(fn TransitionFunc) Option {
	return func(c *Controller) {
		c.onTransition = fn
	}
}

// NewController creates a controller with an empty transcript.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		transcript: model.NewTranscript(),
		state:      StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit appends a user message with text and starts a new request.
// Empty text is accepted. The user message is appended before anything is
// sent. While a request is in flight Submit returns ErrBusy and leaves the
// transcript unchanged.
func (c *Controller) Submit(text string) (Request, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isLoadingLocked() {
		return Request{}, ErrBusy
	}

	c.transcript.Append(model.NewUserMessage(text))

	req := Request{
		ID:       uuid.NewString(),
		Messages: toCompletion(c.transcript.Context()),
	}
	c.active = req.ID
	c.replyID = ""
	c.lastError = ""
	c.setStateLocked(StateSending)

	return req, nil
}

// HandleFragment appends a streamed fragment to the reply of the request.
// The first fragment creates the assistant message.
func (c *Controller) HandleFragment(requestID, fragment string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isCurrentLocked(requestID) {
		return false
	}

	if c.replyID == "" {
		reply := model.NewAssistantMessage(fragment)
		c.transcript.Append(reply)
		c.replyID = reply.ID
	} else {
		c.transcript.AppendContent(c.replyID, fragment)
	}

	if c.state != StateStreaming {
		c.setStateLocked(StateStreaming)
	}
	return true
}

// HandleDone completes the request.
func (c *Controller) HandleDone(requestID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isCurrentLocked(requestID) {
		return false
	}

	c.finishLocked()
	c.setStateLocked(StateIdle)
	return true
}

// HandleError records a failed request as an assistant error message and
// returns the controller to idle. The message text is taken from the error
// payload when it has the {"error":{"message":...}} shape and falls back to
// FallbackErrorMessage otherwise.
func (c *Controller) HandleError(requestID string, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isCurrentLocked(requestID) {
		return false
	}

	text := ErrorMessage(err)

	// A reply that already streamed some content keeps it, followed by the
	// error text, so a request never yields more than one assistant message.
	if c.replyID != "" {
		c.transcript.AppendContent(c.replyID, "\n\n"+text)
		c.transcript.MarkError(c.replyID)
	} else {
		c.transcript.Append(model.NewErrorMessage(text))
	}

	c.lastError = text
	c.finishLocked()
	c.setStateLocked(StateError)
	c.setStateLocked(StateIdle)
	return true
}

// Apply dispatches a runner event to the matching handler.
func (c *Controller) Apply(ev Event) bool {
	switch e := ev.(type) {
	case FragmentEvent:
		return c.HandleFragment(e.RequestID, e.Text)
	case DoneEvent:
		return c.HandleDone(e.RequestID)
	case ErrorEvent:
		return c.HandleError(e.RequestID, e.Err)
	default:
		return false
	}
}

// IsLoading reports whether a request is in flight.
func (c *Controller) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isLoadingLocked()
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ActiveRequest returns the ID of the in-flight request, if any.
func (c *Controller) ActiveRequest() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// LastError returns the text of the most recent error, cleared on Submit.
func (c *Controller) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// Messages returns a snapshot of the transcript.
func (c *Controller) Messages() []*model.Message {
	return c.transcript.Messages()
}

// Len returns the number of messages in the transcript.
func (c *Controller) Len() int {
	return c.transcript.Len()
}

// =============================================================================
// INTERNAL
// =============================================================================

func (c *Controller) isLoadingLocked() bool {
	return c.state == StateSending || c.state == StateStreaming
}

func (c *Controller) isCurrentLocked(requestID string) bool {
	return requestID != "" && requestID == c.active && c.isLoadingLocked()
}

func (c *Controller) finishLocked() {
	c.active = ""
	c.replyID = ""
}

func (c *Controller) setStateLocked(to State) {
	from := c.state
	c.state = to
	if c.onTransition != nil && from != to {
		c.onTransition(from, to)
	}
}

func toCompletion(turns []model.Turn) []completion.Message {
	msgs := make([]completion.Message, len(turns))
	for i, t := range turns {
		msgs[i] = completion.Message{Role: t.Role.String(), Content: t.Content}
	}
	return msgs
}
