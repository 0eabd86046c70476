// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package completion provides the streaming clients for remote
// language-model completion endpoints.
package completion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// =============================================================================
// CORE TYPES
// =============================================================================

// Message is a single role/content pair of the conversation context.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FragmentFunc receives each text fragment of a streamed reply, in order.
type FragmentFunc func(fragment string)

// Streamer sends a conversation to a completion endpoint and delivers the
// reply incrementally. Stream blocks until the reply ends, the context is
// cancelled or the endpoint fails.
type Streamer interface {
	Stream(ctx context.Context, messages []Message, onFragment FragmentFunc) error
}

// =============================================================================
// ERROR TYPES
// =============================================================================

// PayloadError is returned when the endpoint rejects a request. Payload holds
// the error body normalised to the {"error":{"message":...}} shape whenever
// the endpoint supplied a message; otherwise it is the raw body.
type PayloadError struct {
	StatusCode int
	Payload    []byte
}

func (e *PayloadError) Error() string {
	if len(e.Payload) == 0 {
		return fmt.Sprintf("completion request failed: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return string(e.Payload)
}

// errorBody is the wire shape of an endpoint error.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
	Code    string `json:"code,omitempty"`
}

// newPayloadError builds a PayloadError carrying message in the normalised shape.
func newPayloadError(status int, message, errType, code string) *PayloadError {
	payload, err := json.Marshal(errorBody{Error: errorDetail{Message: message, Type: errType, Code: code}})
	if err != nil {
		payload = nil
	}
	return &PayloadError{StatusCode: status, Payload: payload}
}
