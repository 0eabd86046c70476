// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"encoding/json"
	"errors"

	"github.com/MarceloDCastro/chat-ai/internal/completion"
)

// FallbackErrorMessage is shown when an error carries no usable message.
const FallbackErrorMessage = "Something went wrong."

// ErrorMessage returns the user-facing text for a failed request.
// Completion failures contribute their payload; any other error is treated
// as a payload of its own text. Never panics.
func ErrorMessage(err error) string {
	if err == nil {
		return FallbackErrorMessage
	}

	var pe *completion.PayloadError
	if errors.As(err, &pe) {
		return ParseErrorPayload(pe.Payload)
	}
	return ParseErrorPayload([]byte(err.Error()))
}

// ParseErrorPayload extracts error.message from a JSON payload of the shape
// {"error":{"message":"..."}}. Anything else, including malformed JSON, a
// missing field or an empty message, yields FallbackErrorMessage.
func ParseErrorPayload(payload []byte) string {
	var body struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return FallbackErrorMessage
	}
	if body.Error == nil || body.Error.Message == "" {
		return FallbackErrorMessage
	}
	return body.Error.Message
}
