// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the chat transcript.
//
// # Key Types
//
//   - Message: Single entry with ID, role, content and an error flag
//   - Transcript: Ordered, append-only list of messages
//   - Role: Message role enumeration (user, assistant)
//
// # Usage
//
//	t := model.NewTranscript()
//	t.Append(model.NewUserMessage("Hello"))
//	reply := model.NewAssistantMessage("Hi")
//	t.Append(reply)
//	t.AppendContent(reply.ID, " there")
package model
