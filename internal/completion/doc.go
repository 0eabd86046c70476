// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package completion provides the streaming clients for remote
// language-model completion endpoints.
//
// # Providers
//
//   - OpenAI: any OpenAI-compatible chat completions API (SSE)
//   - Ollama: the native Ollama /api/chat endpoint (NDJSON)
//
// Both report endpoint failures as *PayloadError whose Payload has the
// shape {"error":{"message":"..."}} when a message is available.
//
// # Usage
//
//	s := completion.NewOpenAI(completion.OpenAIConfig{APIKey: key})
//	err := s.Stream(ctx, msgs, func(fragment string) {
//	    fmt.Print(fragment)
//	})
package completion
