// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the chat screen of the chat-ai TUI.

The screen is a Bubble Tea model over a session.Controller (the transcript
and request lifecycle) and a theme.Controller (light or dark mode). It does
not talk to the completion endpoint itself: Submit hands the request to a
Starter, and stream events come back into Update through the program.

# Layout

  - Header: title, subtitle and the theme indicator (☀ while dark, ☾ while light)
  - Transcript: "User:" and "AI:" messages in a scrollable viewport
  - Typing line: spinner and "AI is typing..." while a reply is pending
  - Input: single line with the "How can I help you?" placeholder
  - Status bar: key hints or a transient notice, and the model name

# Streaming

Fragments are applied to the controller as they arrive but the transcript
is re-rendered at most once per frame (about 30fps). Done and error events
render immediately.

# Usage

	m := chat.New(chat.Options{Session: sess, Runner: runner, Theme: th, Styles: st})
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.Attach(p)
	_, err := p.Run()
*/
package chat
