// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Stream events arrive as session.FragmentEvent, session.DoneEvent and
// session.ErrorEvent. The messages below are internal to the view.

// StreamTickMsg triggers a throttled re-render while a reply is streaming.
type StreamTickMsg struct {
	Time time.Time
}

// clearStatusMsg removes a transient status message. seq guards against
// clearing a newer message.
type clearStatusMsg struct {
	seq int
}

const statusTTL = 4 * time.Second

func clearStatusCmd(seq int) tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}
