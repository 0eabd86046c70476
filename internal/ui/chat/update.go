// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MarceloDCastro/chat-ai/internal/session"
)

const (
	busyNotice   = "Still replying. Wait for the current answer."
	memoryNotice = "Theme preference cannot be saved; it applies to this session only."

	copiedNotice        = "Reply copied to clipboard."
	nothingToCopyNotice = "No reply to copy yet."
)

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		m.refresh(true)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case session.FragmentEvent:
		if m.session.Apply(msg) {
			return m, m.frames.markDirty()
		}
		return m, nil

	case session.DoneEvent:
		m.finishStream(msg)
		return m, nil

	case session.ErrorEvent:
		m.finishStream(msg)
		return m, nil

	case StreamTickMsg:
		if m.frames.tick() {
			m.refresh(false)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.session.IsLoading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.statusMsg = ""
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.ToggleTheme):
		return m.toggleTheme()

	case key.Matches(msg, m.keyMap.CopyReply):
		return m.copyReply()

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.ViewDown()
		return m, nil

	case key.Matches(msg, m.keyMap.Top):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keyMap.Bottom):
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the input text. While a reply is in flight the text is kept
// in the input and a notice is shown instead.
func (m Model) submit() (tea.Model, tea.Cmd) {
	req, err := m.session.Submit(m.input.Value())
	if errors.Is(err, session.ErrBusy) {
		return m, m.setStatus(busyNotice)
	}
	if err != nil {
		return m, m.setStatus(err.Error())
	}

	m.input.Reset()
	m.runner.Start(req, m.sink())
	m.refresh(true)
	return m, m.spinner.Tick
}

func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	m.theme.Toggle()
	m.refresh(false)

	if !m.theme.Persistent() && !m.warnedMemory {
		m.warnedMemory = true
		return m, m.setStatus(memoryNotice)
	}
	return m, nil
}

// copyReply copies the newest assistant message to the clipboard.
func (m Model) copyReply() (tea.Model, tea.Cmd) {
	msgs := m.session.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if !msgs[i].IsAssistant() {
			continue
		}
		if err := m.clipboard(msgs[i].Content); err != nil {
			return m, m.setStatus("Clipboard unavailable: " + err.Error())
		}
		return m, m.setStatus(copiedNotice)
	}
	return m, m.setStatus(nothingToCopyNotice)
}

// finishStream applies a terminal event and renders immediately.
func (m *Model) finishStream(ev session.Event) {
	if !m.session.Apply(ev) {
		return
	}
	m.refresh(false)
	m.frames.flushed()
}

// setStatus shows a transient status message.
func (m *Model) setStatus(text string) tea.Cmd {
	m.statusSeq++
	m.statusMsg = text
	return clearStatusCmd(m.statusSeq)
}

// =============================================================================
// LAYOUT
// =============================================================================

const (
	headerHeight = 4 // two text lines plus border
	typingHeight = 1
	inputHeight  = 2 // top border plus the field
	statusHeight = 1
)

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.ready = true
	m.styles.SetSize(width, height)

	vpHeight := height - headerHeight - typingHeight - inputHeight - statusHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = width
	m.viewport.Height = vpHeight

	inputWidth := width - 6
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth
}

// refresh re-renders the transcript into the viewport. The view follows the
// newest message when it was already at the bottom or when force is set.
func (m *Model) refresh(force bool) {
	follow := force || m.viewport.AtBottom()
	m.viewport.SetContent(m.renderTranscript())
	if follow {
		m.viewport.GotoBottom()
	}
}
