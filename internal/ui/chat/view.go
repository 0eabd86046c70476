// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MarceloDCastro/chat-ai/internal/model"
	"github.com/MarceloDCastro/chat-ai/internal/ui/styles"
	"github.com/MarceloDCastro/chat-ai/internal/util"
)

const emptyHint = "Ask anything to start the conversation."

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return ""
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderTyping(),
		m.renderInput(),
		m.renderStatus(),
	)
}

// renderHeader draws the title with the theme indicator on the right and
// the subtitle below it.
func (m Model) renderHeader() string {
	inner := m.width - 4 // border and padding
	if inner < 10 {
		inner = 10
	}

	glyph := m.styles.ThemeIndicator.Render(styles.ThemeGlyph(m.theme.IsDark()))
	title := m.styles.HeaderTitle.Render(util.TruncateWidth(m.title, inner-2))

	gap := inner - lipgloss.Width(title) - lipgloss.Width(glyph)
	if gap < 1 {
		gap = 1
	}
	line := title + strings.Repeat(" ", gap) + glyph
	sub := m.styles.HeaderSubtitle.Render(util.TruncateWidth(m.subtitle, inner))

	return m.styles.Header.Width(inner + 2).Render(line + "\n" + sub)
}

// renderTranscript renders every message, oldest first.
func (m Model) renderTranscript() string {
	msgs := m.session.Messages()
	if len(msgs) == 0 {
		return m.styles.EmptyHint.Render(emptyHint)
	}

	width := m.width
	if width < 20 {
		width = 20
	}

	blocks := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		blocks = append(blocks, m.renderMessage(msg, width))
	}
	return strings.Join(blocks, "\n\n")
}

func (m Model) renderMessage(msg *model.Message, width int) string {
	// Bubble width excludes the left border; text wraps inside the padding.
	bubbleWidth := width - 1
	textWidth := width - 2

	label := msg.Role.Label() + ":"

	switch {
	case msg.IsUser():
		return m.styles.UserLabel.Render(label) + "\n" +
			m.styles.UserBubble.Width(bubbleWidth).Render(msg.Content)

	case msg.IsError:
		return m.styles.ErrorLabel.Render(label) + "\n" +
			m.styles.ErrorBubble.Width(bubbleWidth).Render(msg.Content)

	default:
		content := msg.Content
		if m.markdown != nil {
			content = m.markdown.Render(content, textWidth, m.theme.IsDark())
		}
		return m.styles.AssistantLabel.Render(label) + "\n" +
			m.styles.AssistantBubble.Width(bubbleWidth).Render(content)
	}
}

// renderTyping shows the indicator while a reply is pending. It always
// occupies one line so the layout does not jump.
func (m Model) renderTyping() string {
	if !m.session.IsLoading() {
		return ""
	}
	return " " + m.spinner.View() + " " + m.styles.ThinkingText.Render(TypingText)
}

func (m Model) renderInput() string {
	return m.styles.InputContainer.Width(m.width).Render(m.input.View())
}

// renderStatus shows the transient notice or the key hints on the left and
// the model name on the right.
func (m Model) renderStatus() string {
	inner := m.width - 2
	if inner < 10 {
		inner = 10
	}

	var right string
	if m.modelName != "" {
		right = m.styles.ShortcutDesc.Render(util.TruncateWidth(m.modelName, inner/3))
	}

	var left string
	if m.statusMsg != "" {
		left = m.styles.StatusNotice.Render(util.TruncateWidth(util.FirstLine(m.statusMsg), inner-lipgloss.Width(right)-1))
	} else {
		hints := make([]string, 0, 4)
		for _, b := range m.keyMap.ShortHelp() {
			h := b.Help()
			hints = append(hints, m.styles.ShortcutKey.Render(h.Key)+" "+m.styles.ShortcutDesc.Render(h.Desc))
		}
		left = strings.Join(hints, "  ")
	}

	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return m.styles.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}
