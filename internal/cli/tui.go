// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MarceloDCastro/chat-ai/internal/ui/chat"
)

// newChatModel builds the chat screen over the app's controllers.
func newChatModel(app *App) chat.Model {
	return chat.New(chat.Options{
		Session:   app.Session,
		Runner:    app.Runner,
		Theme:     app.Theme,
		Styles:    app.Styles,
		Markdown:  app.Markdown,
		Title:     app.Config.UI.Title,
		Subtitle:  app.Config.UI.Subtitle,
		ModelName: app.ModelName,
	})
}

// runTUI runs the full-screen interface until the user quits.
func runTUI(app *App) error {
	m := newChatModel(app)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	m.Attach(p)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
