// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for chat-ai.

# Color System (colors.go)

Every color is a Lip Gloss AdaptiveColor with a light and a dark variant:

  - Purple - Title, assistant label, spinner
  - Cyan - User label, input prompt
  - Amber - Theme indicator, notices
  - Rose - Error messages

# Document and Styles (theme.go)

All styles are created from a single *lipgloss.Renderer. The Document wraps
that renderer and is the marker the theme controller toggles:

	r := styles.NewRenderer(os.Stdout)
	doc := styles.NewDocument(r)
	s := styles.New(r)

	doc.SetDark(true) // s.* now render with their dark variants

# Markdown (markdown.go)

Assistant replies are rendered with glamour using the "dark" or "light"
standard style to match the Document.
*/
package styles
