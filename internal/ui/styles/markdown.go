// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// Markdown renders assistant replies with glamour, using the glamour
// standard style that matches the current theme. Renderers are cached per
// (dark, width) pair.
type Markdown struct {
	mu      sync.Mutex
	profile termenv.Profile
	cache   map[markdownKey]*glamour.TermRenderer
}

type markdownKey struct {
	dark  bool
	width int
}

// NewMarkdown creates a markdown renderer for the given color profile.
func NewMarkdown(profile termenv.Profile) *Markdown {
	return &Markdown{
		profile: profile,
		cache:   make(map[markdownKey]*glamour.TermRenderer),
	}
}

// Render renders content wrapped to width. If glamour fails the content is
// returned unchanged.
func (m *Markdown) Render(content string, width int, dark bool) string {
	if strings.TrimSpace(content) == "" {
		return content
	}
	if width < 20 {
		width = 20
	}

	r, err := m.renderer(markdownKey{dark: dark, width: width})
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}

func (m *Markdown) renderer(key markdownKey) (*glamour.TermRenderer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.cache[key]; ok {
		return r, nil
	}

	style := "light"
	if key.dark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(key.width),
		glamour.WithColorProfile(m.profile),
	)
	if err != nil {
		return nil, err
	}
	m.cache[key] = r
	return r, nil
}
