// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// DOCUMENT
// =============================================================================

// Document is the presentation surface the theme controller marks as dark or
// light. The marker is the renderer's dark-background flag: every style
// created from the renderer resolves its AdaptiveColors against it at render
// time, so flipping it re-themes the whole UI on the next frame.
type Document struct {
	renderer *lipgloss.Renderer
}

// NewDocument wraps renderer.
func NewDocument(renderer *lipgloss.Renderer) *Document {
	return &Document{renderer: renderer}
}

// SetDark sets the dark marker. Setting the same value twice is a no-op.
func (d *Document) SetDark(dark bool) {
	d.renderer.SetHasDarkBackground(dark)
}

// IsDark reports the current marker.
func (d *Document) IsDark() bool {
	return d.renderer.HasDarkBackground()
}

// Renderer returns the underlying renderer.
func (d *Document) Renderer() *lipgloss.Renderer {
	return d.renderer
}

// NewRenderer creates a renderer for w using the detected color profile.
// The background flag is left to the theme controller.
func NewRenderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.NewOutput(w).EnvColorProfile())
	return r
}

// =============================================================================
// STYLES
// =============================================================================

// Styles holds the styled components of the chat screen. All styles are
// bound to one renderer.
type Styles struct {
	renderer *lipgloss.Renderer

	// Layout dimensions
	Width  int
	Height int

	// Header
	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	ThemeIndicator lipgloss.Style

	// Transcript
	UserLabel       lipgloss.Style
	AssistantLabel  lipgloss.Style
	ErrorLabel      lipgloss.Style
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	ErrorBubble     lipgloss.Style
	EmptyHint       lipgloss.Style

	// Typing indicator
	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style

	// Input area
	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	StatusNotice lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
}

// New creates the styles bound to renderer.
func New(renderer *lipgloss.Renderer) *Styles {
	s := &Styles{renderer: renderer}
	s.initStyles()
	return s
}

// Renderer returns the renderer the styles are bound to.
func (s *Styles) Renderer() *lipgloss.Renderer {
	return s.renderer
}

// IsDark reports whether the styles currently resolve to their dark variants.
func (s *Styles) IsDark() bool {
	return s.renderer.HasDarkBackground()
}

// ColorProfile returns the renderer's color profile.
func (s *Styles) ColorProfile() termenv.Profile {
	return s.renderer.ColorProfile()
}

func (s *Styles) initStyles() {
	r := s.renderer

	// Header
	s.Header = r.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 1)

	s.HeaderTitle = r.NewStyle().
		Bold(true).
		Foreground(Purple)

	s.HeaderSubtitle = r.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	s.ThemeIndicator = r.NewStyle().
		Bold(true).
		Foreground(Amber)

	// Transcript
	s.UserLabel = r.NewStyle().
		Bold(true).
		Foreground(Cyan)

	s.AssistantLabel = r.NewStyle().
		Bold(true).
		Foreground(Purple)

	s.ErrorLabel = r.NewStyle().
		Bold(true).
		Foreground(Rose)

	s.UserBubble = r.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(UserBubbleBorder).
		BorderLeft(true).
		PaddingLeft(1)

	s.AssistantBubble = r.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(AssistantBubbleBorder).
		BorderLeft(true).
		PaddingLeft(1)

	s.ErrorBubble = r.NewStyle().
		Foreground(ErrorBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ErrorBubbleBorder).
		BorderLeft(true).
		PaddingLeft(1)

	s.EmptyHint = r.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Typing indicator
	s.Spinner = r.NewStyle().
		Foreground(Purple)

	s.ThinkingText = r.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Input area
	s.InputContainer = r.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	s.InputPrompt = r.NewStyle().
		Foreground(Cyan).
		Bold(true)

	s.InputText = r.NewStyle().
		Foreground(TextPrimary)

	s.InputPlaceholder = r.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Status bar
	s.StatusBar = r.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	s.StatusNotice = r.NewStyle().
		Foreground(Amber)

	s.ShortcutKey = r.NewStyle().
		Foreground(Cyan).
		Bold(true)

	s.ShortcutDesc = r.NewStyle().
		Foreground(TextMuted)
}

// SetSize updates the layout dimensions.
func (s *Styles) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// ThemeGlyph returns the header indicator for the current mode: a sun while
// dark (the action offered is "go light") and a moon while light.
func ThemeGlyph(dark bool) string {
	if dark {
		return "☀"
	}
	return "☾"
}
