// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MarceloDCastro/chat-ai/internal/session"
	"github.com/MarceloDCastro/chat-ai/internal/theme"
	"github.com/MarceloDCastro/chat-ai/internal/ui/styles"
)

// Placeholder is shown in the empty input field.
const Placeholder = "How can I help you?"

// TypingText is shown while a reply is pending.
const TypingText = "AI is typing..."

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Starter starts a request in the background and reports its progress
// through sink. *session.Runner implements it.
type Starter interface {
	Start(req session.Request, sink session.Sink)
}

// Sender delivers messages into a running program. *tea.Program implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// Options wires the chat view to its collaborators.
type Options struct {
	Session  *session.Controller
	Runner   Starter
	Theme    *theme.Controller
	Styles   *styles.Styles
	Markdown *styles.Markdown // nil renders replies as plain text

	Title     string
	Subtitle  string
	ModelName string

	// Clipboard receives copied replies. Defaults to the system clipboard.
	Clipboard func(text string) error
}

// programLink is shared by every copy of the Model so the stream goroutine
// can reach the program that is running it.
type programLink struct {
	mu     sync.Mutex
	sender Sender
}

func (l *programLink) send(msg tea.Msg) {
	l.mu.Lock()
	s := l.sender
	l.mu.Unlock()
	if s != nil {
		s.Send(msg)
	}
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// Collaborators
	session   *session.Controller
	runner    Starter
	theme     *theme.Controller
	styles    *styles.Styles
	markdown  *styles.Markdown
	link      *programLink
	clipboard func(text string) error

	// Header and status text
	title     string
	subtitle  string
	modelName string

	// Dimensions
	width  int
	height int
	ready  bool

	// UI Components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Key bindings
	keyMap KeyMap

	// Streaming render throttle
	frames *frameThrottle

	// Status
	statusMsg    string
	statusSeq    int
	warnedMemory bool
}

// New creates a new chat model.
func New(opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = Placeholder
	ti.CharLimit = 4096
	ti.PromptStyle = opts.Styles.InputPrompt
	ti.TextStyle = opts.Styles.InputText
	ti.PlaceholderStyle = opts.Styles.InputPlaceholder
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	// ASCII-compatible animation
	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = opts.Styles.Spinner

	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	title := opts.Title
	if title == "" {
		title = "Chat AI"
	}

	return Model{
		session:   opts.Session,
		runner:    opts.Runner,
		theme:     opts.Theme,
		styles:    opts.Styles,
		markdown:  opts.Markdown,
		link:      &programLink{},
		clipboard: copyFn,
		title:     title,
		subtitle:  opts.Subtitle,
		modelName: opts.ModelName,
		viewport:  vp,
		input:     ti,
		spinner:   sp,
		keyMap:    DefaultKeyMap(),
		frames:    newFrameThrottle(),
	}
}

// Attach connects the model to the program running it. Stream events are
// delivered through s. Safe to call on any copy of the model.
func (m Model) Attach(s Sender) {
	m.link.mu.Lock()
	defer m.link.mu.Unlock()
	m.link.sender = s
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// sink returns the event sink handed to the runner.
func (m Model) sink() session.Sink {
	link := m.link
	return func(ev session.Event) {
		link.send(ev)
	}
}

// Input returns the current input text.
func (m Model) Input() string {
	return m.input.Value()
}

// Status returns the current status line message.
func (m Model) Status() string {
	return m.statusMsg
}
