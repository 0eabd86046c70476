// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/MarceloDCastro/chat-ai/internal/config"
	"github.com/MarceloDCastro/chat-ai/internal/logger"
	"github.com/MarceloDCastro/chat-ai/internal/session"
	"github.com/MarceloDCastro/chat-ai/internal/ui/styles"
	"github.com/MarceloDCastro/chat-ai/internal/util"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader reads one line of user input.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

// lineInput provides line editing and history for plain mode.
type lineInput struct {
	line        *liner.State
	historyFile string
}

func newLineInput() *lineInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	in := &lineInput{
		line:        line,
		historyFile: filepath.Join(dir, "history"),
	}

	if f, err := os.Open(in.historyFile); err == nil {
		in.line.ReadHistory(f)
		f.Close()
	}
	return in
}

// Prompt reads a line and records non-empty input in the history.
func (in *lineInput) Prompt(prompt string) (string, error) {
	text, err := in.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) != "" {
		in.line.AppendHistory(text)
	}
	return text, nil
}

// Close saves the history with owner-only permissions and restores the
// terminal.
func (in *lineInput) Close() {
	defer in.line.Close()

	if err := os.MkdirAll(filepath.Dir(in.historyFile), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(in.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		logger.Warn("saving input history: %v", err)
		return
	}
	defer f.Close()
	in.line.WriteHistory(f)
}

// =============================================================================
// PLAIN CHAT
// =============================================================================

// plainChat is the line-based interface used when no terminal UI is
// available. It drives the same controllers as the TUI.
type plainChat struct {
	app    *App
	in     lineReader
	out    io.Writer
	st     *styles.Styles
	events chan session.Event
}

func newPlainChat(app *App, in lineReader, out io.Writer) *plainChat {
	return &plainChat{
		app:    app,
		in:     in,
		out:    out,
		st:     app.Styles,
		events: make(chan session.Event, 64),
	}
}

func runPlain(app *App, out io.Writer) error {
	in := newLineInput()
	defer in.Close()
	return newPlainChat(app, in, out).Run()
}

// Run reads input until /quit, Ctrl+C or end of input.
func (c *plainChat) Run() error {
	c.printWelcome()

	for {
		line, err := c.in.Prompt("> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(c.out)
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		text := strings.TrimSpace(line)
		switch text {
		case "":
			continue
		case "/quit", "/q", "/exit":
			return nil
		case "/theme":
			c.toggleTheme()
			continue
		case "/help", "/h":
			c.printHelp()
			continue
		}

		c.send(text)
	}
}

// send submits text and prints the reply as it streams.
func (c *plainChat) send(text string) {
	req, err := c.app.Session.Submit(text)
	if err != nil {
		fmt.Fprintln(c.out, c.st.StatusNotice.Render(err.Error()))
		return
	}

	c.app.Runner.Start(req, c.sink)

	started := false
	for ev := range c.events {
		if !c.app.Session.Apply(ev) {
			continue
		}

		switch ev := ev.(type) {
		case session.FragmentEvent:
			if !started {
				fmt.Fprint(c.out, c.st.AssistantLabel.Render("AI:")+" ")
				started = true
			}
			fmt.Fprint(c.out, ev.Text)

		case session.DoneEvent:
			if !started {
				fmt.Fprint(c.out, c.st.AssistantLabel.Render("AI:"))
			}
			fmt.Fprintln(c.out)
			return

		case session.ErrorEvent:
			if started {
				fmt.Fprintln(c.out)
			}
			fmt.Fprintln(c.out, c.st.ErrorLabel.Render("AI:")+" "+c.app.Session.LastError())
			return
		}
	}
}

func (c *plainChat) sink(ev session.Event) {
	c.events <- ev
}

func (c *plainChat) toggleTheme() {
	t := c.app.Theme.Toggle()
	msg := fmt.Sprintf("Theme: %s %s", t, styles.ThemeGlyph(c.app.Theme.IsDark()))
	if !c.app.Theme.Persistent() {
		msg += " (not saved)"
	}
	fmt.Fprintln(c.out, c.st.StatusNotice.Render(msg))
}

func (c *plainChat) printWelcome() {
	cfg := c.app.Config.UI
	fmt.Fprintln(c.out, c.st.HeaderTitle.Render(cfg.Title)+" "+
		c.st.ThemeIndicator.Render(styles.ThemeGlyph(c.app.Theme.IsDark())))
	if cfg.Subtitle != "" {
		fmt.Fprintln(c.out, c.st.HeaderSubtitle.Render(cfg.Subtitle))
	}
	fmt.Fprintln(c.out, c.st.ShortcutDesc.Render("Model: "+c.app.ModelName+". Type /help for commands."))
	fmt.Fprintln(c.out)
}

func (c *plainChat) printHelp() {
	cmds := [][2]string{
		{"/theme", "toggle light/dark theme"},
		{"/help", "show this help"},
		{"/quit", "exit"},
	}
	for _, cmd := range cmds {
		fmt.Fprintf(c.out, "  %s  %s\n",
			c.st.ShortcutKey.Render(util.PadRight(cmd[0], 7)),
			c.st.ShortcutDesc.Render(cmd[1]))
	}
}
