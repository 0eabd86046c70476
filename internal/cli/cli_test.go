// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarceloDCastro/chat-ai/internal/completion"
	"github.com/MarceloDCastro/chat-ai/internal/config"
	"github.com/MarceloDCastro/chat-ai/internal/storage"
	"github.com/MarceloDCastro/chat-ai/internal/theme"
)

// =============================================================================
// FAKES
// =============================================================================

type scriptedInput struct {
	lines []string
}

func (s *scriptedInput) Prompt(string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

type fakeStreamer struct {
	fragments []string
	err       error
	calls     int
	last      []completion.Message
}

func (f *fakeStreamer) Stream(_ context.Context, messages []completion.Message, onFragment completion.FragmentFunc) error {
	f.calls++
	f.last = messages
	for _, frag := range f.fragments {
		onFragment(frag)
	}
	return f.err
}

func newTestApp(t *testing.T, streamer completion.Streamer) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.Backend = storage.BackendMemory
	app := newApp(context.Background(), cfg, io.Discard, streamer, "fake-model")
	t.Cleanup(app.Close)
	return app
}

func runScript(t *testing.T, app *App, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	err := newPlainChat(app, &scriptedInput{lines: lines}, &out).Run()
	require.NoError(t, err)
	return out.String()
}

// =============================================================================
// PLAIN MODE
// =============================================================================

func TestPlainChat_StreamsReply(t *testing.T) {
	streamer := &fakeStreamer{fragments: []string{"Hi", " there"}}
	app := newTestApp(t, streamer)

	out := runScript(t, app, "hello")

	assert.Contains(t, out, "Chat AI")
	assert.Contains(t, out, "fake-model")
	assert.Contains(t, out, "AI: Hi there\n")

	msgs := app.Session.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, "Hi there", msgs[1].Content)
	assert.False(t, app.Session.IsLoading())
}

func TestPlainChat_SendsFullContext(t *testing.T) {
	streamer := &fakeStreamer{fragments: []string{"ok"}}
	app := newTestApp(t, streamer)

	runScript(t, app, "one", "two")

	assert.Equal(t, 2, streamer.calls)
	require.Len(t, streamer.last, 3)
	assert.Equal(t, "user", streamer.last[0].Role)
	assert.Equal(t, "assistant", streamer.last[1].Role)
	assert.Equal(t, "two", streamer.last[2].Content)
}

func TestPlainChat_ErrorReply(t *testing.T) {
	streamer := &fakeStreamer{err: &completion.PayloadError{
		StatusCode: 429,
		Payload:    []byte(`{"error":{"message":"rate limited"}}`),
	}}
	app := newTestApp(t, streamer)

	out := runScript(t, app, "hello")

	assert.Contains(t, out, "AI: rate limited")
	msgs := app.Session.Messages()
	require.Len(t, msgs, 2)
	assert.True(t, msgs[1].IsError)
}

func TestPlainChat_MalformedError(t *testing.T) {
	app := newTestApp(t, &fakeStreamer{err: errors.New("<html>bad gateway</html>")})

	out := runScript(t, app, "hello")

	assert.Contains(t, out, "AI: Something went wrong.")
}

func TestPlainChat_ThemeToggle(t *testing.T) {
	app := newTestApp(t, &fakeStreamer{})
	require.Equal(t, theme.Light, app.Theme.Theme())

	out := runScript(t, app, "/theme", "/quit", "never read")

	assert.Contains(t, out, "Theme: dark")
	assert.NotContains(t, out, "not saved")
	assert.Equal(t, theme.Dark, app.Theme.Theme())

	v, err := app.Store.Get(context.Background(), theme.StorageKey)
	require.NoError(t, err)
	assert.Equal(t, "dark", v)
	assert.Equal(t, 0, app.Session.Len())
}

func TestPlainChat_SkipsBlankLinesAndShowsHelp(t *testing.T) {
	streamer := &fakeStreamer{}
	app := newTestApp(t, streamer)

	out := runScript(t, app, "", "   ", "/help")

	assert.Equal(t, 0, streamer.calls)
	assert.Contains(t, out, "/theme")
	assert.Contains(t, out, "/quit")
}

func TestPlainChat_EmptyReply(t *testing.T) {
	app := newTestApp(t, &fakeStreamer{})

	out := runScript(t, app, "hello")

	assert.Contains(t, out, "AI:\n")
	assert.Equal(t, 1, app.Session.Len(), "no fragments, no assistant message")
}

// =============================================================================
// WIRING
// =============================================================================

func TestNewApp_UnavailableStoreIsMemoryOnly(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = storage.BackendRedis
	cfg.Storage.RedisAddr = "127.0.0.1:1"

	app := newApp(context.Background(), cfg, io.Discard, &fakeStreamer{}, "m")
	t.Cleanup(app.Close)

	assert.IsType(t, storage.UnavailableStore{}, app.Store)
	assert.False(t, app.Theme.Persistent())
	assert.Equal(t, theme.Light, app.Theme.Theme())

	assert.Equal(t, theme.Dark, app.Theme.Toggle())
}

func TestNewApp_FileStorePersistsTheme(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "preferences.json")

	first := newApp(context.Background(), cfg, io.Discard, &fakeStreamer{}, "m")
	first.Theme.Toggle()
	first.Close()

	second := newApp(context.Background(), cfg, io.Discard, &fakeStreamer{}, "m")
	t.Cleanup(second.Close)
	assert.Equal(t, theme.Dark, second.Theme.Theme())
	assert.True(t, second.Styles.IsDark())
}

func TestNewApp_MarkdownSetting(t *testing.T) {
	app := newTestApp(t, &fakeStreamer{})
	assert.NotNil(t, app.Markdown)

	cfg := config.Default()
	cfg.Storage.Backend = storage.BackendMemory
	cfg.UI.Markdown = false
	plain := newApp(context.Background(), cfg, io.Discard, &fakeStreamer{}, "m")
	t.Cleanup(plain.Close)
	assert.Nil(t, plain.Markdown)
}

func TestNewStreamer(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.CompletionConfig
		wantModel string
		limited   bool
	}{
		{
			name:      "openai default model",
			cfg:       config.CompletionConfig{Provider: config.ProviderOpenAI},
			wantModel: completion.DefaultOpenAIModel,
		},
		{
			name:      "ollama default model",
			cfg:       config.CompletionConfig{Provider: config.ProviderOllama},
			wantModel: completion.DefaultOllamaModel,
		},
		{
			name:      "explicit model with limit",
			cfg:       config.CompletionConfig{Provider: config.ProviderOllama, Model: "qwen2.5", RequestsPerMinute: 10},
			wantModel: "qwen2.5",
			limited:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, model := newStreamer(tt.cfg)
			assert.Equal(t, tt.wantModel, model)
			_, isLimited := s.(*completion.Limited)
			assert.Equal(t, tt.limited, isLimited)
		})
	}
}

// =============================================================================
// COMMANDS
// =============================================================================

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := config.Default()
	cfg.Completion.Model = "from-file"
	require.NoError(t, config.SaveTOML(cfg, path))

	got, err := loadConfig(rootFlags{configPath: path, provider: "ollama", store: "memory"})
	require.NoError(t, err)
	assert.Equal(t, config.ProviderOllama, got.Completion.Provider)
	assert.Equal(t, "from-file", got.Completion.Model)
	assert.Equal(t, storage.BackendMemory, got.Storage.Backend)

	got, err = loadConfig(rootFlags{configPath: path, model: "from-flag"})
	require.NoError(t, err)
	assert.Equal(t, "from-flag", got.Completion.Model)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := loadConfig(rootFlags{configPath: filepath.Join(t.TempDir(), "missing.toml")})
	assert.Error(t, err)

	_, err = loadConfig(rootFlags{provider: "nope"})
	require.Error(t, err)
	assert.True(t, config.IsValidationError(err))
}

func TestRootCmd_Flags(t *testing.T) {
	cmd := NewRootCmd()
	for _, name := range []string{"config", "model", "provider", "store", "plain", "debug"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing flag --%s", name)
	}
}

func TestVersionCmd(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "chat-ai "+Version))
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"unexpected"})

	assert.Error(t, cmd.Execute())
}
