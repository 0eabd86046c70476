// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"io"

	"github.com/MarceloDCastro/chat-ai/internal/completion"
	"github.com/MarceloDCastro/chat-ai/internal/config"
	"github.com/MarceloDCastro/chat-ai/internal/logger"
	"github.com/MarceloDCastro/chat-ai/internal/session"
	"github.com/MarceloDCastro/chat-ai/internal/storage"
	"github.com/MarceloDCastro/chat-ai/internal/theme"
	"github.com/MarceloDCastro/chat-ai/internal/ui/styles"
)

// App holds the collaborators shared by the TUI and plain mode.
type App struct {
	Config    *config.Config
	Store     storage.KV
	Runner    *session.Runner
	Session   *session.Controller
	Theme     *theme.Controller
	Styles    *styles.Styles
	Markdown  *styles.Markdown // nil when markdown is disabled
	ModelName string
}

// NewApp wires the application for cfg. Output styling is bound to out.
// A store that cannot be opened leaves the theme in memory-only mode.
func NewApp(ctx context.Context, cfg *config.Config, out io.Writer) *App {
	streamer, modelName := newStreamer(cfg.Completion)
	return newApp(ctx, cfg, out, streamer, modelName)
}

func newApp(ctx context.Context, cfg *config.Config, out io.Writer, streamer completion.Streamer, modelName string) *App {
	store := openStore(ctx, cfg.Storage)

	renderer := styles.NewRenderer(out)
	th := theme.New(store, styles.NewDocument(renderer))

	sess := session.NewController(session.WithTransitionHook(func(from, to session.State) {
		logger.Debug("session %s -> %s", from, to)
	}))

	app := &App{
		Config:    cfg,
		Store:     store,
		Runner:    session.NewRunner(streamer, cfg.Completion.RequestTimeout),
		Session:   sess,
		Theme:     th,
		Styles:    styles.New(renderer),
		ModelName: modelName,
	}
	if cfg.UI.Markdown {
		app.Markdown = styles.NewMarkdown(renderer.ColorProfile())
	}
	return app
}

// Close stops in-flight requests and closes the store.
func (a *App) Close() {
	a.Runner.Close()
	if err := a.Store.Close(); err != nil {
		logger.Warn("closing store: %v", err)
	}
}

// newStreamer builds the completion client for the configured provider,
// rate limited when requests_per_minute is set.
func newStreamer(cfg config.CompletionConfig) (completion.Streamer, string) {
	var (
		s     completion.Streamer
		model string
	)

	switch cfg.Provider {
	case config.ProviderOllama:
		o := completion.NewOllama(completion.OllamaConfig{
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
		})
		s, model = o, o.Model()
	default:
		o := completion.NewOpenAI(completion.OpenAIConfig{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
		})
		s, model = o, o.Model()
	}

	return completion.NewLimited(s, cfg.RequestsPerMinute), model
}

// openStore opens the configured backend. On failure it logs a warning and
// returns a store that always fails.
func openStore(ctx context.Context, cfg config.StorageConfig) storage.KV {
	store, err := storage.Open(ctx, storage.Options{
		Backend:   cfg.Backend,
		Path:      cfg.Path,
		RedisAddr: cfg.RedisAddr,
		RedisDB:   cfg.RedisDB,
	})
	if err != nil {
		logger.Warn("preference store unavailable, theme will not be saved: %v", err)
		return storage.UnavailableStore{Err: err}
	}
	return store
}
