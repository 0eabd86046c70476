// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package theme implements the light/dark presentation preference: its
// persisted value and the document marker that follows it.
package theme

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/MarceloDCastro/chat-ai/internal/logger"
	"github.com/MarceloDCastro/chat-ai/internal/storage"
)

// Theme is the presentation mode.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// StorageKey is the key under which the preference is persisted.
const StorageKey = "theme"

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// String returns the persisted representation.
func (t Theme) String() string {
	return string(t)
}

// Parse maps a stored value to a theme. Only the exact string "dark" is
// dark; anything else, including an empty value, is light.
func Parse(v string) Theme {
	if v == string(Dark) {
		return Dark
	}
	return Light
}

// Store is the persisted key-value store the preference lives in.
// Get returns storage.ErrNotFound when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Document is the presentation surface the theme is applied to.
type Document interface {
	SetDark(dark bool)
	IsDark() bool
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller owns the current theme. It reads the store once on creation,
// writes it on every Toggle, and keeps the document marker in step.
// When the store fails the controller keeps working in memory only.
type Controller struct {
	mu sync.Mutex

	theme      Theme
	store      Store
	doc        Document
	persistent bool
	timeout    time.Duration

	log *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithTimeout bounds each store call. The default is two seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.timeout = d
	}
}

// New creates a controller, loads the persisted theme and applies it to doc.
// A nil store starts the controller in memory-only mode.
func New(store Store, doc Document, opts ...Option) *Controller {
	c := &Controller{
		theme:      Light,
		store:      store,
		doc:        doc,
		persistent: store != nil,
		timeout:    2 * time.Second,
		log:        logger.ComponentLogger("theme"),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.initialize()
	return c
}

func (c *Controller) initialize() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.persistent {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		v, err := c.store.Get(ctx, StorageKey)
		cancel()

		switch {
		case err == nil:
			c.theme = Parse(v)
		case errors.Is(err, storage.ErrNotFound):
			c.theme = Light
		default:
			c.log.Warn("preference store unavailable, theme will not persist", "error", err)
			c.persistent = false
			c.theme = Light
		}
	}

	c.applyLocked()
	c.log.Debug("theme initialized", "theme", c.theme, "persistent", c.persistent)
}

// Apply sets the document marker to match the current theme. Repeated calls
// have no further effect.
func (c *Controller) Apply() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyLocked()
}

func (c *Controller) applyLocked() {
	if c.doc == nil {
		return
	}
	c.doc.SetDark(c.theme == Dark)
}

// Toggle flips the theme, persists the new value and applies it.
// A store write failure switches to memory-only mode; the toggle itself
// still takes effect.
func (c *Controller) Toggle() Theme {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.theme = c.theme.Opposite()

	if c.persistent {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		err := c.store.Set(ctx, StorageKey, c.theme.String())
		cancel()
		if err != nil {
			c.log.Warn("failed to persist theme, continuing in memory", "theme", c.theme, "error", err)
			c.persistent = false
		}
	}

	c.applyLocked()
	c.log.Info("theme toggled", "theme", c.theme)
	return c.theme
}

// Theme returns the current theme.
func (c *Controller) Theme() Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.theme
}

// IsDark reports whether the current theme is dark.
func (c *Controller) IsDark() bool {
	return c.Theme() == Dark
}

// Persistent reports whether changes are still being written to the store.
func (c *Controller) Persistent() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persistent
}
