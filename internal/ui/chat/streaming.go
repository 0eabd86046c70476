// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// FRAME THROTTLE
// =============================================================================

// frameThrottle caps how often the transcript is re-rendered while a reply
// streams. Fragments only mark the view dirty; a tick at most every
// frameInterval performs the re-render. Rendering on every fragment would
// re-run markdown layout hundreds of times per second.
type frameThrottle struct {
	mu          sync.Mutex
	dirty       bool
	tickPending bool
	interval    time.Duration
}

// 30fps
const frameInterval = 33 * time.Millisecond

func newFrameThrottle() *frameThrottle {
	return &frameThrottle{interval: frameInterval}
}

// markDirty records that the transcript changed. It returns a tick command
// when none is outstanding.
func (f *frameThrottle) markDirty() tea.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.dirty = true
	if f.tickPending {
		return nil
	}
	f.tickPending = true
	return streamTickCmd(f.interval)
}

// tick consumes the outstanding tick and reports whether a render is due.
func (f *frameThrottle) tick() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.tickPending = false
	due := f.dirty
	f.dirty = false
	return due
}

// flushed clears the dirty flag after an immediate render.
func (f *frameThrottle) flushed() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dirty = false
}

// streamTickCmd sends a StreamTickMsg after d.
func streamTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return StreamTickMsg{Time: t}
	})
}
