// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"github.com/MarceloDCastro/chat-ai/internal/completion"
	"github.com/MarceloDCastro/chat-ai/internal/logger"
)

// =============================================================================
// EVENTS
// =============================================================================

// Event is a stream notification for a single request. Events are applied to
// the Controller on the UI loop via Controller.Apply.
type Event interface {
	requestID() string
}

// FragmentEvent delivers one streamed text fragment.
type FragmentEvent struct {
	RequestID string
	Text      string
}

// DoneEvent signals that the stream ended normally.
type DoneEvent struct {
	RequestID string
}

// ErrorEvent signals that the request failed.
type ErrorEvent struct {
	RequestID string
	Err       error
}

func (e FragmentEvent) requestID() string { return e.RequestID }
func (e DoneEvent) requestID() string     { return e.RequestID }
func (e ErrorEvent) requestID() string    { return e.RequestID }

// Sink receives events from the stream goroutine. Implementations must be
// safe to call from another goroutine (tea.Program.Send is).
type Sink func(Event)

// =============================================================================
// RUNNER
// =============================================================================

// Runner executes requests against a Streamer off the UI loop.
type Runner struct {
	streamer completion.Streamer
	timeout  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup
	log    *slog.Logger
}

// NewRunner creates a runner. A zero timeout leaves requests unbounded;
// they end only when the stream ends or the runner is closed.
func NewRunner(streamer completion.Streamer, timeout time.Duration) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		streamer: streamer,
		timeout:  timeout,
		ctx:      ctx,
		cancel:   cancel,
		log:      logger.ComponentLogger("runner"),
	}
}

// Start streams req in the background, emitting every fragment followed by
// exactly one DoneEvent or ErrorEvent. A panic in the streamer is reported
// as an ErrorEvent.
func (r *Runner) Start(req Request, sink Sink) {
	r.wg.Go(func() {
		var pc panics.Catcher
		pc.Try(func() {
			r.run(req, sink)
		})
		if rec := pc.Recovered(); rec != nil {
			r.log.Error("stream panicked", "request", req.ID, "panic", rec.Value)
			sink(ErrorEvent{RequestID: req.ID, Err: rec.AsError()})
		}
	})
}

func (r *Runner) run(req Request, sink Sink) {
	ctx := r.ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	fragments := 0
	r.log.Debug("stream started", "request", req.ID, "messages", len(req.Messages))

	err := r.streamer.Stream(ctx, req.Messages, func(fragment string) {
		fragments++
		sink(FragmentEvent{RequestID: req.ID, Text: fragment})
	})
	if err != nil {
		r.log.Warn("stream failed", "request", req.ID, "error", err, "fragments", fragments)
		sink(ErrorEvent{RequestID: req.ID, Err: err})
		return
	}

	r.log.Debug("stream finished", "request", req.ID, "fragments", fragments, "elapsed", time.Since(start))
	sink(DoneEvent{RequestID: req.ID})
}

// Close cancels all in-flight requests and waits for them to finish.
func (r *Runner) Close() {
	r.cancel()
	r.wg.Wait()
}
