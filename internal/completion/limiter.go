// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package completion

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Limited wraps a Streamer with a client-side request rate limit.
type Limited struct {
	next    Streamer
	limiter *rate.Limiter
}

// NewLimited allows at most perMinute requests per minute through next.
// A non-positive perMinute disables limiting and returns next unchanged.
func NewLimited(next Streamer, perMinute int) Streamer {
	if perMinute <= 0 {
		return next
	}
	return &Limited{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
	}
}

// Stream waits for a token and then delegates to the wrapped Streamer.
func (l *Limited) Stream(ctx context.Context, messages []Message, onFragment FragmentFunc) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return l.next.Stream(ctx, messages, onFragment)
}
