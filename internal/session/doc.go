// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session implements the chat session controller.
//
// The Controller owns the transcript and the request lifecycle. The Runner
// executes a request against a completion.Streamer in the background and
// reports progress as events, which are applied back to the Controller on
// the UI loop:
//
//	req, err := ctrl.Submit(text)
//	if errors.Is(err, session.ErrBusy) {
//	    // a reply is still streaming
//	}
//	runner.Start(req, func(ev session.Event) { program.Send(ev) })
//
//	// in Update:
//	case session.FragmentEvent, session.DoneEvent, session.ErrorEvent:
//	    ctrl.Apply(msg.(session.Event))
//
// Failed requests never surface as Go errors to the UI; they become an
// assistant message whose text comes from the endpoint's error payload, or
// "Something went wrong." when the payload cannot be read.
package session
