// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the chat-ai command line.
//
// The root command loads configuration (file, environment, .env, flags),
// opens the preference store, builds the completion client and starts
// either the full-screen TUI or, with --plain or when no terminal is
// attached, a line-based chat.
//
// # Commands
//
//	chat-ai            Start a chat
//	chat-ai version    Print version information
//
// # Plain mode
//
//	/theme   Toggle light/dark theme
//	/help    Show commands
//	/quit    Exit
package cli
