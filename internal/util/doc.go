// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across chat-ai packages.
//
// # Key Functions
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// String Utilities:
//   - TruncateWidth: Terminal-cell aware truncation with ellipsis
//   - PadRight: Pad or cut to an exact cell width
//
// # Usage
//
//	err := util.AtomicWriteFile(path, data, 0600)
//	title := util.TruncateWidth(title, width)
package util
