// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the persisted key-value store used for user
// preferences.
//
// # Backends
//
//   - file: JSON document at ~/.chat-ai/preferences.json (default)
//   - sqlite: single "kv" table in a local database
//   - redis: shared Redis, keys prefixed with "chat-ai:"
//   - memory: nothing survives a restart
//
// # Usage
//
//	kv, err := storage.Open(ctx, storage.Options{Backend: "file", Path: path})
//	if err != nil {
//	    kv = storage.NewMemoryStore()
//	}
//	v, err := kv.Get(ctx, "theme")
//	if errors.Is(err, storage.ErrNotFound) {
//	    // first run
//	}
package storage
