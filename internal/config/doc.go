// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for chat-ai.
//
// # Key Types
//
//   - Config: Main configuration structure
//   - CompletionConfig: Endpoint provider, model, limits
//   - StorageConfig: Where the theme preference is persisted
//   - UIConfig, LogConfig: Presentation and logging
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Command-line flags (applied by the cli package)
//   - Environment variables (CHAT_AI_*, OPENAI_API_KEY), also from .env
//   - ~/.chat-ai/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	model := cfg.Completion.Model
package config
