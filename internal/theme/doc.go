// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package theme implements the light/dark presentation preference.
//
// The preference is stored under the key "theme" with the values "light" and
// "dark". It is read once when the Controller is created and written on every
// Toggle; nothing else changes it. The Document is told whether dark mode is
// on after initialization and after every toggle.
//
//	ctrl := theme.New(kv, styles.NewDocument(renderer))
//	ctrl.Toggle() // light -> dark, stores "dark"
package theme
