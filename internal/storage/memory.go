// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is a process-local store. Values are lost on exit.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get implements KV.
func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set implements KV.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Close implements KV.
func (s *MemoryStore) Close() error {
	return nil
}

// UnavailableStore stands in for a backend that could not be opened.
// Every call fails with the original error, so callers fall back to
// memory-only behaviour.
type UnavailableStore struct {
	Err error
}

// Get implements KV.
func (s UnavailableStore) Get(context.Context, string) (string, error) {
	return "", fmt.Errorf("store unavailable: %w", s.Err)
}

// Set implements KV.
func (s UnavailableStore) Set(context.Context, string, string) error {
	return fmt.Errorf("store unavailable: %w", s.Err)
}

// Close implements KV.
func (s UnavailableStore) Close() error {
	return nil
}
