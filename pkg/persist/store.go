// Package persist defines the durable key-value store and codec contract that
// state containers use to survive process restarts.
//
// A container that opts into persistence hydrates from its key when it is
// first used, writes the default token if the key is absent, and re-encodes
// and writes before notifying observers on every mutation of the persisted
// value. Backends live in sub-packages: sqlite, badger and yamlfile.
package persist

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// Store is a durable string key-value store. Implementations must be safe for
// concurrent use; containers call them from the scheduler goroutine and from
// parallel hydration.
type Store interface {
	// Get returns the stored token for key. ok is false if the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous token.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// Clear deletes every key.
	Clear(ctx context.Context) error
}

// MemoryStore is an in-process Store, used in tests and as the default
// backend when nothing durable is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Remove implements Store.
func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.values)
	return nil
}

// Keys returns the stored keys in sorted order.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.values))
}
