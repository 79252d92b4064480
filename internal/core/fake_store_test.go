package core

import (
	"context"
	"encoding/json"
	"sync"
)

// memStore is an in-memory SettingsStore fake for tests
type memStore struct {
	mu     sync.Mutex
	values map[string]json.RawMessage
	// sets counts Set calls so tests can assert nothing was written
	sets int
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]json.RawMessage)}
}

func (s *memStore) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		if value, ok := s.values[key]; ok {
			result[key] = value
		}
	}
	return result, nil
}

func (s *memStore) Set(ctx context.Context, values map[string]json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, value := range values {
		s.values[key] = value
	}
	s.sets++
	return nil
}
