package store

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// MemoryStore is an in-memory implementation of the SettingsStore
// interface. State lives for the process lifetime only.
type MemoryStore struct {
	values map[string]json.RawMessage
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewMemoryStore creates a new in-memory settings store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		values: make(map[string]json.RawMessage),
		logger: logger,
	}
}

// Get retrieves the stored values for the given keys
func (s *MemoryStore) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		if value, ok := s.values[key]; ok {
			result[key] = value
		}
	}
	return result, nil
}

// Set stores the given key/value pairs
func (s *MemoryStore) Set(ctx context.Context, values map[string]json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range values {
		s.values[key] = value
	}
	return nil
}
