package core

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Document provides serialized access to the settings store. Every
// read-modify-write sequence runs under a single mutex so two scans
// completing near-simultaneously cannot interleave a get and a set on
// the same key.
type Document struct {
	store SettingsStore
	mu    sync.Mutex
}

// NewDocument wraps a settings store and verifies its schema version
func NewDocument(ctx context.Context, store SettingsStore) (*Document, error) {
	values, err := store.Get(ctx, KeySchemaVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings document: %w", err)
	}
	stamp, err := CheckSchemaVersion(values)
	if err != nil {
		return nil, err
	}
	if stamp != nil {
		if err := store.Set(ctx, stamp); err != nil {
			return nil, fmt.Errorf("failed to stamp settings schema version: %w", err)
		}
	}
	return &Document{store: store}, nil
}

// Read retrieves the stored values for the given keys
func (d *Document) Read(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.Get(ctx, keys...)
}

// Update runs fn on the current values of keys and writes back whatever
// it returns, all under the document lock. A nil return writes nothing.
func (d *Document) Update(ctx context.Context, keys []string, fn func(map[string]json.RawMessage) (map[string]json.RawMessage, error)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	values, err := d.store.Get(ctx, keys...)
	if err != nil {
		return err
	}
	updated, err := fn(values)
	if err != nil {
		return err
	}
	if updated == nil {
		return nil
	}
	return d.store.Set(ctx, updated)
}
