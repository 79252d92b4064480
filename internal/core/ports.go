package core

import (
	"context"
	"encoding/json"
)

// Analyzer defines the interface for the external analysis backend
type Analyzer interface {
	// Analyze submits a scan request and returns the backend's verdict
	Analyze(ctx context.Context, req *ScanRequest) (*ScanResult, error)

	// Ping reports whether the backend is reachable
	Ping(ctx context.Context) error
}

// SettingsStore defines the interface for the persisted settings document.
// Values are opaque JSON; adapters only need atomic whole-key get/set.
// Read-modify-write serialization is the caller's responsibility.
type SettingsStore interface {
	// Get retrieves the stored values for the given keys.
	// Absent keys are omitted from the result.
	Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error)

	// Set stores the given key/value pairs, overwriting existing values
	Set(ctx context.Context, values map[string]json.RawMessage) error
}

// ContentExtractor defines the interface for turning an opaque message
// source into scan request content
type ContentExtractor interface {
	// Extract produces a scan request from a raw message
	Extract(raw []byte) (*ScanRequest, error)
}

// Notifier delivers resolved scan outcomes to the presentation layer
type Notifier interface {
	// NotifyOutcome is called exactly once per resolved successful scan
	NotifyOutcome(ctx context.Context, req *ScanRequest, result *ScanResult) error
}
