package core

import (
	"encoding/json"
	"fmt"
)

// Settings document keys. The store is a single namespaced key/value
// document; every key holds a JSON-encoded value of the type noted here.
const (
	KeySchemaVersion  = "schemaVersion"   // int
	KeyScanned        = "scanned"         // int >= 0
	KeyBlocked        = "blocked"         // int >= 0, <= scanned
	KeyScoreHistory   = "scoreHistory"    // []int, each in [0,100], oldest first
	KeyTrustedList    = "trustedList"     // []string, email addresses
	KeyReportedList   = "reportedList"    // []string, email addresses
	KeyBlockedDomains = "blockedDomains"  // []string, lower-cased domains
	KeyAutoSpam       = "autoSpamEnabled" // bool
	KeyTheme          = "theme"           // "light" or "dark"
)

// SchemaVersion is the current settings document version
const SchemaVersion = 1

// MaxHistoryLength bounds the stored score history
const MaxHistoryLength = 50

func decodeInt(values map[string]json.RawMessage, key string) (int, error) {
	raw, ok := values[key]
	if !ok {
		return 0, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("settings key %q is not an integer: %w", key, err)
	}
	return n, nil
}

func decodeIntSlice(values map[string]json.RawMessage, key string) ([]int, error) {
	raw, ok := values[key]
	if !ok {
		return nil, nil
	}
	var s []int
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("settings key %q is not an integer list: %w", key, err)
	}
	return s, nil
}

func decodeStringSlice(values map[string]json.RawMessage, key string) ([]string, error) {
	raw, ok := values[key]
	if !ok {
		return nil, nil
	}
	var s []string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("settings key %q is not a string list: %w", key, err)
	}
	return s, nil
}

func decodeBool(values map[string]json.RawMessage, key string) (bool, error) {
	raw, ok := values[key]
	if !ok {
		return false, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, fmt.Errorf("settings key %q is not a boolean: %w", key, err)
	}
	return b, nil
}

func encode(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		// Only ints, bools and string slices pass through here
		panic(fmt.Sprintf("unmarshalable settings value: %v", err))
	}
	return raw
}

// CheckSchemaVersion verifies the stored document version is usable and
// stamps the current version if the document is fresh
func CheckSchemaVersion(values map[string]json.RawMessage) (map[string]json.RawMessage, error) {
	stored, err := decodeInt(values, KeySchemaVersion)
	if err != nil {
		return nil, err
	}
	if stored > SchemaVersion {
		return nil, fmt.Errorf("settings document version %d is newer than supported version %d", stored, SchemaVersion)
	}
	if stored == SchemaVersion {
		return nil, nil
	}
	return map[string]json.RawMessage{KeySchemaVersion: encode(SchemaVersion)}, nil
}
