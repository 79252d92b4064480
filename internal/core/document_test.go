package core

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStampsSchemaVersion(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()

	_, err := NewDocument(ctx, st)
	require.NoError(t, err)

	values, err := st.Get(ctx, KeySchemaVersion)
	require.NoError(t, err)
	var version int
	require.NoError(t, json.Unmarshal(values[KeySchemaVersion], &version))
	assert.Equal(t, SchemaVersion, version)
}

func TestDocumentRejectsNewerSchema(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	require.NoError(t, st.Set(ctx, map[string]json.RawMessage{
		KeySchemaVersion: json.RawMessage("99"),
	}))

	_, err := NewDocument(ctx, st)
	assert.Error(t, err)
}

func TestDocumentSerializesUpdates(t *testing.T) {
	ctx := context.Background()
	doc := newTestDocument(t)

	// Concurrent increments through Update must not lose writes
	const goroutines = 8
	const perGoroutine = 25
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				err := doc.Update(ctx, []string{KeyScanned}, func(values map[string]json.RawMessage) (map[string]json.RawMessage, error) {
					n, err := decodeInt(values, KeyScanned)
					if err != nil {
						return nil, err
					}
					return map[string]json.RawMessage{KeyScanned: encode(n + 1)}, nil
				})
				if err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	values, err := doc.Read(ctx, KeyScanned)
	require.NoError(t, err)
	total, err := decodeInt(values, KeyScanned)
	require.NoError(t, err)
	assert.Equal(t, goroutines*perGoroutine, total)
}
