package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Caerfyrddin29/PhishDetector/internal/core"
)

func TestAnalyzeSuccess(t *testing.T) {
	var received core.ScanRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/analyze", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		json.NewEncoder(w).Encode(map[string]any{
			"is_phishing":    true,
			"score":          85,
			"reasons":        []string{"Brand impersonation"},
			"malicious_urls": []string{"http://evil.example/x"},
			"language":       "en",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	req := core.NewScanRequest("verify your account", "phisher@evil.example", []core.Link{
		{Text: "click", Href: "http://evil.example/x", IsHidden: true},
	}, 2)
	result, err := client.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, result.IsPhishing)
	assert.Equal(t, 85, result.Score)
	assert.Equal(t, []string{"Brand impersonation"}, result.Reasons)
	assert.Equal(t, []string{"http://evil.example/x"}, result.MaliciousURLs)
	assert.Equal(t, "en", result.Language)

	// The wire request carries the scan payload
	assert.Equal(t, "SCAN", received.Type)
	assert.Equal(t, "phisher@evil.example", received.Sender)
	require.Len(t, received.Links, 1)
	assert.True(t, received.Links[0].IsHidden)
	assert.Equal(t, 2, received.Metadata.ImageCount)
}

func TestAnalyzeRejectsLegacyFieldName(t *testing.T) {
	// Older backend revisions used `phishing`; the canonical contract
	// is `is_phishing` and anything else is malformed.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"phishing": true, "score": 50})
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	_, err := client.Analyze(context.Background(), core.NewScanRequest("x", "", nil, 0))
	assert.Error(t, err)
}

func TestAnalyzeMalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing score", `{"is_phishing": false}`},
		{"score out of range", `{"is_phishing": false, "score": 200}`},
		{"not json", `<html>oops</html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, zap.NewNop())
			_, err := client.Analyze(context.Background(), core.NewScanRequest("x", "", nil, 0))
			assert.Error(t, err)
		})
	}
}

func TestAnalyzeNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	_, err := client.Analyze(context.Background(), core.NewScanRequest("x", "", nil, 0))
	assert.Error(t, err)
}

func TestAnalyzeHonorsContextDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.URL, zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Analyze(ctx, core.NewScanRequest("x", "", nil, 0))
	require.Error(t, err)
	assert.ErrorIs(t, ctx.Err(), context.DeadlineExceeded)
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/test", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	assert.NoError(t, client.Ping(context.Background()))

	server.Close()
	assert.Error(t, client.Ping(context.Background()))
}

func TestPingNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	assert.Error(t, client.Ping(context.Background()))
}
