package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Caerfyrddin29/PhishDetector/internal/core"
	"go.uber.org/zap"
)

// Client is an HTTP implementation of the Analyzer interface against
// the local analysis backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// analyzeResponse is the canonical success payload. The backend's
// historical `phishing` field name is not accepted; `is_phishing` is
// the contract.
type analyzeResponse struct {
	IsPhishing    *bool    `json:"is_phishing"`
	Score         *int     `json:"score"`
	Reasons       []string `json:"reasons"`
	MaliciousURLs []string `json:"malicious_urls"`
	Language      string   `json:"language"`
}

// NewClient creates an analyzer client for the given backend base URL
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Cancellation comes from the caller's context; the transport
		// itself carries no timeout of its own.
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Analyze submits a scan request to POST /analyze and decodes the
// verdict. Non-2xx statuses and malformed bodies are errors; the
// caller maps them to its failure payload.
func (c *Client) Analyze(ctx context.Context, req *core.ScanRequest) (*core.ScanResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode scan request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build analyze request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("analyze call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("analyze call returned HTTP %d", resp.StatusCode)
	}

	var decoded analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode analyze response: %w", err)
	}
	if decoded.IsPhishing == nil || decoded.Score == nil {
		return nil, fmt.Errorf("analyze response missing required fields")
	}
	if *decoded.Score < 0 || *decoded.Score > 100 {
		return nil, fmt.Errorf("analyze response score %d outside [0,100]", *decoded.Score)
	}

	return &core.ScanResult{
		IsPhishing:    *decoded.IsPhishing,
		Score:         *decoded.Score,
		Reasons:       decoded.Reasons,
		MaliciousURLs: decoded.MaliciousURLs,
		Language:      decoded.Language,
		AnalyzedAt:    time.Now(),
	}, nil
}

// Ping checks backend reachability via GET /test. Any 2xx response
// counts as reachable; no body schema is required.
func (c *Client) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/test", nil)
	if err != nil {
		return fmt.Errorf("failed to build health request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("backend health check returned HTTP %d", resp.StatusCode)
	}
	return nil
}
