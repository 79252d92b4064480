package core

import (
	"time"

	"github.com/google/uuid"
)

// Link describes a hyperlink found in the email body
type Link struct {
	Text     string `json:"text"`
	Href     string `json:"href"`
	IsHidden bool   `json:"isHidden"`
}

// ScanMetadata carries reputation flags and content measurements
// alongside the email body
type ScanMetadata struct {
	IsTrusted  bool `json:"isTrusted"`
	IsReported bool `json:"isReported"`
	ImageCount int  `json:"imageCount"`
	TextLength int  `json:"textLength"`
}

// ScanRequest represents one user-initiated analysis request.
// It is created at scan start and discarded once an outcome is delivered.
type ScanRequest struct {
	ID       string       `json:"-"`
	Type     string       `json:"type"`
	Body     string       `json:"body"`
	Sender   string       `json:"sender"`
	Links    []Link       `json:"links"`
	Metadata ScanMetadata `json:"metadata"`
}

// NewScanRequest creates a scan request for the given extracted content
func NewScanRequest(body, sender string, links []Link, imageCount int) *ScanRequest {
	return &ScanRequest{
		ID:     uuid.NewString(),
		Type:   "SCAN",
		Body:   body,
		Sender: sender,
		Links:  links,
		Metadata: ScanMetadata{
			ImageCount: imageCount,
			TextLength: len(body),
		},
	}
}

// ScanResult represents a successful analysis outcome from the backend
type ScanResult struct {
	IsPhishing    bool      `json:"is_phishing"`
	Score         int       `json:"score"`
	Reasons       []string  `json:"reasons"`
	MaliciousURLs []string  `json:"malicious_urls"`
	Language      string    `json:"language,omitempty"`
	AnalyzedAt    time.Time `json:"-"`
}

// ScanStats summarizes the stored counters and score history
type ScanStats struct {
	Scanned      int    `json:"scanned"`
	Blocked      int    `json:"blocked"`
	AverageScore int    `json:"average_score"`
	RiskLabel    string `json:"risk_label"`
	History      []int  `json:"history"`
}
