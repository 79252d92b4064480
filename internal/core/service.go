package core

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ScanTimeout is the fixed deadline for one backend analysis call.
// A hard cutoff, not a tunable: past this the user is told the
// analysis failed rather than left waiting.
const ScanTimeout = 3 * time.Second

// Failure reasons surfaced to the caller. The presentation layer shows
// these verbatim.
const (
	ReasonTimeout       = "Request timeout - analysis taking too long"
	ReasonBackendFailed = "Backend connection failed"
	ReasonScanInFlight  = "Scan already in progress"
	ReasonDomainBlocked = "Sender domain is blocked"
)

// ScanFailure is the failure payload of a scan that produced no score
type ScanFailure struct {
	Reasons []string
}

func (f *ScanFailure) Error() string {
	if len(f.Reasons) == 0 {
		return "scan failed"
	}
	return f.Reasons[0]
}

// ScanService dispatches scan requests to the analysis backend and
// applies resolved outcomes to the local statistics. Exactly one
// outcome is delivered per request: success, timeout failure, or
// transport failure. There is no automatic retry.
type ScanService struct {
	analyzer   Analyzer
	history    *HistoryTracker
	reputation *Reputation
	notifier   Notifier
	doc        *Document
	logger     *zap.Logger
	timeout    time.Duration
	inFlight   atomic.Bool
}

// NewScanService creates a scan service with the fixed scan deadline
func NewScanService(
	analyzer Analyzer,
	history *HistoryTracker,
	reputation *Reputation,
	notifier Notifier,
	doc *Document,
	logger *zap.Logger,
) *ScanService {
	return newScanService(analyzer, history, reputation, notifier, doc, logger, ScanTimeout)
}

func newScanService(
	analyzer Analyzer,
	history *HistoryTracker,
	reputation *Reputation,
	notifier Notifier,
	doc *Document,
	logger *zap.Logger,
	timeout time.Duration,
) *ScanService {
	return &ScanService{
		analyzer:   analyzer,
		history:    history,
		reputation: reputation,
		notifier:   notifier,
		doc:        doc,
		logger:     logger,
		timeout:    timeout,
	}
}

// Scan resolves one scan request to one outcome. On success the score
// history and counters are updated exactly once and the notifier is
// invoked; failures leave all stored state untouched. A second scan
// started while one is in flight is rejected immediately.
func (s *ScanService) Scan(ctx context.Context, req *ScanRequest) (*ScanResult, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, &ScanFailure{Reasons: []string{ReasonScanInFlight}}
	}
	defer s.inFlight.Store(false)

	if err := s.attachReputation(ctx, req); err != nil {
		s.logger.Warn("Failed to load reputation metadata", zap.Error(err))
	}

	// Blocked-domain auto-action: resolve locally without a backend
	// call when the sender's domain is on the block list.
	bypass, err := s.blockedDomainBypass(ctx, req)
	if err != nil {
		s.logger.Warn("Failed to check blocked domains", zap.Error(err))
	} else if bypass != nil {
		return s.resolve(ctx, req, bypass)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	result, err := s.analyzer.Analyze(callCtx, req)
	elapsed := time.Since(started)

	if err != nil {
		// The deadline cancels the outbound call, so a late response
		// can never reach the history update below.
		if callCtx.Err() == context.DeadlineExceeded {
			s.logger.Warn("Scan timed out",
				zap.String("scan_id", req.ID),
				zap.Duration("elapsed", elapsed))
			return nil, &ScanFailure{Reasons: []string{ReasonTimeout}}
		}
		s.logger.Error("Scan failed",
			zap.String("scan_id", req.ID),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return nil, &ScanFailure{Reasons: []string{ReasonBackendFailed}}
	}

	s.logger.Info("Scan completed",
		zap.String("scan_id", req.ID),
		zap.String("sender", req.Sender),
		zap.Bool("is_phishing", result.IsPhishing),
		zap.Int("score", result.Score),
		zap.Duration("elapsed", elapsed))

	return s.resolve(ctx, req, result)
}

// attachReputation fills the request metadata from the reputation lists
// so the backend can weight its scoring
func (s *ScanService) attachReputation(ctx context.Context, req *ScanRequest) error {
	trusted, err := s.reputation.IsTrusted(ctx, req.Sender)
	if err != nil {
		return err
	}
	reported, err := s.reputation.IsReported(ctx, req.Sender)
	if err != nil {
		return err
	}
	req.Metadata.IsTrusted = trusted
	req.Metadata.IsReported = reported
	return nil
}

// blockedDomainBypass returns a synthetic outcome when auto-spam is
// enabled and the sender's domain is blocked, nil otherwise
func (s *ScanService) blockedDomainBypass(ctx context.Context, req *ScanRequest) (*ScanResult, error) {
	values, err := s.doc.Read(ctx, KeyAutoSpam)
	if err != nil {
		return nil, err
	}
	enabled, err := decodeBool(values, KeyAutoSpam)
	if err != nil || !enabled {
		return nil, err
	}
	blocked, err := s.reputation.IsDomainBlocked(ctx, req.Sender)
	if err != nil || !blocked {
		return nil, err
	}

	s.logger.Info("Skipping backend scan for blocked domain",
		zap.String("scan_id", req.ID),
		zap.String("sender", req.Sender))

	return &ScanResult{
		IsPhishing: true,
		Score:      100,
		Reasons:    []string{ReasonDomainBlocked},
		AnalyzedAt: time.Now(),
	}, nil
}

// resolve applies a resolved success outcome: one history update, one
// notifier fanout
func (s *ScanService) resolve(ctx context.Context, req *ScanRequest, result *ScanResult) (*ScanResult, error) {
	if err := s.history.Record(ctx, result); err != nil {
		s.logger.Error("Failed to record scan outcome", zap.Error(err))
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyOutcome(ctx, req, result); err != nil {
			s.logger.Error("Failed to notify scan outcome", zap.Error(err))
		}
	}
	return result, nil
}

// AutoSpamEnabled reports whether the blocked-domain auto-action is on
func (s *ScanService) AutoSpamEnabled(ctx context.Context) (bool, error) {
	values, err := s.doc.Read(ctx, KeyAutoSpam)
	if err != nil {
		return false, err
	}
	return decodeBool(values, KeyAutoSpam)
}

// SetAutoSpam toggles the blocked-domain auto-action
func (s *ScanService) SetAutoSpam(ctx context.Context, enabled bool) error {
	return s.doc.Update(ctx, nil, func(map[string]json.RawMessage) (map[string]json.RawMessage, error) {
		return map[string]json.RawMessage{KeyAutoSpam: encode(enabled)}, nil
	})
}

// Theme returns the stored presentation theme, defaulting to light
func (s *ScanService) Theme(ctx context.Context) (string, error) {
	values, err := s.doc.Read(ctx, KeyTheme)
	if err != nil {
		return "", err
	}
	raw, ok := values[KeyTheme]
	if !ok {
		return "light", nil
	}
	var theme string
	if err := json.Unmarshal(raw, &theme); err != nil {
		return "", err
	}
	return theme, nil
}

// SetTheme stores the presentation theme
func (s *ScanService) SetTheme(ctx context.Context, theme string) error {
	if theme != "light" && theme != "dark" {
		return fmt.Errorf("unknown theme %q", theme)
	}
	return s.doc.Update(ctx, nil, func(map[string]json.RawMessage) (map[string]json.RawMessage, error) {
		return map[string]json.RawMessage{KeyTheme: encode(theme)}, nil
	})
}
