package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeAnalyzer scripts the backend for dispatcher tests
type fakeAnalyzer struct {
	result *ScanResult
	err    error
	// block makes Analyze wait for context cancellation, simulating a
	// backend that answers after the deadline
	block bool
	calls int
	mu    sync.Mutex
}

func (a *fakeAnalyzer) Analyze(ctx context.Context, req *ScanRequest) (*ScanResult, error) {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()
	if a.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if a.err != nil {
		return nil, a.err
	}
	return a.result, nil
}

func (a *fakeAnalyzer) Ping(ctx context.Context) error { return nil }

func (a *fakeAnalyzer) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

// recordingNotifier counts outcome deliveries
type recordingNotifier struct {
	mu      sync.Mutex
	results []*ScanResult
}

func (n *recordingNotifier) NotifyOutcome(ctx context.Context, req *ScanRequest, result *ScanResult) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.results = append(n.results, result)
	return nil
}

type serviceFixture struct {
	service  *ScanService
	tracker  *HistoryTracker
	rep      *Reputation
	notifier *recordingNotifier
	store    *memStore
}

func newServiceFixture(t *testing.T, analyzer Analyzer, timeout time.Duration) *serviceFixture {
	t.Helper()
	logger := zap.NewNop()
	st := newMemStore()
	doc, err := NewDocument(context.Background(), st)
	require.NoError(t, err)
	tracker := NewHistoryTracker(doc, logger)
	rep := NewReputation(doc, logger)
	notifier := &recordingNotifier{}
	return &serviceFixture{
		service:  newScanService(analyzer, tracker, rep, notifier, doc, logger, timeout),
		tracker:  tracker,
		rep:      rep,
		notifier: notifier,
		store:    st,
	}
}

func TestScanSuccessUpdatesStats(t *testing.T) {
	ctx := context.Background()
	analyzer := &fakeAnalyzer{result: &ScanResult{
		IsPhishing:    true,
		Score:         85,
		Reasons:       []string{"Brand impersonation"},
		MaliciousURLs: []string{"http://evil.example/x"},
	}}
	fx := newServiceFixture(t, analyzer, time.Second)

	result, err := fx.service.Scan(ctx, NewScanRequest("click here to verify", "phisher@evil.example", nil, 0))
	require.NoError(t, err)
	assert.True(t, result.IsPhishing)
	assert.Equal(t, 85, result.Score)

	stats, err := fx.tracker.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Scanned)
	assert.Equal(t, 1, stats.Blocked)
	assert.Equal(t, []int{85}, stats.History)

	// Exactly one notifier fanout per resolved outcome
	assert.Len(t, fx.notifier.results, 1)
}

func TestScanBackendFailure(t *testing.T) {
	ctx := context.Background()
	analyzer := &fakeAnalyzer{err: errors.New("connection refused")}
	fx := newServiceFixture(t, analyzer, time.Second)

	_, err := fx.service.Scan(ctx, NewScanRequest("body", "a@b.example", nil, 0))
	var failure *ScanFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, []string{ReasonBackendFailed}, failure.Reasons)

	// No partial statistics increment on failure
	stats, err := fx.tracker.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Scanned)
	assert.Empty(t, stats.History)
	assert.Empty(t, fx.notifier.results)
}

func TestScanTimeout(t *testing.T) {
	ctx := context.Background()
	analyzer := &fakeAnalyzer{block: true}
	fx := newServiceFixture(t, analyzer, 20*time.Millisecond)

	setsBefore := fx.store.sets
	_, err := fx.service.Scan(ctx, NewScanRequest("body", "a@b.example", nil, 0))
	var failure *ScanFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, []string{ReasonTimeout}, failure.Reasons)

	// The cancelled call must not mutate any store state afterwards
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, setsBefore, fx.store.sets)
	stats, err := fx.tracker.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Scanned)
	assert.Empty(t, fx.notifier.results)
}

func TestScanRejectsConcurrent(t *testing.T) {
	ctx := context.Background()
	analyzer := &fakeAnalyzer{block: true}
	fx := newServiceFixture(t, analyzer, 200*time.Millisecond)

	done := make(chan struct{})
	go func() {
		defer close(done)
		fx.service.Scan(ctx, NewScanRequest("first", "a@b.example", nil, 0))
	}()

	// Wait for the first scan to reach the backend call
	require.Eventually(t, func() bool { return analyzer.callCount() == 1 },
		100*time.Millisecond, time.Millisecond)

	_, err := fx.service.Scan(ctx, NewScanRequest("second", "a@b.example", nil, 0))
	var failure *ScanFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, []string{ReasonScanInFlight}, failure.Reasons)
	<-done

	// The rejected scan never reached the backend
	assert.Equal(t, 1, analyzer.callCount())
}

func TestScanBlockedDomainBypass(t *testing.T) {
	ctx := context.Background()
	analyzer := &fakeAnalyzer{result: &ScanResult{Score: 5}}
	fx := newServiceFixture(t, analyzer, time.Second)

	_, _, err := fx.rep.BlockDomain(ctx, "phisher@evil.example")
	require.NoError(t, err)
	require.NoError(t, fx.service.SetAutoSpam(ctx, true))

	result, err := fx.service.Scan(ctx, NewScanRequest("anything", "other@EVIL.example", nil, 0))
	require.NoError(t, err)
	assert.True(t, result.IsPhishing)
	assert.Equal(t, 100, result.Score)
	assert.Equal(t, []string{ReasonDomainBlocked}, result.Reasons)

	// Resolved locally, no backend call; still counts as a scan
	assert.Zero(t, analyzer.callCount())
	stats, err := fx.tracker.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Scanned)
	assert.Equal(t, 1, stats.Blocked)
}

func TestScanAttachesReputationMetadata(t *testing.T) {
	ctx := context.Background()
	var captured *ScanRequest
	analyzer := &capturingAnalyzer{result: &ScanResult{Score: 10}, captured: &captured}
	fx := newServiceFixture(t, analyzer, time.Second)

	require.NoError(t, fx.rep.Trust(ctx, "alice@example.com"))

	_, err := fx.service.Scan(ctx, NewScanRequest("hello", "alice@example.com", nil, 0))
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.True(t, captured.Metadata.IsTrusted)
	assert.False(t, captured.Metadata.IsReported)
}

type capturingAnalyzer struct {
	result   *ScanResult
	captured **ScanRequest
}

func (a *capturingAnalyzer) Analyze(ctx context.Context, req *ScanRequest) (*ScanResult, error) {
	*a.captured = req
	return a.result, nil
}

func (a *capturingAnalyzer) Ping(ctx context.Context) error { return nil }
