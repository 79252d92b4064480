package core

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Risk labels derived from the average score
const (
	LabelNoScans  = "No Scans Yet"
	LabelSafe     = "Safe"
	LabelCaution  = "Caution"
	LabelHighRisk = "High Risk"
)

// HistoryTracker maintains the bounded trailing score history and the
// scanned/blocked counters
type HistoryTracker struct {
	doc    *Document
	logger *zap.Logger
}

// NewHistoryTracker creates a history tracker
func NewHistoryTracker(doc *Document, logger *zap.Logger) *HistoryTracker {
	return &HistoryTracker{doc: doc, logger: logger}
}

// Record applies one resolved scan outcome to the stored statistics:
// the score is appended (history kept to the last MaxHistoryLength
// entries), scanned is incremented, and blocked is incremented iff the
// outcome flagged phishing. The whole update is one serialized
// read-modify-write.
func (t *HistoryTracker) Record(ctx context.Context, result *ScanResult) error {
	if result.Score < 0 || result.Score > 100 {
		return fmt.Errorf("score %d outside [0,100]", result.Score)
	}

	keys := []string{KeyScanned, KeyBlocked, KeyScoreHistory}
	return t.doc.Update(ctx, keys, func(values map[string]json.RawMessage) (map[string]json.RawMessage, error) {
		scanned, err := decodeInt(values, KeyScanned)
		if err != nil {
			return nil, err
		}
		blocked, err := decodeInt(values, KeyBlocked)
		if err != nil {
			return nil, err
		}
		history, err := decodeIntSlice(values, KeyScoreHistory)
		if err != nil {
			return nil, err
		}

		scanned++
		if result.IsPhishing {
			blocked++
		}
		history = append(history, result.Score)
		if len(history) > MaxHistoryLength {
			history = history[len(history)-MaxHistoryLength:]
		}

		t.logger.Debug("Recorded scan outcome",
			zap.Int("score", result.Score),
			zap.Bool("is_phishing", result.IsPhishing),
			zap.Int("scanned", scanned))

		return map[string]json.RawMessage{
			KeyScanned:      encode(scanned),
			KeyBlocked:      encode(blocked),
			KeyScoreHistory: encode(history),
		}, nil
	})
}

// Stats returns the counters plus the derived average and risk label
func (t *HistoryTracker) Stats(ctx context.Context) (*ScanStats, error) {
	values, err := t.doc.Read(ctx, KeyScanned, KeyBlocked, KeyScoreHistory)
	if err != nil {
		return nil, err
	}
	scanned, err := decodeInt(values, KeyScanned)
	if err != nil {
		return nil, err
	}
	blocked, err := decodeInt(values, KeyBlocked)
	if err != nil {
		return nil, err
	}
	history, err := decodeIntSlice(values, KeyScoreHistory)
	if err != nil {
		return nil, err
	}

	avg, label := Summarize(history)
	return &ScanStats{
		Scanned:      scanned,
		Blocked:      blocked,
		AverageScore: avg,
		RiskLabel:    label,
		History:      history,
	}, nil
}

// Summarize computes the rounded average of a score history and its
// tri-level risk label. An empty history yields 0 and LabelNoScans.
func Summarize(history []int) (int, string) {
	if len(history) == 0 {
		return 0, LabelNoScans
	}
	sum := 0
	for _, score := range history {
		sum += score
	}
	avg := (sum + len(history)/2) / len(history)

	switch {
	case avg < 30:
		return avg, LabelSafe
	case avg < 70:
		return avg, LabelCaution
	default:
		return avg, LabelHighRisk
	}
}
